// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minibatch

import (
	"github.com/emer/ebatch/databuf"
	"github.com/emer/ebatch/stream"
)

// Data is the slice of one stream for one step
type Data struct {
	Batch    *databuf.Batch `desc:"the batch values, in engine layout -- borrowed, see Source.NextBatch"`
	NSamples int            `desc:"number of samples in the batch"`
	SweepEnd bool           `desc:"true if this is the last batch of a full pass over the samples"`
}

// Minibatch is the synchronized set of per-stream slices for one step,
// keyed by stream identity
type Minibatch map[*stream.Descriptor]*Data

// NSamples returns the number of samples in the minibatch (the same for all streams)
func (mb Minibatch) NSamples() int {
	for _, d := range mb {
		return d.NSamples
	}
	return 0
}

// SweepEnd returns true if this minibatch ends a sweep over the samples
func (mb Minibatch) SweepEnd() bool {
	for _, d := range mb {
		return d.SweepEnd
	}
	return false
}
