// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fit drives a backing engine through training and prediction,
// pulling batches from a minibatch.Source: the epoch loop, the prediction
// loop that runs until the end of the sweep, the training history, progress
// callbacks, and a cache of trained models.
package fit

import (
	"github.com/emer/ebatch/databuf"
)

// Stats are the statistics of one training step
type Stats struct {
	Loss     float64 `desc:"average loss over the samples of the step"`
	Metric   float64 `desc:"average evaluation metric (e.g., accuracy) over the samples of the step"`
	NSamples int     `desc:"number of samples in the step"`
}

// Engine is the backing tensor / autodiff engine.  Batches are passed in
// engine layout (see databuf.Batch) and are only valid for the duration of
// the call.
type Engine interface {
	// TrainMinibatch runs one update step on the features x and labels y
	TrainMinibatch(x, y *databuf.Batch) (Stats, error)

	// Evaluate returns one row of model output per sample of x
	Evaluate(x *databuf.Batch) ([][]float32, error)
}
