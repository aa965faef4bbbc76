// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package minibatch serves several streams of per-sample data as one logical
// dataset.  A Source owns one databuf.Buffer per registered stream, checks that
// all streams cover the same samples, and hands out synchronized batches
// with end-of-sweep signaling, either once over the data or repeating.
//
// A Source is driven by a single training or inference loop: it is not safe
// for concurrent use.
package minibatch

import (
	"errors"
	"fmt"

	"github.com/emer/ebatch/databuf"
	"github.com/emer/ebatch/device"
	"github.com/emer/ebatch/nda"
	"github.com/emer/ebatch/stream"
	"github.com/goki/ki/kit"
)

var (
	// ErrSampleCountMismatch is returned when a stream is registered with a
	// different number of samples than the streams registered before it.
	ErrSampleCountMismatch = errors.New("inputs with different number of samples")

	// ErrExhausted is returned by NextBatch when no samples are left and
	// repeat is off.  Calling NextBatch after the end of the sweep is a
	// programming error in the caller's loop.
	ErrExhausted = errors.New("the batch is exhausted")

	// ErrBatchSize is returned by NextBatch for a batch size < 1
	ErrBatchSize = errors.New("batch size must be positive")
)

// States are the states of a Source's cursor
type States int32

//go:generate stringer -type=States

var KiT_States = kit.Enums.AddEnum(StatesN, kit.NotBitFlag, nil)

func (ev States) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *States) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Fresh is at the start of a sweep
	Fresh States = iota

	// MidSweep has delivered some but not all samples of the sweep
	MidSweep

	// SweepComplete has delivered all samples, and will wrap around on
	// the next NextBatch as repeat is on
	SweepComplete

	// Exhausted has delivered all samples with repeat off -- terminal
	Exhausted

	StatesN
)

// Source is a multi-stream batch source over in-memory data
type Source struct {
	Streams   stream.Registry    `desc:"stream descriptors, in registration order"`
	Bufs      []*databuf.Buffer  `view:"-" desc:"data buffer of each stream, same order as Streams"`
	ReqShapes [][]int            `view:"-" desc:"required per-sample shape of each stream, same order as Streams"`
	Rep       bool               `desc:"if true, the cursor wraps to the start after the end of a sweep"`
	pos       int
	samples   int
}

// New returns a new empty source.  If repeat is true, NextBatch starts over
// from the first sample after each sweep instead of failing.
func New(repeat bool) *Source {
	return &Source{Rep: repeat}
}

// Register adds a stream with given data and required per-sample shape.
// An empty name is replaced by a generated one.  The first registered stream
// sets the number of samples, which every later stream must match.
// Returns the new stream's descriptor.
func (src *Source) Register(arr *nda.Array, reqShape []int, name string) (*stream.Descriptor, error) {
	buf, err := databuf.New(arr, reqShape, name)
	if err != nil {
		return nil, err
	}
	return src.add(buf, reqShape, name)
}

// RegisterFloat32 adds a stream with given row-major values of given shape.
// See Register.
func (src *Source) RegisterFloat32(shape []int, vals []float32, reqShape []int, name string) (*stream.Descriptor, error) {
	buf, err := databuf.NewFloat32(shape, vals, reqShape, name)
	if err != nil {
		return nil, err
	}
	return src.add(buf, reqShape, name)
}

func (src *Source) add(buf *databuf.Buffer, reqShape []int, name string) (*stream.Descriptor, error) {
	if len(src.Bufs) == 0 {
		src.samples = buf.NSamples()
	} else if src.samples != buf.NSamples() {
		return nil, fmt.Errorf("minibatch: stream %q has %d samples, expected %d: %w", name, buf.NSamples(), src.samples, ErrSampleCountMismatch)
	}
	sd := src.Streams.Add(name, buf.Type, reqShape)
	buf.Nm = sd.Name
	src.Bufs = append(src.Bufs, buf)
	src.ReqShapes = append(src.ReqShapes, append([]int(nil), reqShape...))
	return sd, nil
}

// NextBatch returns the next batch of up to batchSize samples of every stream.
// The last batch of a sweep holds the remaining samples and has SweepEnd set.
// With repeat on, the call after the end of a sweep starts a new one;
// otherwise it fails with ErrExhausted.
//
// The Minibatch map is new on each call, but the batch values it points to
// are borrowed from the stream buffers and are overwritten by the next call.
func (src *Source) NextBatch(batchSize int, dev device.Device) (Minibatch, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("minibatch: batch size %d: %w", batchSize, ErrBatchSize)
	}
	if src.pos == src.samples && src.Rep {
		src.pos = 0
	}
	left := src.samples - src.pos
	if left == 0 {
		return nil, ErrExhausted
	}
	n := batchSize
	eof := false
	if left <= batchSize {
		n = left
		eof = true
	}
	mb := make(Minibatch, len(src.Bufs))
	for i, buf := range src.Bufs {
		bt, err := buf.GetBatch(src.pos, src.pos+n, src.ReqShapes[i], dev)
		if err != nil {
			return nil, err
		}
		mb[src.Streams.Stream(i)] = &Data{Batch: bt, NSamples: n, SweepEnd: eof}
	}
	src.pos += n
	return mb, nil
}

// NextBatchWorkers is the worker-partitioned form of NextBatch.
// Data is not sharded: nWorkers, rank and seqs are ignored and the call is
// the same as NextBatch(samples, dev).
func (src *Source) NextBatchWorkers(seqs, samples, nWorkers, rank int, dev device.Device) (Minibatch, error) {
	return src.NextBatch(samples, dev)
}

// Features returns the first registered stream, nil if none
func (src *Source) Features() *stream.Descriptor { return src.Streams.First() }

// Labels returns the last registered stream, nil if none
func (src *Source) Labels() *stream.Descriptor { return src.Streams.Last() }

// FeaturesName returns the name of the first registered stream
func (src *Source) FeaturesName() string {
	if sd := src.Features(); sd != nil {
		return sd.Name
	}
	return ""
}

// LabelsName returns the name of the last registered stream
func (src *Source) LabelsName() string {
	if sd := src.Labels(); sd != nil {
		return sd.Name
	}
	return ""
}

// StreamInfos returns the stream descriptors in registration order
func (src *Source) StreamInfos() []*stream.Descriptor { return src.Streams.Streams }

// Has returns true if the descriptor is one of this source's streams
func (src *Source) Has(sd *stream.Descriptor) bool { return src.Streams.Has(sd) }

// StreamByName returns the stream registered under given name, nil if none
func (src *Source) StreamByName(name string) *stream.Descriptor { return src.Streams.ByName(name) }

// StreamByNameTry returns the stream registered under given name, or an error
func (src *Source) StreamByNameTry(name string) (*stream.Descriptor, error) {
	return src.Streams.ByNameTry(name)
}

// Buffer returns the data buffer of given stream, nil if not a stream of this source
func (src *Source) Buffer(sd *stream.Descriptor) *databuf.Buffer {
	if !src.Has(sd) {
		return nil
	}
	return src.Bufs[sd.ID]
}

// Pos returns the cursor: the index of the next sample to be delivered
func (src *Source) Pos() int { return src.pos }

// NSamples returns the number of samples in every stream
func (src *Source) NSamples() int { return src.samples }

// Repeat returns true if the source starts over after each sweep
func (src *Source) Repeat() bool { return src.Rep }

// State returns the state of the cursor
func (src *Source) State() States {
	switch {
	case src.samples == 0 && len(src.Bufs) == 0:
		return Fresh
	case src.pos < src.samples && src.pos == 0:
		return Fresh
	case src.pos < src.samples:
		return MidSweep
	case src.Rep:
		return SweepComplete
	}
	return Exhausted
}
