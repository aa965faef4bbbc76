// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package databuf

import (
	"github.com/emer/ebatch/device"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// Batch is a batch of N samples in engine layout: each sample is stored
// column-major according to Shape (first axis varies fastest), and samples
// follow each other, so the whole batch is column-major [...Shape, N].
//
// Values are borrowed from the Buffer that produced the batch and are only
// valid until its next GetBatch call -- use Clone to keep a batch around.
type Batch struct {
	Shape  etensor.Shape `desc:"per-sample shape, with column-major strides"`
	N      int           `desc:"number of samples in the batch"`
	Values []float32     `view:"-" desc:"batch values, N * Shape.Len() long -- borrowed, see type docs"`
	Device device.Device `desc:"device the batch is bound to"`
}

func newBatch(reqShape []int, n int, vals []float32, dev device.Device) *Batch {
	bt := &Batch{N: n, Values: vals, Device: dev}
	shp := append([]int(nil), reqShape...)
	bt.Shape.SetShape(shp, etensor.ColMajorStrides(shp), nil)
	return bt
}

// SampleLen returns the number of values in one sample
func (bt *Batch) SampleLen() int { return bt.Shape.Len() }

// Sample returns the values of sample s, in column-major order
func (bt *Batch) Sample(s int) []float32 {
	sz := bt.SampleLen()
	return bt.Values[s*sz : (s+1)*sz]
}

// At returns the value at given per-sample index of sample s.
// Returns NaN on an invalid sample or index.
func (bt *Batch) At(s int, idx []int) float32 {
	if s < 0 || s >= bt.N || !bt.Shape.IdxIsValid(idx) {
		return mat32.NaN()
	}
	return bt.Values[s*bt.SampleLen()+bt.Shape.Offset(idx)]
}

// RowMajor returns a new row-major [N, ...Shape] tensor with the batch values
func (bt *Batch) RowMajor() *etensor.Float32 {
	shp := append([]int{bt.N}, bt.Shape.Shp...)
	tsr := etensor.NewFloat32(shp, nil, nil)
	sz := bt.SampleLen()
	if sz == 0 {
		return tsr
	}
	idx := make([]int, bt.Shape.NumDims())
	for s := 0; s < bt.N; s++ {
		smp := bt.Sample(s)
		for i := 0; i < sz; i++ {
			tsr.Values[s*sz+i] = smp[bt.Shape.Offset(idx)]
			nextIdx(idx, bt.Shape.Shp)
		}
	}
	return tsr
}

// Clone returns a copy of the batch that owns its values
func (bt *Batch) Clone() *Batch {
	cp := &Batch{N: bt.N, Device: bt.Device}
	cp.Shape.CopyShape(&bt.Shape)
	cp.Values = append([]float32(nil), bt.Values...)
	return cp
}
