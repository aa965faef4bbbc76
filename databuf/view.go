// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package databuf

import (
	"github.com/emer/etable/etensor"
)

// view is a strided window onto a flat float32 slice: a shape with
// arbitrary strides plus a starting offset.  Reshape, transpose and narrow
// only manipulate the shape and offset; data moves only in contiguous().
type view struct {
	shp  etensor.Shape
	off  int
	vals []float32
}

// newView returns a row-major view of the whole tensor
func newView(tsr *etensor.Float32) *view {
	vw := &view{vals: tsr.Values}
	vw.shp.SetShape(append([]int(nil), tsr.Shp...), nil, nil)
	return vw
}

// len returns the number of elements visible through the view
func (vw *view) len() int { return vw.shp.Len() }

// reshape returns a row-major view with given shape over the same data.
// The view must be contiguous and the shape must have the same length.
func (vw *view) reshape(shape []int) *view {
	nv := &view{off: vw.off, vals: vw.vals}
	nv.shp.SetShape(append([]int(nil), shape...), nil, nil)
	return nv
}

// transpose swaps axes i and j in place -- no data is moved
func (vw *view) transpose(i, j int) {
	if i == j {
		return
	}
	sh := vw.shp.Shp
	st := vw.shp.Strd
	sh[i], sh[j] = sh[j], sh[i]
	st[i], st[j] = st[j], st[i]
}

// narrow returns a view restricted to n entries of given axis starting at start
func (vw *view) narrow(axis, start, n int) *view {
	nv := &view{off: vw.off + start*vw.shp.Strd[axis], vals: vw.vals}
	nv.shp = etensor.Shape{
		Shp:  append([]int(nil), vw.shp.Shp...),
		Strd: append([]int(nil), vw.shp.Strd...),
	}
	nv.shp.Shp[axis] = n
	return nv
}

// isContiguous returns true if the strides are row-major for the shape.
// Axes of size 1 are ignored, as their stride is never used.
func (vw *view) isContiguous() bool {
	z := 1
	for d := len(vw.shp.Shp) - 1; d >= 0; d-- {
		if vw.shp.Shp[d] == 1 {
			continue
		}
		if vw.shp.Strd[d] != z {
			return false
		}
		z *= vw.shp.Shp[d]
	}
	return true
}

// contiguous returns the view itself if it is already contiguous, and
// otherwise a row-major view over a fresh copy of the visible elements.
func (vw *view) contiguous() *view {
	if vw.isContiguous() {
		return vw
	}
	tsr := etensor.NewFloat32(append([]int(nil), vw.shp.Shp...), nil, nil)
	n := len(tsr.Values)
	if n == 0 {
		return newView(tsr)
	}
	idx := make([]int, vw.shp.NumDims())
	for i := 0; i < n; i++ {
		tsr.Values[i] = vw.vals[vw.off+vw.shp.Offset(idx)]
		nextIdx(idx, vw.shp.Shp)
	}
	return newView(tsr)
}

// data returns the visible elements of a contiguous view
func (vw *view) data() []float32 {
	return vw.vals[vw.off : vw.off+vw.len()]
}

// nextIdx advances idx to the next index of given shape in row-major order.
// Returns false when it wraps back around to all zeros.
func nextIdx(idx, shape []int) bool {
	for d := len(idx) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < shape[d] {
			return true
		}
		idx[d] = 0
	}
	return false
}
