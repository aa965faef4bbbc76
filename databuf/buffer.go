// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package databuf holds the full dataset of one stream and serves it as
// batches laid out the way the backing engine expects them.
//
// Data arrives row-major as [nSamples, ...dims].  The engine's batch API
// is column-major: each sample is stored with its first axis varying fastest,
// followed by a sequence axis of length 1 and the batch axis.  The Buffer
// converts its storage once, on the first GetBatch call, from the Raw state
// to the Transformed state, and from then on every batch is a contiguous
// slice of samples along the leading axis.
package databuf

import (
	"fmt"

	"github.com/emer/ebatch/device"
	"github.com/emer/ebatch/nda"
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/kit"
)

// States are the two states of a Buffer's storage
type States int32

//go:generate stringer -type=States

var KiT_States = kit.Enums.AddEnum(StatesN, kit.NotBitFlag, nil)

func (ev States) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *States) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Raw storage is row-major [nSamples, ...sampleDims], as registered
	Raw States = iota

	// Transformed storage is row-major [nSamples, 1, ...reqShape reversed],
	// which is column-major [...reqShape, 1, nSamples]
	Transformed

	StatesN
)

// storage is the state-specific backing store of a Buffer
type storage interface {
	state() States
}

// rawStore holds the data as registered.  Only one of the tensors is set,
// according to the element type.
type rawStore struct {
	f32 *etensor.Float32
	f64 *etensor.Float64
}

func (rs *rawStore) state() States { return Raw }

// xfmStore holds the data after the layout transform
type xfmStore struct {
	tsr *etensor.Float32
}

func (xs *xfmStore) state() States { return Transformed }

// Buffer owns the full dataset of one stream
type Buffer struct {
	Nm      string        `desc:"name of the buffer, for messages"`
	Shp     etensor.Shape `desc:"shape of the data as registered: [nSamples, ...sampleDims]"`
	Type    etensor.Type  `desc:"element type of the data -- fixed at construction"`
	store   storage
	scratch []float32
}

// New returns a buffer holding a copy of the array data.
// The per-sample size of the array must equal the size of reqShape
// (ErrShapeMismatch) and the data must hold the whole declared shape
// (ErrBufferTooSmall).  FLOAT32 and FLOAT64 arrays are accepted, in
// row-major order only (ErrUnsupportedFormat).  An empty reqShape is a
// scalar sample of one element.
func New(arr *nda.Array, reqShape []int, name string) (*Buffer, error) {
	if arr.Format != nda.RowMajor {
		return nil, fmt.Errorf("databuf %q: data format %v: %w", name, arr.Format, ErrUnsupportedFormat)
	}
	if err := validate(arr.Shape, arr.Type, len(arr.Data), reqShape, name); err != nil {
		return nil, err
	}
	b := &Buffer{Nm: name, Type: arr.Type}
	b.Shp.SetShape(append([]int(nil), arr.Shape...), nil, nil)
	rs := &rawStore{}
	switch arr.Type {
	case etensor.FLOAT32:
		vals, err := arr.Float32s()
		if err != nil {
			return nil, err
		}
		rs.f32 = etensor.NewFloat32Shape(&b.Shp, vals)
	case etensor.FLOAT64:
		vals, err := arr.Float64s()
		if err != nil {
			return nil, err
		}
		rs.f64 = etensor.NewFloat64Shape(&b.Shp, vals)
	}
	b.store = rs
	return b, nil
}

// NewFloat32 returns a buffer wrapping given row-major values of given shape.
// The values are used directly, not copied, until the first GetBatch.
func NewFloat32(shape []int, vals []float32, reqShape []int, name string) (*Buffer, error) {
	if err := validate(shape, etensor.FLOAT32, 4*len(vals), reqShape, name); err != nil {
		return nil, err
	}
	b := &Buffer{Nm: name, Type: etensor.FLOAT32}
	b.Shp.SetShape(append([]int(nil), shape...), nil, nil)
	b.store = &rawStore{f32: etensor.NewFloat32Shape(&b.Shp, vals[:b.Shp.Len()])}
	return b, nil
}

func validate(shape []int, typ etensor.Type, nbytes int, reqShape []int, name string) error {
	esz := nda.ElemSize(typ)
	if esz == 0 {
		return fmt.Errorf("databuf %q: element type %v: %w", name, typ, ErrUnsupportedType)
	}
	if len(shape) == 0 {
		return fmt.Errorf("databuf %q: data has no sample axis: %w", name, ErrShapeMismatch)
	}
	if !nonNeg(shape) || !nonNeg(reqShape) {
		return fmt.Errorf("databuf %q: negative dimension in shape %v or required shape %v: %w", name, shape, reqShape, ErrShapeMismatch)
	}
	rsz, ok := nda.ShapeSize(reqShape, 1)
	if !ok {
		return fmt.Errorf("databuf %q: required shape %v is too large: %w", name, reqShape, ErrShapeMismatch)
	}
	ssz, ok := nda.ShapeSize(shape[1:], 1)
	if !ok {
		return fmt.Errorf("databuf %q: sample shape %v is too large: %w", name, shape[1:], ErrBufferTooSmall)
	}
	if ssz != rsz {
		return fmt.Errorf("databuf %q: sample shape %v (%d elements) vs required shape %v (%d elements): %w", name, shape[1:], ssz, reqShape, rsz, ErrShapeMismatch)
	}
	need, ok := nda.ShapeSize(shape, esz)
	if !ok {
		return fmt.Errorf("databuf %q: shape %v needs more bytes than can be addressed, data has %d: %w", name, shape, nbytes, ErrBufferTooSmall)
	}
	if need > nbytes {
		return fmt.Errorf("databuf %q: shape %v needs %d bytes, data has %d: %w", name, shape, need, nbytes, ErrBufferTooSmall)
	}
	return nil
}

// nonNeg returns true if no dimension of the shape is negative
func nonNeg(shape []int) bool {
	for _, d := range shape {
		if d < 0 {
			return false
		}
	}
	return true
}

// sampleShape returns the shape a sample is served with: a scalar
// required shape is served as a single element [1]
func sampleShape(reqShape []int) []int {
	if len(reqShape) == 0 {
		return []int{1}
	}
	return reqShape
}

// Name returns the name of the buffer
func (b *Buffer) Name() string { return b.Nm }

// NSamples returns the number of samples, i.e., the size of the leading axis
func (b *Buffer) NSamples() int { return b.Shp.Dim(0) }

// SampleLen returns the number of elements in one sample
func (b *Buffer) SampleLen() int { return nda.ShapeLen(b.Shp.Shp[1:]) }

// State returns the current state of the storage
func (b *Buffer) State() States { return b.store.state() }

// CalcSampleSize returns the number of samples a batch of up to batchSize
// samples starting at start would hold
func (b *Buffer) CalcSampleSize(start, batchSize int) int {
	left := b.NSamples() - start
	if left < batchSize {
		return left
	}
	return batchSize
}

// GetBatch returns samples [start, end) shaped by reqShape and bound to dev.
// The first call transforms the storage to the engine layout, once.
// An empty reqShape gives batches with a per-sample shape of [1].
//
// The returned Batch's Values are borrowed from a scratch slice owned by
// the Buffer: they are only valid until the next call to GetBatch.
func (b *Buffer) GetBatch(start, end int, reqShape []int, dev device.Device) (*Batch, error) {
	if b.Type != etensor.FLOAT32 {
		return nil, fmt.Errorf("databuf %q: GetBatch with element type %v: %w", b.Nm, b.Type, ErrUnsupportedType)
	}
	if end > b.NSamples() {
		return nil, fmt.Errorf("databuf %q: end [== %d] is out of range [max == %d]: %w", b.Nm, end, b.NSamples(), ErrRange)
	}
	if start < 0 || start > end {
		return nil, fmt.Errorf("databuf %q: start [== %d] is out of range [0, %d]: %w", b.Nm, start, end, ErrRange)
	}
	if rsz, ok := nda.ShapeSize(reqShape, 1); !ok || rsz != b.SampleLen() {
		return nil, fmt.Errorf("databuf %q: required shape %v does not match sample size %d: %w", b.Nm, reqShape, b.SampleLen(), ErrShapeMismatch)
	}
	reqShape = sampleShape(reqShape)
	xs := b.transform(reqShape)

	n := end - start
	vw := newView(xs.tsr).narrow(0, start, n).contiguous()

	sz := n * nda.ShapeLen(reqShape)
	if cap(b.scratch) < sz {
		b.scratch = make([]float32, sz)
	} else {
		b.scratch = b.scratch[:sz]
	}
	copy(b.scratch, vw.data())

	return newBatch(reqShape, n, b.scratch, dev), nil
}

// transform converts Raw storage into Transformed storage and returns it.
// Transformed storage is returned as-is: the transform happens only once.
//
// The raw [n, ...] data is viewed as [n, 1, ...reqShape] and the axes after
// the sequence axis are reversed by pairwise transposition, outer pair
// inward.  Making that view contiguous is the only place data is moved.
func (b *Buffer) transform(reqShape []int) *xfmStore {
	switch st := b.store.(type) {
	case *xfmStore:
		return st
	case *rawStore:
		n := b.NSamples()
		nshp := make([]int, len(reqShape)+2)
		nshp[0] = n
		nshp[1] = 1
		copy(nshp[2:], reqShape)
		vw := newView(st.f32).reshape(nshp)
		for i, j := 2, len(nshp)-1; i < j; i, j = i+1, j-1 {
			vw.transpose(i, j)
		}
		cv := vw.contiguous()
		var shp etensor.Shape
		shp.SetShape(append([]int(nil), cv.shp.Shp...), nil, nil)
		tsr := etensor.NewFloat32Shape(&shp, cv.data())
		xs := &xfmStore{tsr: tsr}
		b.store = xs
		return xs
	}
	return nil
}
