// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nda holds the raw n-dimensional array payloads that are handed
// to the batch source: a byte buffer plus its integer shape (first axis =
// sample count) and declared element type, as delivered by the model
// description deserializer.  It also accumulates prediction outputs back
// into the same form.
package nda

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
	"github.com/goki/ki/kit"
)

// Formats is the memory order of an Array's Data
type Formats int32

//go:generate stringer -type=Formats

var KiT_Formats = kit.Enums.AddEnum(FormatsN, kit.NotBitFlag, nil)

func (ev Formats) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Formats) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// RowMajor is C order: the last axis varies fastest
	RowMajor Formats = iota

	// ColMajor is Fortran order: the first axis varies fastest
	ColMajor

	FormatsN
)

// Array is a raw tensor payload.  Data is little-endian encoded elements
// of given Type, laid out according to Format.
type Array struct {
	Shape  []int        `desc:"shape of the array -- first axis is the number of samples"`
	Type   etensor.Type `desc:"element type -- FLOAT32 or FLOAT64"`
	Format Formats      `desc:"memory order of the Data"`
	Data   []byte       `view:"-" desc:"raw little-endian element bytes"`
}

// ElemSize returns the size in bytes of one element of given type,
// or 0 for types that cannot be carried in an Array.
func ElemSize(typ etensor.Type) int {
	switch typ {
	case etensor.FLOAT32:
		return 4
	case etensor.FLOAT64:
		return 8
	}
	return 0
}

// ShapeLen returns the total number of elements in given shape.
// The empty shape is a scalar, with one element.  The product is not checked
// for overflow or negative sizes: see ShapeSize for untrusted shapes.
func ShapeLen(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// ShapeSize returns the size in bytes of given shape of elements of size esz.
// Returns false if a dimension is negative or the size does not fit in an int.
func ShapeSize(shape []int, esz int) (int, bool) {
	if esz < 0 {
		return 0, false
	}
	for _, d := range shape {
		if d < 0 {
			return 0, false
		}
	}
	for _, d := range shape {
		if d == 0 {
			return 0, true
		}
	}
	n := esz
	for _, d := range shape {
		if n > math.MaxInt/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// NewFloat32 returns a row-major FLOAT32 array with given shape and values
func NewFloat32(shape []int, vals []float32) *Array {
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(v))
	}
	return &Array{Shape: append([]int(nil), shape...), Type: etensor.FLOAT32, Format: RowMajor, Data: data}
}

// NewFloat64 returns a row-major FLOAT64 array with given shape and values
func NewFloat64(shape []int, vals []float64) *Array {
	data := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(data[8*i:], math.Float64bits(v))
	}
	return &Array{Shape: append([]int(nil), shape...), Type: etensor.FLOAT64, Format: RowMajor, Data: data}
}

// FromTensor returns a row-major FLOAT32 array holding a copy of the tensor values
func FromTensor(tsr *etensor.Float32) *Array {
	return NewFloat32(tsr.Shp, tsr.Values)
}

// NSamples returns the size of the leading (sample) axis
func (a *Array) NSamples() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[0]
}

// Len returns the total number of elements implied by the Shape
func (a *Array) Len() int { return ShapeLen(a.Shape) }

// SampleShape returns the per-sample shape, i.e., the Shape without its first axis
func (a *Array) SampleShape() []int {
	if len(a.Shape) == 0 {
		return nil
	}
	return a.Shape[1:]
}

// Float32s decodes the first Len() elements of a FLOAT32 array.
// Returns an error if the type is different or Data is too short.
func (a *Array) Float32s() ([]float32, error) {
	if a.Type != etensor.FLOAT32 {
		return nil, fmt.Errorf("nda.Float32s: array type is %v, not FLOAT32", a.Type)
	}
	need, ok := ShapeSize(a.Shape, 4)
	if !ok {
		return nil, fmt.Errorf("nda.Float32s: shape %v has a negative or too large size", a.Shape)
	}
	if need > len(a.Data) {
		return nil, fmt.Errorf("nda.Float32s: shape %v needs %d bytes, data has %d", a.Shape, need, len(a.Data))
	}
	n := need / 4
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(a.Data[4*i:]))
	}
	return vals, nil
}

// Float64s decodes the first Len() elements of a FLOAT64 array.
// Returns an error if the type is different or Data is too short.
func (a *Array) Float64s() ([]float64, error) {
	if a.Type != etensor.FLOAT64 {
		return nil, fmt.Errorf("nda.Float64s: array type is %v, not FLOAT64", a.Type)
	}
	need, ok := ShapeSize(a.Shape, 8)
	if !ok {
		return nil, fmt.Errorf("nda.Float64s: shape %v has a negative or too large size", a.Shape)
	}
	if need > len(a.Data) {
		return nil, fmt.Errorf("nda.Float64s: shape %v needs %d bytes, data has %d", a.Shape, need, len(a.Data))
	}
	n := need / 8
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(a.Data[8*i:]))
	}
	return vals, nil
}

// Tensor decodes a FLOAT32 array into a row-major etensor.Float32 of the same shape
func (a *Array) Tensor() (*etensor.Float32, error) {
	vals, err := a.Float32s()
	if err != nil {
		return nil, err
	}
	tsr := etensor.NewFloat32(a.Shape, nil, nil)
	copy(tsr.Values, vals)
	return tsr, nil
}

// Range returns the min / max range of the values in a FLOAT32 array
func (a *Array) Range() (minmax.F32, error) {
	var rng minmax.F32
	vals, err := a.Float32s()
	if err != nil {
		return rng, err
	}
	rng.SetInfinity()
	for _, v := range vals {
		rng.FitValInRange(v)
	}
	return rng, nil
}
