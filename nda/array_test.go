// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nda

import (
	"testing"

	"github.com/emer/etable/etensor"
)

func TestFloat32RoundTrip(t *testing.T) {
	vals := []float32{0, 1.5, -2, 3.25, 4, 5}
	a := NewFloat32([]int{3, 2}, vals)
	if a.NSamples() != 3 || a.Len() != 6 {
		t.Fatalf("NSamples %d Len %d", a.NSamples(), a.Len())
	}
	if len(a.Data) != 24 {
		t.Errorf("data bytes: %d", len(a.Data))
	}
	got, err := a.Float32s()
	if err != nil {
		t.Fatal(err)
	}
	for i := range vals {
		if got[i] != vals[i] {
			t.Errorf("val %d: got %v want %v", i, got[i], vals[i])
		}
	}
	if _, err := a.Float64s(); err == nil {
		t.Errorf("Float64s on FLOAT32 array should fail")
	}
	rng, err := a.Range()
	if err != nil {
		t.Fatal(err)
	}
	if rng.Min != -2 || rng.Max != 5 {
		t.Errorf("Range: %v", rng)
	}
}

func TestFloat64(t *testing.T) {
	a := NewFloat64([]int{2}, []float64{1, 2})
	if a.Type != etensor.FLOAT64 || ElemSize(a.Type) != 8 {
		t.Errorf("type %v size %d", a.Type, ElemSize(a.Type))
	}
	vals, err := a.Float64s()
	if err != nil || vals[1] != 2 {
		t.Errorf("Float64s: %v %v", vals, err)
	}
	if _, err := a.Float32s(); err == nil {
		t.Errorf("Float32s on FLOAT64 array should fail")
	}
}

func TestShortData(t *testing.T) {
	a := NewFloat32([]int{2, 2}, []float32{1, 2, 3, 4})
	a.Shape = []int{3, 2}
	if _, err := a.Float32s(); err == nil {
		t.Errorf("expected error decoding past end of data")
	}
}

func TestTensorAndTable(t *testing.T) {
	a := NewFloat32([]int{2, 2, 3}, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	tsr, err := a.Tensor()
	if err != nil {
		t.Fatal(err)
	}
	if v := tsr.Value([]int{1, 0, 2}); v != 8 {
		t.Errorf("tensor value: %v", v)
	}
	dt, err := a.ToTable("test", "Input")
	if err != nil {
		t.Fatal(err)
	}
	if dt.Rows != 2 {
		t.Errorf("table rows: %d", dt.Rows)
	}
	b, err := FromTable(dt, "Input")
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Shape) != 3 || b.Shape[0] != 2 || b.Shape[1] != 2 || b.Shape[2] != 3 {
		t.Errorf("FromTable shape: %v", b.Shape)
	}
	bv, _ := b.Float32s()
	for i, v := range bv {
		if v != float32(i) {
			t.Errorf("FromTable val %d: %v", i, v)
		}
	}
	if _, err := FromTable(dt, "Missing"); err == nil {
		t.Errorf("expected error for missing column")
	}
}

func TestOutputBuffer(t *testing.T) {
	ob := &OutputBuffer{}
	if err := ob.Add([][]float32{{1, 2}, {3, 4}}); err != nil {
		t.Fatal(err)
	}
	if err := ob.AddFlat(1, []float32{5, 6}); err != nil {
		t.Fatal(err)
	}
	if err := ob.Add([][]float32{{1, 2, 3}}); err == nil {
		t.Errorf("expected error for ragged row")
	}
	if ob.Rows() != 3 {
		t.Errorf("rows: %d", ob.Rows())
	}
	a := ob.Array()
	if a.Shape[0] != 3 || a.Shape[1] != 2 {
		t.Errorf("shape: %v", a.Shape)
	}
	vals, _ := a.Float32s()
	for i, v := range vals {
		if v != float32(i+1) {
			t.Errorf("val %d: %v", i, v)
		}
	}
	if v := ob.Tensor().Value([]int{2, 1}); v != 6 {
		t.Errorf("tensor value: %v", v)
	}
	ob.Reset()
	if ob.Rows() != 0 {
		t.Errorf("rows after reset: %d", ob.Rows())
	}
}

func TestShapeSize(t *testing.T) {
	tests := []struct {
		shape []int
		esz   int
		want  int
		ok    bool
	}{
		{[]int{10, 4}, 4, 160, true},
		{nil, 4, 4, true},
		{[]int{0, 1 << 62}, 8, 0, true},
		{[]int{1 << 62, 4}, 4, 0, false},
		{[]int{1 << 40, 1 << 40}, 1, 0, false},
		{[]int{-2, 4}, 4, 0, false},
	}
	for _, tt := range tests {
		got, ok := ShapeSize(tt.shape, tt.esz)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ShapeSize(%v, %d) = %d, %v want %d, %v", tt.shape, tt.esz, got, ok, tt.want, tt.ok)
		}
	}
	if ShapeLen(nil) != 1 {
		t.Errorf("scalar ShapeLen: %d", ShapeLen(nil))
	}
	a := NewFloat32([]int{-2, 4}, make([]float32, 8))
	if _, err := a.Float32s(); err == nil {
		t.Errorf("Float32s accepted a negative shape")
	}
}
