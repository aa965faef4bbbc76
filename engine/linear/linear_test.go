// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linear

import (
	"testing"

	"github.com/emer/ebatch/databuf"
	"github.com/emer/ebatch/device"
	"gonum.org/v1/gonum/mat"
)

func batch(t *testing.T, shape []int, vals []float32, reqShape []int) *databuf.Batch {
	t.Helper()
	buf, err := databuf.NewFloat32(shape, vals, reqShape, "test")
	if err != nil {
		t.Fatal(err)
	}
	bt, err := buf.GetBatch(0, shape[0], reqShape, device.CPUDevice())
	if err != nil {
		t.Fatal(err)
	}
	return bt
}

var sepX = []float32{
	1, 0,
	0.9, 0.1,
	0, 1,
	0.1, 0.9,
}

func TestSoftmaxClassIndex(t *testing.T) {
	x := batch(t, []int{4, 2}, sepX, []int{2})
	y := batch(t, []int{4, 1}, []float32{0, 0, 1, 1}, []int{1})
	en := New(2, 2)
	en.Params.Lrate = 0.5
	first, err := en.TrainMinibatch(x, y)
	if err != nil {
		t.Fatal(err)
	}
	var st = first
	for i := 0; i < 200; i++ {
		st, err = en.TrainMinibatch(x, y)
		if err != nil {
			t.Fatal(err)
		}
	}
	if st.Loss >= first.Loss {
		t.Errorf("loss did not decrease: %g -> %g", first.Loss, st.Loss)
	}
	if st.Metric != 1 {
		t.Errorf("accuracy: %g", st.Metric)
	}
	if st.NSamples != 4 {
		t.Errorf("NSamples: %d", st.NSamples)
	}
	out, err := en.Evaluate(x)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 || len(out[0]) != 2 {
		t.Fatalf("Evaluate dims: %d x %d", len(out), len(out[0]))
	}
	for s, row := range out {
		sum := row[0] + row[1]
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("sample %d: softmax sums to %g", s, sum)
		}
		cls := 0
		if row[1] > row[0] {
			cls = 1
		}
		if want := s / 2; cls != want {
			t.Errorf("sample %d: class %d, want %d", s, cls, want)
		}
	}
}

func TestSoftmaxOneHot(t *testing.T) {
	x := batch(t, []int{4, 2}, sepX, []int{2})
	y := batch(t, []int{4, 2}, []float32{1, 0, 1, 0, 0, 1, 0, 1}, []int{2})
	en := New(2, 2)
	en.Params.Lrate = 0.5
	var err error
	for i := 0; i < 200; i++ {
		if _, err = en.TrainMinibatch(x, y); err != nil {
			t.Fatal(err)
		}
	}
	st, _ := en.TrainMinibatch(x, y)
	if st.Metric != 1 {
		t.Errorf("accuracy: %g", st.Metric)
	}
}

func TestMSE(t *testing.T) {
	// y = 2 x0 - x1
	x := batch(t, []int{4, 2}, []float32{0, 0, 1, 0, 0, 1, 1, 1}, []int{2})
	y := batch(t, []int{4, 1}, []float32{0, 2, -1, 1}, []int{1})
	en := New(2, 1)
	en.Params.Loss = MSE
	first, err := en.TrainMinibatch(x, y)
	if err != nil {
		t.Fatal(err)
	}
	var st = first
	for i := 0; i < 500; i++ {
		st, _ = en.TrainMinibatch(x, y)
	}
	if st.Loss > 0.01 {
		t.Errorf("MSE loss after training: %g (first %g)", st.Loss, first.Loss)
	}
	if w0, w1 := en.Wts.At(0, 0), en.Wts.At(0, 1); w0 < 1.8 || w0 > 2.2 || w1 < -1.2 || w1 > -0.8 {
		t.Errorf("weights: %g %g", w0, w1)
	}
}

func TestSeed(t *testing.T) {
	a := New(5, 3)
	b := New(5, 3)
	if !mat.Equal(a.Wts, b.Wts) {
		t.Errorf("same seed gave different weights")
	}
	b.Params.Seed = 2
	b.InitWts()
	if mat.Equal(a.Wts, b.Wts) {
		t.Errorf("different seeds gave the same weights")
	}
}

func TestErrors(t *testing.T) {
	x := batch(t, []int{4, 2}, sepX, []int{2})
	en := New(3, 2)
	if _, err := en.Evaluate(x); err == nil {
		t.Errorf("no error for input size mismatch")
	}
	en = New(2, 2)
	bad := batch(t, []int{4, 1}, []float32{0, 5, 1, 1}, []int{1})
	if _, err := en.TrainMinibatch(x, bad); err == nil {
		t.Errorf("no error for out of range class")
	}
	short := batch(t, []int{2, 1}, []float32{0, 1}, []int{1})
	if _, err := en.TrainMinibatch(x, short); err == nil {
		t.Errorf("no error for label count mismatch")
	}
	en.Params.Loss = MSE
	cls := batch(t, []int{4, 1}, []float32{0, 0, 1, 1}, []int{1})
	if _, err := en.TrainMinibatch(x, cls); err == nil {
		t.Errorf("no error for class labels with MSE")
	}
}
