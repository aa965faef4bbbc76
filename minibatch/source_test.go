// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minibatch

import (
	"errors"
	"testing"

	"github.com/emer/ebatch/databuf"
	"github.com/emer/ebatch/device"
	"github.com/emer/ebatch/nda"
)

func linear(n int) []float32 {
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = float32(i)
	}
	return vals
}

func TestRegisterErrors(t *testing.T) {
	src := New(false)
	if _, err := src.RegisterFloat32([]int{10, 4}, linear(40), []int{5}, "x"); !errors.Is(err, databuf.ErrShapeMismatch) {
		t.Errorf("shape mismatch: got %v", err)
	}
	if _, err := src.Register(nda.NewFloat32([]int{10, 4}, linear(30)), []int{4}, "x"); !errors.Is(err, databuf.ErrBufferTooSmall) {
		t.Errorf("buffer too small: got %v", err)
	}
	if src.Streams.Len() != 0 {
		t.Fatalf("failed registrations added streams")
	}
	if _, err := src.RegisterFloat32([]int{10, 4}, linear(40), []int{4}, "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := src.RegisterFloat32([]int{9, 1}, linear(9), []int{1}, "y"); !errors.Is(err, ErrSampleCountMismatch) {
		t.Errorf("sample count mismatch: got %v", err)
	}
	if _, err := src.RegisterFloat32([]int{10, 1}, linear(10), []int{1}, "y"); err != nil {
		t.Errorf("equal sample count: %v", err)
	}
	if src.Streams.Len() != 2 || src.NSamples() != 10 {
		t.Errorf("streams %d samples %d", src.Streams.Len(), src.NSamples())
	}
}

// TestScenario is 10 samples of 4 features, batch size 4, no repeat.
func TestScenario(t *testing.T) {
	src := New(false)
	x, err := src.RegisterFloat32([]int{10, 4}, linear(40), []int{4}, "")
	if err != nil {
		t.Fatal(err)
	}
	dev := device.CPUDevice()
	wantN := []int{4, 4, 2}
	wantEnd := []bool{false, false, true}
	for i := range wantN {
		mb, err := src.NextBatch(4, dev)
		if err != nil {
			t.Fatalf("batch %d: %v", i, err)
		}
		d := mb[x]
		if d == nil {
			t.Fatalf("batch %d: no data for stream", i)
		}
		if d.NSamples != wantN[i] || d.SweepEnd != wantEnd[i] {
			t.Errorf("batch %d: n %d end %v want %d %v", i, d.NSamples, d.SweepEnd, wantN[i], wantEnd[i])
		}
		if d.Batch.N != d.NSamples || len(d.Batch.Values) != 4*d.NSamples {
			t.Errorf("batch %d: batch N %d values %d", i, d.Batch.N, len(d.Batch.Values))
		}
		if first := d.Batch.Values[0]; first != float32(16*i) {
			t.Errorf("batch %d: first value %v", i, first)
		}
	}
	if src.Pos() != 10 {
		t.Errorf("pos after sweep: %d", src.Pos())
	}
	if src.State() != Exhausted {
		t.Errorf("state after sweep: %v", src.State())
	}
	if _, err := src.NextBatch(4, dev); !errors.Is(err, ErrExhausted) {
		t.Errorf("after exhaustion: got %v", err)
	}
}

func TestExhaustion(t *testing.T) {
	for _, n := range []int{1, 7, 12, 13} {
		for _, bs := range []int{1, 3, 4, 12, 20} {
			src := New(false)
			if _, err := src.RegisterFloat32([]int{n, 2}, linear(2*n), []int{2}, "x"); err != nil {
				t.Fatal(err)
			}
			nb, tot := 0, 0
			var last Minibatch
			for src.State() != Exhausted {
				mb, err := src.NextBatch(bs, device.CPUDevice())
				if err != nil {
					t.Fatalf("n %d bs %d: %v", n, bs, err)
				}
				if mb.SweepEnd() != (src.Pos() == n) {
					t.Errorf("n %d bs %d: sweep end %v at pos %d", n, bs, mb.SweepEnd(), src.Pos())
				}
				nb++
				tot += mb.NSamples()
				last = mb
			}
			if want := (n + bs - 1) / bs; nb != want {
				t.Errorf("n %d bs %d: %d batches want %d", n, bs, nb, want)
			}
			if tot != n || !last.SweepEnd() {
				t.Errorf("n %d bs %d: total %d last end %v", n, bs, tot, last.SweepEnd())
			}
			if _, err := src.NextBatch(bs, device.CPUDevice()); !errors.Is(err, ErrExhausted) {
				t.Errorf("n %d bs %d: after exhaustion got %v", n, bs, err)
			}
		}
	}
}

func TestRepeat(t *testing.T) {
	src := New(true)
	x, _ := src.RegisterFloat32([]int{5, 2, 3}, linear(30), []int{2, 3}, "x")
	dev := device.CPUDevice()
	mb, err := src.NextBatch(2, dev)
	if err != nil {
		t.Fatal(err)
	}
	if src.State() != MidSweep {
		t.Errorf("state: %v", src.State())
	}
	first := mb[x].Batch.Clone()
	for !mb.SweepEnd() {
		if mb, err = src.NextBatch(2, dev); err != nil {
			t.Fatal(err)
		}
	}
	if src.State() != SweepComplete || src.Pos() != 5 {
		t.Errorf("state %v pos %d", src.State(), src.Pos())
	}
	mb, err = src.NextBatch(2, dev)
	if err != nil {
		t.Fatalf("repeat: %v", err)
	}
	if src.Pos() != 2 {
		t.Errorf("pos after wrap: %d", src.Pos())
	}
	again := mb[x].Batch
	if again.N != first.N {
		t.Fatalf("wrapped batch N %d vs %d", again.N, first.N)
	}
	for i := range first.Values {
		if again.Values[i] != first.Values[i] {
			t.Errorf("wrapped batch value %d: %v vs %v", i, again.Values[i], first.Values[i])
		}
	}
}

func TestSynchronizedStreams(t *testing.T) {
	src := New(false)
	x, _ := src.RegisterFloat32([]int{6, 3}, linear(18), []int{3}, "features")
	y, _ := src.RegisterFloat32([]int{6, 1}, linear(6), []int{1}, "labels")
	if src.Features() != x || src.Labels() != y {
		t.Errorf("features / labels order wrong")
	}
	if src.FeaturesName() != "features" || src.LabelsName() != "labels" {
		t.Errorf("names: %s %s", src.FeaturesName(), src.LabelsName())
	}
	if src.StreamByName("labels") != y || !src.Has(y) || src.Buffer(y) == nil {
		t.Errorf("lookup failed")
	}
	dev := device.CPUDevice()
	for pos := 0; pos < 6; pos += 4 {
		mb, err := src.NextBatch(4, dev)
		if err != nil {
			t.Fatal(err)
		}
		if len(mb) != 2 {
			t.Fatalf("streams in minibatch: %d", len(mb))
		}
		xb, yb := mb[x].Batch, mb[y].Batch
		for s := 0; s < xb.N; s++ {
			if xb.At(s, []int{0}) != 3*yb.At(s, []int{0}) {
				t.Errorf("pos %d sample %d: streams out of sync", pos, s)
			}
		}
	}
}

func TestBatchSizeAndWorkers(t *testing.T) {
	src := New(false)
	src.RegisterFloat32([]int{4, 1}, linear(4), []int{1}, "x")
	if _, err := src.NextBatch(0, device.CPUDevice()); !errors.Is(err, ErrBatchSize) {
		t.Errorf("zero batch size: got %v", err)
	}
	mb, err := src.NextBatchWorkers(1, 3, 4, 2, device.CPUDevice())
	if err != nil {
		t.Fatal(err)
	}
	if mb.NSamples() != 3 || src.Pos() != 3 {
		t.Errorf("worker overload ignored sharding wrong: n %d pos %d", mb.NSamples(), src.Pos())
	}
}

func TestEmptySource(t *testing.T) {
	src := New(true)
	if src.State() != Fresh {
		t.Errorf("empty state: %v", src.State())
	}
	if _, err := src.NextBatch(4, device.CPUDevice()); !errors.Is(err, ErrExhausted) {
		t.Errorf("empty source: got %v", err)
	}
	if src.Features() != nil || src.LabelsName() != "" {
		t.Errorf("empty source has streams")
	}
}

func TestRegisterOverflowAndNegative(t *testing.T) {
	src := New(false)
	if _, err := src.Register(nda.NewFloat32([]int{1 << 62, 4}, linear(8)), []int{4}, "ovf"); !errors.Is(err, databuf.ErrBufferTooSmall) {
		t.Errorf("overflowing shape: got %v", err)
	}
	if _, err := src.Register(nda.NewFloat32([]int{-2, 4}, linear(8)), []int{4}, "neg"); !errors.Is(err, databuf.ErrShapeMismatch) {
		t.Errorf("negative shape: got %v", err)
	}
	if src.Streams.Len() != 0 || src.NSamples() != 0 {
		t.Errorf("failed registrations changed the source: streams %d samples %d", src.Streams.Len(), src.NSamples())
	}
}

func TestScalarLabels(t *testing.T) {
	src := New(false)
	if _, err := src.RegisterFloat32([]int{5, 2}, linear(10), []int{2}, "x"); err != nil {
		t.Fatal(err)
	}
	y, err := src.RegisterFloat32([]int{5}, linear(5), nil, "y")
	if err != nil {
		t.Fatal(err)
	}
	if y.SampleLen() != 1 {
		t.Errorf("label sample len: %d", y.SampleLen())
	}
	mb, err := src.NextBatch(3, device.CPUDevice())
	if err != nil {
		t.Fatal(err)
	}
	if vals := mb[y].Batch.Values; len(vals) != 3 || vals[2] != 2 {
		t.Errorf("label batch: %v", vals)
	}
}
