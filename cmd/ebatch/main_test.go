// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"testing"
)

func TestMakeData(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	cfg.Samples = 50
	cfg.Flip = 0
	pats, lbls := MakeData(&cfg)
	if pats.Dim(0) != 50 || lbls.Dim(0) != 50 {
		t.Fatalf("sizes: %v %v", pats.Shapes(), lbls.Shapes())
	}
	for s := 0; s < 50; s++ {
		non := 0
		for _, v := range pats.Values[s*25 : (s+1)*25] {
			if v == 1 {
				non++
			}
		}
		if non != cfg.NOn {
			t.Errorf("sample %d: %d units on, want %d", s, non, cfg.NOn)
		}
		if c := int(lbls.Values[s]); c < 0 || c >= cfg.Classes {
			t.Errorf("sample %d: class %d", s, c)
		}
	}
	oh := OneHot(lbls, cfg.Classes)
	if oh.Values[int(lbls.Values[0])] != 1 {
		t.Errorf("one-hot row 0: %v", oh.Values[:cfg.Classes])
	}
}

func TestRunFit(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	cfg.Samples = 40
	cfg.Fit.Epochs = 2
	cfg.Fit.BatchSize = 16
	cfg.Fit.Verbose = 0
	dir := t.TempDir()
	cfg.History = filepath.Join(dir, "hist.tsv")
	cfg.Wts = filepath.Join(dir, "wts.json")
	if err := runFit(&cfg); err != nil {
		t.Fatal(err)
	}
	cfg.MSE = true
	cfg.History = ""
	if err := runFit(&cfg); err != nil {
		t.Fatal(err)
	}
}

func TestRunFitConfig(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	cfg.Fit.Verbose = 0
	cfg.Classes = 0
	if err := runFit(&cfg); err == nil {
		t.Errorf("no error for 0 classes")
	}
	cfg.Classes = 4
	cfg.Samples = -1
	if err := runFit(&cfg); err == nil {
		t.Errorf("no error for negative samples")
	}
	cfg.Samples = 10
	cfg.NOn = 26
	if err := runFit(&cfg); err == nil {
		t.Errorf("no error for more active units than the 5x5 pattern holds")
	}
}
