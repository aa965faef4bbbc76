// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"github.com/goki/gi/giv"
)

// Params are the fit / predict parameters
type Params struct {
	BatchSize int  `def:"32" min:"1" desc:"number of samples per minibatch"`
	Epochs    int  `def:"10" min:"1" desc:"number of full passes over the training samples"`
	Verbose   int  `def:"1" desc:"0 = quiet, 1 = log each epoch, 2 = log each batch"`
	Cache     bool `def:"true" desc:"keep trained and loaded models in the model cache, and report their id"`
}

// Defaults sets the default parameter values
func (pr *Params) Defaults() {
	pr.BatchSize = 32
	pr.Epochs = 10
	pr.Verbose = 1
	pr.Cache = true
}

// Update replaces out of range values with their defaults
func (pr *Params) Update() {
	if pr.BatchSize <= 0 {
		pr.BatchSize = 32
	}
	if pr.Epochs <= 0 {
		pr.Epochs = 10
	}
}

// NonDefaultParams returns a listing of the parameters that are not at
// their default values
func (pr *Params) NonDefaultParams() string {
	return giv.StructNonDefFieldsStr(pr, "Params")
}
