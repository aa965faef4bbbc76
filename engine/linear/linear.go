// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linear is a single-layer linear engine on gonum matrices: a
// weight matrix and bias trained by minibatch gradient descent with a
// softmax cross-entropy or squared-error loss.  It is the reference backing
// engine for the fit package and reads batches in their engine layout.
package linear

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/emer/ebatch/databuf"
	"github.com/emer/ebatch/fit"
	"github.com/emer/emergent/params"
	"github.com/goki/gi/giv"
	"github.com/goki/ki/kit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Losses are the loss functions the engine can minimize
type Losses int32

//go:generate stringer -type=Losses

var KiT_Losses = kit.Enums.AddEnum(LossesN, kit.NotBitFlag, nil)

func (ev Losses) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Losses) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// SoftmaxCE is cross-entropy over softmax outputs.  Labels are either
	// one value per output (one-hot) or a single class index per sample.
	SoftmaxCE Losses = iota

	// MSE is the sum of squared errors over linear outputs, averaged over samples
	MSE

	LossesN
)

// Params are the engine parameters
type Params struct {
	Lrate float64 `def:"0.1" min:"0" desc:"learning rate"`
	Loss  Losses  `def:"SoftmaxCE" desc:"loss function"`
	WtVar float64 `def:"0.01" min:"0" desc:"standard deviation of the initial weights"`
	Seed  int64   `def:"1" desc:"random seed for the initial weights"`
}

// Defaults sets the default parameter values
func (pr *Params) Defaults() {
	pr.Lrate = 0.1
	pr.Loss = SoftmaxCE
	pr.WtVar = 0.01
	pr.Seed = 1
}

// Engine is a linear model out = act(Wts * in + Bias)
type Engine struct {
	Nm      string        `desc:"name of the engine, for params and weight files"`
	Params  Params        `desc:"engine parameters"`
	NIn     int           `inactive:"+" desc:"number of input values per sample"`
	NOut    int           `inactive:"+" desc:"number of outputs per sample"`
	InName  string        `desc:"name of the input layer, in weight files"`
	OutName string        `desc:"name of the output layer, in weight files"`
	Wts     *mat.Dense    `view:"-" desc:"weights, [NOut, NIn]"`
	Bias    *mat.VecDense `view:"-" desc:"bias, [NOut]"`
}

var _ fit.Engine = (*Engine)(nil)

// New returns an engine with default parameters and initialized weights
func New(nIn, nOut int) *Engine {
	en := &Engine{Nm: "Linear", NIn: nIn, NOut: nOut, InName: "Input", OutName: "Output"}
	en.Params.Defaults()
	en.InitWts()
	return en
}

// InitWts initializes the weights from a normal distribution seeded by
// Params.Seed, and zeros the bias
func (en *Engine) InitWts() {
	rnd := rand.New(rand.NewSource(en.Params.Seed))
	wts := make([]float64, en.NOut*en.NIn)
	for i := range wts {
		wts[i] = rnd.NormFloat64() * en.Params.WtVar
	}
	en.Wts = mat.NewDense(en.NOut, en.NIn, wts)
	en.Bias = mat.NewVecDense(en.NOut, nil)
}

// params.Styler interface: parameter sheets select the engine by the type
// name "Engine", by the name of its loss as a class (e.g., ".MSE") or by
// its name (e.g., "#Linear")

func (en *Engine) TypeName() string { return "Engine" }
func (en *Engine) Class() string    { return en.Params.Loss.String() }
func (en *Engine) Name() string     { return en.Nm }

// ApplyParams applies given parameter sheet to the engine, with param paths
// of the form "Engine.Params.Lrate".  Call InitWts afterwards if WtVar or
// Seed may have changed.
func (en *Engine) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	return pars.Apply(en, setMsg)
}

// NonDefaultParams returns a listing of the parameters that are not at
// their default values
func (en *Engine) NonDefaultParams() string {
	return giv.StructNonDefFieldsStr(&en.Params, "linear.Engine")
}

// inputs returns the [N, NIn] input matrix of given batch
func (en *Engine) inputs(x *databuf.Batch) (*mat.Dense, error) {
	if x.N == 0 {
		return nil, fmt.Errorf("linear: empty batch")
	}
	if x.SampleLen() != en.NIn {
		return nil, fmt.Errorf("linear: input samples have %d values, engine has %d inputs", x.SampleLen(), en.NIn)
	}
	vals := make([]float64, x.N*en.NIn)
	for i := range vals {
		vals[i] = float64(x.Values[i])
	}
	return mat.NewDense(x.N, en.NIn, vals), nil
}

// targets returns the [N, NOut] target matrix of given label batch
func (en *Engine) targets(y *databuf.Batch, n int) (*mat.Dense, error) {
	if y.N != n {
		return nil, fmt.Errorf("linear: %d labels for %d samples", y.N, n)
	}
	tg := mat.NewDense(n, en.NOut, nil)
	switch {
	case y.SampleLen() == en.NOut:
		for s := 0; s < n; s++ {
			row := tg.RawRowView(s)
			for i, v := range y.Sample(s) {
				row[i] = float64(v)
			}
		}
	case y.SampleLen() == 1 && en.Params.Loss == SoftmaxCE:
		for s := 0; s < n; s++ {
			cls := int(y.Sample(s)[0])
			if cls < 0 || cls >= en.NOut {
				return nil, fmt.Errorf("linear: class %d of sample %d out of range [0, %d)", cls, s, en.NOut)
			}
			tg.Set(s, cls, 1)
		}
	default:
		return nil, fmt.Errorf("linear: label samples have %d values, engine has %d outputs", y.SampleLen(), en.NOut)
	}
	return tg, nil
}

// forward returns the [N, NOut] outputs for given inputs
func (en *Engine) forward(in *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(in, en.Wts.T())
	n, _ := out.Dims()
	bias := en.Bias.RawVector().Data
	for s := 0; s < n; s++ {
		row := out.RawRowView(s)
		floats.Add(row, bias)
		if en.Params.Loss == SoftmaxCE {
			lse := floats.LogSumExp(row)
			for i := range row {
				row[i] = math.Exp(row[i] - lse)
			}
		}
	}
	return &out
}

// correct returns true if the output row matches the target row: same
// argmax for multiple outputs, within 0.5 for a single output
func correct(out, tg []float64) bool {
	if len(out) == 1 {
		return math.Abs(out[0]-tg[0]) < 0.5
	}
	return floats.MaxIdx(out) == floats.MaxIdx(tg)
}

// TrainMinibatch runs one gradient descent step on given batch
func (en *Engine) TrainMinibatch(x, y *databuf.Batch) (fit.Stats, error) {
	in, err := en.inputs(x)
	if err != nil {
		return fit.Stats{}, err
	}
	tg, err := en.targets(y, x.N)
	if err != nil {
		return fit.Stats{}, err
	}
	out := en.forward(in)
	n := x.N

	var loss float64
	ncor := 0
	for s := 0; s < n; s++ {
		orow, trow := out.RawRowView(s), tg.RawRowView(s)
		for i, t := range trow {
			switch en.Params.Loss {
			case SoftmaxCE:
				if t != 0 {
					loss -= t * math.Log(math.Max(orow[i], 1e-12))
				}
			case MSE:
				d := orow[i] - t
				loss += d * d
			}
		}
		if correct(orow, trow) {
			ncor++
		}
	}

	// output gradient: (out - tg) / n for softmax cross-entropy, twice that for MSE
	var dout mat.Dense
	dout.Sub(out, tg)
	scl := 1 / float64(n)
	if en.Params.Loss == MSE {
		scl *= 2
	}
	dout.Scale(scl, &dout)

	var dwt mat.Dense
	dwt.Mul(dout.T(), in)
	dwt.Scale(en.Params.Lrate, &dwt)
	en.Wts.Sub(en.Wts, &dwt)
	bias := en.Bias.RawVector().Data
	for s := 0; s < n; s++ {
		floats.AddScaled(bias, -en.Params.Lrate, dout.RawRowView(s))
	}

	return fit.Stats{Loss: loss / float64(n), Metric: float64(ncor) / float64(n), NSamples: n}, nil
}

// Evaluate returns the outputs for each sample of given batch
func (en *Engine) Evaluate(x *databuf.Batch) ([][]float32, error) {
	in, err := en.inputs(x)
	if err != nil {
		return nil, err
	}
	out := en.forward(in)
	rows := make([][]float32, x.N)
	for s := range rows {
		orow := out.RawRowView(s)
		row := make([]float32, en.NOut)
		for i, v := range orow {
			row[i] = float32(v)
		}
		rows[s] = row
	}
	return rows, nil
}
