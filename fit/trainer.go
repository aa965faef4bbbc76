// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/emer/ebatch/device"
	"github.com/emer/ebatch/minibatch"
	"github.com/emer/ebatch/model"
	"github.com/emer/ebatch/nda"
	"github.com/emer/emergent/env"
)

// Trainer trains an Engine on the data streams of a model.Network and
// predicts with it.  The Network supplies the required per-sample shapes.
// An Engine takes one feature and one label batch per step, so the Network
// must have exactly one active Input layer, and exactly one active Target
// layer for Fit.
type Trainer struct {
	Net      *model.Network `desc:"network whose Input and Target layers shape the data"`
	Engine   Engine         `desc:"backing engine that is trained and evaluated"`
	Params   Params         `desc:"fit and predict parameters"`
	Device   device.Device  `desc:"device that batches are bound to"`
	History  History        `desc:"training history of the last Fit"`
	Epoch    env.Ctr        `desc:"epoch counter"`
	Batch    env.Ctr        `desc:"batch counter within the current epoch"`
	Progress ProgressFunc   `view:"-" desc:"if set, called at each reporting point"`
	Cache    *ModelCache    `view:"-" desc:"if set and Params.Cache is on, trained engines are added here"`
	ModelID  string         `inactive:"+" desc:"id of the trained engine in the Cache, after Fit"`
}

// NewTrainer returns a trainer with default parameters, bound to the CPU
func NewTrainer(net *model.Network, eng Engine) *Trainer {
	tr := &Trainer{Net: net, Engine: eng, Device: device.CPUDevice()}
	tr.Params.Defaults()
	tr.Epoch.Scale = env.Epoch
	tr.Batch.Scale = env.Trial
	return tr
}

// Load sets the Engine to the one cached under id
func (tr *Trainer) Load(id string) error {
	if tr.Cache == nil {
		return errors.New("fit.Trainer: Load without a Cache")
	}
	eng, err := tr.Cache.GetTry(id)
	if err != nil {
		return err
	}
	tr.Engine = eng
	tr.ModelID = id
	return nil
}

// checkNet returns an error unless the Network has one active Input layer
// and, if targets is set, one active Target layer
func (tr *Trainer) checkNet(targets bool) error {
	if tr.Net == nil {
		return errors.New("fit.Trainer: no Network")
	}
	if n := len(tr.Net.InputLayers()); n != 1 {
		return fmt.Errorf("fit.Trainer: Network %v has %d Input layers, the Engine takes exactly 1", tr.Net.Nm, n)
	}
	if !targets {
		return nil
	}
	if n := len(tr.Net.TargetLayers()); n != 1 {
		return fmt.Errorf("fit.Trainer: Network %v has %d Target layers, the Engine takes exactly 1", tr.Net.Nm, n)
	}
	return nil
}

func (tr *Trainer) progress(typ CallbackTypes, id int, vals map[string]float64) {
	if tr.Progress != nil {
		tr.Progress(typ, id, vals)
	}
}

// Fit trains the Engine for Params.Epochs epochs on given input arrays (one
// per Input layer) and target arrays (one per Target layer).  Each epoch
// pulls batches of Params.BatchSize samples from a repeating source until
// every sample has been seen once.  The context is checked between batches.
func (tr *Trainer) Fit(ctx context.Context, inputs, targets []*nda.Array) error {
	if tr.Engine == nil {
		return errors.New("fit.Trainer: Fit without an Engine")
	}
	if len(targets) == 0 {
		return errors.New("fit.Trainer: Fit needs target arrays")
	}
	if err := tr.checkNet(true); err != nil {
		return err
	}
	tr.Params.Update()
	src := minibatch.New(true)
	if err := tr.Net.Register(src, inputs, targets); err != nil {
		return err
	}
	xs, ys := src.Features(), src.Labels()
	nsamp := src.NSamples()

	tr.History.Init()
	tr.Epoch.Max = tr.Params.Epochs
	tr.Epoch.Init()
	tr.progress(TrainingBegin, 0, nil)
	for {
		epc := tr.Epoch.Cur
		tr.progress(EpochBegin, epc, nil)
		tr.History.StartEpoch()
		tr.Batch.Init()
		for seen := 0; seen < nsamp; {
			if err := ctx.Err(); err != nil {
				return err
			}
			tr.progress(BatchBegin, tr.Batch.Cur, nil)
			mb, err := src.NextBatch(tr.Params.BatchSize, tr.Device)
			if err != nil {
				return err
			}
			st, err := tr.Engine.TrainMinibatch(mb[xs].Batch, mb[ys].Batch)
			if err != nil {
				return fmt.Errorf("fit.Trainer: epoch %d batch %d: %w", epc, tr.Batch.Cur, err)
			}
			tr.History.AddStep(st)
			seen += mb.NSamples()
			tr.progress(BatchEnd, tr.Batch.Cur, map[string]float64{"loss": st.Loss, "acc": st.Metric, "nsamples": float64(st.NSamples)})
			if tr.Params.Verbose > 1 {
				log.Printf("epoch %d batch %d: loss %.6f acc %.4f\n", epc, tr.Batch.Cur, st.Loss, st.Metric)
			}
			tr.Batch.Incr()
		}
		tr.History.EndEpoch(epc)
		tr.progress(EpochEnd, epc, map[string]float64{"loss": tr.History.AvgLoss(), "acc": tr.History.AvgAcc(), "nsamples": float64(tr.History.NSamples)})
		if tr.Params.Verbose > 0 {
			log.Printf("epoch %d/%d: loss %.6f acc %.4f\n", epc+1, tr.Params.Epochs, tr.History.AvgLoss(), tr.History.AvgAcc())
		}
		if tr.Epoch.Incr() {
			break
		}
	}
	tr.progress(TrainingEnd, tr.Params.Epochs, map[string]float64{"loss": tr.History.LastLoss(), "acc": tr.History.LastAcc(), "nsamples": float64(tr.History.Total)})
	if tr.Params.Cache && tr.Cache != nil {
		tr.ModelID = tr.Cache.Add(tr.Engine)
		if tr.Params.Verbose > 0 {
			log.Printf("model cached as %s\n", tr.ModelID)
		}
	}
	return nil
}

// Predict evaluates the Engine on given input arrays, one per Input layer,
// and returns the outputs as a row-major [nSamples, nOut] array.  Batches
// are pulled from a non-repeating source until the end of the sweep.
func (tr *Trainer) Predict(ctx context.Context, inputs []*nda.Array) (*nda.Array, error) {
	if tr.Engine == nil {
		return nil, errors.New("fit.Trainer: Predict without an Engine")
	}
	if err := tr.checkNet(false); err != nil {
		return nil, err
	}
	tr.Params.Update()
	src := minibatch.New(false)
	if err := tr.Net.Register(src, inputs, nil); err != nil {
		return nil, err
	}
	var out nda.OutputBuffer
	if src.NSamples() == 0 {
		return out.Array(), nil
	}
	xs := src.Features()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mb, err := src.NextBatch(tr.Params.BatchSize, tr.Device)
		if err != nil {
			return nil, err
		}
		rows, err := tr.Engine.Evaluate(mb[xs].Batch)
		if err != nil {
			return nil, fmt.Errorf("fit.Trainer: predict at sample %d: %w", src.Pos()-mb.NSamples(), err)
		}
		if err := out.Add(rows); err != nil {
			return nil, err
		}
		if mb.SweepEnd() {
			break
		}
	}
	return out.Array(), nil
}
