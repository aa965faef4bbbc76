// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"io"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
	"github.com/goki/gi/gi"
	"github.com/goki/ki/kit"
)

// CallbackTypes are the points in training at which progress is reported
type CallbackTypes int32

//go:generate stringer -type=CallbackTypes

var KiT_CallbackTypes = kit.Enums.AddEnum(CallbackTypesN, kit.NotBitFlag, nil)

func (ev CallbackTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *CallbackTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	TrainingBegin CallbackTypes = iota
	TrainingEnd
	EpochBegin
	EpochEnd
	BatchBegin
	BatchEnd

	CallbackTypesN
)

// ProgressFunc is called at each reporting point with the epoch or batch
// index and the current values: "loss", "acc" and, at the end points,
// "nsamples"
type ProgressFunc func(typ CallbackTypes, id int, vals map[string]float64)

// History accumulates per-step statistics into per-epoch records
type History struct {
	Epochs   *etable.Table   `view:"no-inline" desc:"one row per epoch: Epoch, Loss, Acc, MaxLoss, NSamples"`
	LossStat minmax.AvgMax32 `view:"-" desc:"loss over the batches of the current epoch"`
	AccSum   float64         `view:"-" desc:"sample-weighted sum of the metric over the current epoch"`
	LossSum  float64         `view:"-" desc:"sample-weighted sum of the loss over the current epoch"`
	NSamples int             `view:"-" desc:"samples seen in the current epoch"`
	NBatches int             `view:"-" desc:"batches seen in the current epoch"`
	Total    int             `desc:"samples seen over all epochs"`
}

// Init resets the history and configures the epoch table
func (hs *History) Init() {
	hs.Epochs = &etable.Table{}
	hs.Epochs.SetMetaData("name", "TrainEpochs")
	hs.Epochs.SetMetaData("desc", "Record of performance over epochs of training")
	sch := etable.Schema{
		{Name: "Epoch", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Loss", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Acc", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "MaxLoss", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "NSamples", Type: etensor.INT64, CellShape: nil, DimNames: nil},
	}
	hs.Epochs.SetFromSchema(sch, 0)
	hs.Total = 0
	hs.StartEpoch()
}

// StartEpoch clears the current epoch accumulators
func (hs *History) StartEpoch() {
	hs.LossStat.Init()
	hs.AccSum = 0
	hs.LossSum = 0
	hs.NSamples = 0
	hs.NBatches = 0
}

// AddStep records the statistics of one training step
func (hs *History) AddStep(st Stats) {
	hs.LossStat.UpdateVal(float32(st.Loss), hs.NBatches)
	hs.LossSum += st.Loss * float64(st.NSamples)
	hs.AccSum += st.Metric * float64(st.NSamples)
	hs.NSamples += st.NSamples
	hs.NBatches++
	hs.Total += st.NSamples
}

// AvgLoss returns the sample-weighted average loss of the current epoch
func (hs *History) AvgLoss() float64 {
	if hs.NSamples == 0 {
		return 0
	}
	return hs.LossSum / float64(hs.NSamples)
}

// AvgAcc returns the sample-weighted average metric of the current epoch
func (hs *History) AvgAcc() float64 {
	if hs.NSamples == 0 {
		return 0
	}
	return hs.AccSum / float64(hs.NSamples)
}

// EndEpoch writes the current epoch as a new row of the Epochs table
func (hs *History) EndEpoch(epoch int) {
	hs.LossStat.CalcAvg()
	dt := hs.Epochs
	row := dt.Rows
	dt.AddRows(1)
	dt.SetCellFloat("Epoch", row, float64(epoch))
	dt.SetCellFloat("Loss", row, hs.AvgLoss())
	dt.SetCellFloat("Acc", row, hs.AvgAcc())
	dt.SetCellFloat("MaxLoss", row, float64(hs.LossStat.Max))
	dt.SetCellFloat("NSamples", row, float64(hs.NSamples))
}

// LastLoss returns the average loss of the last completed epoch, 0 if none
func (hs *History) LastLoss() float64 {
	if hs.Epochs == nil || hs.Epochs.Rows == 0 {
		return 0
	}
	return hs.Epochs.CellFloat("Loss", hs.Epochs.Rows-1)
}

// LastAcc returns the average metric of the last completed epoch, 0 if none
func (hs *History) LastAcc() float64 {
	if hs.Epochs == nil || hs.Epochs.Rows == 0 {
		return 0
	}
	return hs.Epochs.CellFloat("Acc", hs.Epochs.Rows-1)
}

// WriteCSV writes the epoch table as tab separated values with headers
func (hs *History) WriteCSV(w io.Writer) error {
	return hs.Epochs.WriteCSV(w, etable.Tab, etable.Headers)
}

// SaveCSV saves the epoch table to given file as tab separated values
func (hs *History) SaveCSV(filename gi.FileName) error {
	return hs.Epochs.SaveCSV(filename, etable.Tab, etable.Headers)
}
