// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ebatch trains the linear engine on a synthetic pattern classification
// task, driving it through the minibatch source, and reports the training
// history and the prediction accuracy.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/emer/ebatch/device"
	"github.com/emer/ebatch/engine/linear"
	"github.com/emer/ebatch/fit"
	"github.com/emer/ebatch/model"
	"github.com/emer/ebatch/nda"
	"github.com/emer/emergent/emer"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/patgen"
	"github.com/emer/etable/etensor"
	"github.com/goki/gi/gi"
	"github.com/spf13/cobra"
)

// Config holds the command line settings
type Config struct {
	Samples int     `desc:"number of training samples"`
	Classes int     `desc:"number of pattern classes"`
	NOn     int     `desc:"number of active units in each class prototype"`
	Flip    float64 `desc:"probability of flipping each unit of a sample away from its prototype"`
	Seed    int64   `desc:"random seed for the data and the weights"`
	Lrate   float64 `desc:"learning rate, overriding the param sheet if > 0"`
	MSE     bool    `desc:"use squared error on one-hot labels instead of softmax cross-entropy"`
	GPU     int     `desc:"bind batches to this GPU ordinal instead of the CPU, if >= 0"`
	History string  `desc:"if set, save the epoch history to this file as tab separated values"`
	Wts     string  `desc:"if set, save the trained weights to this file in JSON format"`
	Fit     fit.Params
}

func (cfg *Config) Defaults() {
	cfg.Samples = 200
	cfg.Classes = 4
	cfg.NOn = 6
	cfg.Flip = 0.05
	cfg.Seed = 1
	cfg.GPU = -1
	cfg.Fit.Defaults()
}

func main() {
	var cfg Config
	cfg.Defaults()

	rootCmd := &cobra.Command{
		Use:   "ebatch",
		Short: "ebatch trains and evaluates models on minibatched tensor data",
	}

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "train the linear engine on a synthetic classification task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(&cfg)
		},
	}
	fl := fitCmd.Flags()
	fl.IntVar(&cfg.Samples, "samples", cfg.Samples, "number of training samples")
	fl.IntVar(&cfg.Classes, "classes", cfg.Classes, "number of pattern classes")
	fl.IntVar(&cfg.NOn, "on", cfg.NOn, "number of active units per class prototype")
	fl.Float64Var(&cfg.Flip, "flip", cfg.Flip, "probability of flipping each unit of a sample")
	fl.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fl.Float64Var(&cfg.Lrate, "lrate", cfg.Lrate, "learning rate (0 = from the param sheet)")
	fl.BoolVar(&cfg.MSE, "mse", cfg.MSE, "use squared error on one-hot labels")
	fl.IntVar(&cfg.GPU, "gpu", cfg.GPU, "GPU ordinal to bind batches to (-1 = CPU)")
	fl.StringVar(&cfg.History, "history", cfg.History, "file to save the epoch history to")
	fl.StringVar(&cfg.Wts, "wts", cfg.Wts, "file to save the trained weights to")
	fl.IntVar(&cfg.Fit.BatchSize, "batch", cfg.Fit.BatchSize, "minibatch size")
	fl.IntVar(&cfg.Fit.Epochs, "epochs", cfg.Fit.Epochs, "number of epochs")
	fl.IntVar(&cfg.Fit.Verbose, "verbose", cfg.Fit.Verbose, "0 = quiet, 1 = per epoch, 2 = per batch")

	devCmd := &cobra.Command{
		Use:   "device",
		Short: "describe the host CPU device",
		Run: func(cmd *cobra.Command, args []string) {
			d := device.CPUDevice()
			fmt.Println(d)
			fmt.Printf("cores: %d\nfeatures: %v\n", d.Cores, d.Features)
		},
	}

	rootCmd.AddCommand(fitCmd, devCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ParamSheet holds the engine parameters, by loss function
var ParamSheet = params.Sheet{
	{Sel: "Engine", Desc: "generic params for all engines",
		Params: params.Params{
			"Engine.Params.Lrate": "0.1",
			"Engine.Params.WtVar": "0.01",
		}},
	{Sel: ".MSE", Desc: "squared error gradients are larger",
		Params: params.Params{
			"Engine.Params.Lrate": "0.05",
		}},
}

// ConfigNet builds the network: a 5x5 Input layer and a Target layer
// holding one class index per sample
func ConfigNet() *model.Network {
	net := model.NewNetwork("ebatch")
	net.AddLayer2D("Input", 5, 5, emer.Input)
	net.AddLayer("Output", []int{1}, emer.Target)
	if err := net.Build(); err != nil {
		log.Println(err)
	}
	return net
}

// OneHot returns [n, ncls] one-hot labels for the class index labels
func OneHot(lbls *etensor.Float32, ncls int) *etensor.Float32 {
	n := lbls.Dim(0)
	oh := etensor.NewFloat32([]int{n, ncls}, nil, nil)
	for s := 0; s < n; s++ {
		oh.Values[s*ncls+int(lbls.Values[s])] = 1
	}
	return oh
}

// MakeData returns n 5x5 binary patterns, each a noisy copy of one of ncls
// random prototypes, and the [n, 1] class index of each
func MakeData(cfg *Config) (pats, lbls *etensor.Float32) {
	rand.Seed(cfg.Seed)
	protos := etensor.NewFloat32([]int{cfg.Classes, 5, 5}, nil, []string{"Class", "Y", "X"})
	patgen.PermutedBinaryRows(protos, cfg.NOn, 1, 0)

	pats = etensor.NewFloat32([]int{cfg.Samples, 5, 5}, nil, []string{"Sample", "Y", "X"})
	lbls = etensor.NewFloat32([]int{cfg.Samples, 1}, nil, nil)
	for s := 0; s < cfg.Samples; s++ {
		cls := rand.Intn(cfg.Classes)
		lbls.Values[s] = float32(cls)
		proto := protos.Values[cls*25 : (cls+1)*25]
		smp := pats.Values[s*25 : (s+1)*25]
		for i, v := range proto {
			if rand.Float64() < cfg.Flip {
				v = 1 - v
			}
			smp[i] = v
		}
	}
	return
}

func runFit(cfg *Config) error {
	if cfg.Classes < 1 {
		return fmt.Errorf("classes must be at least 1, got %d", cfg.Classes)
	}
	if cfg.Samples < 0 {
		return fmt.Errorf("samples must not be negative, got %d", cfg.Samples)
	}
	if cfg.NOn < 0 || cfg.NOn > 25 {
		return fmt.Errorf("on must be in [0, 25], got %d", cfg.NOn)
	}
	pats, lbls := MakeData(cfg)
	net := ConfigNet()

	eng := linear.New(25, cfg.Classes)
	eng.Params.Seed = cfg.Seed
	tgt := lbls
	if cfg.MSE {
		eng.Params.Loss = linear.MSE
		tgt = OneHot(lbls, cfg.Classes)
		net.LayerByName("Output").SetShape([]int{cfg.Classes})
	}
	if _, err := eng.ApplyParams(&ParamSheet, cfg.Fit.Verbose > 1); err != nil {
		return err
	}
	if cfg.Lrate > 0 {
		eng.Params.Lrate = cfg.Lrate
	}
	eng.InitWts()
	if nd := eng.NonDefaultParams(); nd != "" {
		log.Println(nd)
	}

	tr := fit.NewTrainer(net, eng)
	tr.Params = cfg.Fit
	tr.Cache = fit.NewModelCache()
	if cfg.GPU >= 0 {
		tr.Device = device.GPUDevice(cfg.GPU)
	}
	log.Printf("training on %v: %d samples, %d classes\n", tr.Device, cfg.Samples, cfg.Classes)

	ctx := context.Background()
	if err := tr.Fit(ctx, []*nda.Array{nda.FromTensor(pats)}, []*nda.Array{nda.FromTensor(tgt)}); err != nil {
		return err
	}
	if cfg.History != "" {
		if err := tr.History.SaveCSV(gi.FileName(cfg.History)); err != nil {
			return err
		}
	} else if cfg.Fit.Verbose > 0 {
		tr.History.WriteCSV(os.Stdout)
	}
	if cfg.Wts != "" {
		if err := eng.SaveWtsJSON(gi.FileName(cfg.Wts)); err != nil {
			return err
		}
	}

	pt := fit.NewTrainer(net, nil)
	pt.Params = cfg.Fit
	pt.Cache = tr.Cache
	if err := pt.Load(tr.ModelID); err != nil {
		return err
	}
	out, err := pt.Predict(ctx, []*nda.Array{nda.FromTensor(pats)})
	if err != nil {
		return err
	}
	rng, err := out.Range()
	if err != nil {
		return err
	}
	vals, err := out.Float32s()
	if err != nil {
		return err
	}
	ncor := 0
	for s := 0; s < cfg.Samples; s++ {
		row := vals[s*cfg.Classes : (s+1)*cfg.Classes]
		best := 0
		for i, v := range row {
			if v > row[best] {
				best = i
			}
		}
		if best == int(lbls.Values[s]) {
			ncor++
		}
	}
	fmt.Printf("model %s: accuracy %.4f (%d / %d), outputs in [%.4f, %.4f]\n", pt.ModelID, float64(ncor)/float64(cfg.Samples), ncor, cfg.Samples, rng.Min, rng.Max)
	return nil
}
