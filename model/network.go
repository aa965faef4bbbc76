// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model holds the layer graph as far as the data side is
// concerned: which layers are fed from data streams, in what order, and
// with what per-sample shape.  What the layers compute is up to the
// backing engine.
package model

import (
	"errors"
	"fmt"
	"log"

	"github.com/emer/ebatch/minibatch"
	"github.com/emer/ebatch/nda"
	"github.com/emer/emergent/emer"
)

// model.Network holds the layers of the network
type Network struct {
	Nm       string            `desc:"overall name of network -- helps discriminate if there are multiple"`
	Layers   []*Layer          `desc:"list of layers"`
	LayMap   map[string]*Layer `view:"-" desc:"map of name to layers -- layer names must be unique"`
	MetaData map[string]string `desc:"optional metadata, e.g., can indicate number of epochs that were trained, or any other information about this network that would be useful to save"`
}

// NewNetwork returns a new empty network with given name
func NewNetwork(name string) *Network {
	return &Network{Nm: name}
}

func (nt *Network) Name() string         { return nt.Nm }
func (nt *Network) Label() string        { return nt.Nm }
func (nt *Network) NLayers() int         { return len(nt.Layers) }
func (nt *Network) Layer(idx int) *Layer { return nt.Layers[idx] }

// LayerByName returns a layer by looking it up by name in the layer map (nil if not found).
// Will create the layer map if it is nil or a different size than layers slice,
// but otherwise needs to be updated manually.
func (nt *Network) LayerByName(name string) *Layer {
	if nt.LayMap == nil || len(nt.LayMap) != len(nt.Layers) {
		nt.MakeLayMap()
	}
	return nt.LayMap[name]
}

// LayerByNameTry returns a layer by looking it up by name -- emits a log error message
// if layer is not found
func (nt *Network) LayerByNameTry(name string) (*Layer, error) {
	ly := nt.LayerByName(name)
	if ly == nil {
		err := fmt.Errorf("Layer named: %v not found in Network: %v", name, nt.Nm)
		log.Println(err)
		return ly, err
	}
	return ly, nil
}

// MakeLayMap updates layer map based on current layers
func (nt *Network) MakeLayMap() {
	nt.LayMap = make(map[string]*Layer, len(nt.Layers))
	for _, ly := range nt.Layers {
		nt.LayMap[ly.Name()] = ly
	}
}

// AddLayer adds a new layer with given name and per-sample shape to the network.
// shape is in row-major format with outer-most dimensions first.
func (nt *Network) AddLayer(name string, shape []int, typ emer.LayerType) *Layer {
	ly := &Layer{Network: nt, Nm: name}
	ly.Config(shape, typ)
	nt.Layers = append(nt.Layers, ly)
	nt.MakeLayMap()
	return ly
}

// AddLayer2D adds a new layer with given name and 2D shape to the network.
func (nt *Network) AddLayer2D(name string, shapeY, shapeX int, typ emer.LayerType) *Layer {
	return nt.AddLayer(name, []int{shapeY, shapeX}, typ)
}

// AddLayer4D adds a new layer with given name and 4D shape to the network.
// shape is in row-major format with outer-most dimensions first:
// e.g., 4D 3, 2, 4, 5 = 3 rows (Y) of 2 cols (X) of pools, with each pool
// having 4 rows (Y) of 5 (X) neurons.
func (nt *Network) AddLayer4D(name string, nPoolsY, nPoolsX, nNeurY, nNeurX int, typ emer.LayerType) *Layer {
	return nt.AddLayer(name, []int{nPoolsY, nPoolsX, nNeurY, nNeurX}, typ)
}

// Build checks all layers, sets their indexes, and checks that layer names
// are unique and that there is at least one Input layer.
func (nt *Network) Build() error {
	emsg := ""
	names := make(map[string]bool, len(nt.Layers))
	for li, ly := range nt.Layers {
		ly.SetIndex(li)
		if names[ly.Nm] {
			emsg += fmt.Sprintf("Build Network %v: duplicate layer name: %v\n", nt.Nm, ly.Nm)
		}
		names[ly.Nm] = true
		if ly.IsOff() {
			continue
		}
		err := ly.Build()
		if err != nil {
			emsg += err.Error() + "\n"
		}
	}
	if len(nt.InputLayers()) == 0 {
		emsg += fmt.Sprintf("Build Network %v: no Input layers\n", nt.Nm)
	}
	nt.MakeLayMap()
	if emsg != "" {
		return errors.New(emsg)
	}
	return nil
}

// InputLayers returns the active Input layers, in network order
func (nt *Network) InputLayers() []*Layer {
	var lays []*Layer
	for _, ly := range nt.Layers {
		if ly.IsInput() {
			lays = append(lays, ly)
		}
	}
	return lays
}

// TargetLayers returns the active Target layers, in network order
func (nt *Network) TargetLayers() []*Layer {
	var lays []*Layer
	for _, ly := range nt.Layers {
		if ly.IsTarget() {
			lays = append(lays, ly)
		}
	}
	return lays
}

// Register registers one data array per Input layer and then one per Target
// layer with the source, in network order, using the layer shapes as the
// required per-sample shapes and the layer names as stream names.  Inputs
// are registered first so the first Input layer's stream is the source's
// features and the last Target layer's stream is its labels.
// targets may be empty, e.g., for prediction.
func (nt *Network) Register(src *minibatch.Source, inputs, targets []*nda.Array) error {
	ins := nt.InputLayers()
	if len(inputs) != len(ins) {
		return fmt.Errorf("Network %v: %d input arrays for %d Input layers", nt.Nm, len(inputs), len(ins))
	}
	tgs := nt.TargetLayers()
	if len(targets) != 0 && len(targets) != len(tgs) {
		return fmt.Errorf("Network %v: %d target arrays for %d Target layers", nt.Nm, len(targets), len(tgs))
	}
	for i, arr := range inputs {
		if err := nt.registerLayer(src, ins[i], arr); err != nil {
			return err
		}
	}
	for i, arr := range targets {
		if err := nt.registerLayer(src, tgs[i], arr); err != nil {
			return err
		}
	}
	return nil
}

func (nt *Network) registerLayer(src *minibatch.Source, ly *Layer, arr *nda.Array) error {
	sd, err := src.Register(arr, ly.Shp.Shp, ly.Nm)
	if err != nil {
		return fmt.Errorf("Network %v: layer %v: %w", nt.Nm, ly.Nm, err)
	}
	ly.Stream = sd
	return nil
}

// NonDefaultParams returns a listing of all parameters in the Network that
// are not at their default values -- useful for setting param styles etc.
func (nt *Network) NonDefaultParams() string {
	nds := ""
	for _, ly := range nt.Layers {
		nds += ly.NonDefaultParams()
	}
	return nds
}
