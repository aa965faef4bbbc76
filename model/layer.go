// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"

	"github.com/emer/ebatch/stream"
	"github.com/emer/emergent/emer"
	"github.com/emer/etable/etensor"
	"github.com/goki/gi/giv"
)

// model.Layer is the part of a layer that the data side needs to know about:
// its name, its type and the shape of one sample of its activity
type Layer struct {
	Network *Network           `copy:"-" json:"-" xml:"-" view:"-" desc:"our parent network, in case we need to use it to find other layers etc -- set when added by network"`
	Nm      string             `desc:"Name of the layer -- this must be unique within the network, which has a map for quick lookup and layers are typically accessed directly by name"`
	Cls     string             `desc:"Class is for applying parameter styles, can be space separated multple tags"`
	Off     bool               `desc:"inactivate this layer -- an Off Input or Target layer is not fed any data"`
	Shp     etensor.Shape      `desc:"per-sample shape of the layer -- order is outer-to-inner (row major), data streams registered for the layer must have the same number of elements per sample"`
	Typ     emer.LayerType     `desc:"type of layer -- Input layers are fed from feature streams, Target layers from label streams, Hidden and Compare layers are not fed"`
	Idx     int                `desc:"a 0..n-1 index of the position of the layer within list of layers in the network."`
	Stream  *stream.Descriptor `view:"-" desc:"stream feeding this layer -- set by Network.Register"`
}

func (ly *Layer) Name() string               { return ly.Nm }
func (ly *Layer) SetName(nm string)          { ly.Nm = nm }
func (ly *Layer) Label() string              { return ly.Nm }
func (ly *Layer) Class() string              { return ly.Typ.String() + " " + ly.Cls }
func (ly *Layer) SetClass(cls string)        { ly.Cls = cls }
func (ly *Layer) Type() emer.LayerType       { return ly.Typ }
func (ly *Layer) SetType(typ emer.LayerType) { ly.Typ = typ }
func (ly *Layer) IsOff() bool                { return ly.Off }
func (ly *Layer) SetOff(off bool)            { ly.Off = off }
func (ly *Layer) Shape() *etensor.Shape      { return &ly.Shp }
func (ly *Layer) Index() int                 { return ly.Idx }
func (ly *Layer) SetIndex(idx int)           { ly.Idx = idx }

// IsInput returns true if this layer is fed from a feature stream
func (ly *Layer) IsInput() bool { return ly.Typ == emer.Input && !ly.Off }

// IsTarget returns true if this layer is fed from a label stream
func (ly *Layer) IsTarget() bool { return ly.Typ == emer.Target && !ly.Off }

// SetShape sets the layer shape and also uses default dim names
func (ly *Layer) SetShape(shape []int) {
	var dnms []string
	if len(shape) == 2 {
		dnms = emer.LayerDimNames2D
	} else if len(shape) == 4 {
		dnms = emer.LayerDimNames4D
	}
	ly.Shp.SetShape(shape, nil, dnms) // row major default
}

// Config configures the basic properties of the layer
func (ly *Layer) Config(shape []int, typ emer.LayerType) {
	ly.SetShape(shape)
	ly.Typ = typ
}

// NonDefaultParams returns a listing of all parameters in the Layer that
// are not at their default values -- useful for setting param styles etc.
func (ly *Layer) NonDefaultParams() string {
	return giv.StructNonDefFieldsStr(ly, ly.Nm)
}

// Build checks the layer configuration
func (ly *Layer) Build() error {
	if ly.Shp.Len() == 0 {
		return fmt.Errorf("Build Layer %v: no units specified in Shape", ly.Nm)
	}
	return nil
}

// String satisfies fmt.Stringer
func (ly *Layer) String() string {
	return fmt.Sprintf("%s (%v) %v", ly.Nm, ly.Typ, ly.Shp.Shp)
}
