// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stream provides the identity of each named, typed, shaped channel
// of per-sample data (an input or a label channel) that a batch source serves.
package stream

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/goki/ki/kit"
)

// StorageFormats is the storage format of the samples in a stream
type StorageFormats int32

//go:generate stringer -type=StorageFormats

var KiT_StorageFormats = kit.Enums.AddEnum(StorageFormatsN, kit.NotBitFlag, nil)

func (ev StorageFormats) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *StorageFormats) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Dense storage: every element of every sample is present
	Dense StorageFormats = iota

	StorageFormatsN
)

// Descriptor is the identity of one stream: ordinal, name, element type and
// per-sample shape.  It is created once by a Registry and must not be modified
// afterwards.  The *Descriptor pointer is the stream identity: it is what
// batch results are keyed on.
type Descriptor struct {
	ID     int            `desc:"ordinal of the stream, in registration order"`
	Name   string         `desc:"name of the stream -- generated if none was given"`
	Type   etensor.Type   `desc:"element type of the samples -- only FLOAT32 can be batched"`
	Shape  etensor.Shape  `desc:"per-sample shape, excluding the sample axis"`
	Format StorageFormats `desc:"storage format -- always Dense"`
}

// SampleLen returns the number of elements in one sample -- 1 for a scalar
func (sd *Descriptor) SampleLen() int {
	if sd.Shape.NumDims() == 0 {
		return 1
	}
	return sd.Shape.Len()
}

// String satisfies fmt.Stringer
func (sd *Descriptor) String() string {
	return fmt.Sprintf("%d:%s %v %v", sd.ID, sd.Name, sd.Type, sd.Shape.Shp)
}
