// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/google/uuid"
)

// Registry assigns each registered stream a unique Descriptor and keeps them
// in registration order.  The first registered stream plays the role of the
// features and the last one that of the labels.
type Registry struct {
	Streams []*Descriptor          `desc:"streams in registration order -- index == Descriptor.ID"`
	NameMap map[string]*Descriptor `view:"-" desc:"map of name to stream -- the first stream registered under a name wins"`
}

// GenerateName returns a fresh unique stream name
func GenerateName() string {
	return "Stream_" + uuid.New().String()
}

// Add creates the Descriptor for a new stream and appends it.
// The ID is the number of streams registered before it, and an empty
// name is replaced by a generated one.
func (rg *Registry) Add(name string, typ etensor.Type, shape []int) *Descriptor {
	if name == "" {
		name = GenerateName()
	}
	sd := &Descriptor{ID: len(rg.Streams), Name: name, Type: typ, Format: Dense}
	sd.Shape.SetShape(append([]int(nil), shape...), nil, nil)
	rg.Streams = append(rg.Streams, sd)
	if rg.NameMap == nil {
		rg.NameMap = make(map[string]*Descriptor)
	}
	if _, has := rg.NameMap[name]; !has {
		rg.NameMap[name] = sd
	}
	return sd
}

// Len returns the number of registered streams
func (rg *Registry) Len() int { return len(rg.Streams) }

// Stream returns the stream with given ID
func (rg *Registry) Stream(id int) *Descriptor { return rg.Streams[id] }

// First returns the first registered stream, nil if none
func (rg *Registry) First() *Descriptor {
	if len(rg.Streams) == 0 {
		return nil
	}
	return rg.Streams[0]
}

// Last returns the last registered stream, nil if none
func (rg *Registry) Last() *Descriptor {
	if len(rg.Streams) == 0 {
		return nil
	}
	return rg.Streams[len(rg.Streams)-1]
}

// Has returns true if the given descriptor was created by this registry
func (rg *Registry) Has(sd *Descriptor) bool {
	if sd == nil || sd.ID < 0 || sd.ID >= len(rg.Streams) {
		return false
	}
	return rg.Streams[sd.ID] == sd
}

// ByName returns the stream registered under given name, nil if not found
func (rg *Registry) ByName(name string) *Descriptor {
	return rg.NameMap[name]
}

// ByNameTry returns the stream registered under given name, or an error if not found
func (rg *Registry) ByNameTry(name string) (*Descriptor, error) {
	sd := rg.ByName(name)
	if sd == nil {
		return nil, fmt.Errorf("stream named: %v not found", name)
	}
	return sd, nil
}
