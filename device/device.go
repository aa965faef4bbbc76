// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package device describes the compute device that batches are bound to.
// The handle is opaque to the data staging packages: they only carry it
// along so the backing engine knows where a batch is meant to live.
package device

import (
	"fmt"
	"strings"

	"github.com/goki/ki/kit"
	"github.com/klauspost/cpuid/v2"
)

// DeviceTypes are the kinds of compute device a batch can be bound to
type DeviceTypes int32

//go:generate stringer -type=DeviceTypes

var KiT_DeviceTypes = kit.Enums.AddEnum(DeviceTypesN, kit.NotBitFlag, nil)

func (ev DeviceTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *DeviceTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// CPU is host memory
	CPU DeviceTypes = iota

	// GPU is accelerator memory, addressed by ID
	GPU

	DeviceTypesN
)

// Device is a compute device handle
type Device struct {
	Type     DeviceTypes `desc:"kind of device"`
	ID       int         `desc:"ordinal of the device among devices of the same type"`
	Name     string      `desc:"descriptive name, e.g., the CPU brand string"`
	Cores    int         `desc:"number of logical cores available on the device"`
	Features []string    `view:"-" desc:"instruction set features reported by the device"`
}

// CPUDevice returns the host CPU device, described from cpuid
func CPUDevice() Device {
	return Device{
		Type:     CPU,
		Name:     strings.TrimSpace(cpuid.CPU.BrandName),
		Cores:    cpuid.CPU.LogicalCores,
		Features: cpuid.CPU.FeatureSet(),
	}
}

// GPUDevice returns a handle for the GPU with given ordinal.
// Nothing is probed: the backing engine is responsible for validating it.
func GPUDevice(id int) Device {
	return Device{Type: GPU, ID: id, Name: fmt.Sprintf("gpu:%d", id)}
}

// IsCPU returns true if this is a host device
func (d Device) IsCPU() bool { return d.Type == CPU }

// HasFeature returns true if the device reports given feature name (e.g., "AVX2")
func (d Device) HasFeature(feat string) bool {
	for _, f := range d.Features {
		if f == feat {
			return true
		}
	}
	return false
}

// String satisfies fmt.Stringer
func (d Device) String() string {
	if d.Name == "" {
		return fmt.Sprintf("%v:%d", d.Type, d.ID)
	}
	return fmt.Sprintf("%v:%d (%s)", d.Type, d.ID, d.Name)
}
