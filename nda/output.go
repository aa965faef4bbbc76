// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nda

import (
	"fmt"

	"github.com/emer/etable/etensor"
)

// OutputBuffer accumulates rows of model output, one row per sample,
// as they are produced batch by batch, and returns them as a single
// row-major [rows, cols] Array.
type OutputBuffer struct {
	NCols int       `desc:"number of values per row -- set by the first Add"`
	Vals  []float32 `view:"-" desc:"accumulated row-major values"`
}

// Add appends given rows to the buffer.  All rows must have the same
// number of values as the first row ever added.
func (ob *OutputBuffer) Add(rows [][]float32) error {
	for ri, row := range rows {
		if ob.NCols == 0 && len(ob.Vals) == 0 {
			ob.NCols = len(row)
		}
		if len(row) != ob.NCols {
			return fmt.Errorf("nda.OutputBuffer: row %d has %d values, expected %d", ri, len(row), ob.NCols)
		}
		ob.Vals = append(ob.Vals, row...)
	}
	return nil
}

// AddFlat appends n rows given as one flat row-major slice
func (ob *OutputBuffer) AddFlat(n int, vals []float32) error {
	if n == 0 {
		return nil
	}
	if len(vals)%n != 0 {
		return fmt.Errorf("nda.OutputBuffer: %d values do not split into %d rows", len(vals), n)
	}
	ncols := len(vals) / n
	if ob.NCols == 0 && len(ob.Vals) == 0 {
		ob.NCols = ncols
	}
	if ncols != ob.NCols {
		return fmt.Errorf("nda.OutputBuffer: rows have %d values, expected %d", ncols, ob.NCols)
	}
	ob.Vals = append(ob.Vals, vals...)
	return nil
}

// Rows returns the number of rows accumulated so far
func (ob *OutputBuffer) Rows() int {
	if ob.NCols == 0 {
		return 0
	}
	return len(ob.Vals) / ob.NCols
}

// Reset clears all accumulated rows
func (ob *OutputBuffer) Reset() {
	ob.NCols = 0
	ob.Vals = ob.Vals[:0]
}

// Array returns the accumulated rows as a row-major [rows, cols] FLOAT32 array
func (ob *OutputBuffer) Array() *Array {
	return NewFloat32([]int{ob.Rows(), ob.NCols}, ob.Vals)
}

// Tensor returns the accumulated rows as a [rows, cols] etensor.Float32
func (ob *OutputBuffer) Tensor() *etensor.Float32 {
	tsr := etensor.NewFloat32([]int{ob.Rows(), ob.NCols}, nil, nil)
	copy(tsr.Values, ob.Vals)
	return tsr
}
