// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nda

import (
	"fmt"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// FromTable returns a row-major FLOAT32 array with one sample per table row.
// The cells of the named columns are concatenated, in order, to form each
// sample, so the result has shape [dt.Rows, sum of column cell sizes].
// With a single column, the sample shape is the column's cell shape.
func FromTable(dt *etable.Table, cols ...string) (*Array, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("nda.FromTable: no columns named")
	}
	rows := dt.Rows
	tsrs := make([]etensor.Tensor, len(cols))
	cells := make([]int, len(cols))
	tot := 0
	for i, nm := range cols {
		tsr := dt.ColByName(nm)
		if tsr == nil {
			return nil, fmt.Errorf("nda.FromTable: column named: %v not found in table: %v", nm, dt.MetaData["name"])
		}
		tsrs[i] = tsr
		if rows > 0 {
			cells[i] = tsr.Len() / rows
		}
		tot += cells[i]
	}
	vals := make([]float32, rows*tot)
	for r := 0; r < rows; r++ {
		off := r * tot
		for i, tsr := range tsrs {
			st := r * cells[i]
			for c := 0; c < cells[i]; c++ {
				vals[off+c] = float32(tsr.FloatVal1D(st + c))
			}
			off += cells[i]
		}
	}
	shape := []int{rows, tot}
	if len(cols) == 1 && tsrs[0].NumDims() > 1 {
		shape = append([]int{rows}, tsrs[0].Shapes()[1:]...)
	}
	return NewFloat32(shape, vals), nil
}

// ToTable returns a new table with a single FLOAT32 column of given name
// holding one row per sample of the array, with the sample shape as the cell shape.
func (a *Array) ToTable(name, col string) (*etable.Table, error) {
	vals, err := a.Float32s()
	if err != nil {
		return nil, err
	}
	dt := &etable.Table{}
	dt.SetMetaData("name", name)
	var cshp []int
	if len(a.Shape) > 1 {
		cshp = a.Shape[1:]
	}
	sch := etable.Schema{
		{Name: col, Type: etensor.FLOAT32, CellShape: cshp, DimNames: nil},
	}
	dt.SetFromSchema(sch, a.NSamples())
	ct := dt.Cols[0].(*etensor.Float32)
	copy(ct.Values, vals)
	return dt, nil
}
