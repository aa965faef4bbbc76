// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package databuf

import "errors"

var (
	// ErrShapeMismatch is returned when the per-sample size of the data
	// differs from the declared required input shape.
	ErrShapeMismatch = errors.New("the input shape is incompatible with the actual data shape")

	// ErrBufferTooSmall is returned when the declared shape would read past
	// the end of the raw data.
	ErrBufferTooSmall = errors.New("the shape is incompatible with the data size")

	// ErrRange is returned when a requested batch slice is out of range.
	ErrRange = errors.New("batch range is out of range")

	// ErrUnsupportedType is returned for element types that cannot be batched.
	// FLOAT64 data is accepted at construction but is not implemented for batching.
	ErrUnsupportedType = errors.New("element type is not implemented")

	// ErrUnsupportedFormat is returned for data that is not in row-major order.
	ErrUnsupportedFormat = errors.New("data is not in row-major order")
)
