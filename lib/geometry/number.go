// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package geometry

import "math"

// Number returns value widened to float64, or nil when it is NaN or
// infinite. JSON has no spelling for non-finite numbers.
func Number(value float32) any {
	return Float(float64(value))
}

// Float is [Number] for float64 values.
func Float(value float64) any {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return value
}
