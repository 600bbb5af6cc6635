// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package geometry

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestDecompose(t *testing.T) {
	tests := []struct {
		name   string
		matrix Matrix
		want   CSSTransform
	}{
		{
			name:   "translation only",
			matrix: Matrix{M00: 1, M01: 0, M02: 248, M10: 0, M11: 1, M12: -7},
			want:   CSSTransform{X: 248, Y: -7, Rotation: 0, ScaleX: 1, ScaleY: 1, SkewX: 0},
		},
		{
			name:   "quarter turn",
			matrix: Matrix{M00: 0, M01: -1, M02: 0, M10: 1, M11: 0, M12: 0},
			want:   CSSTransform{Rotation: 90, ScaleX: 1, ScaleY: 1},
		},
		{
			name:   "horizontal flip",
			matrix: Matrix{M00: -1, M01: 0, M02: 0, M10: 0, M11: 1, M12: 0},
			want:   CSSTransform{Rotation: 180, ScaleX: 1, ScaleY: -1},
		},
		{
			name:   "non-uniform scale",
			matrix: Matrix{M00: 2, M11: 3, M02: 5, M12: 6},
			want:   CSSTransform{X: 5, Y: 6, ScaleX: 2, ScaleY: 3},
		},
		{
			name:   "shear",
			matrix: Matrix{M00: 1, M01: 1, M10: 0, M11: 1},
			want:   CSSTransform{ScaleX: 1, ScaleY: 1, SkewX: 45},
		},
		{
			name:   "degenerate first column",
			matrix: Matrix{M00: 0, M01: 3, M10: 0, M11: 4},
			want:   CSSTransform{ScaleX: 0, ScaleY: 5, SkewX: 0},
		},
	}

	for _, test := range tests {
		got := Decompose(test.matrix)
		check := func(field string, got, want float64) {
			if math.Abs(got-want) > tolerance {
				t.Errorf("%s: %s = %v, want %v", test.name, field, got, want)
			}
		}
		check("x", got.X, test.want.X)
		check("y", got.Y, test.want.Y)
		check("rotation", got.Rotation, test.want.Rotation)
		check("scaleX", got.ScaleX, test.want.ScaleX)
		check("scaleY", got.ScaleY, test.want.ScaleY)
		check("skewX", got.SkewX, test.want.SkewX)
	}
}

func TestCSSTransformValueNonFinite(t *testing.T) {
	value := Decompose(Matrix{M00: 1, M11: 1, M02: math.NaN(), M12: math.Inf(1)}).Value()
	if value["x"] != nil || value["y"] != nil {
		t.Errorf("non-finite translation = %v, %v, want nil", value["x"], value["y"])
	}
	if value["scaleX"] != 1.0 {
		t.Errorf("scaleX = %v, want 1", value["scaleX"])
	}
	if len(value) != 6 {
		t.Errorf("Value has %d keys, want 6", len(value))
	}
}
