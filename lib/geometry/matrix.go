// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package geometry

import "math"

// degenerateScale is the scaleX magnitude below which the first
// column is treated as zero and the skew is undefined.
const degenerateScale = 1e-10

// Matrix is a 2×3 affine transform in row-major order:
//
//	| M00 M01 M02 |
//	| M10 M11 M12 |
type Matrix struct {
	M00, M01, M02 float64
	M10, M11, M12 float64
}

// CSSTransform is the decomposition of a [Matrix] into translation,
// rotation, scale and horizontal skew. Angles are in degrees.
type CSSTransform struct {
	X, Y     float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
	SkewX    float64
}

// Decompose splits m into CSS-style components. Rotation and scaleX
// come from the first column; scaleY is signed by the determinant so
// reflections survive. When the first column is degenerate, scaleY
// falls back to the second column's length and skew is zero.
func Decompose(m Matrix) CSSTransform {
	scaleX := math.Sqrt(m.M00*m.M00 + m.M10*m.M10)
	determinant := m.M00*m.M11 - m.M01*m.M10

	result := CSSTransform{
		X:        m.M02,
		Y:        m.M12,
		Rotation: degrees(math.Atan2(m.M10, m.M00)),
		ScaleX:   scaleX,
	}

	if math.Abs(scaleX) > degenerateScale {
		result.ScaleY = determinant / scaleX
		dot := m.M00*m.M01 + m.M10*m.M11
		result.SkewX = degrees(math.Atan(dot / (m.M00*m.M00 + m.M10*m.M10)))
	} else {
		result.ScaleY = math.Sqrt(m.M01*m.M01 + m.M11*m.M11)
	}

	return result
}

// Value returns the decomposition in document form with keys x, y,
// rotation, scaleX, scaleY and skewX. Non-finite components are nil.
func (t CSSTransform) Value() map[string]any {
	return map[string]any{
		"x":        Float(t.X),
		"y":        Float(t.Y),
		"rotation": Float(t.Rotation),
		"scaleX":   Float(t.ScaleX),
		"scaleY":   Float(t.ScaleY),
		"skewX":    Float(t.SkewX),
	}
}

func degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}
