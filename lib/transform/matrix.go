// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"github.com/bureau-foundation/fig2json/lib/geometry"
	"github.com/bureau-foundation/fig2json/lib/tree"
)

// transformKey is the field holding a node's affine transform.
const transformKey = "transform"

var matrixKeys = [6]string{"m00", "m01", "m02", "m10", "m11", "m12"}

// DecomposeMatrices replaces every "transform" object carrying all six
// numeric matrix coefficients with its decomposition (x, y, rotation,
// scaleX, scaleY, skewX). Transforms lacking a coefficient, or with a
// non-numeric one, are left alone; so are transforms that were already
// decomposed, since the decomposition has no coefficient keys.
func DecomposeMatrices(root any) {
	walk(root, func(object map[string]any) {
		transform, ok := object[transformKey].(map[string]any)
		if !ok {
			return
		}
		matrix, ok := matrixFrom(transform)
		if !ok {
			return
		}
		object[transformKey] = geometry.Decompose(matrix).Value()
	})
}

func matrixFrom(object map[string]any) (geometry.Matrix, bool) {
	var coefficients [6]float64
	for i, key := range matrixKeys {
		raw, present := object[key]
		if !present {
			return geometry.Matrix{}, false
		}
		value, ok := tree.Float(raw)
		if !ok {
			return geometry.Matrix{}, false
		}
		coefficients[i] = value
	}
	return geometry.Matrix{
		M00: coefficients[0], M01: coefficients[1], M02: coefficients[2],
		M10: coefficients[3], M11: coefficients[4], M12: coefficients[5],
	}, true
}
