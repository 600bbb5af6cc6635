// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transform holds the clean-up passes applied to a converted
// document before it is written out.
//
// Each pass is a function over the generic tree (map[string]any,
// []any and scalars) that rewrites it in place. Passes are
// independent and idempotent; [Run] applies a selection of them in a
// fixed order, so selecting passes never changes what any one of them
// sees from the others. The order matters in a few places: enums are
// simplified before the blend-mode default is recognized, and empty
// objects are removed after the other removals have had a chance to
// empty them.
//
// Matrix decomposition ([DecomposeMatrices]) is a pass like the rest.
package transform
