// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tree holds the helpers shared by code that walks a generic
// document tree.
//
// A tree is built from nil, bool, string, []any, map[string]any and
// numbers. Numbers arrive in whatever type their producer chose: the
// binary decoder yields sized Go integers and float64, JSON decoders
// yield float64 or [json.Number] (go-json's Number is an alias of
// it). [Float], [Uint] and [Index] accept all of them so
// transformations need not care where a tree came from.
package tree

import (
	"encoding/json"
	"math"
	"strconv"
)

// Float returns v as a float64 when v is any numeric type.
func Float(v any) (float64, bool) {
	switch number := v.(type) {
	case float64:
		return number, true
	case float32:
		return float64(number), true
	case int:
		return float64(number), true
	case int8:
		return float64(number), true
	case int16:
		return float64(number), true
	case int32:
		return float64(number), true
	case int64:
		return float64(number), true
	case uint:
		return float64(number), true
	case uint8:
		return float64(number), true
	case uint16:
		return float64(number), true
	case uint32:
		return float64(number), true
	case uint64:
		return float64(number), true
	case json.Number:
		return parseFloat(string(number))
	default:
		return 0, false
	}
}

// Uint returns v as a uint64 when v is a non-negative integer, or a
// float or decimal string with an exact non-negative integer value
// below 2^53.
func Uint(v any) (uint64, bool) {
	switch number := v.(type) {
	case int:
		if number < 0 {
			return 0, false
		}
		return uint64(number), true
	case int8:
		if number < 0 {
			return 0, false
		}
		return uint64(number), true
	case int16:
		if number < 0 {
			return 0, false
		}
		return uint64(number), true
	case int32:
		if number < 0 {
			return 0, false
		}
		return uint64(number), true
	case int64:
		if number < 0 {
			return 0, false
		}
		return uint64(number), true
	case uint:
		return uint64(number), true
	case uint8:
		return uint64(number), true
	case uint16:
		return uint64(number), true
	case uint32:
		return uint64(number), true
	case uint64:
		return number, true
	case json.Number:
		if value, err := strconv.ParseUint(string(number), 10, 64); err == nil {
			return value, true
		}
	}

	float, ok := Float(v)
	if !ok || float < 0 || float != math.Trunc(float) || float >= 1<<53 {
		return 0, false
	}
	return uint64(float), true
}

// Index returns v as an int when [Uint] accepts it and the value is
// at most math.MaxInt32.
func Index(v any) (int, bool) {
	value, ok := Uint(v)
	if !ok || value > math.MaxInt32 {
		return 0, false
	}
	return int(value), true
}

func parseFloat(s string) (float64, bool) {
	value, err := strconv.ParseFloat(s, 64)
	return value, err == nil
}
