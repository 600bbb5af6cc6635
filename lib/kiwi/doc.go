// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kiwi decodes the schema-driven binary encoding used for the
// document chunk of a .fig file.
//
// A file carries its own schema in the first chunk. [DecodeSchema]
// parses it into a [Schema] of enum, struct and message definitions;
// [Schema.Decode] then reads a message of the named definition into a
// generic tree of map[string]any, []any and scalars. The tree is the
// input to the rest of the conversion pipeline, so the decoder makes
// the same choices throughout:
//
//   - bool, string, int32 (int), uint32 (uint), uint8 (byte), int64
//     and uint64 keep their Go types.
//   - float becomes float64, or nil when non-finite.
//   - byte arrays become []byte; all other arrays are []any.
//   - enum values become {"__enum__": <enum name>, "value": <variant>}.
//
// Every count read from the input is checked against the bytes that
// remain, and nesting is limited to [MaxDepth], so a hostile chunk
// cannot make the decoder allocate or recurse without bound.
//
// [Schema.Encode] and [Schema.EncodeMessage] are the inverse
// operations, used to build fixtures and to re-encode trees.
package kiwi
