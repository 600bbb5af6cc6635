// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec serializes converted document trees.
//
// A converted document is a generic tree of map[string]any, []any and
// scalars. It can be written in two formats:
//
//   - JSON, through goccy/go-json, compact or indented. HTML
//     characters are not escaped: the output is data, not markup.
//   - CBOR, with Core Deterministic Encoding (RFC 8949 §4.2): sorted
//     map keys, smallest integer encoding, no indefinite-length
//     items. The same tree always produces identical bytes.
//
// Either format may be wrapped in a zstd or lz4 frame stream
// ([NewCompressor]); [Decompress] recognizes both frame formats by
// their magic numbers, so trees written with compression can be read
// back without naming the codec.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(tree)
//	tree, err := codec.DecodeTree(data)
//
// For streams:
//
//	err := codec.WriteJSON(w, tree, "  ")
//	encoder := codec.NewEncoder(w)
package codec
