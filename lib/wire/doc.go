// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire provides the bounds-checked byte cursor shared by every
// binary decoder in fig2json.
//
// All length fields in the .fig container and its blob sub-formats
// come from untrusted input. Decoders never size a buffer or a loop
// from such a field directly: they ask the [Reader] first. [Reader.Take]
// returns a sub-slice only when that many bytes actually remain, and
// [Reader.Fits] answers whether count records of a fixed size could
// possibly be present, so a hostile count like 0xFFFFFFFF fails before
// anything is allocated.
//
// Reads report failure with a boolean rather than an error. The
// container layer turns a failed read into a typed error carrying the
// offset and sizes; the blob decoders treat it as "no result".
package wire
