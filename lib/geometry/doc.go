// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package geometry decodes the binary geometry payloads carried in
// document blobs and decomposes affine transforms.
//
// Two blob layouts are understood. Path command streams
// ([DecodeCommands]) are a sequence of one-byte opcodes, each
// followed by a fixed number of little-endian float32 coordinates.
// Vector networks ([DecodeVectorNetwork]) are a header of three
// uint32 counts followed by vertex, segment and region records, with
// every cross-reference validated.
//
// Both decoders treat their input as untrusted: every length read
// from the payload is checked against the bytes remaining before
// anything is allocated, and malformed input yields (nil, false)
// rather than a partial result. They never return errors; a blob that
// cannot be decoded is simply left in its encoded form by the caller.
//
// Decoded values expose a generic form (Flatten, Value) built from
// []any and map[string]any so they can be spliced into a document
// tree. Non-finite floats become nil in that form, which encoders
// render as JSON null.
package geometry
