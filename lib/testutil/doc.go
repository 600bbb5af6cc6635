// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil builds synthetic .fig inputs for tests: raw
// containers, compressed chunks, ZIP wrappers, little-endian blob
// payloads, and complete documents with a schema and message.
//
// Every builder takes a testing.TB and fails the test on error, so
// call sites stay one line:
//
//	schema := testutil.Deflate(t, schemaBytes)
//	file := testutil.Container(testutil.MagicFigma, 48, schema, data)
package testutil
