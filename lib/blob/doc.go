// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package blob resolves blob references in a document tree.
//
// A document stores large binary payloads out of line in a root
// "blobs" list. Nodes refer to them through integer fields named
// "<role>Blob", where the role (for example "commands" or
// "vectorNetwork") says how the bytes are to be interpreted.
// [Substitute] walks a tree and replaces every reference whose role
// is understood with the decoded structure under the bare role name.
//
// Failure has two tiers. Extracting a blob's bytes can fail fatally
// (a blob without a "bytes" field, invalid base64, a "bytes" value of
// the wrong type); these errors abort the walk. Decoding the bytes of
// a known role can only fail softly: an unknown role, an out-of-range
// index or a malformed payload leaves the reference exactly as it
// was.
package blob
