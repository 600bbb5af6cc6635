// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package document converts a .fig file into a generic document tree.
//
// [Convert] runs the whole pipeline:
//
//  1. unwrap the ZIP archive, if any, and check the header magic
//  2. frame the chunk stream and decompress the schema and data chunks
//  3. decode the binary schema and the root message
//  4. assemble the flat nodeChanges list into a tree ([BuildTree])
//  5. resolve blob references in the tree
//  6. apply the selected clean-up passes
//
// Steps 1 to 5 fail the conversion on malformed input. Within step 5,
// a blob that cannot be interpreted is left as a reference, so one
// unusual node never costs the rest of the document.
//
// [ConvertTree] runs steps 5 and 6 alone, on the output of an earlier
// conversion that was saved without them.
package document
