// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"errors"
	"fmt"
)

// ErrMissingBytes is returned when a blob is not an object or has no
// "bytes" field.
var ErrMissingBytes = errors.New("blob has no bytes field")

// Base64Error is returned when a blob's "bytes" string is not valid
// standard base64.
type Base64Error struct {
	Err error
}

func (e *Base64Error) Error() string {
	return fmt.Sprintf("blob bytes are not valid base64: %v", e.Err)
}

func (e *Base64Error) Unwrap() error {
	return e.Err
}

// BytesTypeError is returned when a blob's "bytes" field is neither a
// string nor an array.
type BytesTypeError struct {
	// Type is the Go type of the offending value.
	Type string
}

func (e *BytesTypeError) Error() string {
	return fmt.Sprintf("blob bytes field is neither string nor array (found %s)", e.Type)
}

// ReferenceError wraps a fatal extraction error with the tree field
// that referenced the blob.
type ReferenceError struct {
	Key   string
	Index int
	Err   error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("resolving %s (blob %d): %v", e.Key, e.Index, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}
