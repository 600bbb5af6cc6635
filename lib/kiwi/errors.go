// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiwi

import (
	"errors"
	"fmt"
)

// ErrNoRootMessage is returned by [FindRootMessage] when no message
// definition looks like a document root.
var ErrNoRootMessage = errors.New("schema has no root Message definition with nodeChanges and blobs")

// SchemaError reports a malformed binary schema.
type SchemaError struct {
	Offset int
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("kiwi schema at offset %d: %s", e.Offset, e.Reason)
}

// DecodeError reports a message that does not match its schema.
// Path names the field being decoded, dotted from the root
// definition.
type DecodeError struct {
	Offset int
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("kiwi decode at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("kiwi decode of %s at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// EncodeError reports a value that cannot be encoded with a schema.
type EncodeError struct {
	Path   string
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("kiwi encode of %s: %s", e.Path, e.Reason)
}
