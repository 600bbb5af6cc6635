// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"fmt"
)

// ErrNoNodeChanges is returned when the decoded root message has no
// nodeChanges list.
var ErrNoNodeChanges = errors.New("decoded message has no nodeChanges list")

// ErrNoRoot is returned when no node has the document root's GUID.
var ErrNoRoot = errors.New("no node with root guid " + RootGUID)

// NodeError reports a node change that cannot be placed in the tree.
type NodeError struct {
	// Index is the position of the node in nodeChanges.
	Index  int
	Reason string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node change %d: %s", e.Index, e.Reason)
}
