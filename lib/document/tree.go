// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bureau-foundation/fig2json/lib/tree"
)

// RootGUID is the GUID of the document node.
const RootGUID = "0:0"

// Node fields consulted while assembling the tree.
const (
	guidKey        = "guid"
	parentIndexKey = "parentIndex"
	positionKey    = "position"
	childrenKey    = "children"
)

type childEntry struct {
	position string
	guid     string
}

// BuildTree assembles nodeChanges into a tree rooted at the node with
// GUID "0:0" and returns that node. Each node's parentIndex names its
// parent's GUID and a position string; children are ordered by
// position, ties keeping their order in nodeChanges. parentIndex is
// removed from every placed node and a children list added to every
// node that has children.
//
// When several node changes share a GUID the last one wins. Nodes not
// connected to the root are dropped. The nodes are modified in place
// and become part of the returned tree.
func BuildTree(nodeChanges []any) (map[string]any, error) {
	nodes := make(map[string]map[string]any, len(nodeChanges))
	order := make([]string, 0, len(nodeChanges))
	parents := make(map[string]string, len(nodeChanges))
	positions := make(map[string]string, len(nodeChanges))

	for index, change := range nodeChanges {
		node, ok := change.(map[string]any)
		if !ok {
			return nil, &NodeError{Index: index, Reason: fmt.Sprintf("node change is %T, not an object", change)}
		}
		guid, err := formatGUID(node[guidKey])
		if err != nil {
			return nil, &NodeError{Index: index, Reason: "guid: " + err.Error()}
		}

		if _, seen := nodes[guid]; !seen {
			order = append(order, guid)
		}
		nodes[guid] = node
		delete(parents, guid)
		delete(positions, guid)

		parentIndex, hasParent := node[parentIndexKey]
		if !hasParent || guid == RootGUID {
			continue
		}
		parentObject, ok := parentIndex.(map[string]any)
		if !ok {
			return nil, &NodeError{Index: index, Reason: "parentIndex is not an object"}
		}
		parent, err := formatGUID(parentObject[guidKey])
		if err != nil {
			return nil, &NodeError{Index: index, Reason: "parentIndex guid: " + err.Error()}
		}
		position, _ := parentObject[positionKey].(string)
		parents[guid] = parent
		positions[guid] = position
	}

	root, ok := nodes[RootGUID]
	if !ok {
		return nil, ErrNoRoot
	}

	children := make(map[string][]childEntry)
	for _, guid := range order {
		parent, ok := parents[guid]
		if !ok {
			continue
		}
		children[parent] = append(children[parent], childEntry{position: positions[guid], guid: guid})
	}

	// Every node has at most one parent and the root has none, so a
	// walk down from the root visits each node once.
	pending := []map[string]any{root}
	visited := map[string]bool{RootGUID: true}
	for len(pending) > 0 {
		node := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		delete(node, parentIndexKey)

		guid, _ := formatGUID(node[guidKey])
		entries := children[guid]
		if len(entries) == 0 {
			continue
		}
		slices.SortStableFunc(entries, func(a, b childEntry) int {
			return strings.Compare(a.position, b.position)
		})

		list := make([]any, 0, len(entries))
		for _, entry := range entries {
			if visited[entry.guid] {
				continue
			}
			visited[entry.guid] = true
			child := nodes[entry.guid]
			list = append(list, child)
			pending = append(pending, child)
		}
		if len(list) > 0 {
			node[childrenKey] = list
		}
	}

	return root, nil
}

// formatGUID renders a {sessionID, localID} object as "session:local".
func formatGUID(value any) (string, error) {
	object, ok := value.(map[string]any)
	if !ok {
		return "", errors.New("missing or not an object")
	}
	session, ok := tree.Uint(object["sessionID"])
	if !ok {
		return "", fmt.Errorf("invalid sessionID %v", object["sessionID"])
	}
	local, ok := tree.Uint(object["localID"])
	if !ok {
		return "", fmt.Errorf("invalid localID %v", object["localID"])
	}
	return fmt.Sprintf("%d:%d", session, local), nil
}
