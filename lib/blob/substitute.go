// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"maps"
	"slices"
	"strings"

	"github.com/bureau-foundation/fig2json/lib/tree"
)

// ReferenceSuffix marks a tree field holding a blob index.
const ReferenceSuffix = "Blob"

// Substitute resolves blob references in root using the default
// registry. See [Registry.Substitute].
func Substitute(root any, blobs []any) error {
	return defaultRegistry.Substitute(root, blobs)
}

// Substitute walks root depth-first. In every object, each field
// named "<role>Blob" whose value is a valid index into blobs is
// decoded as role; when decoding yields a value, the field is
// replaced by one named role. All replacements of an object are
// computed before any is applied, then every child value is visited.
//
// Only a failure to extract a referenced blob's bytes is an error; it
// stops the walk and is returned as a [*ReferenceError].
func (r *Registry) Substitute(root any, blobs []any) error {
	switch node := root.(type) {
	case map[string]any:
		if err := r.substituteFields(node, blobs); err != nil {
			return err
		}
		for _, child := range node {
			if err := r.Substitute(child, blobs); err != nil {
				return err
			}
		}
	case []any:
		for _, child := range node {
			if err := r.Substitute(child, blobs); err != nil {
				return err
			}
		}
	}
	return nil
}

type replacement struct {
	oldKey string
	newKey string
	value  any
}

func (r *Registry) substituteFields(object map[string]any, blobs []any) error {
	var replacements []replacement

	// Sorted so that the first fatal error is the same on every run.
	for _, key := range slices.Sorted(maps.Keys(object)) {
		// A bare "Blob" key names no role and its blob is never read.
		role, isReference := strings.CutSuffix(key, ReferenceSuffix)
		if !isReference || role == "" {
			continue
		}
		index, ok := tree.Index(object[key])
		if !ok || index >= len(blobs) {
			continue
		}

		value, ok, err := r.DecodeBlob(role, blobs[index])
		if err != nil {
			return &ReferenceError{Key: key, Index: index, Err: err}
		}
		if ok {
			replacements = append(replacements, replacement{oldKey: key, newKey: role, value: value})
		}
	}

	for _, change := range replacements {
		delete(object, change.oldKey)
		object[change.newKey] = change.value
	}
	return nil
}
