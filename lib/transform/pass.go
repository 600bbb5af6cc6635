// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"fmt"
	"slices"
	"strings"
)

// All selects every pass when given to [Run] or [Select].
const All = "all"

// Pass is one named tree rewrite.
type Pass struct {
	Name    string
	Summary string
	Apply   func(root any)
}

// passes lists every pass in the order [Run] applies them.
var passes = []Pass{
	{"enums", "replace {__enum__, value} objects by the variant name", SimplifyEnums},
	{"matrix", "decompose 2x3 transform matrices into x, y, rotation, scale and skew", DecomposeMatrices},
	{"colors", "replace {r, g, b, a} objects by CSS hex colors", ColorsToCSS},
	{"image-hashes", "replace image hash byte arrays by images/<hex> file names", ImageHashes},
	{"guids", "remove guid fields", RemoveGUIDs},
	{"plugin-data", "remove pluginData fields", RemovePluginData},
	{"default-opacity", "remove opacity fields equal to 1", RemoveDefaultOpacity},
	{"default-visible", "remove visible fields equal to true", RemoveDefaultVisible},
	{"default-rotation", "remove rotation fields equal to 0", RemoveDefaultRotation},
	{"default-blend-mode", "remove blendMode fields equal to NORMAL", RemoveDefaultBlendMode},
	{"empty-objects", "remove empty objects from objects and lists, innermost first", RemoveEmptyObjects},
	{"blobs-removal", "remove the root blobs list", RemoveRootBlobs},
}

// Passes returns every pass in application order.
func Passes() []Pass {
	return slices.Clone(passes)
}

// Names returns the names of every pass in application order.
func Names() []string {
	names := make([]string, len(passes))
	for i, pass := range passes {
		names[i] = pass.Name
	}
	return names
}

// UnknownPassError is returned for a pass name that does not exist.
type UnknownPassError struct {
	Name string
}

func (e *UnknownPassError) Error() string {
	return fmt.Sprintf("unknown pass %q (known: %s)", e.Name, strings.Join(Names(), ", "))
}

// Select resolves names to passes in application order. [All]
// selects every pass; duplicates are ignored.
func Select(names []string) ([]Pass, error) {
	selected := make(map[string]bool, len(names))
	for _, name := range names {
		if name == All {
			return Passes(), nil
		}
		if !slices.ContainsFunc(passes, func(pass Pass) bool { return pass.Name == name }) {
			return nil, &UnknownPassError{Name: name}
		}
		selected[name] = true
	}

	var result []Pass
	for _, pass := range passes {
		if selected[pass.Name] {
			result = append(result, pass)
		}
	}
	return result, nil
}

// Run applies the named passes to root in application order.
func Run(root any, names []string) error {
	selected, err := Select(names)
	if err != nil {
		return err
	}
	for _, pass := range selected {
		pass.Apply(root)
	}
	return nil
}

// walk calls visit on every object in the tree rooted at node, parents
// before children. visit may modify the object it is given; the walk
// descends into the object's values as they are after visit returns.
func walk(node any, visit func(object map[string]any)) {
	switch value := node.(type) {
	case map[string]any:
		visit(value)
		for _, child := range value {
			walk(child, visit)
		}
	case []any:
		for _, child := range value {
			walk(child, visit)
		}
	}
}

// replaceValues rewrites every object field value and list element
// for which replace returns true, without descending into the
// replacement. Other values are descended into.
func replaceValues(node any, replace func(value any) (any, bool)) {
	switch container := node.(type) {
	case map[string]any:
		for key, child := range container {
			if replacement, ok := replace(child); ok {
				container[key] = replacement
				continue
			}
			replaceValues(child, replace)
		}
	case []any:
		for i, child := range container {
			if replacement, ok := replace(child); ok {
				container[i] = replacement
				continue
			}
			replaceValues(child, replace)
		}
	}
}
