// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads conversion profiles for fig2json.
//
// A profile is read from a single file named either by the
// FIG2JSON_CONFIG environment variable or by a --config flag. There
// is no search path and no ~/.config discovery: when neither names a
// file, the built-in [Default] profile is used unchanged. Command-line
// flags override individual profile values after loading.
//
// Profiles are YAML (.yaml, .yml) or JSONC (.json, .jsonc: JSON with
// comments and trailing commas), chosen by file extension. Unknown
// keys are rejected in both formats so that a misspelled option fails
// loudly instead of being ignored.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- output format, passes, limits and worker count
//   - [Default] -- the profile used when no file is named
//   - [Load], [LoadFile] and [Resolve] -- the entry points for loading
package config
