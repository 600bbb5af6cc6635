// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/fig2json/lib/document"
	"github.com/bureau-foundation/fig2json/lib/figfile"
	"github.com/bureau-foundation/fig2json/lib/transform"
)

// EnvironmentVariable names the profile file when no --config flag
// is given.
const EnvironmentVariable = "FIG2JSON_CONFIG"

// Output formats.
const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// Output stream compression.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	formats      = []string{FormatJSON, FormatCBOR}
	compressions = []string{CompressionNone, CompressionZstd, CompressionLZ4}
	colors       = []string{ColorAuto, ColorAlways, ColorNever}
)

// Config is a conversion profile.
type Config struct {
	// Output configures how converted documents are written.
	Output OutputConfig `yaml:"output" json:"output"`

	// Passes names the clean-up passes to apply, or "all".
	// Default: all
	Passes []string `yaml:"passes" json:"passes"`

	// Limits bounds memory claimed by a single input.
	Limits LimitsConfig `yaml:"limits" json:"limits"`

	// Jobs is the number of files converted concurrently.
	// Default: 1
	Jobs int `yaml:"jobs" json:"jobs"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths" json:"paths"`
}

// OutputConfig configures the output encoding.
type OutputConfig struct {
	// Format is "json" or "cbor".
	// Default: json
	Format string `yaml:"format" json:"format"`

	// Indent is the JSON indentation unit; empty writes compact
	// JSON. Ignored for CBOR.
	// Default: two spaces
	Indent string `yaml:"indent" json:"indent"`

	// Compression wraps the output stream: "none", "zstd" or "lz4".
	// Default: none
	Compression string `yaml:"compression" json:"compression"`

	// Color controls syntax highlighting of JSON written to a
	// terminal: "auto", "always" or "never".
	// Default: auto
	Color string `yaml:"color" json:"color"`
}

// LimitsConfig bounds decompressed sizes, in bytes.
type LimitsConfig struct {
	// MaxEntrySize caps the canvas.fig or image entry of a ZIP
	// archive.
	MaxEntrySize int64 `yaml:"max_entry_size" json:"max_entry_size"`

	// MaxDecompressedSize caps one decompressed chunk.
	MaxDecompressedSize int64 `yaml:"max_decompressed_size" json:"max_decompressed_size"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Images is the directory the images command extracts into
	// when no --output is given. Empty means the current directory.
	Images string `yaml:"images" json:"images"`
}

// Default returns the built-in profile: indented JSON, every pass,
// default limits, one job.
func Default() *Config {
	limits := figfile.DefaultLimits()
	return &Config{
		Output: OutputConfig{
			Format:      FormatJSON,
			Indent:      "  ",
			Compression: CompressionNone,
			Color:       ColorAuto,
		},
		Passes: []string{transform.All},
		Limits: LimitsConfig{
			MaxEntrySize:        limits.MaxEntrySize,
			MaxDecompressedSize: limits.MaxDecompressedSize,
		},
		Jobs: 1,
	}
}

// Load loads the profile named by FIG2JSON_CONFIG. It fails when the
// variable is not set; see [Resolve] for the fallback to [Default].
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a profile file, or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// Resolve loads the profile named by path, or by FIG2JSON_CONFIG when
// path is empty, or returns [Default] when neither names a file.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	return Default(), nil
}

// LoadFile loads a profile from a specific file. Values in the file
// replace the defaults field by field; the result is validated.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := cfg.decode(path, data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// decode merges data into c, choosing the format by path's extension.
func (c *Config) decode(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		return decoder.Decode(c)
	default:
		return fmt.Errorf("unsupported config extension %q (want .yaml, .yml, .json or .jsonc)", filepath.Ext(path))
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Paths.Images = expandVars(c.Paths.Images, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		defaultValue := parts[2]

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the profile for errors and reports all of them.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(formats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format must be one of: %v", formats))
	}
	if !slices.Contains(compressions, c.Output.Compression) {
		errs = append(errs, fmt.Errorf("output.compression must be one of: %v", compressions))
	}
	if !slices.Contains(colors, c.Output.Color) {
		errs = append(errs, fmt.Errorf("output.color must be one of: %v", colors))
	}
	if strings.Trim(c.Output.Indent, " \t") != "" {
		errs = append(errs, fmt.Errorf("output.indent must contain only spaces and tabs"))
	}

	if _, err := transform.Select(c.Passes); err != nil {
		errs = append(errs, fmt.Errorf("passes: %w", err))
	}

	if c.Limits.MaxEntrySize <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_entry_size must be positive"))
	}
	if c.Limits.MaxDecompressedSize <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_decompressed_size must be positive"))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// FigLimits returns the limits in the form the decoder takes.
func (c *Config) FigLimits() figfile.Limits {
	return figfile.Limits{
		MaxEntrySize:        c.Limits.MaxEntrySize,
		MaxDecompressedSize: c.Limits.MaxDecompressedSize,
	}
}

// ConvertOptions returns decoder options for this profile. The
// caller sets the logger and registry.
func (c *Config) ConvertOptions() document.Options {
	return document.Options{
		Passes: slices.Clone(c.Passes),
		Limits: c.FigLimits(),
	}
}
