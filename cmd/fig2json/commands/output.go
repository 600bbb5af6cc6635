// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/fig2json/cmd/fig2json/cli"
	"github.com/bureau-foundation/fig2json/lib/codec"
	"github.com/bureau-foundation/fig2json/lib/config"
)

// stdoutName is the --output value (and input name) for the standard
// streams.
const stdoutName = "-"

// encodeTree serializes value as the profile's output describes:
// JSON or CBOR, optionally wrapped in a compressed stream.
func encodeTree(value any, output config.OutputConfig) ([]byte, error) {
	var buffer bytes.Buffer
	writer, err := codec.NewCompressor(&buffer, output.Compression)
	if err != nil {
		return nil, err
	}

	switch output.Format {
	case config.FormatCBOR:
		err = codec.NewEncoder(writer).Encode(value)
	default:
		err = codec.WriteJSON(writer, value, output.Indent)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", output.Format, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finishing %s stream: %w", output.Compression, err)
	}
	return buffer.Bytes(), nil
}

// isBinary reports whether the encoded output is not text.
func isBinary(output config.OutputConfig) bool {
	return output.Format == config.FormatCBOR ||
		(output.Compression != "" && output.Compression != config.CompressionNone)
}

// outputExtension returns the file extension for encoded output,
// for example ".json" or ".cbor.zst".
func outputExtension(output config.OutputConfig) string {
	extension := ".json"
	if output.Format == config.FormatCBOR {
		extension = ".cbor"
	}
	switch output.Compression {
	case config.CompressionZstd:
		extension += ".zst"
	case config.CompressionLZ4:
		extension += ".lz4"
	}
	return extension
}

// outputPath names the file an input converts to inside directory,
// or next to the input when directory is empty.
func outputPath(input, directory string, output config.OutputConfig) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if directory == "" {
		directory = filepath.Dir(input)
	}
	return filepath.Join(directory, base+outputExtension(output))
}

// writeStdout writes encoded output to stdout, highlighting JSON when
// color is enabled. Binary output is refused on a terminal.
func writeStdout(w io.Writer, data []byte, output config.OutputConfig) error {
	if isBinary(output) {
		if cli.IsTerminal(w) {
			return fmt.Errorf("refusing to write %s output to a terminal; use --output or redirect stdout", outputExtension(output))
		}
		_, err := w.Write(data)
		return err
	}

	color, err := cli.UseColor(output.Color, w)
	if err != nil {
		return err
	}
	if color {
		return cli.Highlight(w, string(data))
	}
	_, err = w.Write(data)
	return err
}

// writeFile writes encoded output to path, creating its directory.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// readInput reads a named input file, or stdin for "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == stdoutName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}
