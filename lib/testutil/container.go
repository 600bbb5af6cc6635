// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// Magic headers accepted by the container reader.
const (
	MagicFigma  = "fig-kiwi"
	MagicFigJam = "fig-jam."
)

// Container frames chunks behind an 8-byte magic and a version, the
// way a raw .fig file stores them.
func Container(magic string, version uint32, chunks ...[]byte) []byte {
	var buffer bytes.Buffer
	buffer.WriteString(magic)
	buffer.Write(Uint32LE(version))
	for _, chunk := range chunks {
		buffer.Write(Uint32LE(uint32(len(chunk))))
		buffer.Write(chunk)
	}
	return buffer.Bytes()
}

// Deflate compresses data as raw DEFLATE with no zlib wrapper.
func Deflate(t testing.TB, data []byte) []byte {
	t.Helper()
	var buffer bytes.Buffer
	writer, err := flate.NewWriter(&buffer, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("creating deflate writer: %v", err)
	}
	if _, err := writer.Write(data); err != nil {
		t.Fatalf("deflate write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("deflate close: %v", err)
	}
	return buffer.Bytes()
}

// Zstd compresses data as a single zstd frame.
func Zstd(t testing.TB, data []byte) []byte {
	t.Helper()
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		t.Fatalf("creating zstd encoder: %v", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil)
}

// ZipEntry is one file of an archive built by [Zip].
type ZipEntry struct {
	Name string
	Data []byte
}

// Zip builds a ZIP archive holding entries in order, each stored
// with DEFLATE.
func Zip(t testing.TB, entries ...ZipEntry) []byte {
	t.Helper()
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	for _, entry := range entries {
		file, err := writer.Create(entry.Name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", entry.Name, err)
		}
		if _, err := file.Write(entry.Data); err != nil {
			t.Fatalf("writing zip entry %s: %v", entry.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	return buffer.Bytes()
}

// Uint32LE encodes values as consecutive little-endian uint32s.
func Uint32LE(values ...uint32) []byte {
	out := make([]byte, 4*len(values))
	for i, value := range values {
		binary.LittleEndian.PutUint32(out[i*4:], value)
	}
	return out
}

// Float32LE encodes values as consecutive little-endian float32s.
func Float32LE(values ...float32) []byte {
	out := make([]byte, 4*len(values))
	for i, value := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(value))
	}
	return out
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
