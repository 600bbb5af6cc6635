// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Stream compression names.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

// Frame magic numbers, as they appear at the start of a stream.
var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// nopCloser adapts a writer that needs no finishing.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewCompressor returns a writer that compresses into w with the
// named codec ("none", "zstd" or "lz4", empty meaning none). Close
// must be called to flush the final frame; it does not close w.
func NewCompressor(w io.Writer, compression string) (io.WriteCloser, error) {
	switch compression {
	case "", CompressionNone:
		return nopCloser{w}, nil
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return encoder, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown compression %q (want none, zstd or lz4)", compression)
	}
}

// Decompress undoes [NewCompressor]: a zstd or lz4 frame stream,
// recognized by its magic number, is decompressed, up to limit bytes.
// Anything else is returned unchanged.
func Decompress(data []byte, limit int64) ([]byte, error) {
	var reader io.Reader
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		decoder, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer decoder.Close()
		reader = decoder
	case bytes.HasPrefix(data, lz4Magic):
		reader = lz4.NewReader(bytes.NewReader(data))
	default:
		return data, nil
	}

	output, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, fmt.Errorf("decompressing input: %w", err)
	}
	if int64(len(output)) > limit {
		return nil, fmt.Errorf("decompressed input exceeds %d bytes", limit)
	}
	return output, nil
}

// DecodeTree reads a tree written by this package: optionally
// compressed, then CBOR or JSON. A top-level CBOR map is told apart
// from JSON by its first byte, which no JSON text starts with.
func DecodeTree(data []byte, limit int64) (any, error) {
	data, err := Decompress(data, limit)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 && isCBORMap(data[0]) {
		var value any
		if err := Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("decoding CBOR: %w", err)
		}
		return value, nil
	}
	return ParseJSON(data)
}

// isCBORMap reports whether b starts a CBOR map (major type 5).
func isCBORMap(b byte) bool {
	return b>>5 == 5
}
