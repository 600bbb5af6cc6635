// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package figfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// Codec identifies how a chunk was stored. Containers carry no codec
// tag; the value is inferred by trial during decompression.
type Codec uint8

const (
	// CodecNone is a chunk stored as-is. Only PNG and JPEG payloads
	// are recognized as already compressed.
	CodecNone Codec = iota

	// CodecDeflate is raw DEFLATE (RFC 1951, no zlib or gzip
	// wrapper). Default compressor of older format versions.
	CodecDeflate

	// CodecZstd is a Zstandard frame. Default compressor of newer
	// format versions.
	CodecZstd
)

// String returns the human-readable name of a codec.
func (codec Codec) String() string {
	switch codec {
	case CodecNone:
		return "none"
	case CodecDeflate:
		return "deflate"
	case CodecZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(codec))
	}
}

// DefaultMaxDecompressedSize bounds the output of a single chunk.
// Real documents stay far below it; a compression bomb does not.
const DefaultMaxDecompressedSize int64 = 2 << 30

// Signatures of payloads that are stored without a second layer of
// compression.
var (
	pngSignature  = []byte{137, 80}
	jpegSignature = []byte{255, 216}
)

// IsAlreadyCompressed reports whether chunk starts with a PNG or JPEG
// signature.
func IsAlreadyCompressed(chunk []byte) bool {
	return bytes.HasPrefix(chunk, pngSignature) || bytes.HasPrefix(chunk, jpegSignature)
}

// DecompressChunk decompresses one chunk with the default size
// ceiling. See [Decompress].
func DecompressChunk(chunk []byte) ([]byte, error) {
	data, _, err := Decompress(chunk, DefaultMaxDecompressedSize)
	return data, err
}

// Decompress decodes one chunk and reports the codec that succeeded.
// PNG and JPEG payloads are returned unchanged with [CodecNone]. Any
// other chunk is tried as raw DEFLATE and, if that fails for any
// reason, as zstd. When both fail the result is a [DecompressError]
// holding both causes. Output beyond limit bytes counts as a failure
// of the codec producing it.
func Decompress(chunk []byte, limit int64) ([]byte, Codec, error) {
	if IsAlreadyCompressed(chunk) {
		return chunk, CodecNone, nil
	}

	data, deflateErr := decompressDeflate(chunk, limit)
	if deflateErr == nil {
		return data, CodecDeflate, nil
	}

	data, zstdErr := decompressZstd(chunk, limit)
	if zstdErr == nil {
		return data, CodecZstd, nil
	}

	return nil, CodecNone, &DecompressError{Deflate: deflateErr, Zstd: zstdErr}
}

func decompressDeflate(chunk []byte, limit int64) ([]byte, error) {
	reader := flate.NewReader(bytes.NewReader(chunk))
	defer reader.Close()

	data, err := readLimited(reader, limit, "deflate output")
	if err != nil {
		return nil, fmt.Errorf("deflate decompress: %w", err)
	}
	return data, nil
}

func decompressZstd(chunk []byte, limit int64) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(chunk),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := readLimited(decoder, limit, "zstd output")
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return data, nil
}

// readLimited reads r to EOF, failing once more than limit bytes
// have been produced.
func readLimited(r io.Reader, limit int64, what string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &SizeLimitError{What: what, Limit: limit}
	}
	return data, nil
}
