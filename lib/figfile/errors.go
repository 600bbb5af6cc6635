// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package figfile

import (
	"errors"
	"fmt"
)

// ErrCanvasNotFound is returned by [ExtractCanvas] when the archive
// opened cleanly but holds no entry named canvas.fig.
var ErrCanvasNotFound = errors.New("canvas.fig not found in ZIP archive")

// FileTooSmallError reports input shorter than a fixed minimum: the
// 8-byte magic for [DetectFileType], or magic plus version (12 bytes)
// for [ReadChunks].
type FileTooSmallError struct {
	Expected int
	Actual   int
}

func (e *FileTooSmallError) Error() string {
	return fmt.Sprintf("file too small: expected at least %d bytes, found %d", e.Expected, e.Actual)
}

// InvalidMagicError reports an 8-byte header matching neither known
// document type.
type InvalidMagicError struct {
	Header []byte
}

func (e *InvalidMagicError) Error() string {
	return fmt.Sprintf("invalid magic header: expected %q or %q, found %q", magicFigma, magicFigJam, e.Header)
}

// IncompleteChunkError reports a chunk whose declared length runs
// past the end of the input. Offset is the position of the chunk's
// length field, Expected the declared length, and Actual the number
// of bytes that follow the length field.
type IncompleteChunkError struct {
	Offset   int
	Expected int
	Actual   int
}

func (e *IncompleteChunkError) Error() string {
	return fmt.Sprintf("incomplete chunk at offset %d: expected %d bytes, found %d", e.Offset, e.Expected, e.Actual)
}

// NotEnoughChunksError reports a container with fewer chunks than the
// schema and data chunks every document needs.
type NotEnoughChunksError struct {
	Expected int
	Actual   int
}

func (e *NotEnoughChunksError) Error() string {
	return fmt.Sprintf("not enough chunks: expected at least %d, found %d", e.Expected, e.Actual)
}

// ZipError reports a ZIP archive that could not be opened or read.
// It is distinct from [ErrCanvasNotFound], which means the archive
// itself is fine.
type ZipError struct {
	Err error
}

func (e *ZipError) Error() string {
	return fmt.Sprintf("ZIP extraction failed: %v", e.Err)
}

func (e *ZipError) Unwrap() error { return e.Err }

// DecompressError reports a chunk that neither codec could decode.
// Both underlying errors are kept so errors.Is and errors.As see
// through to either.
type DecompressError struct {
	Deflate error
	Zstd    error
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("failed to decompress chunk (tried both %s and %s): %s: %v; %s: %v",
		CodecDeflate, CodecZstd, CodecDeflate, e.Deflate, CodecZstd, e.Zstd)
}

func (e *DecompressError) Unwrap() []error {
	return []error{e.Deflate, e.Zstd}
}

// SizeLimitError reports decompressed (or extracted) output larger
// than the configured ceiling.
type SizeLimitError struct {
	What  string
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("%s exceeds size limit of %d bytes", e.What, e.Limit)
}
