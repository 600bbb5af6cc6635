// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package figfile reads the outer layers of a .fig design file: the
// optional ZIP wrapper, the 8-byte magic header, the length-prefixed
// chunk framing, and the per-chunk compression.
//
// A .fig file on disk is one of two things:
//
//   - A raw container: "fig-kiwi" (Figma) or "fig-jam." (FigJam),
//     a little-endian uint32 format version, then a sequence of
//     {uint32 length, length bytes} chunks. Chunk 0 is the binary
//     schema, chunk 1 the encoded document, and any further chunks
//     are opaque payloads (usually images).
//   - A ZIP archive holding the raw container as "canvas.fig",
//     alongside an images/ directory and metadata.
//
// Each chunk is compressed independently. Older files use raw
// DEFLATE, newer ones zstd, and there is no per-chunk tag saying
// which: [DecompressChunk] tries DEFLATE first and falls back to
// zstd. Chunks that already start with a PNG or JPEG signature are
// returned untouched.
//
// Every failure here is fatal for the file being converted and is
// reported as a typed error ([FileTooSmallError],
// [IncompleteChunkError], [NotEnoughChunksError], [DecompressError],
// ...) carrying the offsets and sizes needed to diagnose the input.
// Length fields are validated against the remaining input before any
// buffer is sized from them, so a corrupt header cannot trigger a
// large allocation.
//
// Typical use:
//
//	if figfile.IsZipContainer(data) {
//	    data, err = figfile.ExtractCanvas(data)
//	}
//	fileType, err := figfile.DetectFileType(data)
//	stream, err := figfile.ReadChunks(data)
//	schema, err := figfile.DecompressChunk(stream.SchemaChunk())
package figfile
