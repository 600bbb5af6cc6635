// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package figfile

import (
	"github.com/bureau-foundation/fig2json/lib/wire"
)

// Chunk roles by position.
const (
	schemaChunkIndex = 0
	dataChunkIndex   = 1

	// minChunkCount is the schema chunk plus the data chunk.
	minChunkCount = 2

	// chunkLengthSize is the width of each chunk's length prefix.
	chunkLengthSize = 4
)

// ChunkStream is the framing layer of a raw container: the format
// version and the still-compressed chunks in file order. Chunks are
// sub-slices of the input passed to [ReadChunks]; they must be
// treated as read-only.
type ChunkStream struct {
	Version uint32
	Chunks  [][]byte
}

// SchemaChunk returns the compressed binary schema.
func (s *ChunkStream) SchemaChunk() []byte {
	return s.Chunks[schemaChunkIndex]
}

// DataChunk returns the compressed document message.
func (s *ChunkStream) DataChunk() []byte {
	return s.Chunks[dataChunkIndex]
}

// ImageChunks returns every chunk after the schema and data chunks.
func (s *ChunkStream) ImageChunks() [][]byte {
	return s.Chunks[minChunkCount:]
}

// ReadChunks parses the version and chunk framing of a raw container.
// data must start with the 8-byte magic, which is skipped without
// being checked (see [DetectFileType]).
//
// Parsing stops silently when fewer than 4 bytes remain: a trailing
// partial length field marks the end of the stream, not corruption.
// A chunk whose declared length exceeds the remaining input fails
// with an [IncompleteChunkError] before anything is allocated.
func ReadChunks(data []byte) (*ChunkStream, error) {
	if len(data) < HeaderSize {
		return nil, &FileTooSmallError{Expected: HeaderSize, Actual: len(data)}
	}

	reader := wire.NewReader(data)
	reader.Skip(MagicSize)
	version, _ := reader.Uint32()

	var chunks [][]byte
	for reader.Len() >= chunkLengthSize {
		lengthOffset := reader.Offset()
		length, _ := reader.Uint32()

		if !reader.Fits(uint64(length), 1) {
			return nil, &IncompleteChunkError{
				Offset:   lengthOffset,
				Expected: int(length),
				Actual:   reader.Len(),
			}
		}
		chunk, _ := reader.Take(int(length))
		chunks = append(chunks, chunk)
	}

	if len(chunks) < minChunkCount {
		return nil, &NotEnoughChunksError{Expected: minChunkCount, Actual: len(chunks)}
	}

	return &ChunkStream{Version: version, Chunks: chunks}, nil
}
