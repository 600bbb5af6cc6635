// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package figfile

// Limits bounds the memory a single file may claim while its outer
// layers are decoded.
type Limits struct {
	// MaxEntrySize caps the decompressed size of a ZIP entry.
	MaxEntrySize int64

	// MaxDecompressedSize caps the decompressed size of one chunk.
	MaxDecompressedSize int64
}

// DefaultLimits returns the ceilings used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxEntrySize:        DefaultMaxEntrySize,
		MaxDecompressedSize: DefaultMaxDecompressedSize,
	}
}

// Report describes the container layers of one file without decoding
// the document itself.
type Report struct {
	Zip      bool          `json:"zip"`
	FileType string        `json:"file_type"`
	Version  uint32        `json:"version"`
	Size     int           `json:"size"`
	Digest   string        `json:"digest"`
	Chunks   []ChunkReport `json:"chunks"`
}

// ChunkReport describes one chunk. Error is set, and Digest empty,
// for trailing chunks that neither codec could decode; such chunks
// are opaque payloads and do not make the file invalid.
type ChunkReport struct {
	Index            int    `json:"index"`
	Role             string `json:"role"`
	StoredSize       int    `json:"stored_size"`
	Codec            string `json:"codec"`
	DecompressedSize int    `json:"decompressed_size"`
	Digest           string `json:"digest,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Inspect unwraps, frames and decompresses every chunk of data and
// reports what it found. Failures in the ZIP layer, the header, the
// framing, or the schema and data chunks are returned as errors.
func Inspect(data []byte, limits Limits) (*Report, error) {
	report := &Report{Size: len(data)}

	if IsZipContainer(data) {
		report.Zip = true
		canvas, err := ExtractCanvasLimit(data, limits.MaxEntrySize)
		if err != nil {
			return nil, err
		}
		data = canvas
	}

	fileType, err := DetectFileType(data)
	if err != nil {
		return nil, err
	}
	report.FileType = fileType.String()

	stream, err := ReadChunks(data)
	if err != nil {
		return nil, err
	}
	report.Version = stream.Version

	var digests []Digest
	for index, chunk := range stream.Chunks {
		chunkReport := ChunkReport{
			Index:      index,
			Role:       chunkRole(index),
			StoredSize: len(chunk),
		}

		decompressed, codec, err := Decompress(chunk, limits.MaxDecompressedSize)
		if err != nil {
			if index < minChunkCount {
				return nil, err
			}
			chunkReport.Codec = "undecoded"
			chunkReport.Error = err.Error()
			report.Chunks = append(report.Chunks, chunkReport)
			continue
		}

		digest := HashChunk(decompressed)
		digests = append(digests, digest)
		chunkReport.Codec = codec.String()
		chunkReport.DecompressedSize = len(decompressed)
		chunkReport.Digest = digest.String()
		report.Chunks = append(report.Chunks, chunkReport)
	}
	report.Digest = HashFile(digests).String()

	return report, nil
}

func chunkRole(index int) string {
	switch index {
	case schemaChunkIndex:
		return "schema"
	case dataChunkIndex:
		return "data"
	default:
		return "image"
	}
}
