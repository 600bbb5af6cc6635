// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/fig2json/lib/blob"
	"github.com/bureau-foundation/fig2json/lib/figfile"
	"github.com/bureau-foundation/fig2json/lib/kiwi"
	"github.com/bureau-foundation/fig2json/lib/transform"
)

// Keys of the output object.
const (
	VersionKey  = "version"
	FileTypeKey = "fileType"
	DocumentKey = "document"
	BlobsKey    = "blobs"
)

// Options controls a conversion. The zero value decodes with default
// limits, resolves the built-in blob roles and applies no passes.
type Options struct {
	// Passes names the clean-up passes to apply; see
	// [transform.Select]. Nil applies none.
	Passes []string

	// Limits bounds decompressed sizes. Zero fields take the
	// defaults from [figfile.DefaultLimits].
	Limits figfile.Limits

	// Registry resolves blob references. If nil, the built-in
	// commands and vectorNetwork roles are used.
	Registry *blob.Registry

	// Logger receives debug progress messages. If nil, a no-op
	// logger is used.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	defaults := figfile.DefaultLimits()
	if o.Limits.MaxEntrySize <= 0 {
		o.Limits.MaxEntrySize = defaults.MaxEntrySize
	}
	if o.Limits.MaxDecompressedSize <= 0 {
		o.Limits.MaxDecompressedSize = defaults.MaxDecompressedSize
	}
	if o.Registry == nil {
		o.Registry = blob.DefaultRegistry()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Result is a converted file.
type Result struct {
	Version  uint32
	FileType figfile.FileType

	// Document is the root node of the assembled tree.
	Document map[string]any

	// Blobs is the blob list with payloads in base64, or nil when
	// the blobs-removal pass ran.
	Blobs []any

	// ImageChunks holds the raw chunks after the schema and data
	// chunks. They alias the input.
	ImageChunks [][]byte
}

// Value returns the output object: version, fileType, document and,
// unless removed, blobs.
func (r *Result) Value() map[string]any {
	value := map[string]any{
		VersionKey:  r.Version,
		FileTypeKey: r.FileType.String(),
		DocumentKey: r.Document,
	}
	if r.Blobs != nil {
		value[BlobsKey] = r.Blobs
	}
	return value
}

// Convert decodes a .fig file, raw or ZIP-wrapped.
func Convert(data []byte, options Options) (*Result, error) {
	options = options.withDefaults()
	logger := options.Logger

	selected, err := transform.Select(options.Passes)
	if err != nil {
		return nil, err
	}

	if figfile.IsZipContainer(data) {
		canvas, err := figfile.ExtractCanvasLimit(data, options.Limits.MaxEntrySize)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", figfile.CanvasEntryName, err)
		}
		logger.Debug("canvas extracted from archive",
			"archive_size", len(data),
			"canvas_size", len(canvas),
		)
		data = canvas
	}

	fileType, err := figfile.DetectFileType(data)
	if err != nil {
		return nil, err
	}
	stream, err := figfile.ReadChunks(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("chunks framed",
		"file_type", fileType.String(),
		"version", stream.Version,
		"chunks", len(stream.Chunks),
	)

	schemaBytes, err := decompress(stream.SchemaChunk(), "schema", options)
	if err != nil {
		return nil, err
	}
	dataBytes, err := decompress(stream.DataChunk(), "data", options)
	if err != nil {
		return nil, err
	}

	schema, err := kiwi.DecodeSchema(schemaBytes)
	if err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	rootIndex, err := kiwi.FindRootMessage(schema)
	if err != nil {
		return nil, err
	}
	message, err := schema.DecodeDefinition(rootIndex, dataBytes)
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	nodeChanges, ok := message["nodeChanges"].([]any)
	if !ok {
		return nil, ErrNoNodeChanges
	}
	blobs, _ := message["blobs"].([]any)
	logger.Debug("document decoded",
		"definitions", len(schema.Definitions),
		"node_changes", len(nodeChanges),
		"blobs", len(blobs),
	)

	document, err := BuildTree(nodeChanges)
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}
	expandByteArrays(document)

	root := map[string]any{
		VersionKey:  stream.Version,
		FileTypeKey: fileType.String(),
		DocumentKey: document,
	}
	if err := resolve(root, blobs, selected, options); err != nil {
		return nil, err
	}

	result := &Result{
		Version:     stream.Version,
		FileType:    fileType,
		Document:    document,
		ImageChunks: stream.ImageChunks(),
	}
	result.Blobs, _ = root[BlobsKey].([]any)
	return result, nil
}

// ConvertTree resolves blob references and applies the selected
// passes to an output object produced without them. root must hold a
// document object; its blobs list may be absent.
func ConvertTree(root map[string]any, options Options) error {
	options = options.withDefaults()
	selected, err := transform.Select(options.Passes)
	if err != nil {
		return err
	}
	if _, ok := root[DocumentKey].(map[string]any); !ok {
		return fmt.Errorf("input has no %q object", DocumentKey)
	}
	blobs, _ := root[BlobsKey].([]any)
	return resolve(root, blobs, selected, options)
}

// resolve substitutes blobs into root's document, stores them in root
// in output form, then applies passes to the whole of root.
func resolve(root map[string]any, blobs []any, passes []transform.Pass, options Options) error {
	if err := options.Registry.Substitute(root[DocumentKey], blobs); err != nil {
		return fmt.Errorf("substituting blobs: %w", err)
	}
	if blobs != nil {
		root[BlobsKey] = blob.EncodeBlobs(blobs)
	} else {
		root[BlobsKey] = []any{}
	}
	for _, pass := range passes {
		pass.Apply(root)
		options.Logger.Debug("pass applied", "pass", pass.Name)
	}
	return nil
}

func decompress(chunk []byte, role string, options Options) ([]byte, error) {
	data, codec, err := figfile.Decompress(chunk, options.Limits.MaxDecompressedSize)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s chunk: %w", role, err)
	}
	options.Logger.Debug("chunk decompressed",
		"chunk", role,
		"codec", codec.String(),
		"stored_size", len(chunk),
		"size", len(data),
	)
	return data, nil
}

// expandByteArrays replaces every []byte in the tree with a list of
// its byte values, the form byte arrays take in document output.
func expandByteArrays(node any) {
	switch value := node.(type) {
	case map[string]any:
		for key, child := range value {
			if raw, ok := child.([]byte); ok {
				value[key] = byteList(raw)
				continue
			}
			expandByteArrays(child)
		}
	case []any:
		for i, child := range value {
			if raw, ok := child.([]byte); ok {
				value[i] = byteList(raw)
				continue
			}
			expandByteArrays(child)
		}
	}
}

func byteList(raw []byte) []any {
	list := make([]any, len(raw))
	for i, b := range raw {
		list[i] = b
	}
	return list
}
