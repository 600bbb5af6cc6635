// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"

	"github.com/bureau-foundation/fig2json/lib/kiwi"
)

// Type indexes of the definitions in [DocumentSchema].
const (
	typeNodeType kiwi.Type = iota
	typeBlendMode
	typeGUID
	typeParentIndex
	typeColor
	typeMatrix
	typeImage
	typePaint
	typePath
	typeVectorData
	typeNodeChange
	typeBlob
)

// DocumentSchema returns a small schema with the shape of a real
// document schema: a root Message with nodeChanges and blobs, node
// changes carrying GUIDs, parent indexes, transforms, paints and blob
// references.
func DocumentSchema(t testing.TB) *kiwi.Schema {
	t.Helper()
	message := func(name string, fields ...kiwi.Field) kiwi.Definition {
		for i := range fields {
			fields[i].Value = uint32(i + 1)
		}
		return kiwi.Definition{Name: name, Kind: kiwi.KindMessage, Fields: fields}
	}
	structure := func(name string, fields ...kiwi.Field) kiwi.Definition {
		return kiwi.Definition{Name: name, Kind: kiwi.KindStruct, Fields: fields}
	}
	enum := func(name string, variants ...string) kiwi.Definition {
		fields := make([]kiwi.Field, len(variants))
		for i, variant := range variants {
			fields[i] = kiwi.Field{Name: variant, Value: uint32(i)}
		}
		return kiwi.Definition{Name: name, Kind: kiwi.KindEnum, Fields: fields}
	}
	field := func(name string, t kiwi.Type) kiwi.Field {
		return kiwi.Field{Name: name, Type: t}
	}
	array := func(name string, t kiwi.Type) kiwi.Field {
		return kiwi.Field{Name: name, Type: t, IsArray: true}
	}

	schema, err := kiwi.NewSchema([]kiwi.Definition{
		enum("NodeType", "NONE", "DOCUMENT", "CANVAS", "FRAME", "GROUP", "VECTOR", "RECTANGLE"),
		enum("BlendMode", "PASS_THROUGH", "NORMAL", "DARKEN", "MULTIPLY"),
		structure("GUID", field("sessionID", kiwi.TypeUint), field("localID", kiwi.TypeUint)),
		message("ParentIndex", field("guid", typeGUID), field("position", kiwi.TypeString)),
		structure("Color",
			field("r", kiwi.TypeFloat), field("g", kiwi.TypeFloat),
			field("b", kiwi.TypeFloat), field("a", kiwi.TypeFloat)),
		structure("Matrix",
			field("m00", kiwi.TypeFloat), field("m01", kiwi.TypeFloat), field("m02", kiwi.TypeFloat),
			field("m10", kiwi.TypeFloat), field("m11", kiwi.TypeFloat), field("m12", kiwi.TypeFloat)),
		message("Image", array("hash", kiwi.TypeByte), field("name", kiwi.TypeString)),
		message("Paint",
			field("color", typeColor), field("opacity", kiwi.TypeFloat),
			field("visible", kiwi.TypeBool), field("blendMode", typeBlendMode),
			field("image", typeImage)),
		message("Path", field("commandsBlob", kiwi.TypeUint)),
		message("VectorData", field("vectorNetworkBlob", kiwi.TypeUint)),
		message("NodeChange",
			field("guid", typeGUID), field("parentIndex", typeParentIndex),
			field("type", typeNodeType), field("name", kiwi.TypeString),
			field("visible", kiwi.TypeBool), field("opacity", kiwi.TypeFloat),
			field("blendMode", typeBlendMode), field("transform", typeMatrix),
			array("fillPaints", typePaint), array("fillGeometry", typePath),
			field("vectorData", typeVectorData)),
		message("Blob", array("bytes", kiwi.TypeByte)),
		message("Message",
			field("type", kiwi.TypeUint), field("sessionID", kiwi.TypeUint),
			array("nodeChanges", typeNodeChange), array("blobs", typeBlob)),
	})
	if err != nil {
		t.Fatalf("building document schema: %v", err)
	}
	return schema
}

// EncodeDocument encodes nodeChanges and blobs with [DocumentSchema]
// and returns the schema chunk and data chunk, both uncompressed. A
// nil list leaves its field out of the message; an empty non-nil list
// is encoded with length zero.
func EncodeDocument(t testing.TB, nodeChanges, blobs []any) (schemaChunk, dataChunk []byte) {
	t.Helper()
	schema := DocumentSchema(t)
	message := map[string]any{"type": 1}
	if nodeChanges != nil {
		message["nodeChanges"] = nodeChanges
	}
	if blobs != nil {
		message["blobs"] = blobs
	}
	data, err := schema.EncodeMessage("Message", message)
	if err != nil {
		t.Fatalf("encoding document message: %v", err)
	}
	return schema.Encode(), data
}

// FigFile builds a complete raw container: the schema chunk
// compressed with DEFLATE, the data chunk with zstd, followed by any
// extra chunks as given.
func FigFile(t testing.TB, magic string, version uint32, nodeChanges, blobs []any, extra ...[]byte) []byte {
	t.Helper()
	schemaChunk, dataChunk := EncodeDocument(t, nodeChanges, blobs)
	chunks := append([][]byte{Deflate(t, schemaChunk), Zstd(t, dataChunk)}, extra...)
	return Container(magic, version, chunks...)
}

// GUID returns a GUID object.
func GUID(session, local uint32) map[string]any {
	return map[string]any{"sessionID": session, "localID": local}
}

// Child returns a parentIndex object placing a node under parent at
// position.
func Child(parent map[string]any, position string) map[string]any {
	return map[string]any{"guid": parent, "position": position}
}

// SampleNodes returns the node changes of a small document, in
// deliberately shuffled order: the document root, a page, and on the
// page a frame (position "b") and a vector (position "a") whose
// geometry refers to blobs 0 and 1 of [SampleBlobs].
func SampleNodes() []any {
	return []any{
		map[string]any{
			"guid":        GUID(1, 2),
			"parentIndex": Child(GUID(0, 1), "b"),
			"type":        "FRAME",
			"name":        "Frame",
			"visible":     true,
			"opacity":     1.0,
			"blendMode":   "NORMAL",
			"transform": map[string]any{
				"m00": 1.0, "m01": 0.0, "m02": 248.0,
				"m10": 0.0, "m11": 1.0, "m12": -7.0,
			},
			"fillPaints": []any{
				map[string]any{
					"color":   map[string]any{"r": 1.0, "g": 0.0, "b": 0.0, "a": 1.0},
					"opacity": 1.0,
					"visible": true,
				},
				map[string]any{
					"image": map[string]any{"hash": []byte{0x60, 0x49, 0xa1, 0x7a}, "name": "photo"},
				},
			},
		},
		map[string]any{
			"guid": GUID(0, 0),
			"type": "DOCUMENT",
			"name": "Document",
		},
		map[string]any{
			"guid":         GUID(1, 3),
			"parentIndex":  Child(GUID(0, 1), "a"),
			"type":         "VECTOR",
			"name":         "Vector",
			"opacity":      0.5,
			"fillGeometry": []any{map[string]any{"commandsBlob": 0}},
			"vectorData":   map[string]any{"vectorNetworkBlob": 1},
		},
		map[string]any{
			"guid":        GUID(0, 1),
			"parentIndex": Child(GUID(0, 0), "!"),
			"type":        "CANVAS",
			"name":        "Page 1",
		},
	}
}

// SampleCommands is the path of blob 0 of [SampleBlobs]:
// M 10 20 L 30 40 Z.
func SampleCommands() []byte {
	return Concat(
		[]byte{1}, Float32LE(10, 20),
		[]byte{2}, Float32LE(30, 40),
		[]byte{0},
	)
}

// SampleNetwork is the vector network of blob 1 of [SampleBlobs]: two
// vertices joined by one straight segment, no regions.
func SampleNetwork() []byte {
	return Concat(
		Uint32LE(2, 1, 0),
		Uint32LE(0), Float32LE(10, 20),
		Uint32LE(0), Float32LE(30, 40),
		Uint32LE(0, 0), Float32LE(0, 0),
		Uint32LE(1), Float32LE(0, 0),
	)
}

// SampleBlobs returns the blobs referenced by [SampleNodes].
func SampleBlobs() []any {
	return []any{
		map[string]any{"bytes": SampleCommands()},
		map[string]any{"bytes": SampleNetwork()},
	}
}
