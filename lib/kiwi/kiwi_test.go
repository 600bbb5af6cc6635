// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiwi

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

// documentSchema is a cut-down document schema: an enum, two structs
// and three messages, one of them the root.
func documentSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := NewSchema([]Definition{
		{Name: "NodeType", Kind: KindEnum, Fields: []Field{
			{Name: "DOCUMENT", Value: 0},
			{Name: "CANVAS", Value: 1},
			{Name: "FRAME", Value: 4},
		}},
		{Name: "GUID", Kind: KindStruct, Fields: []Field{
			{Name: "sessionID", Type: TypeUint},
			{Name: "localID", Type: TypeUint},
		}},
		{Name: "Color", Kind: KindStruct, Fields: []Field{
			{Name: "r", Type: TypeFloat},
			{Name: "g", Type: TypeFloat},
			{Name: "b", Type: TypeFloat},
			{Name: "a", Type: TypeFloat},
		}},
		{Name: "NodeChange", Kind: KindMessage, Fields: []Field{
			{Name: "guid", Type: 1, Value: 1},
			{Name: "type", Type: 0, Value: 2},
			{Name: "name", Type: TypeString, Value: 3},
			{Name: "visible", Type: TypeBool, Value: 4},
			{Name: "opacity", Type: TypeFloat, Value: 5},
			{Name: "color", Type: 2, Value: 6},
			{Name: "offset", Type: TypeInt, Value: 7},
			{Name: "tags", Type: TypeString, IsArray: true, Value: 8},
			{Name: "mask", Type: TypeByte, Value: 9},
		}},
		{Name: "Blob", Kind: KindMessage, Fields: []Field{
			{Name: "bytes", Type: TypeByte, IsArray: true, Value: 1},
		}},
		{Name: "Message", Kind: KindMessage, Fields: []Field{
			{Name: "type", Type: TypeUint, Value: 1},
			{Name: "nodeChanges", Type: 3, IsArray: true, Value: 2},
			{Name: "blobs", Type: 4, IsArray: true, Value: 3},
			{Name: "sequence", Type: TypeInt64, Value: 4},
			{Name: "checksum", Type: TypeUint64, Value: 5},
		}},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return schema
}

func TestSchemaRoundTrip(t *testing.T) {
	schema := documentSchema(t)

	decoded, err := DecodeSchema(schema.Encode())
	if err != nil {
		t.Fatalf("DecodeSchema: %v", err)
	}
	if !reflect.DeepEqual(decoded.Definitions, schema.Definitions) {
		t.Errorf("decoded definitions differ:\n got %+v\nwant %+v", decoded.Definitions, schema.Definitions)
	}
	if index, ok := decoded.Definition("NodeChange"); !ok || index != 3 {
		t.Errorf("Definition(NodeChange) = %d, %v", index, ok)
	}
	if name := decoded.TypeName(TypeFloat); name != "float" {
		t.Errorf("TypeName(float) = %q", name)
	}
	if name := decoded.TypeName(2); name != "Color" {
		t.Errorf("TypeName(2) = %q", name)
	}
}

func TestDecodeSchemaHandEncoded(t *testing.T) {
	// One message "M" with a single field "x" of type int (zigzag of
	// -3 is 5), not an array, id 1.
	data := []byte{
		1,
		'M', 0, 2, 1,
		'x', 0, 5, 0, 1,
	}
	schema, err := DecodeSchema(data)
	if err != nil {
		t.Fatalf("DecodeSchema: %v", err)
	}
	want := Field{Name: "x", Type: TypeInt, Value: 1}
	if got := schema.Definitions[0].Fields[0]; got != want {
		t.Errorf("field = %+v, want %+v", got, want)
	}
}

func TestDecodeSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"huge definition count", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F, 'A', 0, 1, 0}},
		{"unterminated name", []byte{1, 'A', 'B'}},
		{"huge field count", []byte{1, 'A', 0, 1, 0xFF, 0xFF, 0x03}},
		{"type out of range", []byte{1, 'A', 0, 1, 1, 'x', 0, 4, 0, 0}},
		{"unknown builtin", []byte{1, 'A', 0, 1, 1, 'x', 0, 17, 0, 0}},
		{"invalid kind", []byte{1, 'A', 0, 9, 0}},
		{"message field id zero", []byte{1, 'A', 0, 2, 1, 'x', 0, 1, 0, 0}},
	}
	for _, test := range tests {
		_, err := DecodeSchema(test.data)
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Errorf("%s: error = %v, want *SchemaError", test.name, err)
		}
	}
}

func TestMessageRoundTrip(t *testing.T) {
	schema := documentSchema(t)
	input := map[string]any{
		"type": 1,
		"nodeChanges": []any{
			map[string]any{
				"guid":    map[string]any{"sessionID": 0, "localID": 0},
				"type":    "DOCUMENT",
				"name":    "Document",
				"visible": true,
			},
			map[string]any{
				"guid":    map[string]any{"sessionID": uint32(1), "localID": uint32(2)},
				"type":    map[string]any{EnumKey: "NodeType", EnumValueKey: "FRAME"},
				"opacity": 0.5,
				"color":   map[string]any{"r": 1.0, "g": 0.0, "b": 0.25, "a": 1.0},
				"offset":  -12,
				"tags":    []any{"a", ""},
				"mask":    200,
			},
		},
		"blobs":    []any{map[string]any{"bytes": []byte{1, 2, 3}}},
		"sequence": int64(-1 << 40),
		"checksum": uint64(math.MaxUint64),
	}

	encoded, err := schema.EncodeMessage("Message", input)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	decoded, err := schema.Decode("Message", encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := map[string]any{
		"type": uint32(1),
		"nodeChanges": []any{
			map[string]any{
				"guid":    map[string]any{"sessionID": uint32(0), "localID": uint32(0)},
				"type":    map[string]any{EnumKey: "NodeType", EnumValueKey: "DOCUMENT"},
				"name":    "Document",
				"visible": true,
			},
			map[string]any{
				"guid":    map[string]any{"sessionID": uint32(1), "localID": uint32(2)},
				"type":    map[string]any{EnumKey: "NodeType", EnumValueKey: "FRAME"},
				"opacity": 0.5,
				"color":   map[string]any{"r": 1.0, "g": 0.0, "b": 0.25, "a": 1.0},
				"offset":  int32(-12),
				"tags":    []any{"a", ""},
				"mask":    uint8(200),
			},
		},
		"blobs":    []any{map[string]any{"bytes": []byte{1, 2, 3}}},
		"sequence": int64(-1 << 40),
		"checksum": uint64(math.MaxUint64),
	}
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("decoded =\n%#v\nwant\n%#v", decoded, want)
	}
}

func TestDecodeVarFloat(t *testing.T) {
	schema, err := NewSchema([]Definition{
		{Name: "P", Kind: KindStruct, Fields: []Field{{Name: "x", Type: TypeFloat}}},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	tests := []struct {
		data []byte
		want any
	}{
		{[]byte{0}, 0.0},
		{[]byte{0x7F, 0, 0, 0}, 1.0},
		{[]byte{0x80, 0, 0, 0}, 2.0},
		{[]byte{0x7F, 1, 0, 0}, -1.0},
		{[]byte{0xFF, 0, 0, 0}, nil},
	}
	for _, test := range tests {
		decoded, err := schema.Decode("P", test.data)
		if err != nil {
			t.Fatalf("Decode(%v): %v", test.data, err)
		}
		if decoded["x"] != test.want {
			t.Errorf("Decode(%v) x = %v, want %v", test.data, decoded["x"], test.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	schema := documentSchema(t)

	tests := []struct {
		name   string
		data   []byte
		reason string
	}{
		{"empty", nil, "truncated field id"},
		{"unknown field id", []byte{9}, "unknown field id 9"},
		{"missing terminator", []byte{1, 1}, "truncated field id"},
		{"huge array", []byte{2, 0xFF, 0xFF, 0xFF, 0xFF, 0x0F}, "exceeds remaining"},
		{"huge byte array", []byte{3, 1, 1, 0x7F}, "exceeds remaining"},
		{"bad bool", []byte{2, 1, 4, 2}, "invalid bool byte 2"},
		{"bad enum", []byte{2, 1, 2, 3}, "not a variant of enum NodeType"},
		{"unterminated string", []byte{2, 1, 3, 'a', 'b'}, "unterminated string"},
		{"truncated float", []byte{2, 1, 5, 0x7F, 0}, "truncated float"},
	}
	for _, test := range tests {
		_, err := schema.Decode("Message", test.data)
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("%s: error = %v, want *DecodeError", test.name, err)
		}
		if !strings.Contains(decodeErr.Reason, test.reason) {
			t.Errorf("%s: reason = %q, want it to contain %q", test.name, decodeErr.Reason, test.reason)
		}
	}
}

func TestDecodeErrorPath(t *testing.T) {
	schema := documentSchema(t)
	_, err := schema.Decode("Message", []byte{2, 1, 4, 7})
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if decodeErr.Path != "Message.nodeChanges.visible" {
		t.Errorf("path = %q", decodeErr.Path)
	}
	if decodeErr.Offset != 4 {
		t.Errorf("offset = %d, want 4", decodeErr.Offset)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	schema, err := NewSchema([]Definition{
		{Name: "Loop", Kind: KindStruct, Fields: []Field{{Name: "next", Type: 0}}},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	_, err = schema.Decode("Loop", nil)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || !strings.Contains(decodeErr.Reason, "nesting") {
		t.Fatalf("error = %v, want nesting DecodeError", err)
	}
}

func TestFindRootMessage(t *testing.T) {
	index, err := FindRootMessage(documentSchema(t))
	if err != nil {
		t.Fatalf("FindRootMessage: %v", err)
	}
	if index != 5 {
		t.Errorf("root index = %d, want 5", index)
	}

	schema, err := NewSchema([]Definition{
		{Name: "Message", Kind: KindMessage, Fields: []Field{{Name: "nodeChanges", Type: TypeUint, Value: 1}}},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	if _, err := FindRootMessage(schema); !errors.Is(err, ErrNoRootMessage) {
		t.Errorf("error = %v, want ErrNoRootMessage", err)
	}
}

func TestEncodeMessageErrors(t *testing.T) {
	schema := documentSchema(t)
	tests := []struct {
		name  string
		value map[string]any
	}{
		{"undeclared key", map[string]any{"bogus": 1}},
		{"wrong scalar type", map[string]any{"type": "one"}},
		{"negative uint", map[string]any{"type": -1}},
		{"unknown variant", map[string]any{"nodeChanges": []any{map[string]any{"type": "GROUP"}}}},
		{"missing struct field", map[string]any{"nodeChanges": []any{map[string]any{"guid": map[string]any{"localID": 1}}}}},
		{"byte out of range", map[string]any{"nodeChanges": []any{map[string]any{"mask": 256}}}},
		{"string with NUL", map[string]any{"nodeChanges": []any{map[string]any{"name": "a\x00b"}}}},
	}
	for _, test := range tests {
		_, err := schema.EncodeMessage("Message", test.value)
		var encodeErr *EncodeError
		if !errors.As(err, &encodeErr) {
			t.Errorf("%s: error = %v, want *EncodeError", test.name, err)
		}
	}
}
