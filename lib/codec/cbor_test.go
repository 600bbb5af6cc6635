// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

// sampleTree has the shape of converted output: nested objects,
// lists, the unsigned integers kiwi decodes and float64 values.
func sampleTree() map[string]any {
	return map[string]any{
		"version":  uint32(48),
		"fileType": "figma",
		"document": map[string]any{
			"name":    "Document",
			"visible": true,
			"opacity": 0.5,
			"fill":    nil,
			"children": []any{
				map[string]any{"name": "Page 1", "hash": []any{uint8(0x60), uint8(0x49)}},
			},
		},
	}
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	data, err := Marshal(sampleTree())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	// Integers decode as uint64, whatever width they were encoded from.
	want := map[string]any{
		"version":  uint64(48),
		"fileType": "figma",
		"document": map[string]any{
			"name":    "Document",
			"visible": true,
			"opacity": 0.5,
			"fill":    nil,
			"children": []any{
				map[string]any{"name": "Page 1", "hash": []any{uint64(0x60), uint64(0x49)}},
			},
		},
	}
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", decoded, want)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	// Map iteration order is random; the encoding must not be.
	first, err := Marshal(sampleTree())
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(sampleTree())
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestEncoderStream(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	if err := encoder.Encode(sampleTree()); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	direct, err := Marshal(sampleTree())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(buffer.Bytes(), direct) {
		t.Errorf("encoder output differs from Marshal")
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var value any
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &value); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"fileType": "figjam"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"fileType"`) || !strings.Contains(notation, `"figjam"`) {
		t.Errorf("notation %q does not contain the pair", notation)
	}
}

func BenchmarkMarshal(b *testing.B) {
	tree := sampleTree()
	b.ReportAllocs()
	for b.Loop() {
		Marshal(tree)
	}
}
