// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func compress(t *testing.T, data []byte, compression string) []byte {
	t.Helper()
	var buffer bytes.Buffer
	writer, err := NewCompressor(&buffer, compression)
	if err != nil {
		t.Fatalf("NewCompressor(%q): %v", compression, err)
	}
	if _, err := writer.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buffer.Bytes()
}

func TestCompressionRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat(`{"name":"Frame","visible":true}`, 200))

	for _, compression := range []string{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(compression, func(t *testing.T) {
			stored := compress(t, payload, compression)
			if compression != CompressionNone && len(stored) >= len(payload) {
				t.Errorf("%s output is %d bytes, not smaller than %d", compression, len(stored), len(payload))
			}
			restored, err := Decompress(stored, int64(len(payload)))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(restored, payload) {
				t.Error("round trip changed the payload")
			}
		})
	}
}

func TestDecompressLimit(t *testing.T) {
	payload := bytes.Repeat([]byte{'a'}, 4096)
	for _, compression := range []string{CompressionZstd, CompressionLZ4} {
		stored := compress(t, payload, compression)
		if _, err := Decompress(stored, 100); err == nil {
			t.Errorf("%s: Decompress ignored the limit", compression)
		}
	}
}

func TestNewCompressorUnknown(t *testing.T) {
	if _, err := NewCompressor(&bytes.Buffer{}, "gzip"); err == nil {
		t.Error("NewCompressor accepted gzip")
	}
}

func TestDecodeTree(t *testing.T) {
	tree := map[string]any{"version": uint32(20), "fileType": "figjam"}
	jsonData, err := MarshalJSON(tree, "  ")
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	cborData, err := Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	tests := []struct {
		name string
		data []byte
		want any
	}{
		{"json", jsonData, map[string]any{"version": int64(20), "fileType": "figjam"}},
		{"cbor", cborData, map[string]any{"version": uint64(20), "fileType": "figjam"}},
		{"json zstd", compress(t, jsonData, CompressionZstd), map[string]any{"version": int64(20), "fileType": "figjam"}},
		{"cbor lz4", compress(t, cborData, CompressionLZ4), map[string]any{"version": uint64(20), "fileType": "figjam"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := DecodeTree(test.data, 1<<20)
			if err != nil {
				t.Fatalf("DecodeTree: %v", err)
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("DecodeTree = %#v, want %#v", got, test.want)
			}
		})
	}
}
