// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package figfile

import (
	"errors"
	"testing"

	"github.com/bureau-foundation/fig2json/lib/testutil"
)

func TestInspect(t *testing.T) {
	png := []byte{137, 80, 78, 71, 13, 10, 26, 10, 0}
	canvas := testutil.Container(testutil.MagicFigJam, 70,
		testutil.Deflate(t, []byte("schema bytes")),
		testutil.Zstd(t, []byte("data bytes")),
		png,
		[]byte{9, 9, 9},
	)
	archive := testutil.Zip(t, testutil.ZipEntry{Name: "canvas.fig", Data: canvas})

	report, err := Inspect(archive, DefaultLimits())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !report.Zip || report.FileType != "figjam" || report.Version != 70 {
		t.Errorf("report = zip:%v type:%s version:%d", report.Zip, report.FileType, report.Version)
	}
	if len(report.Chunks) != 4 {
		t.Fatalf("chunk reports = %d, want 4", len(report.Chunks))
	}

	wantCodecs := []string{"deflate", "zstd", "none", "undecoded"}
	wantRoles := []string{"schema", "data", "image", "image"}
	for i, chunk := range report.Chunks {
		if chunk.Codec != wantCodecs[i] || chunk.Role != wantRoles[i] {
			t.Errorf("chunk %d = %s/%s, want %s/%s", i, chunk.Role, chunk.Codec, wantRoles[i], wantCodecs[i])
		}
	}
	if report.Chunks[0].DecompressedSize != len("schema bytes") {
		t.Errorf("schema decompressed size = %d", report.Chunks[0].DecompressedSize)
	}
	if report.Chunks[0].Digest != HashChunk([]byte("schema bytes")).String() {
		t.Error("schema digest does not match HashChunk of the decompressed bytes")
	}
	if report.Chunks[3].Error == "" || report.Chunks[3].Digest != "" {
		t.Errorf("undecodable trailing chunk = %+v", report.Chunks[3])
	}
	if report.Digest == "" {
		t.Error("file digest is empty")
	}
}

func TestInspectFailsOnUndecodableDataChunk(t *testing.T) {
	data := testutil.Container(testutil.MagicFigma, 48, testutil.Deflate(t, []byte("s")), []byte{1, 2, 3})
	_, err := Inspect(data, DefaultLimits())
	var decompressErr *DecompressError
	if !errors.As(err, &decompressErr) {
		t.Fatalf("error = %v, want *DecompressError", err)
	}
}
