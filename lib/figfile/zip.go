// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package figfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// CanvasEntryName is the archive entry holding the raw container.
const CanvasEntryName = "canvas.fig"

// imagesPrefix is the archive directory holding image payloads,
// named by the hex hash that image paints reference.
const imagesPrefix = "images/"

// DefaultMaxEntrySize bounds a single extracted archive entry.
const DefaultMaxEntrySize int64 = 1 << 30

// ExtractCanvas returns the decompressed bytes of the canvas.fig
// entry of a ZIP archive. Entries are scanned in central-directory
// order and only the first exact name match is read. An unreadable
// archive is a [ZipError]; a readable archive without the entry is
// [ErrCanvasNotFound].
func ExtractCanvas(data []byte) ([]byte, error) {
	return ExtractCanvasLimit(data, DefaultMaxEntrySize)
}

// ExtractCanvasLimit is [ExtractCanvas] with an explicit ceiling on
// the entry's decompressed size.
func ExtractCanvasLimit(data []byte, limit int64) ([]byte, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ZipError{Err: err}
	}

	for _, file := range archive.File {
		if file.Name != CanvasEntryName {
			continue
		}
		contents, err := readEntry(file, limit)
		if err != nil {
			return nil, err
		}
		return contents, nil
	}

	return nil, ErrCanvasNotFound
}

// ExtractImages writes every images/<name> entry of a ZIP archive to
// directory/images/<name> and returns how many were written. Entry
// names that would escape the images directory are rejected.
func ExtractImages(data []byte, directory string, limit int64) (int, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, &ZipError{Err: err}
	}

	imageDirectory := filepath.Join(directory, "images")
	created := false
	count := 0

	for _, file := range archive.File {
		name, isImage := strings.CutPrefix(file.Name, imagesPrefix)
		if !isImage || name == "" || file.FileInfo().IsDir() {
			continue
		}
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return count, fmt.Errorf("archive entry %q has an unsafe image name", file.Name)
		}

		contents, err := readEntry(file, limit)
		if err != nil {
			return count, err
		}

		if !created {
			if err := os.MkdirAll(imageDirectory, 0o755); err != nil {
				return count, fmt.Errorf("creating %s: %w", imageDirectory, err)
			}
			created = true
		}
		path := filepath.Join(imageDirectory, name)
		if err := os.WriteFile(path, contents, 0o644); err != nil {
			return count, fmt.Errorf("writing %s: %w", path, err)
		}
		count++
	}

	return count, nil
}

// readEntry decompresses one archive entry, refusing entries whose
// declared or actual size exceeds limit.
func readEntry(file *zip.File, limit int64) ([]byte, error) {
	if file.UncompressedSize64 > uint64(limit) {
		return nil, &SizeLimitError{What: "archive entry " + file.Name, Limit: limit}
	}

	reader, err := file.Open()
	if err != nil {
		return nil, &ZipError{Err: fmt.Errorf("opening %s: %w", file.Name, err)}
	}
	defer reader.Close()

	contents, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, &ZipError{Err: fmt.Errorf("reading %s: %w", file.Name, err)}
	}
	if int64(len(contents)) > limit {
		return nil, &SizeLimitError{What: "archive entry " + file.Name, Limit: limit}
	}
	return contents, nil
}
