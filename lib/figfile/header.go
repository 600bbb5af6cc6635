// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package figfile

import (
	"bytes"
	"fmt"
)

// Header layout constants.
const (
	// MagicSize is the length of the document-type signature at the
	// start of every raw container.
	MagicSize = 8

	// HeaderSize is the magic plus the uint32 format version.
	HeaderSize = MagicSize + 4
)

var (
	magicFigma  = []byte("fig-kiwi")
	magicFigJam = []byte("fig-jam.")
	magicZip    = []byte("PK")
)

// FileType identifies which editor produced a container.
type FileType uint8

const (
	// FileTypeFigma is a design file ("fig-kiwi").
	FileTypeFigma FileType = iota + 1

	// FileTypeFigJam is a whiteboard file ("fig-jam.").
	FileTypeFigJam
)

// String returns the name used in converted output.
func (t FileType) String() string {
	switch t {
	case FileTypeFigma:
		return "figma"
	case FileTypeFigJam:
		return "figjam"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// DetectFileType classifies data by its first 8 bytes.
func DetectFileType(data []byte) (FileType, error) {
	if len(data) < MagicSize {
		return 0, &FileTooSmallError{Expected: MagicSize, Actual: len(data)}
	}
	header := data[:MagicSize]
	switch {
	case bytes.Equal(header, magicFigma):
		return FileTypeFigma, nil
	case bytes.Equal(header, magicFigJam):
		return FileTypeFigJam, nil
	}
	return 0, &InvalidMagicError{Header: bytes.Clone(header)}
}

// IsZipContainer reports whether data starts with the ZIP local file
// signature "PK". Short input is simply not a ZIP.
func IsZipContainer(data []byte) bool {
	return bytes.HasPrefix(data, magicZip)
}
