// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/binary"
	"math"
)

// Reader is a forward-only cursor over a borrowed byte slice. The
// zero value reads from an empty slice. A Reader never copies or
// modifies the underlying data; slices returned by [Reader.Take]
// alias it.
type Reader struct {
	data   []byte
	offset int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.offset
}

// Done reports whether every byte has been consumed.
func (r *Reader) Done() bool {
	return r.offset >= len(r.data)
}

// Fits reports whether count records of size bytes each can be read
// from the remaining input. The multiplication is done in 64 bits so
// a 32-bit count can never overflow it.
func (r *Reader) Fits(count uint64, size int) bool {
	if size < 0 {
		return false
	}
	if size == 0 {
		return true
	}
	remaining := uint64(r.Len())
	return count <= remaining/uint64(size)
}

// Take consumes n bytes and returns them as a sub-slice of the
// input. It returns false, consuming nothing, when n is negative or
// fewer than n bytes remain.
func (r *Reader) Take(n int) ([]byte, bool) {
	if n < 0 || n > r.Len() {
		return nil, false
	}
	chunk := r.data[r.offset : r.offset+n : r.offset+n]
	r.offset += n
	return chunk, true
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) bool {
	_, ok := r.Take(n)
	return ok
}

// Byte consumes one byte.
func (r *Reader) Byte() (byte, bool) {
	if r.offset >= len(r.data) {
		return 0, false
	}
	b := r.data[r.offset]
	r.offset++
	return b, true
}

// Uint32 consumes a little-endian uint32.
func (r *Reader) Uint32() (uint32, bool) {
	raw, ok := r.Take(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(raw), true
}

// Float32 consumes a little-endian IEEE 754 single-precision float.
func (r *Reader) Float32() (float32, bool) {
	bits, ok := r.Uint32()
	if !ok {
		return 0, false
	}
	return math.Float32frombits(bits), true
}

// Float32s fills out with consecutive little-endian floats. Either
// every value is read or, when the input is too short, none are and
// the cursor does not move.
func (r *Reader) Float32s(out []float32) bool {
	raw, ok := r.Take(len(out) * 4)
	if !ok {
		return false
	}
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return true
}

// CString consumes bytes up to and including the next NUL byte and
// returns the bytes before it as a string. It returns false when no
// NUL byte remains.
func (r *Reader) CString() (string, bool) {
	for i := r.offset; i < len(r.data); i++ {
		if r.data[i] == 0 {
			value := string(r.data[r.offset:i])
			r.offset = i + 1
			return value, true
		}
	}
	return "", false
}
