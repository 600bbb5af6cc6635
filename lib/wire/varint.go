// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

// Base-128 varints store seven bits per byte, least significant group
// first, with the high bit set on every byte but the last.

// VarUint32 consumes a varint of at most five bytes. Bits beyond the
// 32nd are discarded. The cursor does not move when the input ends
// inside the varint.
func (r *Reader) VarUint32() (uint32, bool) {
	start := r.offset
	var result uint32
	for shift := uint(0); ; shift += 7 {
		b, ok := r.Byte()
		if !ok {
			r.offset = start
			return 0, false
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 || shift+7 >= 35 {
			return result, true
		}
	}
}

// VarUint64 consumes a varint of at most nine bytes. The ninth byte
// contributes all eight of its bits. The cursor does not move when
// the input ends inside the varint.
func (r *Reader) VarUint64() (uint64, bool) {
	start := r.offset
	var result uint64
	for shift := uint(0); ; shift += 7 {
		b, ok := r.Byte()
		if !ok {
			r.offset = start
			return 0, false
		}
		if shift == 56 {
			return result | uint64(b)<<56, true
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, true
		}
	}
}

// AppendVarUint32 appends the varint encoding of v to buffer.
func AppendVarUint32(buffer []byte, v uint32) []byte {
	for v > 0x7F {
		buffer = append(buffer, byte(v)|0x80)
		v >>= 7
	}
	return append(buffer, byte(v))
}

// AppendVarUint64 appends the varint encoding of v to buffer, in the
// nine-byte form read by [Reader.VarUint64].
func AppendVarUint64(buffer []byte, v uint64) []byte {
	for i := 0; i < 8 && v > 0x7F; i++ {
		buffer = append(buffer, byte(v)|0x80)
		v >>= 7
	}
	return append(buffer, byte(v))
}
