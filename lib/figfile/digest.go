// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package figfile

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 keyed hash.
type Digest [32]byte

// Domain separation keys: ASCII domain names zero-padded to 32 bytes.
// Changing them changes every digest fig2json has ever printed.
var (
	chunkDomainKey = [32]byte{
		'f', 'i', 'g', '2', 'j', 's', 'o', 'n', '.', 'c', 'h', 'u', 'n', 'k',
	}

	fileDomainKey = [32]byte{
		'f', 'i', 'g', '2', 'j', 's', 'o', 'n', '.', 'f', 'i', 'l', 'e',
	}
)

// HashChunk computes the chunk-domain digest of decompressed chunk
// data. Hashing after decompression makes the digest independent of
// which codec the writer chose.
func HashChunk(data []byte) Digest {
	return keyedHash(chunkDomainKey, data)
}

// HashFile computes the file-domain digest over the chunk digests of
// a container, in order. Two containers with identical decoded chunks
// share a file digest even when their compression differs.
func HashFile(chunks []Digest) Digest {
	hasher := newKeyedHasher(fileDomainKey)
	for _, chunk := range chunks {
		hasher.Write(chunk[:])
	}
	var result Digest
	copy(result[:], hasher.Sum(nil))
	return result
}

// String returns the lower-case hex form used in reports and logs.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func keyedHash(key [32]byte, data []byte) Digest {
	hasher := newKeyedHasher(key)
	hasher.Write(data)
	var result Digest
	copy(result[:], hasher.Sum(nil))
	return result
}

func newKeyedHasher(key [32]byte) *blake3.Hasher {
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("figfile: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}
