// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"encoding/base64"
	"fmt"
	"maps"
	"slices"

	"github.com/bureau-foundation/fig2json/lib/geometry"
	"github.com/bureau-foundation/fig2json/lib/tree"
)

// Roles understood by the default registry.
const (
	RoleCommands      = "commands"
	RoleVectorNetwork = "vectorNetwork"
)

// bytesField is the blob object field holding the payload.
const bytesField = "bytes"

// Bytes extracts the payload of a blob object. The "bytes" field may
// be a base64 string (standard alphabet, padded), an array of
// integers, or a []byte as produced by the binary decoder. Array
// elements that are not integers in 0-255 are skipped; values above
// 255 are not truncated to their low byte.
func Bytes(blob any) ([]byte, error) {
	object, ok := blob.(map[string]any)
	if !ok {
		return nil, ErrMissingBytes
	}
	value, ok := object[bytesField]
	if !ok {
		return nil, ErrMissingBytes
	}

	switch payload := value.(type) {
	case []byte:
		return payload, nil
	case string:
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, &Base64Error{Err: err}
		}
		return data, nil
	case []any:
		data := make([]byte, 0, len(payload))
		for _, element := range payload {
			if b, ok := tree.Index(element); ok && b <= 255 {
				data = append(data, byte(b))
			}
		}
		return data, nil
	default:
		return nil, &BytesTypeError{Type: fmt.Sprintf("%T", value)}
	}
}

// DecodeFunc decodes the payload of one blob role. It returns false
// when the payload is malformed.
type DecodeFunc func(data []byte) (any, bool)

// Registry maps blob roles to decoders. Register all roles before
// sharing a Registry between goroutines; lookups are then safe to run
// concurrently.
type Registry struct {
	decoders map[string]DecodeFunc
}

// NewRegistry returns a registry with no roles.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]DecodeFunc)}
}

// DefaultRegistry returns a new registry holding the path command
// and vector network decoders.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(RoleCommands, decodeCommands)
	registry.Register(RoleVectorNetwork, decodeVectorNetwork)
	return registry
}

var defaultRegistry = DefaultRegistry()

// Register installs decode for role, replacing any previous decoder.
func (r *Registry) Register(role string, decode DecodeFunc) {
	r.decoders[role] = decode
}

// Roles returns the registered role names in sorted order.
func (r *Registry) Roles() []string {
	return slices.Sorted(maps.Keys(r.decoders))
}

// Decode interprets data according to role. An unregistered role or
// a malformed payload yields (nil, false).
func (r *Registry) Decode(role string, data []byte) (any, bool) {
	decode, ok := r.decoders[role]
	if !ok {
		return nil, false
	}
	return decode(data)
}

// DecodeBlob extracts the bytes of blob and decodes them as role.
// Extraction runs first and its failure is returned as an error even
// when role is not registered.
func (r *Registry) DecodeBlob(role string, blob any) (any, bool, error) {
	data, err := Bytes(blob)
	if err != nil {
		return nil, false, err
	}
	value, ok := r.Decode(role, data)
	return value, ok, nil
}

// Decode interprets data with the default registry.
func Decode(role string, data []byte) (any, bool) {
	return defaultRegistry.Decode(role, data)
}

// DecodeBlob is [Registry.DecodeBlob] on the default registry.
func DecodeBlob(role string, blob any) (any, bool, error) {
	return defaultRegistry.DecodeBlob(role, blob)
}

func decodeCommands(data []byte) (any, bool) {
	path, ok := geometry.DecodeCommands(data)
	if !ok {
		return nil, false
	}
	return path.Flatten(), true
}

func decodeVectorNetwork(data []byte) (any, bool) {
	network, ok := geometry.DecodeVectorNetwork(data)
	if !ok {
		return nil, false
	}
	return network.Value(), true
}

// EncodeBlobs returns a copy of blobs in which every []byte "bytes"
// field is replaced by its base64 string, the form blobs take in
// document output. Other blobs are returned as they are.
func EncodeBlobs(blobs []any) []any {
	encoded := make([]any, len(blobs))
	for i, blob := range blobs {
		encoded[i] = blob
		object, ok := blob.(map[string]any)
		if !ok {
			continue
		}
		payload, ok := object[bytesField].([]byte)
		if !ok {
			continue
		}
		replaced := maps.Clone(object)
		replaced[bytesField] = base64.StdEncoding.EncodeToString(payload)
		encoded[i] = replaced
	}
	return encoded
}
