// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// WriteJSON writes v to w as JSON followed by a newline. A non-empty
// indent writes one element per line, nested by indent.
func WriteJSON(w io.Writer, v any, indent string) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if indent != "" {
		encoder.SetIndent("", indent)
	}
	return encoder.Encode(v)
}

// MarshalJSON is [WriteJSON] into a byte slice, without the trailing
// newline.
func MarshalJSON(v any, indent string) ([]byte, error) {
	var buffer bytes.Buffer
	if err := WriteJSON(&buffer, v, indent); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

// ParseJSON decodes a single JSON value into a tree. Integers become
// int64, or uint64 when they exceed the int64 range; other numbers
// become float64. Trailing data after the value is an error.
func ParseJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("parsing JSON: unexpected data after the top-level value")
	}
	return normalizeNumbers(value), nil
}

// normalizeNumbers replaces every json.Number in the tree with a
// typed number, so that later encoders see numbers rather than
// strings.
func normalizeNumbers(node any) any {
	switch value := node.(type) {
	case json.Number:
		return number(value)
	case map[string]any:
		for key, child := range value {
			value[key] = normalizeNumbers(child)
		}
	case []any:
		for i, child := range value {
			value[i] = normalizeNumbers(child)
		}
	}
	return node
}

func number(n json.Number) any {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
		return u
	}
	if f, err := strconv.ParseFloat(string(n), 64); err == nil {
		return f
	}
	return string(n)
}
