// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiwi

import (
	"fmt"
	"math"
	"strings"

	"github.com/bureau-foundation/fig2json/lib/wire"
)

// MaxDepth bounds the nesting of structs and messages in a decoded
// value.
const MaxDepth = 256

// EnumKey and EnumValueKey are the keys of a decoded enum value.
const (
	EnumKey      = "__enum__"
	EnumValueKey = "value"
)

// Decode reads one value of the definition named root from data.
// Bytes after the value are ignored.
func (s *Schema) Decode(root string, data []byte) (map[string]any, error) {
	index, ok := s.Definition(root)
	if !ok {
		return nil, &DecodeError{Reason: fmt.Sprintf("schema has no definition named %q", root)}
	}
	return s.DecodeDefinition(index, data)
}

// DecodeDefinition reads one value of Definitions[index] from data.
// The definition must be a struct or a message.
func (s *Schema) DecodeDefinition(index int, data []byte) (map[string]any, error) {
	if index < 0 || index >= len(s.Definitions) {
		return nil, &DecodeError{Reason: fmt.Sprintf("definition index %d out of range", index)}
	}
	definition := &s.Definitions[index]
	if definition.Kind == KindEnum {
		return nil, &DecodeError{Path: definition.Name, Reason: "root definition is an enum"}
	}

	d := &decoder{schema: s, reader: wire.NewReader(data), path: []string{definition.Name}}
	return d.object(definition)
}

type decoder struct {
	schema *Schema
	reader *wire.Reader

	// path holds the names of the fields being decoded, outermost
	// first. Its length is the nesting depth.
	path []string
}

func (d *decoder) fail(format string, args ...any) error {
	return &DecodeError{
		Offset: d.reader.Offset(),
		Path:   strings.Join(d.path, "."),
		Reason: fmt.Sprintf(format, args...),
	}
}

// object decodes a struct or message.
func (d *decoder) object(definition *Definition) (map[string]any, error) {
	if len(d.path) > MaxDepth {
		return nil, d.fail("nesting exceeds %d levels", MaxDepth)
	}

	result := make(map[string]any)

	if definition.Kind == KindStruct {
		for i := range definition.Fields {
			field := &definition.Fields[i]
			value, err := d.field(field)
			if err != nil {
				return nil, err
			}
			result[field.Name] = value
		}
		return result, nil
	}

	for {
		id, ok := d.reader.VarUint32()
		if !ok {
			return nil, d.fail("truncated field id")
		}
		if id == 0 {
			return result, nil
		}
		field, ok := definition.FieldByValue(id)
		if !ok {
			return nil, d.fail("unknown field id %d in %s", id, definition.Name)
		}
		value, err := d.field(field)
		if err != nil {
			return nil, err
		}
		result[field.Name] = value
	}
}

// field decodes a field's value, which may be an array.
func (d *decoder) field(field *Field) (any, error) {
	d.path = append(d.path, field.Name)
	defer func() { d.path = d.path[:len(d.path)-1] }()

	if !field.IsArray {
		return d.single(field.Type)
	}

	count, ok := d.reader.VarUint32()
	if !ok {
		return nil, d.fail("truncated array length")
	}
	// Every element takes at least one byte, except elements of an
	// empty struct, which are held to the same bound.
	if !d.reader.Fits(uint64(count), 1) {
		return nil, d.fail("array length %d exceeds remaining %d bytes", count, d.reader.Len())
	}

	if field.Type == TypeByte {
		raw, _ := d.reader.Take(int(count))
		return append([]byte(nil), raw...), nil
	}

	elements := make([]any, count)
	for i := range elements {
		value, err := d.single(field.Type)
		if err != nil {
			return nil, err
		}
		elements[i] = value
	}
	return elements, nil
}

func (d *decoder) single(t Type) (any, error) {
	reader := d.reader
	switch t {
	case TypeBool:
		b, ok := reader.Byte()
		if !ok {
			return nil, d.fail("truncated bool")
		}
		if b > 1 {
			return nil, d.fail("invalid bool byte %d", b)
		}
		return b == 1, nil

	case TypeByte:
		b, ok := reader.Byte()
		if !ok {
			return nil, d.fail("truncated byte")
		}
		return b, nil

	case TypeInt:
		v, ok := reader.VarUint32()
		if !ok {
			return nil, d.fail("truncated int")
		}
		return zigzag32(v), nil

	case TypeUint:
		v, ok := reader.VarUint32()
		if !ok {
			return nil, d.fail("truncated uint")
		}
		return v, nil

	case TypeFloat:
		v, ok := d.varFloat()
		if !ok {
			return nil, d.fail("truncated float")
		}
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, nil
		}
		return float64(v), nil

	case TypeString:
		s, ok := reader.CString()
		if !ok {
			return nil, d.fail("unterminated string")
		}
		return s, nil

	case TypeInt64:
		v, ok := reader.VarUint64()
		if !ok {
			return nil, d.fail("truncated int64")
		}
		return zigzag64(v), nil

	case TypeUint64:
		v, ok := reader.VarUint64()
		if !ok {
			return nil, d.fail("truncated uint64")
		}
		return v, nil
	}

	definition := &d.schema.Definitions[t]
	if definition.Kind != KindEnum {
		return d.object(definition)
	}

	v, ok := reader.VarUint32()
	if !ok {
		return nil, d.fail("truncated enum")
	}
	variant, ok := definition.FieldByValue(v)
	if !ok {
		return nil, d.fail("value %d is not a variant of enum %s", v, definition.Name)
	}
	return map[string]any{EnumKey: definition.Name, EnumValueKey: variant.Name}, nil
}

// varFloat reads a float stored with its exponent in the first byte
// so that zero takes a single byte.
func (d *decoder) varFloat() (float32, bool) {
	first, ok := d.reader.Byte()
	if !ok {
		return 0, false
	}
	if first == 0 {
		return 0, true
	}
	rest, ok := d.reader.Take(3)
	if !ok {
		return 0, false
	}
	bits := uint32(first) | uint32(rest[0])<<8 | uint32(rest[1])<<16 | uint32(rest[2])<<24
	bits = bits<<23 | bits>>9
	return math.Float32frombits(bits), true
}
