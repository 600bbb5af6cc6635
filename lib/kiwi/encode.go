// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiwi

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bureau-foundation/fig2json/lib/tree"
	"github.com/bureau-foundation/fig2json/lib/wire"
)

// EncodeMessage encodes value as the definition named root. It accepts
// the trees [Schema.Decode] produces, and also plain Go numbers,
// json.Number, []any for byte arrays and bare variant names for
// enums. Message fields that are absent or nil are omitted; struct
// fields must all be present. Keys not declared by the definition are
// an error.
func (s *Schema) EncodeMessage(root string, value map[string]any) ([]byte, error) {
	index, ok := s.Definition(root)
	if !ok {
		return nil, &EncodeError{Path: root, Reason: "no such definition"}
	}
	definition := &s.Definitions[index]
	if definition.Kind == KindEnum {
		return nil, &EncodeError{Path: root, Reason: "root definition is an enum"}
	}
	e := &encoder{schema: s, path: []string{root}}
	if err := e.object(definition, value); err != nil {
		return nil, err
	}
	return e.buffer, nil
}

type encoder struct {
	schema *Schema
	buffer []byte
	path   []string
}

func (e *encoder) fail(format string, args ...any) error {
	return &EncodeError{Path: strings.Join(e.path, "."), Reason: fmt.Sprintf(format, args...)}
}

func (e *encoder) object(definition *Definition, value any) error {
	if len(e.path) > MaxDepth {
		return e.fail("nesting exceeds %d levels", MaxDepth)
	}
	object, ok := value.(map[string]any)
	if !ok {
		return e.fail("%s needs an object, found %T", definition.Name, value)
	}
	for key := range object {
		if !definition.HasField(key) {
			return e.fail("%s has no field %q", definition.Name, key)
		}
	}

	for i := range definition.Fields {
		field := &definition.Fields[i]
		fieldValue, present := object[field.Name]

		if definition.Kind == KindMessage {
			if !present || fieldValue == nil {
				continue
			}
			e.buffer = wire.AppendVarUint32(e.buffer, field.Value)
		} else if !present {
			return e.fail("%s is missing struct field %q", definition.Name, field.Name)
		}

		if err := e.field(field, fieldValue); err != nil {
			return err
		}
	}

	if definition.Kind == KindMessage {
		e.buffer = append(e.buffer, 0)
	}
	return nil
}

func (e *encoder) field(field *Field, value any) error {
	e.path = append(e.path, field.Name)
	defer func() { e.path = e.path[:len(e.path)-1] }()

	if !field.IsArray {
		return e.single(field.Type, value)
	}

	if field.Type == TypeByte {
		if raw, ok := value.([]byte); ok {
			e.buffer = wire.AppendVarUint32(e.buffer, uint32(len(raw)))
			e.buffer = append(e.buffer, raw...)
			return nil
		}
	}

	elements, ok := value.([]any)
	if !ok {
		return e.fail("array field needs a list, found %T", value)
	}
	e.buffer = wire.AppendVarUint32(e.buffer, uint32(len(elements)))
	for _, element := range elements {
		if err := e.single(field.Type, element); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) single(t Type, value any) error {
	switch t {
	case TypeBool:
		b, ok := value.(bool)
		if !ok {
			return e.fail("bool needs a boolean, found %T", value)
		}
		if b {
			e.buffer = append(e.buffer, 1)
		} else {
			e.buffer = append(e.buffer, 0)
		}
		return nil

	case TypeByte:
		v, ok := integer(value)
		if !ok || v < 0 || v > math.MaxUint8 {
			return e.fail("byte needs an integer in 0-255, found %v", value)
		}
		e.buffer = append(e.buffer, byte(v))
		return nil

	case TypeInt:
		v, ok := integer(value)
		if !ok || v < math.MinInt32 || v > math.MaxInt32 {
			return e.fail("int needs a 32-bit integer, found %v", value)
		}
		e.buffer = wire.AppendVarUint32(e.buffer, unzigzag32(int32(v)))
		return nil

	case TypeUint:
		v, ok := integer(value)
		if !ok || v < 0 || v > math.MaxUint32 {
			return e.fail("uint needs an unsigned 32-bit integer, found %v", value)
		}
		e.buffer = wire.AppendVarUint32(e.buffer, uint32(v))
		return nil

	case TypeFloat:
		v, ok := tree.Float(value)
		if value == nil {
			v, ok = math.NaN(), true
		}
		if !ok {
			return e.fail("float needs a number, found %T", value)
		}
		e.buffer = appendVarFloat(e.buffer, float32(v))
		return nil

	case TypeString:
		s, ok := value.(string)
		if !ok {
			return e.fail("string needs a string, found %T", value)
		}
		if strings.IndexByte(s, 0) >= 0 {
			return e.fail("string contains a NUL byte")
		}
		e.buffer = appendCString(e.buffer, s)
		return nil

	case TypeInt64:
		v, ok := integer(value)
		if !ok {
			return e.fail("int64 needs an integer, found %v", value)
		}
		e.buffer = wire.AppendVarUint64(e.buffer, unzigzag64(v))
		return nil

	case TypeUint64:
		if v, ok := value.(uint64); ok {
			e.buffer = wire.AppendVarUint64(e.buffer, v)
			return nil
		}
		v, ok := integer(value)
		if !ok || v < 0 {
			return e.fail("uint64 needs an unsigned integer, found %v", value)
		}
		e.buffer = wire.AppendVarUint64(e.buffer, uint64(v))
		return nil
	}

	definition := &e.schema.Definitions[t]
	if definition.Kind != KindEnum {
		return e.object(definition, value)
	}

	name, ok := value.(string)
	if object, isObject := value.(map[string]any); isObject {
		name, ok = object[EnumValueKey].(string)
	}
	if !ok {
		return e.fail("enum %s needs a variant name, found %v", definition.Name, value)
	}
	for _, variant := range definition.Fields {
		if variant.Name == name {
			e.buffer = wire.AppendVarUint32(e.buffer, variant.Value)
			return nil
		}
	}
	return e.fail("%q is not a variant of enum %s", name, definition.Name)
}

// appendVarFloat stores the exponent byte first so that zero, whose
// exponent is zero, takes a single byte.
func appendVarFloat(buffer []byte, value float32) []byte {
	bits := math.Float32bits(value)
	bits = bits>>23 | bits<<9
	if bits&0xFF == 0 {
		return append(buffer, 0)
	}
	return append(buffer, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
}

// integer converts any integral number to int64.
func integer(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), uint64(v) <= math.MaxInt64
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), v <= math.MaxInt64
	case json.Number:
		n, err := strconv.ParseInt(string(v), 10, 64)
		return n, err == nil
	}
	f, ok := tree.Float(value)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
