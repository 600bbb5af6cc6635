// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiwi

import (
	"fmt"

	"github.com/bureau-foundation/fig2json/lib/wire"
)

// Kind is the kind of a schema definition.
type Kind uint8

const (
	// KindEnum maps varint values to variant names.
	KindEnum Kind = 0

	// KindStruct has every field present, in declaration order.
	KindStruct Kind = 1

	// KindMessage has optional fields, each prefixed by its id and
	// terminated by a zero id.
	KindMessage Kind = 2
)

// String returns the schema-language keyword for the kind.
func (kind Kind) String() string {
	switch kind {
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindMessage:
		return "message"
	default:
		return fmt.Sprintf("kind(%d)", uint8(kind))
	}
}

// Type identifies a field's type. Negative values are the built-in
// scalar types; non-negative values index [Schema.Definitions].
type Type int32

// Built-in types.
const (
	TypeBool   Type = -1
	TypeByte   Type = -2
	TypeInt    Type = -3
	TypeUint   Type = -4
	TypeFloat  Type = -5
	TypeString Type = -6
	TypeInt64  Type = -7
	TypeUint64 Type = -8
)

var builtinNames = [...]string{"bool", "byte", "int", "uint", "float", "string", "int64", "uint64"}

// IsBuiltin reports whether t is a scalar type.
func (t Type) IsBuiltin() bool {
	return t < 0 && int(^t) < len(builtinNames)
}

// Field is one field of a definition. For enums, Value is the
// variant's number; for messages, the field id; for structs it is
// unused.
type Field struct {
	Name    string
	Type    Type
	IsArray bool
	Value   uint32
}

// Definition is one enum, struct or message of a schema.
type Definition struct {
	Name   string
	Kind   Kind
	Fields []Field

	byValue map[uint32]int
}

// FieldByValue returns the field with the given id (messages) or
// number (enums).
func (d *Definition) FieldByValue(value uint32) (*Field, bool) {
	index, ok := d.byValue[value]
	if !ok {
		return nil, false
	}
	return &d.Fields[index], true
}

// HasField reports whether d declares a field named name.
func (d *Definition) HasField(name string) bool {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return true
		}
	}
	return false
}

// Schema is a decoded binary schema.
type Schema struct {
	Definitions []Definition

	byName map[string]int
}

// NewSchema builds a schema from definitions and validates it. It is
// the constructor for schemas written in Go rather than decoded.
func NewSchema(definitions []Definition) (*Schema, error) {
	schema := &Schema{Definitions: definitions}
	if err := schema.index(); err != nil {
		return nil, err
	}
	return schema, nil
}

// Definition returns the first definition named name.
func (s *Schema) Definition(name string) (int, bool) {
	index, ok := s.byName[name]
	return index, ok
}

// TypeName returns the schema-language name of t.
func (s *Schema) TypeName(t Type) string {
	if t.IsBuiltin() {
		return builtinNames[^t]
	}
	if int(t) >= 0 && int(t) < len(s.Definitions) {
		return s.Definitions[t].Name
	}
	return fmt.Sprintf("type(%d)", t)
}

// DecodeSchema parses a binary schema: a varint definition count,
// then per definition a NUL-terminated name, a kind byte and a varint
// field count, then per field a NUL-terminated name, a zigzag varint
// type, an array flag byte and a varint value.
func DecodeSchema(data []byte) (*Schema, error) {
	reader := wire.NewReader(data)
	fail := func(format string, args ...any) (*Schema, error) {
		return nil, &SchemaError{Offset: reader.Offset(), Reason: fmt.Sprintf(format, args...)}
	}

	count, ok := reader.VarUint32()
	if !ok {
		return fail("truncated definition count")
	}
	// A definition is at least a one-byte name, a kind and a count.
	if !reader.Fits(uint64(count), 3) {
		return fail("definition count %d exceeds remaining %d bytes", count, reader.Len())
	}

	definitions := make([]Definition, count)
	for i := range definitions {
		definition := &definitions[i]
		if definition.Name, ok = reader.CString(); !ok {
			return fail("unterminated name of definition %d", i)
		}
		kind, ok := reader.Byte()
		if !ok {
			return fail("truncated kind of definition %s", definition.Name)
		}
		definition.Kind = Kind(kind)

		fieldCount, ok := reader.VarUint32()
		if !ok {
			return fail("truncated field count of definition %s", definition.Name)
		}
		// A field is at least a one-byte name, a type, a flag and a value.
		if !reader.Fits(uint64(fieldCount), 4) {
			return fail("field count %d of definition %s exceeds remaining %d bytes",
				fieldCount, definition.Name, reader.Len())
		}

		definition.Fields = make([]Field, fieldCount)
		for j := range definition.Fields {
			field := &definition.Fields[j]
			if field.Name, ok = reader.CString(); !ok {
				return fail("unterminated name of field %d of %s", j, definition.Name)
			}
			rawType, ok := reader.VarUint32()
			if !ok {
				return fail("truncated type of %s.%s", definition.Name, field.Name)
			}
			field.Type = Type(zigzag32(rawType))
			flags, ok := reader.Byte()
			if !ok {
				return fail("truncated array flag of %s.%s", definition.Name, field.Name)
			}
			field.IsArray = flags&1 != 0
			if field.Value, ok = reader.VarUint32(); !ok {
				return fail("truncated value of %s.%s", definition.Name, field.Name)
			}
		}
	}

	schema := &Schema{Definitions: definitions}
	if err := schema.index(); err != nil {
		return nil, err
	}
	return schema, nil
}

// index validates definitions and builds the lookup tables.
func (s *Schema) index() error {
	s.byName = make(map[string]int, len(s.Definitions))
	for i := range s.Definitions {
		definition := &s.Definitions[i]
		if definition.Kind > KindMessage {
			return &SchemaError{Reason: fmt.Sprintf("definition %s has invalid kind %d", definition.Name, definition.Kind)}
		}
		if _, exists := s.byName[definition.Name]; !exists {
			s.byName[definition.Name] = i
		}

		definition.byValue = make(map[uint32]int, len(definition.Fields))
		for j := range definition.Fields {
			field := &definition.Fields[j]
			if definition.Kind != KindEnum {
				if !field.Type.IsBuiltin() && (field.Type < 0 || int(field.Type) >= len(s.Definitions)) {
					return &SchemaError{Reason: fmt.Sprintf("field %s.%s has invalid type %d",
						definition.Name, field.Name, field.Type)}
				}
			}
			if definition.Kind == KindMessage && field.Value == 0 {
				return &SchemaError{Reason: fmt.Sprintf("message field %s.%s has reserved id 0",
					definition.Name, field.Name)}
			}
			if _, exists := definition.byValue[field.Value]; !exists {
				definition.byValue[field.Value] = j
			}
		}
	}
	return nil
}

// FindRootMessage returns the index of the message definition named
// "Message" that declares both nodeChanges and blobs fields.
func FindRootMessage(schema *Schema) (int, error) {
	for i := range schema.Definitions {
		definition := &schema.Definitions[i]
		if definition.Kind == KindMessage && definition.Name == "Message" &&
			definition.HasField("nodeChanges") && definition.HasField("blobs") {
			return i, nil
		}
	}
	return 0, ErrNoRootMessage
}

// Encode returns the binary form of the schema, readable by
// [DecodeSchema].
func (s *Schema) Encode() []byte {
	buffer := wire.AppendVarUint32(nil, uint32(len(s.Definitions)))
	for _, definition := range s.Definitions {
		buffer = appendCString(buffer, definition.Name)
		buffer = append(buffer, byte(definition.Kind))
		buffer = wire.AppendVarUint32(buffer, uint32(len(definition.Fields)))
		for _, field := range definition.Fields {
			buffer = appendCString(buffer, field.Name)
			buffer = wire.AppendVarUint32(buffer, unzigzag32(int32(field.Type)))
			flags := byte(0)
			if field.IsArray {
				flags = 1
			}
			buffer = append(buffer, flags)
			buffer = wire.AppendVarUint32(buffer, field.Value)
		}
	}
	return buffer
}

func appendCString(buffer []byte, value string) []byte {
	buffer = append(buffer, value...)
	return append(buffer, 0)
}

func zigzag32(v uint32) int32 {
	if v&1 != 0 {
		return ^int32(v >> 1)
	}
	return int32(v >> 1)
}

func unzigzag32(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

func zigzag64(v uint64) int64 {
	if v&1 != 0 {
		return ^int64(v >> 1)
	}
	return int64(v >> 1)
}

func unzigzag64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}
