// Package schema describes the expected shape of a JSON document.
//
// A Schema is a closed tagged variant: every node has exactly one Kind and
// only the fields that kind uses are set. Schemas are used to validate
// candidate documents (Validate), to find the sub-schema at a path (ForPath)
// and to synthesize zero-value defaults (Default).
package schema

import (
	"fmt"
)

// Kind identifies a schema node variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindObject
	KindArray
	KindString
	KindNumber
	KindBoolean
	KindOptional
	KindNullable
	KindEnum
)

var kindNames = [...]string{
	KindUnknown:  "unknown",
	KindObject:   "object",
	KindArray:    "array",
	KindString:   "string",
	KindNumber:   "number",
	KindBoolean:  "boolean",
	KindOptional: "optional",
	KindNullable: "nullable",
	KindEnum:     "enum",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Schema is a node of a structural schema. Schemas are immutable once built.
type Schema struct {
	Kind Kind

	// Fields lists the properties of a KindObject node in declaration order.
	Fields []Field

	// Elem is the schema shared by every element of a KindArray node.
	Elem *Schema

	// Inner is the schema wrapped by a KindOptional or KindNullable node.
	Inner *Schema

	// Values are the allowed values of a KindEnum node.
	Values []any
}

// Field is a named property of an object schema.
type Field struct {
	Name   string
	Schema *Schema
}

// Prop creates an object field.
func Prop(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

// Object creates an object schema. Keys not listed in fields are allowed.
func Object(fields ...Field) *Schema {
	return &Schema{Kind: KindObject, Fields: fields}
}

// Array creates an array schema whose elements all follow elem.
func Array(elem *Schema) *Schema {
	return &Schema{Kind: KindArray, Elem: elem}
}

// String creates a string leaf.
func String() *Schema {
	return &Schema{Kind: KindString}
}

// Number creates a number leaf.
func Number() *Schema {
	return &Schema{Kind: KindNumber}
}

// Boolean creates a boolean leaf.
func Boolean() *Schema {
	return &Schema{Kind: KindBoolean}
}

// Optional marks s as allowed to be absent from its parent object.
func Optional(s *Schema) *Schema {
	return &Schema{Kind: KindOptional, Inner: s}
}

// Nullable allows null in addition to the values s accepts.
func Nullable(s *Schema) *Schema {
	return &Schema{Kind: KindNullable, Inner: s}
}

// Enum creates a leaf that accepts only the given values.
func Enum(values ...any) *Schema {
	return &Schema{Kind: KindEnum, Values: values}
}

// Field returns the schema of the named property of an object schema.
func (s *Schema) Field(name string) (*Schema, bool) {
	if s == nil || s.Kind != KindObject {
		return nil, false
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Schema, true
		}
	}
	return nil, false
}

// Unwrap strips Optional and Nullable wrappers.
func (s *Schema) Unwrap() *Schema {
	for s != nil && (s.Kind == KindOptional || s.Kind == KindNullable) {
		s = s.Inner
	}
	return s
}

// IsOptional reports whether s may be absent from its parent object.
func (s *Schema) IsOptional() bool {
	for s != nil {
		switch s.Kind {
		case KindOptional:
			return true
		case KindNullable:
			s = s.Inner
		default:
			return false
		}
	}
	return false
}
