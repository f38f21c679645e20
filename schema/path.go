package schema

import (
	"github.com/brunoga/jsondoc/internal/jsonvalue"
	"github.com/brunoga/jsondoc/pointer"
)

// ForPath walks s one segment at a time and returns the sub-schema found, or
// nil when the path leaves the schema.
//
// Object nodes descend into the named field. Array nodes descend into their
// element schema whatever the segment is, since all elements share it.
// Optional and Nullable wrappers are looked through. A leaf with segments
// remaining yields nil.
func ForPath(s *Schema, segments []string) *Schema {
	current := s
	for _, seg := range segments {
		current = current.Unwrap()
		if current == nil {
			return nil
		}

		switch current.Kind {
		case KindObject:
			next, ok := current.Field(seg)
			if !ok {
				return nil
			}
			current = next
		case KindArray:
			current = current.Elem
		case KindString, KindNumber, KindBoolean, KindEnum, KindUnknown:
			return nil
		default:
			return nil
		}
	}
	return current
}

// ForPointer is ForPath for a pointer string.
func ForPointer(s *Schema, p string) *Schema {
	segs, err := pointer.Parse(p)
	if err != nil {
		return nil
	}
	return ForPath(s, segs)
}

// Default synthesizes a zero value that conforms to s: objects get every
// field's default, arrays are empty, leaves are "", 0 and false, wrappers
// defer to the wrapped schema and enums use their first value. Unknown kinds
// and nil schemas yield nil.
func Default(s *Schema) any {
	if s == nil {
		return nil
	}

	switch s.Kind {
	case KindObject:
		obj := make(map[string]any, len(s.Fields))
		for _, f := range s.Fields {
			obj[f.Name] = Default(f.Schema)
		}
		return obj
	case KindArray:
		return []any{}
	case KindString:
		return ""
	case KindNumber:
		return float64(0)
	case KindBoolean:
		return false
	case KindOptional, KindNullable:
		return Default(s.Inner)
	case KindEnum:
		if len(s.Values) == 0 {
			return nil
		}
		v, err := jsonvalue.Normalize(s.Values[0])
		if err != nil {
			return nil
		}
		return v
	default:
		return nil
	}
}

// DefaultForPointer returns the default for the schema found at p. It is the
// value a collaborator inserts when scaffolding a new entry such as
// "/items/-".
func DefaultForPointer(s *Schema, p string) (any, bool) {
	sub := ForPointer(s, p)
	if sub == nil {
		return nil, false
	}
	return Default(sub), true
}
