package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brunoga/jsondoc/internal/jsonvalue"
	"github.com/brunoga/jsondoc/pointer"
)

// Issue is a single validation failure.
type Issue struct {
	// Path is the JSON Pointer of the offending value, "" for the root.
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError lists every issue found in a document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

// Validate checks doc against s and returns a *ValidationError describing
// every mismatch, or nil. Unknown object keys are allowed. A nil schema
// accepts anything.
func (s *Schema) Validate(doc any) error {
	v := validator{}
	v.check(s, doc, nil)
	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: v.issues}
}

type validator struct {
	issues []Issue
}

func (v *validator) fail(path []string, format string, args ...any) {
	v.issues = append(v.issues, Issue{
		Path:    pointer.Format(path),
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) check(s *Schema, val any, path []string) {
	if s == nil {
		return
	}

	switch s.Kind {
	case KindObject:
		obj, ok := val.(map[string]any)
		if !ok {
			v.fail(path, "expected object, received %s", jsonvalue.TypeName(val))
			return
		}
		for _, f := range s.Fields {
			child, present := obj[f.Name]
			if !present {
				if !f.Schema.IsOptional() {
					v.fail(append(path, f.Name), "required")
				}
				continue
			}
			v.check(f.Schema, child, append(path[:len(path):len(path)], f.Name))
		}
	case KindArray:
		arr, ok := val.([]any)
		if !ok {
			v.fail(path, "expected array, received %s", jsonvalue.TypeName(val))
			return
		}
		for i, elem := range arr {
			v.check(s.Elem, elem, append(path[:len(path):len(path)], strconv.Itoa(i)))
		}
	case KindString, KindNumber, KindBoolean:
		if got := jsonvalue.TypeName(val); got != s.Kind.String() {
			v.fail(path, "expected %s, received %s", s.Kind, got)
		}
	case KindOptional:
		v.check(s.Inner, val, path)
	case KindNullable:
		if val != nil {
			v.check(s.Inner, val, path)
		}
	case KindEnum:
		for _, allowed := range s.Values {
			if jsonvalue.Equal(allowed, val) {
				return
			}
		}
		v.fail(path, "expected one of %s, received %s", enumList(s.Values), describe(val))
	case KindUnknown:
	default:
		v.fail(path, "unsupported schema kind %s", s.Kind)
	}
}

func enumList(values []any) string {
	parts := make([]string, len(values))
	for i, val := range values {
		parts[i] = describe(val)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}
