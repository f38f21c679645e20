package schema

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brunoga/jsondoc/internal/jsonvalue"
	"github.com/brunoga/jsondoc/pointer"
)

// ErrInvalidDefinition is returned when a schema definition cannot be parsed.
var ErrInvalidDefinition = errors.New("invalid schema definition")

// Parse reads a schema definition written in YAML (or JSON, which is a
// subset). A node is either a bare type name or a mapping:
//
//	type: object
//	fields:
//	  title: string
//	  status:
//	    enum: [draft, published]
//	  tags:
//	    type: array
//	    items: string
//	  note:
//	    type: string
//	    optional: true
//	    nullable: true
//
// Object fields keep the order in which they are declared.
func Parse(data []byte) (*Schema, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	if root.Kind == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
	}
	return parseNode(&root, "")
}

// ParseFile reads and parses the schema definition stored at path.
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// MustParse is like Parse but panics on error.
func MustParse(definition string) *Schema {
	s, err := Parse([]byte(definition))
	if err != nil {
		panic(err)
	}
	return s
}

func parseNode(n *yaml.Node, at string) (*Schema, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, definitionError(n, at, "empty document")
		}
		return parseNode(n.Content[0], at)
	case yaml.AliasNode:
		return parseNode(n.Alias, at)
	case yaml.ScalarNode:
		return leaf(n, at, n.Value)
	case yaml.MappingNode:
		return parseMapping(n, at)
	}
	return nil, definitionError(n, at, "expected a type name or a mapping")
}

func leaf(n *yaml.Node, at, name string) (*Schema, error) {
	switch name {
	case "string":
		return String(), nil
	case "number":
		return Number(), nil
	case "boolean":
		return Boolean(), nil
	case "unknown", "any":
		return &Schema{Kind: KindUnknown}, nil
	case "object":
		return Object(), nil
	}
	return nil, definitionError(n, at, "unknown type %q", name)
}

func parseMapping(n *yaml.Node, at string) (*Schema, error) {
	var (
		typeName           string
		fields, items      *yaml.Node
		values             *yaml.Node
		optional, nullable bool
	)

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "type":
			typeName = val.Value
		case "fields":
			fields = val
		case "items":
			items = val
		case "enum":
			values = val
		case "optional":
			if err := val.Decode(&optional); err != nil {
				return nil, definitionError(val, at, "optional: %v", err)
			}
		case "nullable":
			if err := val.Decode(&nullable); err != nil {
				return nil, definitionError(val, at, "nullable: %v", err)
			}
		default:
			return nil, definitionError(key, at, "unknown key %q", key.Value)
		}
	}

	if typeName == "" {
		switch {
		case values != nil:
			typeName = "enum"
		case fields != nil:
			typeName = "object"
		case items != nil:
			typeName = "array"
		default:
			return nil, definitionError(n, at, "missing type")
		}
	}

	var (
		s   *Schema
		err error
	)
	switch typeName {
	case "object":
		s, err = parseFields(fields, at)
	case "array":
		if items == nil {
			return nil, definitionError(n, at, "array without items")
		}
		var elem *Schema
		elem, err = parseNode(items, at+"/items")
		s = Array(elem)
	case "enum":
		s, err = parseEnum(values, n, at)
	default:
		s, err = leaf(n, at, typeName)
	}
	if err != nil {
		return nil, err
	}

	if nullable {
		s = Nullable(s)
	}
	if optional {
		s = Optional(s)
	}
	return s, nil
}

func parseFields(n *yaml.Node, at string) (*Schema, error) {
	if n == nil {
		return Object(), nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, definitionError(n, at, "fields must be a mapping")
	}

	obj := Object()
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		if seen[name] {
			return nil, definitionError(n.Content[i], at, "duplicate field %q", name)
		}
		seen[name] = true

		child, err := parseNode(n.Content[i+1], pointer.Join(at, name))
		if err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, Prop(name, child))
	}
	return obj, nil
}

func parseEnum(n, parent *yaml.Node, at string) (*Schema, error) {
	if n == nil || n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil, definitionError(parent, at, "enum needs a non-empty list of values")
	}

	values := make([]any, 0, len(n.Content))
	for _, item := range n.Content {
		var raw any
		if err := item.Decode(&raw); err != nil {
			return nil, definitionError(item, at, "enum value: %v", err)
		}
		v, err := jsonvalue.Normalize(raw)
		if err != nil {
			return nil, definitionError(item, at, "enum value: %v", err)
		}
		values = append(values, v)
	}
	return Enum(values...), nil
}

func definitionError(n *yaml.Node, at, format string, args ...any) error {
	if at == "" {
		at = "/"
	}
	return fmt.Errorf("%w: line %d at %s: %s", ErrInvalidDefinition, n.Line, at, fmt.Sprintf(format, args...))
}
