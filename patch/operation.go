package patch

import (
	"encoding/json"
	"fmt"

	"github.com/brunoga/jsondoc/pointer"
)

// OperationType defines the allowed JSON Patch operation types.
type OperationType string

const (
	OperationTypeAdd     OperationType = "add"
	OperationTypeRemove  OperationType = "remove"
	OperationTypeReplace OperationType = "replace"
	OperationTypeMove    OperationType = "move"
	OperationTypeCopy    OperationType = "copy"
	OperationTypeTest    OperationType = "test"
)

// Valid reports whether t is one of the six RFC 6902 operation types.
func (t OperationType) Valid() bool {
	switch t {
	case OperationTypeAdd, OperationTypeRemove, OperationTypeReplace,
		OperationTypeMove, OperationTypeCopy, OperationTypeTest:
		return true
	}
	return false
}

// NeedsValue reports whether operations of type t must carry a value.
func (t OperationType) NeedsValue() bool {
	return t == OperationTypeAdd || t == OperationTypeReplace || t == OperationTypeTest
}

// NeedsFrom reports whether operations of type t must carry a source pointer.
func (t OperationType) NeedsFrom() bool {
	return t == OperationTypeMove || t == OperationTypeCopy
}

// Operation represents a single operation in a Patch.
//
// A nil Value counts as absent unless the operation was built with one of the
// constructors below or decoded from JSON carrying an explicit "value": null.
type Operation struct {
	Op    OperationType `json:"op"`
	Path  string        `json:"path"`
	Value any           `json:"value,omitempty"` // Used for "add", "replace", "test"
	From  string        `json:"from,omitempty"`  // Used for "move", "copy"

	hasValue bool
}

// Add creates an operation that inserts value at path.
func Add(path string, value any) Operation {
	return Operation{Op: OperationTypeAdd, Path: path, Value: value, hasValue: true}
}

// Remove creates an operation that deletes the value at path.
func Remove(path string) Operation {
	return Operation{Op: OperationTypeRemove, Path: path}
}

// Replace creates an operation that overwrites the existing value at path.
func Replace(path string, value any) Operation {
	return Operation{Op: OperationTypeReplace, Path: path, Value: value, hasValue: true}
}

// Move creates an operation that moves the value at from to path.
func Move(from, path string) Operation {
	return Operation{Op: OperationTypeMove, Path: path, From: from}
}

// Copy creates an operation that copies the value at from to path.
func Copy(from, path string) Operation {
	return Operation{Op: OperationTypeCopy, Path: path, From: from}
}

// Test creates an operation that checks the value at path equals value.
func Test(path string, value any) Operation {
	return Operation{Op: OperationTypeTest, Path: path, Value: value, hasValue: true}
}

// HasValue reports whether the operation carries a value, including an
// explicit null.
func (o Operation) HasValue() bool {
	return o.hasValue || o.Value != nil
}

// Validate checks the shape of the operation without looking at any
// document. Failures wrap ErrInvalidPatchShape.
func (o Operation) Validate() error {
	if !o.Op.Valid() {
		return fmt.Errorf("%w: unknown op %q", ErrInvalidPatchShape, o.Op)
	}
	if o.Path == "" {
		return fmt.Errorf("%w: %s operation has no path", ErrInvalidPatchShape, o.Op)
	}
	if _, err := pointer.Parse(o.Path); err != nil {
		return fmt.Errorf("%w: path: %v", ErrInvalidPatchShape, err)
	}
	if o.Op.NeedsValue() && !o.HasValue() {
		return fmt.Errorf("%w: %s operation at %s has no value", ErrInvalidPatchShape, o.Op, o.Path)
	}
	if o.Op.NeedsFrom() {
		if o.From == "" {
			return fmt.Errorf("%w: %s operation at %s has no from", ErrInvalidPatchShape, o.Op, o.Path)
		}
		if _, err := pointer.Parse(o.From); err != nil {
			return fmt.Errorf("%w: from: %v", ErrInvalidPatchShape, err)
		}
	}
	return nil
}

// String returns a compact human readable form such as "replace /title".
func (o Operation) String() string {
	if o.Op.NeedsFrom() {
		return fmt.Sprintf("%s %s -> %s", o.Op, o.From, o.Path)
	}
	return fmt.Sprintf("%s %s", o.Op, o.Path)
}

type operationJSON struct {
	Op   OperationType `json:"op"`
	Path string        `json:"path"`
	From string        `json:"from,omitempty"`
}

type operationValueJSON struct {
	Op    OperationType `json:"op"`
	Path  string        `json:"path"`
	From  string        `json:"from,omitempty"`
	Value any           `json:"value"`
}

// MarshalJSON encodes the operation, writing "value" whenever HasValue is
// true, even for null.
func (o Operation) MarshalJSON() ([]byte, error) {
	if o.HasValue() {
		return json.Marshal(operationValueJSON{Op: o.Op, Path: o.Path, From: o.From, Value: o.Value})
	}
	return json.Marshal(operationJSON{Op: o.Op, Path: o.Path, From: o.From})
}

// UnmarshalJSON decodes an operation object, remembering whether "value" was
// present so that an explicit null stays distinguishable from a missing value.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("%w: operation is null", ErrInvalidPatchShape)
	}

	var out Operation
	if raw, ok := fields["op"]; ok {
		if err := json.Unmarshal(raw, &out.Op); err != nil {
			return fmt.Errorf("%w: op: %v", ErrInvalidPatchShape, err)
		}
	}
	if raw, ok := fields["path"]; ok {
		if err := json.Unmarshal(raw, &out.Path); err != nil {
			return fmt.Errorf("%w: path: %v", ErrInvalidPatchShape, err)
		}
	}
	if raw, ok := fields["from"]; ok {
		if err := json.Unmarshal(raw, &out.From); err != nil {
			return fmt.Errorf("%w: from: %v", ErrInvalidPatchShape, err)
		}
	}
	if raw, ok := fields["value"]; ok {
		if err := json.Unmarshal(raw, &out.Value); err != nil {
			return fmt.Errorf("%w: value: %v", ErrInvalidPatchShape, err)
		}
		out.hasValue = true
	}

	*o = out
	return nil
}
