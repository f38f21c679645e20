// Package patch implements the RFC 6902 operation vocabulary and the engine
// that applies a Patch to a JSON document atomically.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/brunoga/jsondoc/internal/jsonvalue"
)

// Patch is an ordered sequence of operations. Operations are applied
// strictly in order.
type Patch []Operation

// New creates a patch from the given operations. A single operation becomes
// a one-element patch.
func New(ops ...Operation) Patch {
	return Patch(ops)
}

// Validate checks the shape of every operation. The returned error wraps
// ErrInvalidPatchShape and names the first offending operation.
func (p Patch) Validate() error {
	for i, op := range p {
		if err := op.Validate(); err != nil {
			return &OperationError{Index: i, Op: op, Err: err}
		}
	}
	return nil
}

// Paths returns the distinct target paths of the patch in order of first
// occurrence. Operations without a path are skipped.
func (p Patch) Paths() []string {
	paths := make([]string, 0, len(p))
	seen := make(map[string]struct{}, len(p))
	for _, op := range p {
		if op.Path == "" {
			continue
		}
		if _, ok := seen[op.Path]; ok {
			continue
		}
		seen[op.Path] = struct{}{}
		paths = append(paths, op.Path)
	}
	return paths
}

// Clone returns a copy of the patch slice. Operation values are shared.
func (p Patch) Clone() Patch {
	if p == nil {
		return nil
	}
	out := make(Patch, len(p))
	copy(out, p)
	return out
}

// Normalize returns a copy of the patch whose values are fresh canonical JSON
// values. Changes the caller makes to the original values afterwards are not
// seen by the copy.
func (p Patch) Normalize() (Patch, error) {
	if p == nil {
		return nil, nil
	}
	out := make(Patch, len(p))
	for i, op := range p {
		if op.HasValue() {
			v, err := jsonvalue.Normalize(op.Value)
			if err != nil {
				return nil, &OperationError{Index: i, Op: op, Err: fmt.Errorf("%w: value: %v", ErrInvalidPatchShape, err)}
			}
			op.Value = v
		}
		out[i] = op
	}
	return out, nil
}

// String returns the patch encoded as JSON.
func (p Patch) String() string {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Sprintf("<invalid patch: %v>", err)
	}
	return string(data)
}

// Decode parses a patch from JSON. Both an array of operations and a single
// operation object are accepted. Shape is not validated; call Validate.
func Decode(data []byte) (Patch, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidPatchShape)
	}

	if data[0] == '{' {
		var op Operation
		if err := json.Unmarshal(data, &op); err != nil {
			return nil, fmt.Errorf("decoding operation: %w", err)
		}
		return Patch{op}, nil
	}

	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding patch: %w", err)
	}
	return p, nil
}

// MustDecode is like Decode but panics on failure. It is meant for literals
// in tests and examples.
func MustDecode(data string) Patch {
	p, err := Decode([]byte(data))
	if err != nil {
		panic(err)
	}
	return p
}
