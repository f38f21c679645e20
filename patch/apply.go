package patch

import (
	"encoding/json"
	"fmt"

	"github.com/brunoga/jsondoc/clone"
	"github.com/brunoga/jsondoc/internal/jsonvalue"
	"github.com/brunoga/jsondoc/pointer"
)

// Validator checks a candidate document and explains why it is rejected.
type Validator interface {
	Validate(doc any) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(doc any) error

func (f ValidatorFunc) Validate(doc any) error {
	return f(doc)
}

// Option configures Apply.
type Option func(*config)

type config struct {
	validator Validator
	clone     clone.Func
}

// WithValidator validates the fully patched document before it is returned.
// A nil validator disables validation.
func WithValidator(v Validator) Option {
	return func(c *config) {
		c.validator = v
	}
}

// WithCloner selects the deep-copy strategy used for the working copy.
func WithCloner(f clone.Func) Option {
	return func(c *config) {
		c.clone = f
	}
}

// Apply applies p to a deep copy of doc and returns the result. doc itself is
// never modified.
//
// The patch is all-or-nothing: the first failing operation aborts it with an
// *OperationError wrapping ErrInvalidPatchShape or ErrOperationFailed, and the
// partially patched copy is discarded. If a validator is configured the final
// document is checked and a rejection wraps ErrSchemaValidationFailed.
func Apply(doc any, p Patch, opts ...Option) (any, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	cloner := clone.Or(cfg.clone)

	working, err := workingCopy(doc, cloner)
	if err != nil {
		return nil, err
	}

	a := &applier{doc: working, clone: cloner}
	for i, op := range p {
		if err := a.apply(op); err != nil {
			return nil, &OperationError{Index: i, Op: op, Err: err}
		}
	}

	if cfg.validator != nil {
		if err := cfg.validator.Validate(a.doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaValidationFailed, err)
		}
	}
	return a.doc, nil
}

// workingCopy deep copies doc. Host values outside the canonical JSON model
// are normalized, which copies them as a side effect.
func workingCopy(doc any, cloner clone.Func) (any, error) {
	if !jsonvalue.IsCanonical(doc) {
		v, err := jsonvalue.Normalize(doc)
		if err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
		return v, nil
	}
	v, err := cloner(doc)
	if err != nil {
		return nil, fmt.Errorf("copying document: %w", err)
	}
	return v, nil
}

// applier mutates a private working copy in place.
type applier struct {
	doc   any
	clone clone.Func
}

func (a *applier) apply(op Operation) error {
	if err := op.Validate(); err != nil {
		return err
	}

	switch op.Op {
	case OperationTypeAdd:
		v, err := jsonvalue.Normalize(op.Value)
		if err != nil {
			return fmt.Errorf("%w: value: %v", ErrInvalidPatchShape, err)
		}
		return a.add(op.Path, v)
	case OperationTypeRemove:
		_, err := a.remove(op.Path)
		return err
	case OperationTypeReplace:
		v, err := jsonvalue.Normalize(op.Value)
		if err != nil {
			return fmt.Errorf("%w: value: %v", ErrInvalidPatchShape, err)
		}
		return a.replace(op.Path, v)
	case OperationTypeMove:
		return a.move(op.From, op.Path)
	case OperationTypeCopy:
		return a.copy(op.From, op.Path)
	case OperationTypeTest:
		return a.test(op.Path, op.Value)
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidPatchShape, op.Op)
	}
}

func (a *applier) add(path string, value any) error {
	segs := pointer.Segments(path)
	if len(segs) == 0 {
		a.doc = value
		return nil
	}

	parentSegs, last := segs[:len(segs)-1], segs[len(segs)-1]
	parent, ok := pointer.ResolveSegments(a.doc, parentSegs)
	if !ok {
		return failed("parent of %s does not exist", path)
	}

	switch node := parent.(type) {
	case map[string]any:
		node[last] = value
		return nil
	case []any:
		if last == pointer.Append {
			a.write(parentSegs, append(node, value))
			return nil
		}
		idx, ok := pointer.ParseIndex(last)
		if !ok {
			return failed("invalid array index %q in %s", last, path)
		}
		if idx > len(node) {
			return failed("index %d out of range for array of length %d at %s", idx, len(node), path)
		}
		grown := make([]any, 0, len(node)+1)
		grown = append(grown, node[:idx]...)
		grown = append(grown, value)
		grown = append(grown, node[idx:]...)
		a.write(parentSegs, grown)
		return nil
	default:
		return failed("cannot add to %s at %s", jsonvalue.TypeName(parent), pointer.Format(parentSegs))
	}
}

func (a *applier) remove(path string) (any, error) {
	segs := pointer.Segments(path)
	if len(segs) == 0 {
		return nil, failed("cannot remove the document root")
	}

	parentSegs, last := segs[:len(segs)-1], segs[len(segs)-1]
	parent, ok := pointer.ResolveSegments(a.doc, parentSegs)
	if !ok {
		return nil, failed("path %s does not exist", path)
	}

	switch node := parent.(type) {
	case map[string]any:
		v, ok := node[last]
		if !ok {
			return nil, failed("path %s does not exist", path)
		}
		delete(node, last)
		return v, nil
	case []any:
		idx, ok := pointer.ParseIndex(last)
		if !ok || idx >= len(node) {
			return nil, failed("path %s does not exist", path)
		}
		v := node[idx]
		shrunk := make([]any, 0, len(node)-1)
		shrunk = append(shrunk, node[:idx]...)
		shrunk = append(shrunk, node[idx+1:]...)
		a.write(parentSegs, shrunk)
		return v, nil
	default:
		return nil, failed("path %s does not exist", path)
	}
}

func (a *applier) replace(path string, value any) error {
	segs := pointer.Segments(path)
	if _, ok := pointer.ResolveSegments(a.doc, segs); !ok {
		return failed("path %s does not exist", path)
	}
	a.write(segs, value)
	return nil
}

func (a *applier) move(from, path string) error {
	if pointer.IsStrictAncestor(from, path) {
		return failed("cannot move %s into its own child %s", from, path)
	}
	if _, ok := pointer.Resolve(a.doc, from); !ok {
		return failed("from path %s does not exist", from)
	}
	if from == path {
		return nil
	}
	v, err := a.remove(from)
	if err != nil {
		return err
	}
	return a.add(path, v)
}

func (a *applier) copy(from, path string) error {
	v, ok := pointer.Resolve(a.doc, from)
	if !ok {
		return failed("from path %s does not exist", from)
	}
	dup, err := a.clone(v)
	if err != nil {
		return fmt.Errorf("copying %s: %w", from, err)
	}
	return a.add(path, dup)
}

func (a *applier) test(path string, expected any) error {
	actual, ok := pointer.Resolve(a.doc, path)
	if !ok {
		return failed("path %s does not exist", path)
	}
	if !jsonvalue.Equal(actual, expected) {
		return failed("test at %s: expected %s, got %s", path, compact(expected), compact(actual))
	}
	return nil
}

// write stores v at an existing location addressed by segs.
func (a *applier) write(segs []string, v any) {
	if len(segs) == 0 {
		a.doc = v
		return
	}
	parent, _ := pointer.ResolveSegments(a.doc, segs[:len(segs)-1])
	last := segs[len(segs)-1]
	switch node := parent.(type) {
	case map[string]any:
		node[last] = v
	case []any:
		idx, _ := pointer.ParseIndex(last)
		node[idx] = v
	}
}

func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
