// Package clone provides interchangeable deep-copy strategies for JSON
// documents. Every strategy returns a value that shares no mutable state
// (maps or slices) with its input.
package clone

import (
	"fmt"

	deepcopy "github.com/barkimedes/go-deepcopy"
	goclone "github.com/huandu/go-clone"
	"github.com/mitchellh/copystructure"
)

// Func deep copies a JSON value.
type Func func(v any) (any, error)

// GoClone copies v with github.com/huandu/go-clone. It is the default
// strategy: the fastest of the three on map/slice trees and it cannot fail.
func GoClone(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return goclone.Clone(v), nil
}

// CopyStructure copies v with github.com/mitchellh/copystructure.
func CopyStructure(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	dst, err := copystructure.Copy(v)
	if err != nil {
		return nil, fmt.Errorf("copystructure: %w", err)
	}
	return dst, nil
}

// DeepCopy copies v with github.com/barkimedes/go-deepcopy. A panic inside
// the library is reported as an error.
//
// The library skips map entries holding a nil interface, so JSON null
// members are put back from v after the copy.
func DeepCopy(v any) (dst any, err error) {
	if v == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			dst, err = nil, fmt.Errorf("go-deepcopy: %v", r)
		}
	}()
	dst, err = deepcopy.Anything(v)
	if err != nil {
		return nil, fmt.Errorf("go-deepcopy: %w", err)
	}
	restoreNulls(v, dst)
	return dst, nil
}

// restoreNulls walks src and dst in parallel and sets every null member or
// element of src in dst.
func restoreNulls(src, dst any) {
	switch s := src.(type) {
	case map[string]any:
		d, ok := dst.(map[string]any)
		if !ok {
			return
		}
		for k, sv := range s {
			if sv == nil {
				d[k] = nil
				continue
			}
			restoreNulls(sv, d[k])
		}
	case []any:
		d, ok := dst.([]any)
		if !ok || len(d) != len(s) {
			return
		}
		for i, sv := range s {
			if sv == nil {
				d[i] = nil
				continue
			}
			restoreNulls(sv, d[i])
		}
	}
}

// Default is the strategy used when none is configured.
var Default Func = GoClone

// Or returns f, or Default when f is nil.
func Or(f Func) Func {
	if f == nil {
		return Default
	}
	return f
}

// Must copies v with f and panics on failure.
func Must(f Func, v any) any {
	dst, err := Or(f)(v)
	if err != nil {
		panic(err)
	}
	return dst
}
