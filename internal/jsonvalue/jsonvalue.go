// Package jsonvalue holds helpers for the canonical JSON value model used by
// every other package: map[string]any, []any, string, float64, bool and nil.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Normalize returns a fresh canonical copy of v. Values already in the
// canonical model are copied structurally. Integer and float types are
// converted to float64, json.Number is parsed and anything else goes through
// an encoding/json round trip, so structs and typed slices/maps are accepted.
func Normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool, string:
		return t, nil
	case float64:
		return checkFloat(t)
	case float32:
		return checkFloat(float64(t))
	case int:
		return float64(t), nil
	case int8:
		return float64(t), nil
	case int16:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint8:
		return float64(t), nil
	case uint16:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON number %q: %w", t, err)
		}
		return f, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			n, err := Normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			n, err := Normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value of type %T is not representable as JSON: %w", v, err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("value of type %T is not representable as JSON: %w", v, err)
	}
	return out, nil
}

func checkFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported number %v", f)
	}
	return f, nil
}

// IsCanonical reports whether v is entirely built from the canonical model.
func IsCanonical(v any) bool {
	switch t := v.(type) {
	case nil, bool, string, float64:
		return true
	case map[string]any:
		for _, elem := range t {
			if !IsCanonical(elem) {
				return false
			}
		}
		return true
	case []any:
		for _, elem := range t {
			if !IsCanonical(elem) {
				return false
			}
		}
		return true
	}
	return false
}

// TypeName returns the JSON type name of v ("object", "array", "string",
// "number", "boolean", "null") or its Go type when it is not canonical.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

// Keys returns the keys of m in sorted order.
func Keys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
