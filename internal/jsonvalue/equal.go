package jsonvalue

import "encoding/json"

// Equal performs a deep equality check between two JSON values. Numbers are
// compared by value regardless of their Go representation, so an int 1 in a
// host-built value equals the float64 1 decoded from a document. Object key
// order is irrelevant; array order is significant.
func Equal(a, b any) bool {
	if !shallow(a) || !shallow(b) {
		na, err := Normalize(a)
		if err != nil {
			return false
		}
		nb, err := Normalize(b)
		if err != nil {
			return false
		}
		return Equal(na, nb)
	}

	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}

	switch ta := a.(type) {
	case nil:
		return b == nil
	case bool:
		tb, ok := b.(bool)
		return ok && ta == tb
	case string:
		tb, ok := b.(string)
		return ok && ta == tb
	case map[string]any:
		tb, ok := b.(map[string]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for k, va := range ta {
			vb, ok := tb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !Equal(ta[i], tb[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// shallow reports whether the top level of v is in the canonical model or is
// a plain Go number.
func shallow(v any) bool {
	switch v.(type) {
	case nil, bool, string, map[string]any, []any:
		return true
	}
	_, ok := number(v)
	return ok
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}
