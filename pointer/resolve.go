package pointer

// Resolve returns the value addressed by p inside doc. The boolean result is
// false when nothing is reachable there; Resolve never fails otherwise.
//
// Arrays ([]any) are indexed by in-bounds ParseIndex segments and objects
// (map[string]any) by key. Any other node with segments left, including null,
// resolves to not found.
func Resolve(doc any, p string) (any, bool) {
	segs, err := Parse(p)
	if err != nil {
		return nil, false
	}
	return ResolveSegments(doc, segs)
}

// ResolveSegments is Resolve for an already parsed pointer.
func ResolveSegments(doc any, segments []string) (any, bool) {
	current := doc
	for _, seg := range segments {
		switch node := current.(type) {
		case []any:
			idx, ok := ParseIndex(seg)
			if !ok || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	return current, true
}

// Has reports whether p resolves inside doc.
func Has(doc any, p string) bool {
	_, ok := Resolve(doc, p)
	return ok
}
