// Package pointer resolves slash-delimited paths (RFC 6901 JSON Pointers)
// against JSON value trees.
//
// Both "" and "/" denote the root. Any other pointer is a sequence of
// "/"-prefixed segments; "~1" and "~0" inside a segment decode to "/" and "~".
package pointer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPointer is returned by Parse for strings that are neither a root
// pointer nor start with "/".
var ErrInvalidPointer = errors.New("invalid pointer")

// Append is the final segment that addresses the position after the last
// element of an array.
const Append = "-"

const maxIndex = 1<<31 - 1

// IsRoot reports whether p addresses the whole document.
func IsRoot(p string) bool {
	return p == "" || p == "/"
}

// Parse splits p into its unescaped segments. The root pointer yields no
// segments.
func Parse(p string) ([]string, error) {
	if IsRoot(p) {
		return nil, nil
	}
	if !strings.HasPrefix(p, "/") {
		return nil, fmt.Errorf("%w: %q must start with \"/\"", ErrInvalidPointer, p)
	}

	tokens := strings.Split(p[1:], "/")
	for i, token := range tokens {
		tokens[i] = Unescape(token)
	}
	return tokens, nil
}

// Segments is like Parse but returns nil for invalid pointers.
func Segments(p string) []string {
	segs, err := Parse(p)
	if err != nil {
		return nil
	}
	return segs
}

// Format builds a pointer from unescaped segments.
func Format(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(Escape(seg))
	}
	return b.String()
}

// Join appends unescaped segments to the pointer base.
func Join(base string, segments ...string) string {
	if IsRoot(base) {
		base = ""
	}
	return base + Format(segments)
}

// Parent splits p into the pointer of its parent and its last unescaped
// segment. It returns false for the root and for invalid pointers.
func Parent(p string) (string, string, bool) {
	segs, err := Parse(p)
	if err != nil || len(segs) == 0 {
		return "", "", false
	}
	return Format(segs[:len(segs)-1]), segs[len(segs)-1], true
}

// IsStrictAncestor reports whether ancestor addresses a location strictly
// above p. The root is a strict ancestor of every non-root pointer.
func IsStrictAncestor(ancestor, p string) bool {
	a, err := Parse(ancestor)
	if err != nil {
		return false
	}
	b, err := Parse(p)
	if err != nil || len(a) >= len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Escape encodes "~" and "/" in a single segment.
func Escape(segment string) string {
	if !strings.ContainsAny(segment, "~/") {
		return segment
	}
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}

// Unescape decodes a single segment. "~1" is decoded before "~0" so that
// "~01" yields "~1".
func Unescape(segment string) string {
	if !strings.Contains(segment, "~") {
		return segment
	}
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}

// ParseIndex parses an array index segment: base-10 digits without a leading
// zero (except "0" itself). It does not check bounds.
func ParseIndex(segment string) (int, bool) {
	if segment == "" || (len(segment) > 1 && segment[0] == '0') {
		return 0, false
	}
	n := 0
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n > maxIndex {
			return 0, false
		}
	}
	return n, true
}
