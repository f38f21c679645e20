package patch

import (
	"encoding/json"
	"fmt"

	"github.com/wI2L/jsondiff"
)

// Diff returns a patch that transforms from into to. It lets a suggestion
// engine that produces a whole candidate document stage it as a preview.
// Applying the result to from yields a document equal to to.
func Diff(from, to any) (Patch, error) {
	source, err := json.Marshal(from)
	if err != nil {
		return nil, fmt.Errorf("encoding source document: %w", err)
	}
	target, err := json.Marshal(to)
	if err != nil {
		return nil, fmt.Errorf("encoding target document: %w", err)
	}

	ops, err := jsondiff.CompareJSON(source, target)
	if err != nil {
		return nil, fmt.Errorf("comparing documents: %w", err)
	}

	p := make(Patch, 0, len(ops))
	for _, op := range ops {
		out := Operation{
			Op:   OperationType(op.Type),
			Path: rootOrPath(string(op.Path)),
			From: string(op.From),
		}
		if out.Op.NeedsValue() {
			out.Value = op.Value
			out.hasValue = true
		}
		p = append(p, out)
	}
	return p, nil
}

// jsondiff addresses the whole document with "", which this package reserves
// for a missing path.
func rootOrPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
