package jsondoc

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/brunoga/jsondoc/patch"
)

// transaction is an open preview. original is the committed document at the
// time the preview started; it is never modified.
type transaction struct {
	id       string
	original any
	patch    patch.Patch
	paths    []string
}

// PreviewChanges applies the operations to a copy of the committed document
// and makes the result the visible document without committing it.
// PreviewStarted is raised on success.
//
// An empty patch is malformed: there would be nothing to review. Any failure
// is logged, appended to the error log and returned; the store is left
// exactly as it was.
func (s *Store) PreviewChanges(ops ...patch.Operation) error {
	const op = "preview"

	if s.notifying {
		return s.refuse(op)
	}
	if !s.loaded {
		return s.previewFailed(ErrNoDocumentLoaded, "")
	}
	if s.tx != nil {
		return s.previewFailed(ErrPreviewInProgress, "")
	}

	p, err := patch.New(ops...).Normalize()
	if err == nil {
		err = p.Validate()
	}
	if err == nil && len(p) == 0 {
		err = fmt.Errorf("%w: empty patch", patch.ErrInvalidPatchShape)
	}
	if err != nil {
		return s.previewFailed(fmt.Errorf("malformed patch: %w", err), failingPath(err))
	}

	original := s.doc
	next, err := s.apply(original, p)
	if err != nil {
		return s.previewFailed(err, failingPath(err))
	}

	tx := &transaction{
		id:       uuid.NewString(),
		original: original,
		patch:    p,
		paths:    p.Paths(),
	}
	s.tx = tx
	s.doc = next

	s.logger.Debug("preview started", "op", op, "preview_id", tx.id, "paths", tx.paths)
	s.emit(PreviewStarted{
		ID:               tx.id,
		Patch:            s.patchCopy(tx.patch),
		HighlightedPaths: slices.Clone(tx.paths),
	})
	return nil
}

func (s *Store) previewFailed(err error, path string) error {
	s.record("preview", err)
	s.logger.Warn("preview rejected", "op", "preview", "path", path, "reason", err)
	return fmt.Errorf("preview: %w", err)
}

// AcceptChanges commits the open preview. The patch is applied again to the
// original document under the current schema, so the committed document is
// exactly what ApplyPatch would have produced. PreviewAccepted and then
// Changed are raised after the store is back to idle, so observers already
// see IsPreviewing() == false and the committed document.
//
// If the commit fails, for example because the schema changed since the
// preview started, the visible document is rolled back to the original,
// PreviewRejected is raised and the error is returned.
//
// Without an open preview AcceptChanges does nothing.
func (s *Store) AcceptChanges() error {
	const op = "accept preview"

	if s.notifying {
		return s.refuse(op)
	}
	tx := s.tx
	if tx == nil {
		return nil
	}

	committed, err := s.apply(tx.original, tx.patch)
	s.tx = nil
	if err != nil {
		s.doc = tx.original
		s.record(op, err)
		s.logger.Error("preview rolled back", "op", op, "preview_id", tx.id, "path", failingPath(err), "reason", err)
		s.emit(PreviewRejected{ID: tx.id})
		return fmt.Errorf("%s %s: %w", op, tx.id, err)
	}

	s.doc = committed
	s.errs = nil
	s.logger.Debug("preview accepted", "op", op, "preview_id", tx.id)
	s.emit(PreviewAccepted{ID: tx.id, Patch: s.patchCopy(tx.patch)})
	s.emit(Changed{Document: s.copyOf(committed)})
	return nil
}

// RejectChanges discards the open preview and restores the original
// document. PreviewRejected is raised; Changed is not. Without an open
// preview RejectChanges does nothing.
func (s *Store) RejectChanges() error {
	if s.notifying {
		return s.refuse("reject preview")
	}
	tx := s.tx
	if tx == nil {
		return nil
	}

	s.doc = tx.original
	s.tx = nil
	s.logger.Debug("preview rejected", "op", "reject preview", "preview_id", tx.id)
	s.emit(PreviewRejected{ID: tx.id})
	return nil
}

// IsPreviewing reports whether a preview is open.
func (s *Store) IsPreviewing() bool {
	return s.tx != nil
}

// HighlightedPaths returns the distinct paths touched by the open preview in
// order of first occurrence. It is empty while idle.
func (s *Store) HighlightedPaths() []string {
	if s.tx == nil {
		return []string{}
	}
	return slices.Clone(s.tx.paths)
}

// ActivePatch returns a copy of the open preview's patch, or nil.
func (s *Store) ActivePatch() patch.Patch {
	if s.tx == nil {
		return nil
	}
	return s.patchCopy(s.tx.patch)
}

// OriginalSnapshot returns a copy of the committed document retained by the
// open preview.
func (s *Store) OriginalSnapshot() (any, bool) {
	if s.tx == nil {
		return nil, false
	}
	return s.copyOf(s.tx.original), true
}

// PreviewID returns the identifier of the open preview, or "".
func (s *Store) PreviewID() string {
	if s.tx == nil {
		return ""
	}
	return s.tx.id
}

func (s *Store) patchCopy(p patch.Patch) patch.Patch {
	c, err := p.Normalize()
	if err != nil {
		// p was normalized when the preview started.
		return p.Clone()
	}
	return c
}
