// Package jsondoc holds a single JSON document, applies patches to it and
// stages patches as reversible previews.
//
// A Store owns one committed document and an optional structural schema.
// ApplyPatch is the only direct mutation. PreviewChanges applies a patch to a
// copy and shows the result without committing it; AcceptChanges commits the
// preview and RejectChanges restores the document exactly as it was.
//
// A Store is not safe for concurrent use. It is meant to be driven by one
// logical writer, such as the host application's event loop.
package jsondoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/brunoga/jsondoc/clone"
	"github.com/brunoga/jsondoc/internal/jsonvalue"
	"github.com/brunoga/jsondoc/patch"
	"github.com/brunoga/jsondoc/pointer"
	"github.com/brunoga/jsondoc/schema"
)

// Store owns a document, its schema, an error log and at most one open
// preview transaction.
type Store struct {
	logger *slog.Logger
	cloner clone.Func
	schema *schema.Schema

	// doc is the visible document: the committed one while idle and the
	// speculative one while previewing. It is never modified in place.
	doc    any
	loaded bool

	errs []string
	tx   *transaction

	subs      []*subscription
	notifying bool
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
		cloner: clone.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDocument replaces the document with a canonical copy of doc. Host values
// such as structs or typed slices are converted through encoding/json. An
// open preview is dropped without notifications and the error log is
// cleared. A failed conversion leaves the store untouched.
func (s *Store) SetDocument(doc any) error {
	if s.notifying {
		return s.refuse("set document")
	}

	v, err := jsonvalue.Normalize(doc)
	if err != nil {
		return fmt.Errorf("set document: %w", err)
	}

	if s.tx != nil {
		s.logger.Debug("open preview dropped", "op", "set document", "preview_id", s.tx.id)
		s.tx = nil
	}
	s.doc = v
	s.loaded = true
	s.errs = nil
	return nil
}

// SetDocumentSchema sets the schema that patched documents must satisfy. A
// nil schema disables validation. The current document is not re-validated.
func (s *Store) SetDocumentSchema(sc *schema.Schema) error {
	if s.notifying {
		return s.refuse("set schema")
	}
	s.schema = sc
	return nil
}

// Schema returns the current schema, or nil.
func (s *Store) Schema() *schema.Schema {
	return s.schema
}

// HasDocument reports whether SetDocument has been called. A document that
// is JSON null still counts.
func (s *Store) HasDocument() bool {
	return s.loaded
}

// Document returns a copy of the visible document, or nil when none is
// loaded.
func (s *Store) Document() any {
	if !s.loaded {
		return nil
	}
	return s.copyOf(s.doc)
}

// NodeByPointer returns a copy of the value at p in the visible document. It
// returns nil when no document is loaded or p cannot be resolved; use Lookup
// to tell a JSON null apart from a missing value.
func (s *Store) NodeByPointer(p string) any {
	v, _ := s.Lookup(p)
	return v
}

// Lookup is like NodeByPointer but also reports whether p was found.
func (s *Store) Lookup(p string) (any, bool) {
	if !s.loaded {
		return nil, false
	}
	v, ok := pointer.Resolve(s.doc, p)
	if !ok {
		return nil, false
	}
	return s.copyOf(v), true
}

// Query evaluates a gjson path expression (for example "items.#.label" or
// `items.#(done==true)#`) against the visible document. It is a convenience
// for hosts; pointers remain the addressing scheme of every other method.
func (s *Store) Query(expr string) (any, bool) {
	if !s.loaded {
		return nil, false
	}
	data, err := json.Marshal(s.doc)
	if err != nil {
		s.logger.Error("query failed", "op", "query", "path", expr, "reason", err)
		return nil, false
	}
	r := gjson.GetBytes(data, expr)
	if !r.Exists() {
		return nil, false
	}
	return r.Value(), true
}

// ApplyPatch applies the operations as one all-or-nothing patch and commits
// the result. On success the error log is cleared and Changed is raised. On
// failure a message is appended to the error log, the document is left
// untouched and false is returned.
//
// Direct edits are suppressed while a preview is open.
func (s *Store) ApplyPatch(ops ...patch.Operation) bool {
	const op = "apply patch"

	if s.notifying {
		s.errs = append(s.errs, s.refuse(op).Error())
		return false
	}
	if !s.loaded {
		s.record(op, ErrNoDocumentLoaded)
		s.logger.Warn("patch rejected", "op", op, "reason", ErrNoDocumentLoaded)
		return false
	}
	if s.tx != nil {
		err := fmt.Errorf("%w: %w", ErrEditSuppressed, ErrPreviewInProgress)
		s.errs = append(s.errs, err.Error())
		s.logger.Warn("edit suppressed", "op", op, "preview_id", s.tx.id, "patch", patch.Patch(ops).String())
		return false
	}

	next, err := s.apply(s.doc, patch.New(ops...))
	if err != nil {
		s.record(op, err)
		s.logger.Warn("patch rejected", "op", op, "path", failingPath(err), "reason", err)
		return false
	}

	s.doc = next
	s.errs = nil
	s.logger.Debug("patch applied", "op", op, "operations", len(ops))
	s.emit(Changed{Document: s.copyOf(next)})
	return true
}

// Errors returns a copy of the error log.
func (s *Store) Errors() []string {
	return slices.Clone(s.errs)
}

// ClearErrors empties the error log.
func (s *Store) ClearErrors() {
	s.errs = nil
}

// Subscribe registers o for every future event and returns a function that
// removes it again.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	sub := &subscription{observer: o}
	s.subs = append(s.subs, sub)
	return func() {
		if i := slices.Index(s.subs, sub); i >= 0 {
			s.subs = slices.Delete(s.subs, i, i+1)
		}
	}
}

func (s *Store) emit(e Event) {
	s.notifying = true
	defer func() { s.notifying = false }()

	for _, sub := range slices.Clone(s.subs) {
		sub.observer(e)
	}
}

func (s *Store) apply(doc any, p patch.Patch) (any, error) {
	opts := []patch.Option{patch.WithCloner(s.cloner)}
	if s.schema != nil {
		opts = append(opts, patch.WithValidator(s.schema))
	}
	return patch.Apply(doc, p, opts...)
}

func (s *Store) record(op string, err error) {
	s.errs = append(s.errs, op+": "+err.Error())
}

func (s *Store) refuse(op string) error {
	s.logger.Error("call refused", "op", op, "reason", ErrReentrantCall)
	return fmt.Errorf("%s: %w", op, ErrReentrantCall)
}

// copyOf returns a deep copy of a canonical value. Normalize copies as well,
// so it backs up a failing cloner.
func (s *Store) copyOf(v any) any {
	c, err := s.cloner(v)
	if err == nil {
		return c
	}
	s.logger.Error("copy failed", "reason", err)
	c, _ = jsonvalue.Normalize(v)
	return c
}

func failingPath(err error) string {
	var opErr *patch.OperationError
	if errors.As(err, &opErr) {
		return opErr.Op.Path
	}
	return ""
}
