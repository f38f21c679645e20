package jsondoc

import (
	"log/slog"

	"github.com/brunoga/jsondoc/clone"
	"github.com/brunoga/jsondoc/schema"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for diagnostics. The default discards
// everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSchema sets the structural schema every committed document must
// satisfy. It is equivalent to calling SetDocumentSchema after New.
func WithSchema(sc *schema.Schema) Option {
	return func(s *Store) {
		s.schema = sc
	}
}

// WithCloner selects the deep-copy strategy used for working copies and for
// the copies handed out to callers.
func WithCloner(f clone.Func) Option {
	return func(s *Store) {
		s.cloner = clone.Or(f)
	}
}

// WithObserver registers an observer for the lifetime of the Store.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.Subscribe(o)
	}
}
