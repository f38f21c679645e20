package jsondoc

import "github.com/brunoga/jsondoc/patch"

// Event is a notification raised by a Store. It is one of PreviewStarted,
// PreviewAccepted, PreviewRejected or Changed.
type Event interface {
	event()
}

// Observer receives events synchronously, before the call that raised them
// returns. Observers may read from the Store but must not change it; such
// calls fail with ErrReentrantCall.
type Observer func(Event)

// PreviewStarted is raised when a preview transaction opens.
type PreviewStarted struct {
	ID               string
	Patch            patch.Patch
	HighlightedPaths []string
}

// PreviewAccepted is raised when a preview is committed. It is always
// followed by a Changed event.
type PreviewAccepted struct {
	ID    string
	Patch patch.Patch
}

// PreviewRejected is raised when a preview is discarded, either by
// RejectChanges or because committing it failed.
type PreviewRejected struct {
	ID string
}

// Changed carries a copy of a newly committed document.
type Changed struct {
	Document any
}

func (PreviewStarted) event()  {}
func (PreviewAccepted) event() {}
func (PreviewRejected) event() {}
func (Changed) event()         {}

type subscription struct {
	observer Observer
}
