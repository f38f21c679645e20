package jsondoc

import "errors"

var (
	// ErrNoDocumentLoaded is returned when an operation needs a document and
	// SetDocument has not been called.
	ErrNoDocumentLoaded = errors.New("no document loaded")

	// ErrPreviewInProgress is returned by PreviewChanges when a preview is
	// already open.
	ErrPreviewInProgress = errors.New("preview in progress")

	// ErrEditSuppressed is recorded when a direct edit arrives while a
	// preview is open.
	ErrEditSuppressed = errors.New("edit suppressed")

	// ErrReentrantCall is returned when an observer tries to change the
	// store from inside a notification.
	ErrReentrantCall = errors.New("reentrant call from observer")
)
