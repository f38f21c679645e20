package schema

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a schema definition file whenever it changes.
//
// Reloaded schemas and parse failures are delivered on Schemas and Errors.
// Both channels must be drained; they are closed once the context passed to
// Watch is done. A Store is not safe for concurrent use, so the receiving
// side is expected to hand new schemas to SetDocumentSchema from the
// goroutine that owns the store.
type Watcher struct {
	fsw     *fsnotify.Watcher
	path    string
	schemas chan *Schema
	errs    chan error
}

// Watch starts watching the definition file at path. The directory holding
// the file is watched, so editors that save by renaming a temporary file over
// the original are picked up too.
func Watch(ctx context.Context, path string) (*Watcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	w := &Watcher{
		fsw:     fsw,
		path:    path,
		schemas: make(chan *Schema, 1),
		errs:    make(chan error, 1),
	}
	go w.run(ctx)
	return w, nil
}

// Schemas delivers every definition that parsed successfully.
func (w *Watcher) Schemas() <-chan *Schema {
	return w.schemas
}

// Errors delivers read and parse failures. The previous schema stays in
// effect when one occurs.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.errs)
	defer close(w.schemas)
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			s, err := ParseFile(w.path)
			if err != nil {
				w.send(ctx, nil, err)
				continue
			}
			w.send(ctx, s, nil)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(ctx, nil, err)
		}
	}
}

func (w *Watcher) send(ctx context.Context, s *Schema, err error) {
	if err != nil {
		select {
		case w.errs <- err:
		case <-ctx.Done():
		}
		return
	}
	select {
	case w.schemas <- s:
	case <-ctx.Done():
	}
}
