package service

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/thiiagovboas/eureca-assistant/types"
)

// DocumentWatcher invalidates the index as soon as a tracked document
// changes on disk, instead of waiting for the next staleness check.
type DocumentWatcher struct {
	watcher *fsnotify.Watcher
	indexer *IndexService
	paths   map[string]struct{}
}

func NewDocumentWatcher(refs []types.DocumentRef, indexer *IndexService) (*DocumentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// fsnotify watches directories; events are filtered back down to the
	// tracked files.
	paths := make(map[string]struct{}, len(refs))
	dirs := make(map[string]struct{})
	for _, ref := range refs {
		paths[filepath.Clean(ref.Path)] = struct{}{}
		dir := filepath.Dir(ref.Path)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := watcher.Add(dir); err != nil {
			log.Printf("Warning: cannot watch %s: %v", dir, err)
		}
	}

	return &DocumentWatcher{
		watcher: watcher,
		indexer: indexer,
		paths:   paths,
	}, nil
}

// Run processes events until the context is cancelled or the watcher is
// stopped. It is meant to run in its own goroutine.
func (w *DocumentWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if _, tracked := w.paths[filepath.Clean(event.Name)]; !tracked {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Printf("Document %s changed (%s)", event.Name, event.Op)
			w.indexer.MarkDirty()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (w *DocumentWatcher) Stop() error {
	return w.watcher.Close()
}
