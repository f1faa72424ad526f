// Package reload watches shader source files and signals when they change.
package reload

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a fixed set of files. It watches the parent
// directories rather than the files, since editors often save by renaming a
// new file over the old one.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	events  chan struct{}
	done    chan struct{}
}

func New(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		files:   make(map[string]struct{}),
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go w.loop()
	return w, nil
}

// Events delivers one value per burst of changes. Pending notifications are
// coalesced, so a slow reader sees at most one.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := w.files[abs]; !ok {
				continue
			}
			log.Printf("Shader source changed: %s", ev.Name)
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Shader watcher error: %v", err)
		}
	}
}
