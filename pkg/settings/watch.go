package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store holds the current settings and swaps in a fresh copy whenever the
// backing file changes on disk. Readers get a consistent snapshot per call;
// the run loop reads once per frame, so parameters change between frames
// and never within one.
type Store struct {
	mu   sync.RWMutex
	cur  Settings
	path string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch loads path and starts watching its directory for changes. Watching
// the directory rather than the file survives editors that replace the file
// on save. If the watcher cannot be created the store still works, it just
// never reloads.
func Watch(path string) (*Store, error) {
	cur, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Store{cur: cur, path: path, done: make(chan struct{})}

	w, werr := fsnotify.NewWatcher()
	if werr != nil {
		fmt.Fprintf(os.Stderr, "settings watcher unavailable: %v\n", werr)
		return s, nil
	}
	dir := filepath.Dir(path)
	if werr := w.Add(dir); werr != nil {
		fmt.Fprintf(os.Stderr, "cannot watch %s: %v\n", dir, werr)
		w.Close()
		return s, nil
	}
	s.watcher = w
	go s.loop()
	return s, nil
}

// Current returns the latest settings snapshot.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Close stops the watcher. Safe to call when no watcher was started.
func (s *Store) Close() {
	close(s.done)
	if s.watcher != nil {
		s.watcher.Close()
	}
}

func (s *Store) loop() {
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.reload()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "settings watch error: %v\n", err)
		}
	}
}

func (s *Store) reload() {
	next, err := Load(s.path)
	if err != nil {
		// Keep the previous settings; a half-written file must not take the
		// filter down mid-session.
		fmt.Fprintf(os.Stderr, "settings reload failed: %v\n", err)
		return
	}
	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()
	fmt.Printf("settings reloaded from %s\n", s.path)
}
