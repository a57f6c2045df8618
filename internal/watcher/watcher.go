// file: internal/watcher/watcher.go
// version: 1.0.0
// guid: 3eca80aa-0ac3-45f7-bc8d-47dd0591d3b4

// Package watcher monitors the music library root and triggers an
// import scan after filesystem activity settles.
package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/svetakrava/chorrosion/internal/mediafile"
)

// DefaultDebounce is how long events must settle before a scan fires.
const DefaultDebounce = 5 * time.Second

// ScanFunc is invoked with the library root after the debounce period.
type ScanFunc func(root string)

// Watcher follows a directory tree and coalesces audio-file events into
// debounced scan triggers.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	debounce  time.Duration
	scan      ScanFunc
	stop      chan struct{}
	stopped   chan struct{}
	mu        sync.Mutex
	timer     *time.Timer
	running   bool
}

// New builds a watcher. A non-positive debounce selects
// DefaultDebounce.
func New(scan ScanFunc, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		debounce: debounce,
		scan:     scan,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start watches root recursively. Calling Start twice is a no-op.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsWatcher = fsw
	w.root = root

	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return err
	}

	go w.eventLoop()
	log.Printf("[INFO] watcher: following %s", root)
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stop)
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}
	<-w.stopped

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Inaccessible subtrees are skipped, not fatal.
			return nil
		}
		if d.IsDir() {
			if watchErr := w.fsWatcher.Add(path); watchErr != nil {
				log.Printf("[WARN] watcher: cannot watch %s: %v", path, watchErr)
			}
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[ERROR] watcher: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories join the watch so nested album folders are seen.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}

	relevant := event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0
	if !relevant || !IsAudioFile(event.Name) {
		return
	}
	w.scheduleScan()
}

// scheduleScan arms the debounce timer, or pushes it out if already
// armed.
func (w *Watcher) scheduleScan() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.timer = nil
		w.mu.Unlock()

		log.Printf("[INFO] watcher: activity settled, scanning %s", w.root)
		if w.scan != nil {
			w.scan(w.root)
		}
	})
}

// IsAudioFile reports whether name carries a recognized audio
// extension.
func IsAudioFile(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return mediafile.AudioExtensions[ext]
}
