// file: internal/watcher/watcher.go
// version: 3.0.0
// guid: b2c3d4e5-f6a7-8901-bcde-f23456789012

package watcher

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultExtensions are the legacy playlist extensions watched by default.
var DefaultExtensions = []string{".bplist", ".json"}

// DefaultDebounce is the default debounce period.
const DefaultDebounce = 500 * time.Millisecond

// Callback receives the legacy files that appeared or changed since the
// previous call, sorted.
type Callback func(paths []string)

// Watcher monitors a directory tree for legacy playlists and hands them to
// a callback once writes settle.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	rootDir    string
	debounce   time.Duration
	extensions map[string]bool
	callback   Callback
	onRemove   func(path string)
	stop       chan struct{}
	stopped    chan struct{}
	mu         sync.Mutex
	timer      *time.Timer
	pending    map[string]struct{}
	running    bool
}

// New creates a Watcher for files with the given extensions. Pass 0 for
// debounce to use DefaultDebounce and nil extensions for DefaultExtensions.
func New(callback Callback, debounce time.Duration, extensions []string) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}
	return &Watcher{
		debounce:   debounce,
		extensions: exts,
		callback:   callback,
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
		pending:    make(map[string]struct{}),
	}
}

// OnRemove registers fn to be called with each legacy file that is
// removed or renamed away. Call it before Start.
func (w *Watcher) OnRemove(fn func(path string)) {
	w.mu.Lock()
	w.onRemove = fn
	w.mu.Unlock()
}

// Start begins watching rootDir recursively. It is safe to call only once.
func (w *Watcher) Start(rootDir string) error {
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
	w.rootDir = rootDir

	// Walk the tree and add all directories.
	if err := w.addRecursive(rootDir); err != nil {
		fsw.Close()
		return err
	}

	log.Printf("[INFO] watcher: watching %s", rootDir)
	go w.eventLoop()
	return nil
}

// Stop shuts down the watcher and waits for the event loop to exit.
// Pending files that have not been handed to the callback are dropped.
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
	w.pending = make(map[string]struct{})
	w.mu.Unlock()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible dirs
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
	// On Create, if it's a directory, watch it recursively and pick up
	// files that landed before the watch was added.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			w.queueExisting(event.Name)
			return
		}
	}

	if !w.IsLegacyFile(event.Name) {
		return
	}

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.mu.Lock()
		delete(w.pending, event.Name)
		onRemove := w.onRemove
		w.mu.Unlock()
		if onRemove != nil {
			onRemove(event.Name)
		}
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.enqueue(event.Name)
	}
}

func (w *Watcher) queueExisting(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && w.IsLegacyFile(path) {
			w.enqueue(path)
		}
		return nil
	})
}

func (w *Watcher) enqueue(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}

	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	w.timer = nil
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	log.Printf("[INFO] watcher: %d legacy playlist(s) ready in %s", len(paths), w.rootDir)
	if w.callback != nil {
		w.callback(paths)
	}
}

// IsLegacyFile reports whether name has one of the watched extensions.
// Hidden files, such as in-progress temp files, are skipped.
func (w *Watcher) IsLegacyFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") && base != filepath.Ext(base) {
		return false
	}
	return w.extensions[strings.ToLower(filepath.Ext(name))]
}
