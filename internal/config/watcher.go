package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is how long a file must stay quiet before it is handed on.
const DefaultDebounce = 500 * time.Millisecond

// InputWatcher monitors a directory and calls the handler once for each new
// or rewritten input file, after writes to it have settled.
type InputWatcher struct {
	dir      string
	accept   func(path string) bool
	handle   func(path string)
	debounce time.Duration

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	wg       sync.WaitGroup
	handlers sync.WaitGroup // handler calls in flight

	mu      sync.Mutex
	pending map[string]*time.Timer
	seen    map[string]time.Time // mod times handled while polling
}

// NewInputWatcher creates a watcher for dir. accept filters file names;
// handle runs on its own goroutine per settled file.
func NewInputWatcher(dir string, debounce time.Duration, accept func(string) bool, handle func(string)) (*InputWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &InputWatcher{
		dir:      dir,
		accept:   accept,
		handle:   handle,
		debounce: debounce,
		watcher:  watcher,
		stopChan: make(chan struct{}),
		pending:  make(map[string]*time.Timer),
		seen:     make(map[string]time.Time),
	}, nil
}

// Start begins watching. Files already present are not processed.
func (w *InputWatcher) Start() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		log.Warn().Err(err).Str("path", w.dir).Msg("Failed to watch input directory; falling back to polling")
		w.snapshot()
		w.wg.Add(1)
		go w.pollForChanges()
		return nil
	}

	w.wg.Add(1)
	go w.watchForChanges()
	log.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("Watching for input files")
	return nil
}

// Stop stops the watcher, cancels files still settling and waits for
// handlers already running to return.
func (w *InputWatcher) Stop() {
	select {
	case <-w.stopChan:
		return
	default:
		close(w.stopChan)
	}
	w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.handlers.Wait()
}

func (w *InputWatcher) wants(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return w.accept == nil || w.accept(path)
}

func (w *InputWatcher) watchForChanges() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !w.wants(event.Name) {
				continue
			}
			log.Debug().Str("path", event.Name).Str("event", event.Op.String()).Msg("Detected input file change")
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Input watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// schedule (re)starts the settle timer of path.
func (w *InputWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.stopChan:
		return
	default:
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		select {
		case <-w.stopChan:
			w.mu.Unlock()
			return
		default:
		}
		w.handlers.Add(1)
		w.mu.Unlock()
		defer w.handlers.Done()

		if _, err := os.Stat(path); err != nil {
			log.Debug().Str("path", path).Msg("Input file vanished before processing")
			return
		}
		w.handle(path)
	})
}

func (w *InputWatcher) snapshot() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if info, err := e.Info(); err == nil {
			w.seen[filepath.Join(w.dir, e.Name())] = info.ModTime()
		}
	}
}

// pollForChanges is a fallback for filesystems without notifications.
func (w *InputWatcher) pollForChanges() {
	defer w.wg.Done()
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			entries, err := os.ReadDir(w.dir)
			if err != nil {
				log.Warn().Err(err).Str("path", w.dir).Msg("Failed to poll input directory")
				continue
			}
			for _, e := range entries {
				path := filepath.Join(w.dir, e.Name())
				if e.IsDir() || !w.wants(path) {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				if info.ModTime().After(w.seen[path]) {
					log.Info().Str("path", path).Msg("Detected input file via polling")
					w.seen[path] = info.ModTime()
					w.schedule(path)
				}
			}

		case <-w.stopChan:
			return
		}
	}
}
