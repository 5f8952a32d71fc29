package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/acgrid/internal/input"
	tt "github.com/gnolang/acgrid/internal/types"
)

const defaultSettleDelay = 100 * time.Millisecond

// Watcher re-runs the engine on every input file that is written.
type Watcher struct {
	engine  *Engine
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	report  func(tt.Result)
	// settle is how long to wait after an event so that bursts of writes count as one.
	settle time.Duration

	mu sync.Mutex
	// dirs are watched recursively; files are watched through their parent directory
	// so that an editor replacing the file on save does not drop the watch.
	dirs  map[string]bool
	files map[string]bool
}

// NewWatcher creates a watcher reporting fresh results through report.
func (e *Engine) NewWatcher(logger *zap.Logger, report func(tt.Result)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating file watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		engine:  e,
		watcher: fw,
		logger:  logger,
		report:  report,
		settle:  defaultSettleDelay,
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
	}, nil
}

// Add watches a file, or every directory below a directory. Directories created
// later below a watched directory are picked up while Run is active.
func (w *Watcher) Add(path string) error {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		if err := w.watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("error watching %s: %w", path, err)
		}
		w.mu.Lock()
		w.files[path] = true
		w.mu.Unlock()
		return nil
	}

	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			return err
		}
		w.mu.Lock()
		w.dirs[p] = true
		w.mu.Unlock()
		return nil
	})
	if err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	return nil
}

func (w *Watcher) tracked(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[name] || w.dirs[filepath.Dir(name)]
}

func (w *Watcher) watchedDir(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirs[name]
}

// Close stops watching without running the event loop.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run handles file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(ctx context.Context, event fsnotify.Event) {
	name := filepath.Clean(event.Name)
	if event.Has(fsnotify.Create) && w.watchedDir(filepath.Dir(name)) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			w.addCreatedDir(ctx, name)
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !input.IsInputFile(name) || !w.tracked(name) {
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(w.settle):
	}
	w.rescan(name)
}

// addCreatedDir watches a new directory and scans the input files that were written
// into it before the watch was in place.
func (w *Watcher) addCreatedDir(ctx context.Context, dir string) {
	if err := w.Add(dir); err != nil {
		w.logger.Error("error watching new directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	w.logger.Debug("watching new directory", zap.String("dir", dir))

	select {
	case <-ctx.Done():
		return
	case <-time.After(w.settle):
	}

	_ = filepath.Walk(dir, func(p string, fi os.FileInfo, err error) error {
		if err != nil || ctx.Err() != nil {
			return err
		}
		if !fi.IsDir() && input.IsInputFile(p) {
			w.rescan(p)
		}
		return nil
	})
}

func (w *Watcher) rescan(path string) {
	result, err := w.engine.Run(path)
	if err != nil {
		w.logger.Error("error scanning changed file", zap.String("file", path), zap.Error(err))
		return
	}
	w.logger.Debug("rescanned", zap.String("file", path), zap.Int("matches", result.Total()))
	w.report(result)
}
