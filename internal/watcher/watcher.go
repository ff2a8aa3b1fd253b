package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dshills/findex-mcp/internal/catalog"
	"github.com/dshills/findex-mcp/internal/index"
	"github.com/dshills/findex-mcp/internal/scanner"
	"github.com/dshills/findex-mcp/pkg/types"
)

// defaultInterval is the debounce window between processing ticks.
const defaultInterval = time.Second

// Action is the pending operation for a path.
type Action int

const (
	// ActionIndex re-indexes the file on the next tick.
	ActionIndex Action = iota
	// ActionRemove deletes the file's document and record.
	ActionRemove
)

// Watcher turns filesystem events into debounced single-file index
// updates.
type Watcher struct {
	scanner *scanner.Scanner
	catalog catalog.Catalog
	index   *index.Index
	logger  *zap.Logger

	interval time.Duration

	mu      sync.Mutex
	pending map[string]Action
	fsw     *fsnotify.Watcher
}

// New creates a watcher feeding the given stores. Call Run to start
// processing and UpdateWatchList to choose the watched roots.
func New(sc *scanner.Scanner, cat catalog.Catalog, ix *index.Index, logger *zap.Logger) *Watcher {
	return &Watcher{
		scanner:  sc,
		catalog:  cat,
		index:    ix,
		logger:   logger,
		interval: defaultInterval,
		pending:  make(map[string]Action),
	}
}

// Run processes pending actions on a fixed tick until ctx is
// cancelled. A final tick runs on the way out so shutdown commits
// whatever was queued.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.processPending(context.Background())
			w.dropNotifier()
			return
		case <-ticker.C:
			w.processPending(ctx)
		}
	}
}

// UpdateWatchList replaces the watched directory set atomically. An
// empty list drops the native watcher entirely.
func (w *Watcher) UpdateWatchList(dirs []string) error {
	w.dropNotifier()

	if len(dirs) == 0 {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if err := addRecursive(fsw, dir); err != nil {
			w.logger.Warn("watch failed", zap.String("dir", dir), zap.Error(err))
		}
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	go w.eventLoop(fsw)
	w.logger.Info("watch list updated", zap.Strings("dirs", dirs))
	return nil
}

// dropNotifier closes the current native watcher, ending its event
// loop.
func (w *Watcher) dropNotifier() {
	w.mu.Lock()
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()
	if fsw != nil {
		_ = fsw.Close()
	}
}

// addRecursive registers dir and every subdirectory with the
// notifier.
func addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
}

// eventLoop collapses raw events into the pending map until the
// notifier is closed.
func (w *Watcher) eventLoop(fsw *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// handleEvent records one raw event. The last action per path wins
// within a tick.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	switch {
	case ev.Op.Has(fsnotify.Create):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			// New directory: watch it and queue its contents.
			if err := addRecursive(fsw, ev.Name); err != nil {
				w.logger.Warn("watch new dir failed", zap.String("dir", ev.Name), zap.Error(err))
			}
			w.queueTree(ev.Name)
			return
		}
		w.queue(ev.Name, ActionIndex)

	case ev.Op.Has(fsnotify.Write):
		w.queue(ev.Name, ActionIndex)

	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		w.queue(ev.Name, ActionRemove)
	}
}

func (w *Watcher) queue(path string, action Action) {
	w.mu.Lock()
	w.pending[path] = action
	w.mu.Unlock()
}

// queueTree marks every regular file under root for indexing.
func (w *Watcher) queueTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Type().IsRegular() {
			w.queue(path, ActionIndex)
		}
		return nil
	})
}

// processPending drains the pending map: removals first, then
// re-indexes, then a single commit when anything changed.
func (w *Watcher) processPending(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]Action)
	w.mu.Unlock()

	changed := false

	var docs []*types.Document
	var recs []*types.FileRecord
	for path, action := range batch {
		switch action {
		case ActionRemove:
			w.index.RemoveByPath(path)
			if err := w.catalog.Remove(ctx, path); err != nil {
				w.logger.Warn("catalog remove failed", zap.String("path", path), zap.Error(err))
			}
			w.logger.Debug("file removed", zap.String("path", path))
			changed = true

		case ActionIndex:
			task, ok := w.scanner.BuildTask(ctx, path)
			if !ok {
				continue
			}
			docs = append(docs, &types.Document{
				FilePath:  task.Doc.Path,
				Content:   task.Doc.Content,
				Title:     task.Doc.Title,
				Modified:  task.Modified,
				Size:      task.Size,
				Extension: types.ExtensionOf(task.Doc.Path),
			})
			recs = append(recs, &types.FileRecord{
				Path:        task.Doc.Path,
				Modified:    task.Modified,
				Size:        task.Size,
				ContentHash: task.ContentHash,
				Title:       task.Doc.Title,
			})
			w.logger.Debug("file queued for reindex", zap.String("path", path))
		}
	}

	if len(docs) > 0 {
		if err := w.index.AddBatch(docs); err != nil {
			w.logger.Warn("watcher index batch failed", zap.Error(err))
		} else {
			changed = true
			if err := w.catalog.BatchUpdate(ctx, recs); err != nil {
				w.logger.Warn("watcher catalog batch failed", zap.Error(err))
			}
		}
	}

	if changed {
		if err := w.index.Commit(); err != nil {
			w.logger.Warn("watcher commit failed", zap.Error(err))
		}
	}
}
