package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/findex-mcp/internal/catalog"
	"github.com/dshills/findex-mcp/internal/extract"
	"github.com/dshills/findex-mcp/internal/filename"
	"github.com/dshills/findex-mcp/internal/index"
	"github.com/dshills/findex-mcp/pkg/types"
)

const (
	// batchSize is the number of documents per index commit.
	batchSize = 50
	// progressEvery is the write count between progress samples.
	progressEvery = 10
	// scanProgressEvery is the walk count between scan samples.
	scanProgressEvery = 100

	pathChannelCapacity = 1024
	taskChannelCapacity = 128
)

// IndexTask carries one parsed file from the workers to the writer.
type IndexTask struct {
	Doc         *types.ParsedDocument
	Modified    int64
	Size        int64
	ContentHash [32]byte
}

// Statistics summarizes one pipeline run.
type Statistics struct {
	FilesDiscovered int
	FilesIndexed    int
	FilesSkipped    int
	FilesFailed     int
	Duration        time.Duration
}

// Scanner drives the three-stage indexing pipeline.
type Scanner struct {
	catalog catalog.Catalog
	index   *index.Index
	names   *filename.Index
	bus     *Bus
	logger  *zap.Logger
	workers int

	scanLock ScanLock
}

// New creates a scanner writing into the given stores. Progress is
// published on bus.
func New(cat catalog.Catalog, ix *index.Index, names *filename.Index, bus *Bus, logger *zap.Logger) *Scanner {
	return &Scanner{
		catalog: cat,
		index:   ix,
		names:   names,
		bus:     bus,
		logger:  logger,
		workers: runtime.NumCPU(),
	}
}

// Scan walks root and indexes every supported file that changed since
// the previous run. Only one scan may run at a time.
func (s *Scanner) Scan(ctx context.Context, root string, excludePatterns []string) (*Statistics, error) {
	if !s.scanLock.TryAcquire() {
		return nil, types.ErrScanInProgress
	}
	defer s.scanLock.Release()

	return s.scan(ctx, root, excludePatterns)
}

// Start begins a scan in the background. The lock is taken before
// returning, so overlapping starts fail immediately; completion and
// failures are reported through the progress bus and the log.
func (s *Scanner) Start(ctx context.Context, root string, excludePatterns []string) error {
	if !s.scanLock.TryAcquire() {
		return types.ErrScanInProgress
	}
	go func() {
		defer s.scanLock.Release()
		if _, err := s.scan(ctx, root, excludePatterns); err != nil {
			s.logger.Warn("scan failed", zap.String("root", root), zap.Error(err))
		}
	}()
	return nil
}

func (s *Scanner) scan(ctx context.Context, root string, excludePatterns []string) (*Statistics, error) {
	start := time.Now()
	excl := NewExclusionSet(root, excludePatterns)

	paths := make(chan string, pathChannelCapacity)
	tasks := make(chan IndexTask, taskChannelCapacity)

	var discovered, skipped, failed atomic.Int64

	// Stage 1: walk. Runs alone so the channel close is unambiguous.
	walkDone := make(chan error, 1)
	go func() {
		defer close(paths)
		walkDone <- s.walk(ctx, root, excl, paths, &discovered)
	}()

	// Stage 2: parse workers.
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			return s.parseWorker(gctx, paths, tasks, &skipped, &failed)
		})
	}

	// Close tasks once every worker has drained its input.
	go func() {
		_ = g.Wait()
		close(tasks)
	}()

	// Stage 3: single consumer; also performs the mandatory final
	// commit, even on cancellation.
	indexed, writeErr := s.writeLoop(tasks, &discovered, start)

	if err := <-walkDone; err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("walk finished with error", zap.Error(err))
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	if writeErr != nil {
		return nil, writeErr
	}

	if err := s.names.Commit(); err != nil {
		s.logger.Warn("filename index commit failed", zap.Error(err))
	}

	stats := &Statistics{
		FilesDiscovered: int(discovered.Load()),
		FilesIndexed:    indexed,
		FilesSkipped:    int(skipped.Load()),
		FilesFailed:     int(failed.Load()),
		Duration:        time.Since(start),
	}

	s.bus.Publish(types.ProgressEvent{
		Type:      types.ProgressIndex,
		Total:     uint64(stats.FilesDiscovered),
		Processed: uint64(stats.FilesDiscovered),
		Status:    "done",
	})
	s.logger.Info("scan complete",
		zap.String("root", root),
		zap.Int("discovered", stats.FilesDiscovered),
		zap.Int("indexed", stats.FilesIndexed),
		zap.Int("skipped", stats.FilesSkipped),
		zap.Int("failed", stats.FilesFailed),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

// walk streams every regular, non-excluded file under root into out
// and records its name in the filename index.
func (s *Scanner) walk(ctx context.Context, root string, excl *ExclusionSet, out chan<- string, discovered *atomic.Int64) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Debug("walk error", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if path != root && excl.ExcludeDir(path) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || excl.ExcludeFile(path) {
			return nil
		}

		s.names.Add(path, filepath.Base(path))
		n := discovered.Add(1)
		if n%scanProgressEvery == 0 {
			s.bus.Publish(types.ProgressEvent{
				Type:          types.ProgressScan,
				Processed:     uint64(n),
				CurrentFile:   filepath.Base(path),
				CurrentFolder: filepath.Dir(path),
				Status:        "scanning",
			})
		}

		select {
		case out <- path:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// parseWorker is one Stage-2 worker: staleness check, extraction,
// content hash.
func (s *Scanner) parseWorker(ctx context.Context, in <-chan string, out chan<- IndexTask, skipped, failed *atomic.Int64) error {
	for path := range in {
		if ctx.Err() != nil {
			// Drain the remaining input so the walker can finish.
			continue
		}

		task, ok := s.buildTask(ctx, path, skipped, failed)
		if !ok {
			continue
		}
		select {
		case out <- task:
		case <-ctx.Done():
		}
	}
	return nil
}

// buildTask turns one path into an IndexTask, or reports (via the
// counters) why it produced none.
func (s *Scanner) buildTask(ctx context.Context, path string, skipped, failed *atomic.Int64) (IndexTask, bool) {
	info, err := os.Stat(path)
	if err != nil {
		s.logger.Warn("stat failed", zap.String("path", path), zap.Error(err))
		failed.Add(1)
		return IndexTask{}, false
	}
	modified := info.ModTime().Unix()
	size := info.Size()

	needs, err := s.catalog.NeedsReindex(ctx, path, modified, size)
	if err != nil {
		// Catalog trouble downgrades the file to "processed without
		// recording": parse anyway, it will be re-checked next run.
		s.logger.Warn("staleness check failed", zap.String("path", path), zap.Error(err))
	} else if !needs {
		skipped.Add(1)
		return IndexTask{}, false
	}

	doc, err := extract.ParseFile(path)
	if err != nil {
		var unsupported *types.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			return IndexTask{}, false
		}
		s.logger.Warn("parse failed", zap.String("path", path), zap.Error(err))
		failed.Add(1)
		return IndexTask{}, false
	}

	return IndexTask{
		Doc:         doc,
		Modified:    modified,
		Size:        size,
		ContentHash: blake3.Sum256([]byte(doc.Content)),
	}, true
}

// writeLoop is Stage 3: it drains tasks into parallel document and
// catalog batches, committing both every batchSize documents and once
// more at the end.
func (s *Scanner) writeLoop(tasks <-chan IndexTask, discovered *atomic.Int64, start time.Time) (int, error) {
	docBatch := make([]*types.Document, 0, batchSize)
	recBatch := make([]*types.FileRecord, 0, batchSize)
	written := 0

	flush := func() error {
		if len(docBatch) == 0 {
			return nil
		}
		if err := s.index.AddBatch(docBatch); err != nil {
			return err
		}
		if err := s.index.Commit(); err != nil {
			return err
		}
		// Catalog records follow the index commit; on failure the files
		// are re-parsed next run, and the duplicate add is idempotent.
		if err := s.catalog.BatchUpdate(context.Background(), recBatch); err != nil {
			s.logger.Warn("catalog batch update failed", zap.Error(err))
		}
		docBatch = docBatch[:0]
		recBatch = recBatch[:0]
		return nil
	}

	for task := range tasks {
		docBatch = append(docBatch, &types.Document{
			FilePath:  task.Doc.Path,
			Content:   task.Doc.Content,
			Title:     task.Doc.Title,
			Modified:  task.Modified,
			Size:      task.Size,
			Extension: types.ExtensionOf(task.Doc.Path),
		})
		recBatch = append(recBatch, &types.FileRecord{
			Path:        task.Doc.Path,
			Modified:    task.Modified,
			Size:        task.Size,
			ContentHash: task.ContentHash,
			Title:       task.Doc.Title,
		})
		written++

		if len(docBatch) >= batchSize {
			if err := flush(); err != nil {
				// Drain so the workers and walker can finish and the
				// error reaches the caller.
				for range tasks {
				}
				return written, err
			}
		}
		if written%progressEvery == 0 {
			s.publishIndexProgress(written, discovered.Load(), task.Doc.Path, start)
		}
	}

	if err := flush(); err != nil {
		return written, err
	}
	return written, nil
}

// publishIndexProgress emits one indexing sample with rate and ETA
// derived from wall clock since the stage started.
func (s *Scanner) publishIndexProgress(written int, total int64, currentPath string, start time.Time) {
	elapsed := time.Since(start).Seconds()
	var rate float64
	if elapsed > 0 {
		rate = float64(written) / elapsed
	}
	var eta uint64
	if rate > 0 && total > int64(written) {
		eta = uint64(float64(total-int64(written)) / rate)
	}
	s.bus.Publish(types.ProgressEvent{
		Type:           types.ProgressIndex,
		Total:          uint64(total),
		Processed:      uint64(written),
		CurrentFile:    filepath.Base(currentPath),
		CurrentFolder:  filepath.Dir(currentPath),
		Status:         "indexing",
		FilesPerSecond: rate,
		ETASeconds:     eta,
	})
}

// BuildTask exposes the stale-check + parse + hash step for the
// watcher, which indexes single files outside a full scan.
func (s *Scanner) BuildTask(ctx context.Context, path string) (IndexTask, bool) {
	var skipped, failed atomic.Int64
	return s.buildTask(ctx, path, &skipped, &failed)
}
