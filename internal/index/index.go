package index

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"go.uber.org/zap"

	"github.com/dshills/findex-mcp/internal/query"
	"github.com/dshills/findex-mcp/pkg/types"
)

const (
	// Writer budget bounds; ~5% of system RAM in between, override via
	// FINDEX_WRITER_BUDGET_MB.
	minWriterBudget = 32 << 20
	maxWriterBudget = 256 << 20

	writerBudgetEnv = "FINDEX_WRITER_BUDGET_MB"
)

// Index owns the on-disk inverted index: a single guarded writer and a
// cached read path.
type Index struct {
	dir    string
	logger *zap.Logger

	// writerMu guards idx mutations and the pending batch; at most one
	// writer at a time.
	writerMu     sync.Mutex
	idx          bleve.Index
	batch        *bleve.Batch
	pendingBytes int64
	budget       int64

	cache *resultCache

	// rebuilt records that Open created a fresh index (first run or
	// schema wipe); the owner must reset the catalog to match.
	rebuilt bool
}

// Open opens or creates the index under dir, wiping it first when the
// schema version marker is missing or stale.
func Open(dir string, logger *zap.Logger) (*Index, error) {
	create, err := ensureSchemaVersion(dir)
	if err != nil {
		return nil, &types.IndexError{Msg: "schema check failed", Cause: err}
	}

	var bi bleve.Index
	if create {
		logger.Info("creating index", zap.String("dir", dir), zap.String("schema", SchemaVersion))
		bi, err = bleve.New(dir, buildIndexMapping())
	} else {
		bi, err = bleve.Open(dir)
	}
	if err != nil {
		return nil, &types.IndexError{Msg: "open index", Cause: err}
	}
	if err := writeSchemaVersion(dir); err != nil {
		_ = bi.Close()
		return nil, &types.IndexError{Msg: "write schema version", Cause: err}
	}

	ix := &Index{
		dir:     dir,
		logger:  logger,
		idx:     bi,
		budget:  writerBudget(),
		cache:   newResultCache(),
		rebuilt: create,
	}
	ix.batch = bi.NewBatch()
	return ix, nil
}

// WasRebuilt reports whether Open created the index from scratch,
// either on first run or after a schema-version wipe. The catalog must
// be cleared alongside, or its staleness checks would keep every file
// out of the empty index.
func (ix *Index) WasRebuilt() bool {
	return ix.rebuilt
}

// Close flushes pending writes and releases the index.
func (ix *Index) Close() error {
	if err := ix.Commit(); err != nil {
		ix.logger.Warn("final commit failed", zap.Error(err))
	}
	ix.writerMu.Lock()
	defer ix.writerMu.Unlock()
	return ix.idx.Close()
}

// indexDoc is the shape handed to the engine; field names match the
// schema mapping.
type indexDoc struct {
	FilePath  string `json:"file_path"`
	Content   string `json:"content"`
	Title     string `json:"title"`
	Modified  int64  `json:"modified"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
}

// Add enqueues one document. The old document under the same path is
// deleted in the same batch, keeping at most one live document per
// path.
func (ix *Index) Add(doc *types.Document) error {
	return ix.AddBatch([]*types.Document{doc})
}

// AddBatch enqueues many documents under one writer lock acquisition.
// When the pending batch outgrows the writer budget it is flushed
// early.
func (ix *Index) AddBatch(docs []*types.Document) error {
	ix.writerMu.Lock()
	defer ix.writerMu.Unlock()

	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return &types.IndexError{Msg: "invalid document", Field: query.FieldPath, Cause: err}
		}
		ix.batch.Delete(doc.FilePath)
		err := ix.batch.Index(doc.FilePath, indexDoc{
			FilePath:  doc.FilePath,
			Content:   doc.Content,
			Title:     doc.Title,
			Modified:  doc.Modified,
			Size:      doc.Size,
			Extension: doc.Extension,
		})
		if err != nil {
			return &types.IndexError{Msg: "batch add", Cause: err}
		}
		ix.pendingBytes += int64(len(doc.Content) + len(doc.Title) + len(doc.FilePath))

		if ix.pendingBytes >= ix.budget {
			if err := ix.commitLocked(); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveByPath enqueues a delete of the document keyed by path.
func (ix *Index) RemoveByPath(path string) {
	ix.writerMu.Lock()
	defer ix.writerMu.Unlock()
	ix.batch.Delete(path)
}

// Commit publishes pending adds and deletes to readers and invalidates
// the query cache.
func (ix *Index) Commit() error {
	ix.writerMu.Lock()
	defer ix.writerMu.Unlock()
	return ix.commitLocked()
}

func (ix *Index) commitLocked() error {
	if ix.batch.Size() == 0 {
		return nil
	}
	if err := ix.idx.Batch(ix.batch); err != nil {
		return &types.IndexError{Msg: "commit", Cause: err}
	}
	ix.batch.Reset()
	ix.pendingBytes = 0
	ix.cache.InvalidateAll()
	return nil
}

// DeleteAll clears the index by recreating it under the current
// schema.
func (ix *Index) DeleteAll() error {
	ix.writerMu.Lock()
	defer ix.writerMu.Unlock()

	if err := ix.idx.Close(); err != nil {
		return &types.IndexError{Msg: "close for delete", Cause: err}
	}
	if err := os.RemoveAll(ix.dir); err != nil {
		return &types.IndexError{Msg: "delete index", Cause: err}
	}
	bi, err := bleve.New(ix.dir, buildIndexMapping())
	if err != nil {
		return &types.IndexError{Msg: "recreate index", Cause: err}
	}
	if err := writeSchemaVersion(ix.dir); err != nil {
		return &types.IndexError{Msg: "write schema version", Cause: err}
	}
	ix.idx = bi
	ix.batch = bi.NewBatch()
	ix.pendingBytes = 0
	ix.cache.InvalidateAll()
	return nil
}

// Statistics reports the document count, the on-disk footprint of the
// index directory, and the mtime of its newest file.
func (ix *Index) Statistics() (*types.IndexStatistics, error) {
	count, err := ix.idx.DocCount()
	if err != nil {
		return nil, &types.IndexError{Msg: "doc count", Cause: err}
	}

	var sizeBytes int64
	var lastUpdated time.Time
	err = filepath.WalkDir(ix.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return nil // file vanished mid-walk
		}
		sizeBytes += info.Size()
		if info.ModTime().After(lastUpdated) {
			lastUpdated = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return nil, &types.IndexError{Msg: "walk index dir", Cause: err}
	}

	stats := &types.IndexStatistics{
		TotalDocuments: int64(count),
		TotalSizeBytes: sizeBytes,
	}
	if !lastUpdated.IsZero() {
		stats.LastUpdated = lastUpdated.Unix()
	}
	return stats, nil
}

// writerBudget derives the batch flush threshold: the env override
// when set, else ~5% of system RAM clamped to [32 MB, 256 MB].
func writerBudget() int64 {
	if v := os.Getenv(writerBudgetEnv); v != "" {
		if mb, err := strconv.ParseInt(v, 10, 64); err == nil && mb > 0 {
			return mb << 20
		}
	}

	budget := int64(systemMemory() / 20)
	if budget < minWriterBudget {
		return minWriterBudget
	}
	if budget > maxWriterBudget {
		return maxWriterBudget
	}
	return budget
}

// systemMemory reads MemTotal from /proc/meminfo; 0 when unavailable.
func systemMemory() int64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return kb << 10
	}
	return 0
}
