package catalog

import (
	"context"
	"errors"

	"github.com/dshills/findex-mcp/pkg/types"
)

// ErrNotFound is returned when a requested record doesn't exist.
var ErrNotFound = errors.New("not found")

// StatEntry pairs a path with the filesystem state observed by the
// walker, for bulk staleness checks.
type StatEntry struct {
	Path     string
	Modified int64
	Size     int64
}

// Catalog defines the interface for the file metadata store.
type Catalog interface {
	// NeedsReindex reports whether path must be re-parsed: true when no
	// record exists or the stored (mtime, size) differs. Content hashes
	// are written after parsing and never gate it.
	NeedsReindex(ctx context.Context, path string, modified, size int64) (bool, error)

	// BatchNeedsReindex answers NeedsReindex for many paths in one read
	// transaction. Results are positional.
	BatchNeedsReindex(ctx context.Context, entries []StatEntry) ([]bool, error)

	// Update upserts a single record and commits synchronously.
	Update(ctx context.Context, rec *types.FileRecord) error

	// BatchUpdate upserts many records in one write transaction. This is
	// the only write path the scan pipeline uses.
	BatchUpdate(ctx context.Context, recs []*types.FileRecord) error

	// Get returns the record for path, or ErrNotFound.
	Get(ctx context.Context, path string) (*types.FileRecord, error)

	// Contains reports whether a record exists for path.
	Contains(ctx context.Context, path string) (bool, error)

	// Remove deletes the record for path. Removing an absent path is not
	// an error.
	Remove(ctx context.Context, path string) error

	// RecentFiles returns up to limit records ordered by modification
	// time, newest first.
	RecentFiles(ctx context.Context, limit int) ([]types.RecentFile, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int64, error)

	// Clear deletes every record. Used when the index is rebuilt from
	// scratch so staleness checks don't mask the empty index.
	Clear(ctx context.Context) error

	// Close releases the underlying database.
	Close() error
}
