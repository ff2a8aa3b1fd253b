package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/findex-mcp/pkg/types"
)

// SQLiteCatalog implements the Catalog interface using SQLite.
type SQLiteCatalog struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteCatalog opens or creates the catalog database at dbPath.
func NewSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteCatalog{db: db}, nil
}

// Close closes the database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// dbError wraps err in the catalog error taxonomy.
func dbError(op, key string, err error) error {
	return &types.DatabaseError{Op: op, Key: key, Cause: err}
}

// NeedsReindex reports whether path must be re-parsed.
func (c *SQLiteCatalog) NeedsReindex(ctx context.Context, path string, modified, size int64) (bool, error) {
	var storedModified, storedSize int64
	err := c.db.QueryRowContext(ctx,
		"SELECT modified, size FROM files WHERE path = ?", path).
		Scan(&storedModified, &storedSize)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, dbError("needs_reindex", path, err)
	}
	return storedModified != modified || storedSize != size, nil
}

// BatchNeedsReindex answers NeedsReindex for many paths in one query to
// amortize transaction overhead.
func (c *SQLiteCatalog) BatchNeedsReindex(ctx context.Context, entries []StatEntry) ([]bool, error) {
	results := make([]bool, len(entries))
	if len(entries) == 0 {
		return results, nil
	}

	placeholders := strings.Repeat("?,", len(entries)-1) + "?"
	args := make([]interface{}, len(entries))
	position := make(map[string]int, len(entries))
	for i, e := range entries {
		args[i] = e.Path
		position[e.Path] = i
		results[i] = true // unknown paths need indexing
	}

	query := fmt.Sprintf("SELECT path, modified, size FROM files WHERE path IN (%s)", placeholders)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("batch_needs_reindex", "", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var path string
		var modified, size int64
		if err := rows.Scan(&path, &modified, &size); err != nil {
			return nil, dbError("batch_needs_reindex", path, err)
		}
		if i, ok := position[path]; ok {
			e := entries[i]
			results[i] = modified != e.Modified || size != e.Size
		}
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("batch_needs_reindex", "", err)
	}
	return results, nil
}

const upsertSQL = `
	INSERT INTO files (path, modified, size, content_hash, title, indexed_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		modified = excluded.modified,
		size = excluded.size,
		content_hash = excluded.content_hash,
		title = excluded.title,
		indexed_at = excluded.indexed_at
`

// Update upserts a single record.
func (c *SQLiteCatalog) Update(ctx context.Context, rec *types.FileRecord) error {
	indexedAt := rec.IndexedAt
	if indexedAt == 0 {
		indexedAt = time.Now().Unix()
	}
	_, err := c.db.ExecContext(ctx, upsertSQL,
		rec.Path, rec.Modified, rec.Size, rec.ContentHash[:], rec.Title, indexedAt)
	if err != nil {
		return dbError("update", rec.Path, err)
	}
	return nil
}

// BatchUpdate upserts many records in one write transaction.
func (c *SQLiteCatalog) BatchUpdate(ctx context.Context, recs []*types.FileRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError("batch_update", "", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return dbError("batch_update", "", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().Unix()
	for _, rec := range recs {
		indexedAt := rec.IndexedAt
		if indexedAt == 0 {
			indexedAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			rec.Path, rec.Modified, rec.Size, rec.ContentHash[:], rec.Title, indexedAt); err != nil {
			return dbError("batch_update", rec.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError("batch_update", "", err)
	}
	return nil
}

// Get returns the record for path, or ErrNotFound.
func (c *SQLiteCatalog) Get(ctx context.Context, path string) (*types.FileRecord, error) {
	var rec types.FileRecord
	var hash []byte
	err := c.db.QueryRowContext(ctx,
		"SELECT path, modified, size, content_hash, title, indexed_at FROM files WHERE path = ?", path).
		Scan(&rec.Path, &rec.Modified, &rec.Size, &hash, &rec.Title, &rec.IndexedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dbError("get", path, err)
	}
	copy(rec.ContentHash[:], hash)
	return &rec, nil
}

// Contains reports whether a record exists for path.
func (c *SQLiteCatalog) Contains(ctx context.Context, path string) (bool, error) {
	var one int
	err := c.db.QueryRowContext(ctx, "SELECT 1 FROM files WHERE path = ?", path).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, dbError("contains", path, err)
	}
	return true, nil
}

// Remove deletes the record for path.
func (c *SQLiteCatalog) Remove(ctx context.Context, path string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM files WHERE path = ?", path); err != nil {
		return dbError("remove", path, err)
	}
	return nil
}

// RecentFiles returns up to limit records, newest modification first.
func (c *SQLiteCatalog) RecentFiles(ctx context.Context, limit int) ([]types.RecentFile, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := c.db.QueryContext(ctx,
		"SELECT path, title, modified, size FROM files ORDER BY modified DESC LIMIT ?", limit)
	if err != nil {
		return nil, dbError("recent_files", "", err)
	}
	defer func() { _ = rows.Close() }()

	var files []types.RecentFile
	for rows.Next() {
		var f types.RecentFile
		if err := rows.Scan(&f.Path, &f.Title, &f.Modified, &f.Size); err != nil {
			return nil, dbError("recent_files", "", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("recent_files", "", err)
	}
	return files, nil
}

// Count returns the number of records.
func (c *SQLiteCatalog) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&n); err != nil {
		return 0, dbError("count", "", err)
	}
	return n, nil
}

// Clear deletes every record.
func (c *SQLiteCatalog) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM files"); err != nil {
		return dbError("clear", "", err)
	}
	return nil
}
