// Package catalog provides SQLite-based persistence for file metadata.
//
// The catalog stores one record per indexed path: modification time,
// size, BLAKE3 content hash, display title, and indexing timestamp.
// It backs the skip-if-unchanged check that lets repeated scans avoid
// re-parsing files whose (mtime, size) pair has not moved.
//
// # Database Schema
//
// Tables:
//   - files: path (primary key), modified, size, content_hash, title, indexed_at
//   - schema_version: applied migration versions
//
// # Basic Usage
//
//	cat, err := catalog.NewSQLiteCatalog("~/.findex/metadata.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cat.Close()
//
//	needs, err := cat.NeedsReindex(ctx, "/home/user/docs/a.txt", mtime, size)
//	if !needs {
//	    return // unchanged since the last scan
//	}
//
// # Staleness Checks
//
// NeedsReindex is true when no record exists or the stored
// (mtime, size) differs from the observed pair:
//
//	info, _ := os.Stat(path)
//	needs, err := cat.NeedsReindex(ctx, path, info.ModTime().Unix(), info.Size())
//
// Content hashes are written only after a successful parse and never
// gate parsing; mtime and size alone decide. BatchNeedsReindex answers
// the same question for many paths in one read to amortize query
// overhead.
//
// # Batched Writes
//
// The scan pipeline writes exclusively through BatchUpdate, which
// upserts a whole batch inside one transaction:
//
//	recs := []*types.FileRecord{...}
//	if err := cat.BatchUpdate(ctx, recs); err != nil {
//	    // records lost for this cycle; files re-parse next run
//	}
//
// The watcher records changed files through BatchUpdate and deletions
// through Remove; Update and Remove commit synchronously.
//
// # Listing
//
// RecentFiles serves the recency view without touching the inverted
// index, because titles are stored here:
//
//	files, err := cat.RecentFiles(ctx, 20)
//	for _, f := range files {
//	    fmt.Printf("%s  %s\n", time.Unix(f.Modified, 0), f.Title)
//	}
//
// # Build Modes
//
// Two SQLite drivers are supported via build tags:
//
//	CGO_ENABLED=1 go build ./...              # mattn/go-sqlite3
//	CGO_ENABLED=0 go build -tags purego ./... # modernc.org/sqlite
//
// The pure Go build requires no C compiler and cross-compiles cleanly
// at some cost in write throughput.
//
// # Error Handling
//
// Failures are wrapped as *types.DatabaseError carrying the operation
// and key. Catalog errors never abort a scan: a file whose record
// could not be written is simply re-parsed on the next run, and the
// duplicate index add is idempotent because documents are replaced by
// path.
package catalog
