// Package index wraps the on-disk inverted index: the document schema
// and its version guard, the batched write path, and the cached read
// path.
//
// Documents are keyed by absolute file path. Replacing a file is a
// delete of the old document followed by an add inside the same batch,
// so at most one live document exists per path.
//
// # Schema
//
// Indexed fields and their options:
//
//	file_path  keyword, stored      primary key, exact lookup/delete
//	content    text, positions      not stored; previews re-read disk
//	title      text, stored
//	modified   numeric
//	size       numeric              range-queryable
//	extension  keyword, stored
//
// The schema is versioned by the SchemaVersion constant, recorded in a
// .schema_version file beside the segments. On open, a missing or
// different marker wipes the directory; the owner then resets the
// catalog (see WasRebuilt) and the next scan repopulates everything.
//
// # Write Path
//
//	ix, err := index.Open("~/.findex/index", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ix.Close()
//
//	if err := ix.AddBatch(docs); err != nil {
//	    return err
//	}
//	if err := ix.Commit(); err != nil {
//	    return err
//	}
//
// Writes accumulate in a single pending batch behind a mutex; Commit
// publishes them to readers and invalidates the query cache. When the
// pending batch outgrows the writer budget (~5% of system RAM clamped
// to [32 MB, 256 MB], override FINDEX_WRITER_BUDGET_MB) it is flushed
// early.
//
// # Read Path
//
//	hits, err := ix.Search(ctx, "annual report ext:pdf", 10, nil, nil, nil)
//	for _, h := range hits {
//	    fmt.Printf("%.2f  %s\n", h.Score, h.FilePath)
//	}
//
// Search parses the query, lowers it through the query plan, and
// executes with a top-N collector:
//   - free-text tokens are ANDed; each expands to exact OR title-boosted
//     OR fuzzy (Levenshtein 2)
//   - quoted phrases use positional phrase queries
//   - size bounds become a numeric range over the half-open [min, max)
//   - extensions become a suffix-regex disjunction on file_path;
//     invalid extensions are dropped, never an error
//   - a limit of 0 returns empty
//
// # Result Cache
//
// Results are cached under a sha256 of the normalized request (query,
// limit, size bounds, sorted extensions) in a 100-entry LRU with a
// 30-second TTL. Every commit purges the cache wholesale, so an
// identical search repeated after a committed change re-runs and
// reflects the change:
//
//	hits1, _ := ix.Search(ctx, "needle", 10, nil, nil, nil)
//	ix.RemoveByPath(path)
//	ix.Commit()
//	hits2, _ := ix.Search(ctx, "needle", 10, nil, nil, nil) // re-runs
//
// # Statistics
//
//	stats, err := ix.Statistics()
//	fmt.Printf("%d docs, %d bytes on disk\n",
//	    stats.TotalDocuments, stats.TotalSizeBytes)
//
// TotalSizeBytes is the footprint of the index directory on disk, not
// the sum of the indexed files' sizes.
package index
