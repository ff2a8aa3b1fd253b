// Package scanner implements the indexing pipeline: a directory walk
// feeding a pool of parse workers feeding a single batching writer.
//
// # Pipeline Stages
//
// Stage 1 (walk) runs on its own goroutine: it prunes excluded
// directories, records every filename in the filename index, and
// streams regular-file paths into a bounded channel.
//
// Stage 2 (parse) is one worker per core: each pulls paths, drops
// files the catalog reports unchanged, extracts text, hashes it with
// BLAKE3, and forwards an IndexTask.
//
// Stage 3 (write) is a single consumer that drains tasks into parallel
// document and catalog batches, committing the inverted index and
// writing the catalog every 50 documents and once more, mandatorily,
// at the end.
//
// # Basic Usage
//
//	bus := scanner.NewBus()
//	sc := scanner.New(cat, ix, names, bus, logger)
//
//	stats, err := sc.Scan(ctx, "/home/user/docs", []string{"**/*.bak"})
//	if errors.Is(err, types.ErrScanInProgress) {
//	    return // one scan at a time; the running one wins
//	}
//	fmt.Printf("indexed %d, skipped %d\n", stats.FilesIndexed, stats.FilesSkipped)
//
// # Exclusions
//
// A built-in deny list (.git, node_modules, target, $RECYCLE.BIN,
// System Volume Information, __pycache__, ...) is matched against
// directory base names; user doublestar globs are matched against the
// path relative to the scan root and merged on top:
//
//	excl := scanner.NewExclusionSet(root, []string{"drafts/**", "**/*.tmp"})
//
// # Progress
//
// Progress flows through Bus, a bounded channel (capacity 100) with
// non-blocking sends; when consumers lag, samples are dropped rather
// than stalling the pipeline. The walk emits "scan" samples every 100
// files, the writer "index" samples every 10 documents with rate and
// ETA from wall clock:
//
//	for ev := range bus.Events() {
//	    fmt.Printf("%s %d/%d %s\n", ev.Type, ev.Processed, ev.Total, ev.CurrentFile)
//	}
//
// Polling clients read Latest instead of consuming the channel.
//
// # Failure Semantics
//
// Per-file stat and parse errors are logged and the file is skipped; a
// failed catalog staleness check is logged and the file is parsed
// anyway. The pipeline never aborts for one bad file. A catalog
// write failure downgrades the batch to "processed without recording":
// those files re-parse next run and the duplicate adds are idempotent.
// A commit failure aborts the scan and surfaces to the caller.
//
// # Cancellation
//
// Cancelling the context stops the walk from enqueuing, lets the
// workers drain their input, and still performs the final commit, so
// a cancelled scan leaves the stores consistent.
package scanner
