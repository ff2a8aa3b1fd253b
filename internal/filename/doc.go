// Package filename maintains the filename-only index: an in-memory
// list of (path, name) pairs serving fuzzy name lookups, independent
// of the full-text index so name searches stay fast while content
// indexing is in flight.
//
// # Basic Usage
//
//	names, err := filename.New("~/.findex/filename_index", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	names.Add("/home/user/docs/readme.md", "readme.md")
//
//	for _, e := range names.Search("raedme.md", 10) {
//	    fmt.Println(e.Path)
//	}
//
// # Scoring
//
// Search rates each stored name against the lowercased query:
// exact match beats prefix beats substring; anything else falls back
// to Levenshtein distance and must be within two edits. Shallower
// paths (fewer directory separators) win ties. Matches are carried by position in
// the entry list, not by value, so duplicate filenames in different
// directories stay distinct results.
//
// # Persistence
//
// The list is add-only within a run. Every 1000 additions it is
// flushed to filenames.bin (msgpack) asynchronously; Commit flushes
// synchronously and the scanner calls it at the end of every scan.
// Writes go through a temp file and rename, so a crash mid-flush
// leaves the previous file intact.
//
// A legacy filenames.json, if present without the binary file, is
// loaded once, rewritten as msgpack, and removed. A corrupt file of
// either format starts the index empty; the next scan rebuilds it.
//
// # Lifecycle
//
// Clear empties the list and deletes the persisted file; it is the
// only removal primitive and is invoked by the clear_index rebuild
// path. Stats reports the entry count and a rough content-size
// estimate for the statistics surface.
package filename
