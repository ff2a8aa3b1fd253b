// Package types provides shared type definitions for the findex MCP server.
//
// This package defines domain types used across multiple components of
// findex: indexed documents, catalog records, parsed queries, search
// results, progress events, and the error taxonomy.
//
// # Core Types
//
// Document is the unit stored in the inverted index, one per file on
// disk, keyed by absolute path:
//
//	doc := &types.Document{
//	    FilePath:  "/home/user/notes/todo.md",
//	    Content:   extractedText,
//	    Title:     "Weekly TODO",
//	    Extension: "md",
//	}
//
// FileRecord mirrors the filesystem state observed at indexing time and
// drives the skip-if-unchanged check on subsequent scans:
//
//	rec := &types.FileRecord{
//	    Path:     doc.FilePath,
//	    Modified: mtime.Unix(),
//	    Size:     size,
//	}
//
// # Errors
//
// Component failures are expressed as typed errors (ParseError,
// DatabaseError, IndexError, SearchError, ...) so callers can route
// them: per-file errors are logged and skipped, index and search errors
// propagate to the caller.
//
//	var perr *types.ParseError
//	if errors.As(err, &perr) {
//	    log.Warn("skipping file", zap.String("path", perr.Path))
//	}
package types
