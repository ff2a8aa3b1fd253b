package types

import (
	"errors"
	"path/filepath"
	"strings"
)

// Document is the unit stored in the inverted index, one per file.
type Document struct {
	// FilePath is the absolute path and acts as the primary key.
	FilePath string
	// Content is the extracted plain text. It is indexed but never
	// stored; previews re-read the file on demand.
	Content string
	// Title is a short label: filename stem, document metadata, or the
	// first heading of the content.
	Title string
	// Modified is seconds since epoch at indexing time.
	Modified int64
	// Size is the file size in bytes at indexing time.
	Size int64
	// Extension is the lowercase extension without the leading dot.
	Extension string
}

// Validate checks the document invariants before it enters the index.
func (d *Document) Validate() error {
	if d.FilePath == "" {
		return errors.New("document file path cannot be empty")
	}
	if !filepath.IsAbs(d.FilePath) {
		return errors.New("document file path must be absolute")
	}
	if d.Size < 0 {
		return errors.New("document size must be non-negative")
	}
	return nil
}

// ExtensionOf returns the lowercase extension of path without the
// leading dot, or "" when the path has none.
func ExtensionOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return strings.TrimPrefix(ext, ".")
}

// FileRecord is the metadata catalog value, one per indexed path. It is
// the basis of the skip-if-unchanged check across runs.
type FileRecord struct {
	Path        string
	Modified    int64
	Size        int64
	ContentHash [32]byte // BLAKE3 of the extracted text
	Title       string
	IndexedAt   int64
}

// FilenameEntry is one row of the filename-only index.
type FilenameEntry struct {
	Path string `json:"path" msgpack:"path"`
	Name string `json:"name" msgpack:"name"`
}

// SearchResult is a single ranked hit from the inverted index.
type SearchResult struct {
	FilePath     string
	Title        string
	Score        float64
	MatchedTerms []string
}

// RecentFile is one row of the catalog's recency listing.
type RecentFile struct {
	Path     string
	Title    string
	Modified int64
	Size     int64
}

// IndexStatistics summarizes the state of the inverted index.
type IndexStatistics struct {
	TotalDocuments int64
	// TotalSizeBytes is the on-disk footprint of the index directory,
	// not the sum of indexed file sizes.
	TotalSizeBytes int64
	LastUpdated    int64 // seconds since epoch; 0 when never updated
}

// FilenameStats summarizes the filename index.
type FilenameStats struct {
	TotalFiles     int
	IndexSizeBytes int64
}

// ParsedDocument is the output of a format extractor.
type ParsedDocument struct {
	Path    string
	Content string
	Title   string
}
