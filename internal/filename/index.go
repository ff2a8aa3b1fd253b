package filename

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hbollon/go-edlib"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/dshills/findex-mcp/pkg/types"
)

const (
	// flushEvery is the add count between asynchronous disk flushes.
	flushEvery = 1000

	binFileName  = "filenames.bin"
	jsonFileName = "filenames.json"
)

// Index holds the (path, name) list in memory behind a reader-writer
// lock and persists it as msgpack.
type Index struct {
	mu      sync.RWMutex
	entries []types.FilenameEntry
	adds    int // adds since last flush

	dir    string
	logger *zap.Logger

	flushMu sync.Mutex // serializes disk writes
}

// New opens or creates the filename index stored under dir. A legacy
// JSON file is migrated to the binary format on first load.
func New(dir string, logger *zap.Logger) (*Index, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	idx := &Index{dir: dir, logger: logger}
	if err := idx.load(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) binPath() string  { return filepath.Join(idx.dir, binFileName) }
func (idx *Index) jsonPath() string { return filepath.Join(idx.dir, jsonFileName) }

// load reads the persisted entries. Binary wins; the legacy JSON file
// is loaded once and rewritten as binary.
func (idx *Index) load() error {
	data, err := os.ReadFile(idx.binPath())
	if err == nil {
		if err := msgpack.Unmarshal(data, &idx.entries); err != nil {
			// A corrupt file is rebuilt by the next scan.
			idx.logger.Warn("filename index corrupt, starting empty", zap.Error(err))
			idx.entries = nil
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	data, err = os.ReadFile(idx.jsonPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, &idx.entries); err != nil {
		idx.logger.Warn("legacy filename index corrupt, starting empty", zap.Error(err))
		idx.entries = nil
		return nil
	}
	idx.logger.Info("migrating legacy filename index", zap.Int("entries", len(idx.entries)))
	if err := idx.flush(); err != nil {
		return err
	}
	_ = os.Remove(idx.jsonPath())
	return nil
}

// Add appends one entry. Every flushEvery additions the list is
// flushed to disk asynchronously.
func (idx *Index) Add(path, name string) {
	idx.mu.Lock()
	idx.entries = append(idx.entries, types.FilenameEntry{Path: path, Name: name})
	idx.adds++
	shouldFlush := idx.adds%flushEvery == 0
	idx.mu.Unlock()

	if shouldFlush {
		go func() {
			if err := idx.flush(); err != nil {
				idx.logger.Warn("filename index flush failed", zap.Error(err))
			}
		}()
	}
}

// Commit flushes the list to disk synchronously.
func (idx *Index) Commit() error {
	return idx.flush()
}

// flush serializes the current entries to the binary file.
func (idx *Index) flush() error {
	idx.flushMu.Lock()
	defer idx.flushMu.Unlock()

	idx.mu.RLock()
	data, err := msgpack.Marshal(idx.entries)
	idx.mu.RUnlock()
	if err != nil {
		return err
	}

	tmp := idx.binPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, idx.binPath())
}

// Clear empties the index and deletes the persisted file.
func (idx *Index) Clear() error {
	idx.mu.Lock()
	idx.entries = nil
	idx.adds = 0
	idx.mu.Unlock()

	idx.flushMu.Lock()
	defer idx.flushMu.Unlock()
	if err := os.Remove(idx.binPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Stats returns the entry count and a rough content-size estimate.
func (idx *Index) Stats() types.FilenameStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var bytes int64
	for i := range idx.entries {
		bytes += int64(len(idx.entries[i].Path) + len(idx.entries[i].Name))
	}
	return types.FilenameStats{
		TotalFiles:     len(idx.entries),
		IndexSizeBytes: bytes,
	}
}

// scored pairs an entry index with its match score. Entries are
// referenced by position so duplicate filenames stay distinct.
type scored struct {
	idx   int
	score float64
}

// Search fuzzy-matches query against entry names and returns the top
// limit results by score. The read lock is held for the whole scoring
// pass; no copy of the entry list is made.
func (idx *Index) Search(query string, limit int) []types.FilenameEntry {
	if limit <= 0 || query == "" {
		return nil
	}
	queryLower := strings.ToLower(query)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	matches := make([]scored, 0, limit*2)
	for i := range idx.entries {
		score := nameScore(queryLower, &idx.entries[i])
		if score > 0 {
			matches = append(matches, scored{idx: i, score: score})
		}
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].score != matches[b].score {
			return matches[a].score > matches[b].score
		}
		return idx.entries[matches[a].idx].Path < idx.entries[matches[b].idx].Path
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]types.FilenameEntry, len(matches))
	for i, m := range matches {
		results[i] = idx.entries[m.idx]
	}
	return results
}

// nameScore rates how well query matches an entry's name. Substring
// hits dominate; otherwise Levenshtein distance over the lowercase
// name decides, with shallow paths slightly preferred on equal names.
func nameScore(queryLower string, entry *types.FilenameEntry) float64 {
	nameLower := strings.ToLower(entry.Name)

	var score float64
	switch {
	case nameLower == queryLower:
		score = 2.0
	case strings.HasPrefix(nameLower, queryLower):
		score = 1.5
	case strings.Contains(nameLower, queryLower):
		score = 1.0
	default:
		dist := edlib.LevenshteinDistance(queryLower, nameLower)
		longest := len(queryLower)
		if len(nameLower) > longest {
			longest = len(nameLower)
		}
		if longest == 0 || dist > 2 {
			return 0
		}
		score = 1.0 - float64(dist)/float64(longest+1)
	}

	// Prefer shallower paths (fewer separators in the full path).
	depth := strings.Count(entry.Path, string(os.PathSeparator))
	return score - float64(depth)/1000
}
