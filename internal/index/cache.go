package index

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/findex-mcp/pkg/types"
)

const (
	cacheCapacity = 100
	cacheTTL      = 30 * time.Second
)

// cacheEntry holds one cached result set with its expiry.
type cacheEntry struct {
	results   []types.SearchResult
	expiresAt time.Time
}

// resultCache is a capacity- and TTL-bounded map from normalized
// search requests to result sets. Any commit invalidates it wholesale;
// lookups are best-effort.
type resultCache struct {
	cache *lru.Cache[[32]byte, *cacheEntry]
}

func newResultCache() *resultCache {
	cache, err := lru.New[[32]byte, *cacheEntry](cacheCapacity)
	if err != nil {
		// Only possible with a non-positive size.
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return &resultCache{cache: cache}
}

// cacheKey normalizes a search request into a stable hash. Extensions
// are sorted and lowercased so equivalent requests share an entry.
func cacheKey(queryStr string, limit int, minSize, maxSize *int64, extensions []string) [32]byte {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		exts = append(exts, strings.ToLower(strings.TrimSpace(e)))
	}
	sort.Strings(exts)

	var b strings.Builder
	b.WriteString(queryStr)
	fmt.Fprintf(&b, "\x00%d", limit)
	if minSize != nil {
		fmt.Fprintf(&b, "\x00min=%d", *minSize)
	}
	if maxSize != nil {
		fmt.Fprintf(&b, "\x00max=%d", *maxSize)
	}
	for _, e := range exts {
		b.WriteString("\x00ext=")
		b.WriteString(e)
	}
	return sha256.Sum256([]byte(b.String()))
}

// Get returns a fresh cached result set, or nil.
func (rc *resultCache) Get(key [32]byte) []types.SearchResult {
	entry, ok := rc.cache.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		rc.cache.Remove(key)
		return nil
	}
	return entry.results
}

// Put stores a result set under key with the default TTL.
func (rc *resultCache) Put(key [32]byte, results []types.SearchResult) {
	rc.cache.Add(key, &cacheEntry{
		results:   results,
		expiresAt: time.Now().Add(cacheTTL),
	})
}

// InvalidateAll drops every entry. Called on each commit.
func (rc *resultCache) InvalidateAll() {
	rc.cache.Purge()
}
