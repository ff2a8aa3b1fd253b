package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dshills/findex-mcp/internal/catalog"
	"github.com/dshills/findex-mcp/internal/filename"
	"github.com/dshills/findex-mcp/internal/index"
	"github.com/dshills/findex-mcp/internal/scanner"
)

// engine wires the stores the way the server does: one owner, shared
// handles for the pipeline.
type engine struct {
	catalog *catalog.SQLiteCatalog
	index   *index.Index
	names   *filename.Index
	scanner *scanner.Scanner
	bus     *scanner.Bus

	dataDir string
	root    string
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	dataDir := t.TempDir()
	e := &engine{dataDir: dataDir, root: t.TempDir()}
	e.open(t)
	// Registered once: reopen replaces the handles, and the cleanup
	// closes whichever ones are current at test end.
	t.Cleanup(func() {
		_ = e.index.Close()
		_ = e.catalog.Close()
	})
	return e
}

func (e *engine) open(t *testing.T) {
	t.Helper()
	cat, err := catalog.NewSQLiteCatalog(filepath.Join(e.dataDir, "metadata.db"))
	require.NoError(t, err)

	ix, err := index.Open(filepath.Join(e.dataDir, "index"), zap.NewNop())
	require.NoError(t, err)

	names, err := filename.New(filepath.Join(e.dataDir, "filename_index"), zap.NewNop())
	require.NoError(t, err)

	if ix.WasRebuilt() {
		// Mirror the server wiring: a rebuilt index resets the catalog
		// so staleness checks cannot mask it.
		require.NoError(t, cat.Clear(context.Background()))
	}

	e.catalog = cat
	e.index = ix
	e.names = names
	e.bus = scanner.NewBus()
	e.scanner = scanner.New(cat, ix, names, e.bus, zap.NewNop())
}

func (e *engine) write(t *testing.T, rel string, content []byte) string {
	t.Helper()
	path := filepath.Join(e.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func (e *engine) scan(t *testing.T) *scanner.Statistics {
	t.Helper()
	stats, err := e.scanner.Scan(context.Background(), e.root, nil)
	require.NoError(t, err)
	return stats
}

// S1: index and search plain text.
func TestIndexAndSearchPlainText(t *testing.T) {
	e := newEngine(t)
	e.write(t, "a.txt", []byte("the quick brown fox jumps"))

	e.scan(t)

	hits, err := e.index.Search(context.Background(), "quick fox", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.True(t, strings.HasSuffix(hits[0].FilePath, "/a.txt"))
}

// S2: filter by extension and size.
func TestFilterByExtensionAndSize(t *testing.T) {
	e := newEngine(t)
	e.write(t, "a.txt", []byte("alpha "+strings.Repeat("x", 40)))
	e.write(t, "b.log", []byte("alpha "+strings.Repeat("y", 200*1024)))
	e.write(t, "c.md", []byte("alpha "+strings.Repeat("z", 2*1024*1024)))

	e.scan(t)

	minSize := int64(100_000)
	hits, err := e.index.Search(context.Background(), "alpha", 10, &minSize, nil, []string{"log", "md"})
	require.NoError(t, err)
	require.Len(t, hits, 2)

	var paths []string
	for _, h := range hits {
		paths = append(paths, filepath.Base(h.FilePath))
	}
	assert.ElementsMatch(t, []string{"b.log", "c.md"}, paths)
}

// S3: incremental re-index.
func TestIncrementalReindex(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	e.write(t, "a.txt", []byte("hello"))
	e.scan(t)

	hits, err := e.index.Search(ctx, "hello", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	// mtime resolution can be coarse; move it explicitly.
	path := e.write(t, "a.txt", []byte("world"))
	bumped := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, bumped, bumped))

	e.scan(t)

	hits, err = e.index.Search(ctx, "hello", 10, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = e.index.Search(ctx, "world", 10, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

// Property 4: catalog and index agree after a scan, except files that
// failed or were unsupported, which are in neither.
func TestCatalogIndexConsistency(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	good1 := e.write(t, "one.txt", []byte("searchable marker alpha"))
	good2 := e.write(t, "two.md", []byte("searchable marker beta"))
	unsupported := e.write(t, "blob.bin", []byte{0x00, 0x01, 0x02})

	e.scan(t)

	for _, path := range []string{good1, good2} {
		exists, err := e.catalog.Contains(ctx, path)
		require.NoError(t, err)
		assert.True(t, exists, path)

		hits, err := e.index.Search(ctx, "marker path:"+filepath.Base(path), 10, nil, nil, nil)
		require.NoError(t, err)
		assert.Len(t, hits, 1, path)
	}

	exists, err := e.catalog.Contains(ctx, unsupported)
	require.NoError(t, err)
	assert.False(t, exists, "unsupported files belong to neither store")

	stats, err := e.index.Statistics()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalDocuments)
}

// Property 5: a committed change between two identical searches is
// reflected in the second result.
func TestCacheReflectsCommittedChanges(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	path := e.write(t, "a.txt", []byte("cachetest original"))
	e.scan(t)

	hits, err := e.index.Search(ctx, "cachetest", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	e.index.RemoveByPath(path)
	require.NoError(t, e.index.Commit())

	hits, err = e.index.Search(ctx, "cachetest", 10, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

// S5: query parser operators end to end.
func TestQueryOperatorsEndToEnd(t *testing.T) {
	e := newEngine(t)
	e.write(t, "reports/annual.txt", []byte("annual figures"))
	e.write(t, "drafts/annual.txt", []byte("annual figures"))

	e.scan(t)

	hits, err := e.index.Search(context.Background(), "annual path:reports size:<10MB", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].FilePath, "/reports/")
}

// S6: schema migration wipes and repopulates.
func TestSchemaMigration(t *testing.T) {
	e := newEngine(t)
	e.write(t, "a.txt", []byte("survivor content"))
	e.scan(t)

	stats, err := e.index.Statistics()
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalDocuments)

	// Simulate a restart under a newer schema: stamp an old version
	// into the marker before reopening.
	require.NoError(t, e.index.Close())
	require.NoError(t, e.catalog.Close())
	markerPath := filepath.Join(e.dataDir, "index", ".schema_version")
	require.NoError(t, os.WriteFile(markerPath, []byte("0.0.1\n"), 0644))
	e.open(t)

	stats, err = e.index.Statistics()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDocuments, "stale schema rebuilds empty without error")

	e.scan(t)

	hits, err := e.index.Search(context.Background(), "survivor", 10, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

// Filename search is served by the separate name index.
func TestFilenameSearchAfterScan(t *testing.T) {
	e := newEngine(t)
	e.write(t, "docs/quarterly-report.pdf", []byte("%PDF-1.4 broken"))
	e.write(t, "docs/readme.md", []byte("# Readme"))

	e.scan(t)

	results := e.names.Search("quarterly", 5)
	require.Len(t, results, 1)
	assert.Equal(t, "quarterly-report.pdf", results[0].Name)

	// Typo tolerance.
	results = e.names.Search("raedme.md", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, "readme.md", results[0].Name)
}
