package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dshills/findex-mcp/pkg/types"
)

func newTestIndex(t *testing.T) (*Index, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "index")
	ix, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix, dir
}

func doc(path, content string, size int64) *types.Document {
	return &types.Document{
		FilePath:  path,
		Content:   content,
		Title:     filepath.Base(path),
		Modified:  1700000000,
		Size:      size,
		Extension: types.ExtensionOf(path),
	}
}

func TestAddCommitSearch(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(doc("/tmp/t/a.txt", "the quick brown fox jumps", 25)))
	require.NoError(t, ix.Commit())

	results, err := ix.Search(ctx, "quick fox", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/tmp/t/a.txt", results[0].FilePath)
	assert.Contains(t, results[0].MatchedTerms, "quick")
	assert.Contains(t, results[0].MatchedTerms, "fox")
	assert.Positive(t, results[0].Score)
}

func TestReplaceDocumentKeepsOneLive(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(doc("/tmp/t/a.txt", "hello", 5)))
	require.NoError(t, ix.Commit())
	require.NoError(t, ix.Add(doc("/tmp/t/a.txt", "world", 5)))
	require.NoError(t, ix.Commit())

	hits, err := ix.Search(ctx, "hello", 10, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = ix.Search(ctx, "world", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	stats, err := ix.Statistics()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDocuments)
}

func TestRemoveByPath(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(doc("/tmp/t/a.txt", "needle in here", 14)))
	require.NoError(t, ix.Commit())

	ix.RemoveByPath("/tmp/t/a.txt")
	require.NoError(t, ix.Commit())

	hits, err := ix.Search(ctx, "needle", 10, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_ExtensionFilter(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.AddBatch([]*types.Document{
		doc("/tmp/t/a.txt", "alpha content", 50),
		doc("/tmp/t/b.log", "alpha content", 200_000),
		doc("/tmp/t/c.md", "alpha content", 2_000_000),
	}))
	require.NoError(t, ix.Commit())

	hits, err := ix.Search(ctx, "alpha", 10, nil, nil, []string{"pdf"})
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = ix.Search(ctx, "alpha ext:log", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "/tmp/t/b.log", hits[0].FilePath)
}

func TestSearch_ExtensionAndSizeFilter(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.AddBatch([]*types.Document{
		doc("/tmp/t/a.txt", "alpha", 50),
		doc("/tmp/t/b.log", "alpha", 200_000),
		doc("/tmp/t/c.md", "alpha", 2_000_000),
	}))
	require.NoError(t, ix.Commit())

	minSize := int64(100_000)
	hits, err := ix.Search(ctx, "alpha", 10, &minSize, nil, []string{"log", "md"})
	require.NoError(t, err)
	require.Len(t, hits, 2)

	paths := []string{hits[0].FilePath, hits[1].FilePath}
	assert.ElementsMatch(t, []string{"/tmp/t/b.log", "/tmp/t/c.md"}, paths)
}

func TestSearch_SizeOperatorExclusive(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.AddBatch([]*types.Document{
		doc("/tmp/t/exact.txt", "omega", 1048576),
		doc("/tmp/t/bigger.txt", "omega", 1048577),
	}))
	require.NoError(t, ix.Commit())

	hits, err := ix.Search(ctx, "omega size:>1MB", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "/tmp/t/bigger.txt", hits[0].FilePath)
}

func TestSearch_InvalidExtensionDropped(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(doc("/tmp/t/a.txt", "alpha", 5)))
	require.NoError(t, ix.Commit())

	// A bad extension must not fail the query; with no valid ones the
	// clause is dropped entirely.
	hits, err := ix.Search(ctx, "alpha", 10, nil, nil, []string{"no good"})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearch_FiltersOnlyMatchAll(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.AddBatch([]*types.Document{
		doc("/tmp/t/a.txt", "one", 10),
		doc("/tmp/t/b.pdf", "two", 20),
	}))
	require.NoError(t, ix.Commit())

	hits, err := ix.Search(ctx, "ext:pdf", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "/tmp/t/b.pdf", hits[0].FilePath)
}

func TestSearch_FuzzyTolerance(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(doc("/tmp/t/a.txt", "searching documents easily", 30)))
	require.NoError(t, ix.Commit())

	// One substitution: "dacuments" still finds the document.
	hits, err := ix.Search(ctx, "dacuments", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}

func TestSearch_TitleMatchRanksAboveBodyMatch(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	titled := doc("/tmp/t/budget.txt", "numbers and tables", 20)
	titled.Title = "budget overview"
	body := doc("/tmp/t/other.txt", "the budget appears in the body text only", 40)
	body.Title = "misc notes"

	require.NoError(t, ix.AddBatch([]*types.Document{body, titled}))
	require.NoError(t, ix.Commit())

	hits, err := ix.Search(ctx, "budget", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "/tmp/t/budget.txt", hits[0].FilePath)
}

func TestSearch_PathFilter(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.AddBatch([]*types.Document{
		doc("/tmp/reports/annual.txt", "figures", 10),
		doc("/tmp/drafts/annual.txt", "figures", 10),
	}))
	require.NoError(t, ix.Commit())

	hits, err := ix.Search(ctx, "figures path:reports", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "/tmp/reports/annual.txt", hits[0].FilePath)
}

func TestSearch_LimitZero(t *testing.T) {
	ix, _ := newTestIndex(t)

	hits, err := ix.Search(context.Background(), "anything", 0, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_CacheInvalidatedOnCommit(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(doc("/tmp/t/a.txt", "cached term", 11)))
	require.NoError(t, ix.Commit())

	hits, err := ix.Search(ctx, "cached", 10, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	// A committed change between two identical searches must be
	// reflected in the second result set.
	ix.RemoveByPath("/tmp/t/a.txt")
	require.NoError(t, ix.Commit())

	hits, err = ix.Search(ctx, "cached", 10, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDeleteAll(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(doc("/tmp/t/a.txt", "something", 9)))
	require.NoError(t, ix.Commit())
	require.NoError(t, ix.DeleteAll())

	stats, err := ix.Statistics()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDocuments)

	hits, err := ix.Search(ctx, "something", 10, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSchemaVersionMismatchWipesIndex(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")

	ix, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, ix.Add(doc("/tmp/t/a.txt", "survivor", 8)))
	require.NoError(t, ix.Commit())
	require.NoError(t, ix.Close())

	// Simulate an index written by an older build.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".schema_version"), []byte("0.9.0\n"), 0644))

	ix, err = Open(dir, zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = ix.Close() }()

	stats, err := ix.Statistics()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDocuments, "stale schema must rebuild empty")
}

func TestSchemaMarkerWritten(t *testing.T) {
	_, dir := newTestIndex(t)

	data, err := os.ReadFile(filepath.Join(dir, ".schema_version"))
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion+"\n", string(data))
}

func TestStatistics_Footprint(t *testing.T) {
	ix, _ := newTestIndex(t)

	require.NoError(t, ix.Add(doc("/tmp/t/a.txt", "some indexed content for footprint", 34)))
	require.NoError(t, ix.Commit())

	stats, err := ix.Statistics()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDocuments)
	assert.Positive(t, stats.TotalSizeBytes)
	assert.NotZero(t, stats.LastUpdated)
}
