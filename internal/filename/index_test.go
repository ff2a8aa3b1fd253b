package filename

import (
	"encoding/json"
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
	dir := t.TempDir()
	idx, err := New(dir, zap.NewNop())
	require.NoError(t, err)
	return idx, dir
}

func TestAddAndSearch_Substring(t *testing.T) {
	idx, _ := newTestIndex(t)

	idx.Add("/home/u/docs/report-2024.pdf", "report-2024.pdf")
	idx.Add("/home/u/docs/notes.md", "notes.md")
	idx.Add("/home/u/music/song.mp3", "song.mp3")

	results := idx.Search("report", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "/home/u/docs/report-2024.pdf", results[0].Path)
}

func TestSearch_FuzzyTypo(t *testing.T) {
	idx, _ := newTestIndex(t)
	idx.Add("/tmp/readme.md", "readme.md")

	// One substitution away from the stored name.
	results := idx.Search("raadme.md", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, "readme.md", results[0].Name)
}

func TestSearch_ExactBeatsPrefixBeatsSubstring(t *testing.T) {
	idx, _ := newTestIndex(t)
	idx.Add("/a/notes", "notes")
	idx.Add("/a/notes.md", "notes.md")
	idx.Add("/a/old-notes.txt", "old-notes.txt")

	results := idx.Search("notes", 3)
	require.Len(t, results, 3)
	assert.Equal(t, "notes", results[0].Name)
	assert.Equal(t, "notes.md", results[1].Name)
	assert.Equal(t, "old-notes.txt", results[2].Name)
}

func TestSearch_DuplicateNamesStayDistinct(t *testing.T) {
	idx, _ := newTestIndex(t)
	idx.Add("/a/readme.md", "readme.md")
	idx.Add("/b/sub/readme.md", "readme.md")

	results := idx.Search("readme", 10)
	require.Len(t, results, 2)
	assert.NotEqual(t, results[0].Path, results[1].Path)
}

func TestSearch_LimitAndEmptyQuery(t *testing.T) {
	idx, _ := newTestIndex(t)
	for i := 0; i < 5; i++ {
		idx.Add(filepath.Join("/x", string(rune('a'+i))+"-log.txt"), string(rune('a'+i))+"-log.txt")
	}

	assert.Len(t, idx.Search("log", 3), 3)
	assert.Empty(t, idx.Search("", 3))
	assert.Empty(t, idx.Search("log", 0))
}

func TestCommitAndReload(t *testing.T) {
	idx, dir := newTestIndex(t)
	idx.Add("/tmp/a.txt", "a.txt")
	idx.Add("/tmp/b.txt", "b.txt")
	require.NoError(t, idx.Commit())

	reopened, err := New(dir, zap.NewNop())
	require.NoError(t, err)
	stats := reopened.Stats()
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Positive(t, stats.IndexSizeBytes)
}

func TestClear(t *testing.T) {
	idx, dir := newTestIndex(t)
	idx.Add("/tmp/a.txt", "a.txt")
	require.NoError(t, idx.Commit())
	require.NoError(t, idx.Clear())

	assert.Zero(t, idx.Stats().TotalFiles)
	_, err := os.Stat(filepath.Join(dir, binFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestLegacyJSONMigration(t *testing.T) {
	dir := t.TempDir()
	legacy := []types.FilenameEntry{
		{Path: "/old/a.txt", Name: "a.txt"},
		{Path: "/old/b.txt", Name: "b.txt"},
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, jsonFileName), data, 0644))

	idx, err := New(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Stats().TotalFiles)

	// JSON replaced by the binary file.
	_, err = os.Stat(filepath.Join(dir, jsonFileName))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, binFileName))
	assert.NoError(t, err)

	results := idx.Search("a.txt", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "/old/a.txt", results[0].Path)
}
