package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/findex-mcp/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseFile_PlainText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "note.txt", "# My Title\nSome content here\n")

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Contains(t, doc.Content, "Some content")
	assert.Equal(t, "My Title", doc.Title)
}

func TestParseFile_TitleFallsBackToStem(t *testing.T) {
	long := strings.Repeat("x", 300)
	path := writeFile(t, t.TempDir(), "report.md", long+"\nbody\n")

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "report", doc.Title)
}

func TestParseFile_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "movie.mp4", "binary")

	_, err := ParseFile(path)
	var unsupported *types.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "mp4", unsupported.Ext)
}

func TestParseFile_InvalidUTF8Replaced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte{'h', 'i', 0xFF, 0xFE, '!'}, 0644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "hi")
	assert.Contains(t, doc.Content, "�")
}

func TestParseFile_ZipArchive(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "bundle.zip")

	f, err := os.Create(archivePath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)

	w, err := zw.Create("docs/readme.md")
	require.NoError(t, err)
	_, err = w.Write([]byte("archived needle text"))
	require.NoError(t, err)

	w, err = zw.Create("image.png")
	require.NoError(t, err)
	_, err = w.Write([]byte{0x89, 0x50, 0x4E, 0x47})
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	doc, err := ParseFile(archivePath)
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "archived needle text")
	assert.NotContains(t, doc.Content, "PNG")
}

func TestParseFile_CorruptPDFYieldsEmptyContent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.pdf", "not really a pdf")

	doc, err := ParseFile(path)
	require.NoError(t, err, "pdf extraction failures must not fail the file")
	assert.Equal(t, "", strings.TrimSpace(doc.Content))
}

func TestParseFile_ArchiveStub(t *testing.T) {
	path := writeFile(t, t.TempDir(), "old.rar", "rar-bytes")

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "rar archive")
}

func TestAsciiRuns(t *testing.T) {
	data := []byte("ab\x00\x01needle text\x02x\x03longer run here")
	out := asciiRuns(data, 4, 1<<20)
	assert.Contains(t, out, "needle text")
	assert.Contains(t, out, "longer run here")
	assert.NotContains(t, out, "ab\n")
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("txt"))
	assert.True(t, Supported("pdf"))
	assert.True(t, Supported("docx"))
	assert.True(t, Supported("zip"))
	assert.False(t, Supported("exe"))
	assert.False(t, Supported(""))
}

func TestTitleFromContent_StripsHeadingMarkers(t *testing.T) {
	assert.Equal(t, "Deep Title", titleFromContent("### Deep Title\nbody", "/x/y.md"))
	assert.Equal(t, "plain", titleFromContent("", "/x/plain.txt"))
}

func TestClampUTF8(t *testing.T) {
	s := strings.Repeat("é", 10) // 2 bytes each
	out := clampUTF8(s, 5)
	assert.LessOrEqual(t, len(out), 5)
	assert.True(t, strings.HasPrefix(s, strings.TrimSuffix(out, "�")))
}
