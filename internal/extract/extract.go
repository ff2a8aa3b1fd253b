package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/findex-mcp/pkg/types"
)

// Size caps, per format family.
const (
	maxTextFileSize  = 100 << 20 // plain text and source code
	maxPDFSize       = 500 << 20
	maxOfficeSize    = 100 << 20 // zip-based office containers
	maxSheetSize     = 100 << 20
	maxArchiveSize   = 200 << 20
	maxExtractBytes  = 10 << 20 // output cap per document
	maxTitleLength   = 200
	maxCellsPerSheet = 10000
)

// parseFunc extracts the textual content of one file.
type parseFunc func(path string) (*types.ParsedDocument, error)

// parsers is the extension dispatch table, initialized once. Plain-text
// extensions are registered in bulk from textExtensions.
var parsers = buildDispatchTable()

func buildDispatchTable() map[string]parseFunc {
	table := map[string]parseFunc{
		"pdf":  parsePDF,
		"docx": parseOfficeText,
		"odt":  parseOfficeText,
		"rtf":  parseOfficeText,
		"pptx": parseZipXML,
		"odp":  parseZipXML,
		"ods":  parseZipXML,
		"epub": parseEPUB,
		"xlsx": parseSheet,
		"xlsm": parseSheet,
		"xls":  parseBinaryScrape,
		"xlsb": parseBinaryScrape,
		"zip":  parseZipArchive,
		"7z":   parseArchiveStub,
		"rar":  parseArchiveStub,
		"eml":  parseText,
		"msg":  parseBinaryScrape,
		"chm":  parseBinaryScrape,
		"azw":  parseBinaryScrape,
		"azw3": parseBinaryScrape,
		"mobi": parseBinaryScrape,
	}
	for ext := range textExtensions {
		table[ext] = parseText
	}
	return table
}

// Supported reports whether ext (lowercase, no dot) has a parser.
func Supported(ext string) bool {
	_, ok := parsers[ext]
	return ok
}

// ParseFile routes path to the extractor for its extension. Returns
// *types.UnsupportedFormatError when no parser exists.
func ParseFile(path string) (*types.ParsedDocument, error) {
	ext := types.ExtensionOf(path)
	fn, ok := parsers[ext]
	if !ok {
		return nil, &types.UnsupportedFormatError{Ext: ext}
	}

	doc, err := fn(path)
	if err != nil {
		var parseErr *types.ParseError
		var archiveErr *types.ArchiveError
		if errors.As(err, &parseErr) || errors.As(err, &archiveErr) {
			return nil, err
		}
		return nil, types.NewParseError(path, err)
	}

	doc.Content = clampUTF8(doc.Content, maxExtractBytes)
	if doc.Title == "" {
		doc.Title = titleFromContent(doc.Content, path)
	}
	return doc, nil
}

// checkSize stats path and rejects files above limit.
func checkSize(path string, limit int64) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.Size() > limit {
		return 0, types.NewParseError(path, errors.New("file exceeds size cap"))
	}
	return info.Size(), nil
}

// clampUTF8 truncates s to at most limit bytes on a rune boundary and
// replaces invalid sequences.
func clampUTF8(s string, limit int) string {
	if len(s) > limit {
		cut := limit
		for cut > 0 && s[cut-1]&0xC0 == 0x80 {
			cut--
		}
		if cut > 0 && s[cut-1] >= 0xC0 {
			cut--
		}
		s = s[:cut]
	}
	return strings.ToValidUTF8(s, "�")
}

// titleFromContent derives a display title: the first non-empty line
// of content when it fits, stripped of markdown heading markers, else
// the filename stem.
func titleFromContent(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		if line != "" && len(line) <= maxTitleLength {
			return line
		}
		break
	}
	stem := filepath.Base(path)
	if ext := filepath.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}
	return stem
}
