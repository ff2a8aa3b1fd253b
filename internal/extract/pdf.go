package extract

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/dshills/findex-mcp/pkg/types"
)

// parsePDF extracts the plain text of a PDF. The PDF library is not
// trusted: panics and extraction errors both degrade to an empty
// document rather than failing the file.
func parsePDF(path string) (*types.ParsedDocument, error) {
	size, err := checkSize(path, maxPDFSize)
	if err != nil {
		return nil, err
	}

	content := extractPDFText(path, size)
	return &types.ParsedDocument{
		Path:    path,
		Content: content,
	}, nil
}

// extractPDFText returns the concatenated page text, or "" when the
// extractor fails in any way.
func extractPDFText(path string, size int64) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	reader, err := pdf.NewReader(f, size)
	if err != nil {
		return ""
	}

	var buf bytes.Buffer
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(pageText)
		buf.WriteByte('\n')
		if buf.Len() > maxExtractBytes {
			break
		}
	}
	return buf.String()
}

// parseBinaryScrape is the worst-case extractor for formats without a
// structured reader (xls, msg, chm, mobi): printable ASCII runs only.
func parseBinaryScrape(path string) (*types.ParsedDocument, error) {
	if _, err := checkSize(path, maxOfficeSize); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &types.ParsedDocument{
		Path:    path,
		Content: asciiRuns(data, 4, maxExtractBytes),
	}, nil
}

// asciiRuns collects printable ASCII runs of at least minRun bytes,
// separated by newlines, up to limit output bytes.
func asciiRuns(data []byte, minRun, limit int) string {
	var out bytes.Buffer
	var run bytes.Buffer
	flush := func() {
		if run.Len() >= minRun {
			out.Write(run.Bytes())
			out.WriteByte('\n')
		}
		run.Reset()
	}
	for _, b := range data {
		if b >= 0x20 && b < 0x7F {
			run.WriteByte(b)
			continue
		}
		flush()
		if out.Len() >= limit {
			break
		}
	}
	flush()
	return out.String()
}

// parseArchiveStub records only the archive's presence for formats we
// do not unpack (7z, rar).
func parseArchiveStub(path string) (*types.ParsedDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &types.ParsedDocument{
		Path:    path,
		Content: fmt.Sprintf("%s archive, %d bytes", types.ExtensionOf(path), info.Size()),
	}, nil
}
