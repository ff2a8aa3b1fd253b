package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"

	"github.com/dshills/findex-mcp/pkg/types"
)

// parseEPUB extracts the text of every XHTML part inside the EPUB
// container and reads the book title from the OPF metadata.
func parseEPUB(path string) (*types.ParsedDocument, error) {
	if _, err := checkSize(path, maxOfficeSize); err != nil {
		return nil, err
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, &types.ArchiveError{Kind: "zip", Op: "open", Cause: err}
	}
	defer func() { _ = r.Close() }()

	var buf strings.Builder
	var title string
	for _, f := range r.File {
		name := strings.ToLower(f.Name)
		switch {
		case strings.HasSuffix(name, ".xhtml"), strings.HasSuffix(name, ".html"),
			strings.HasSuffix(name, ".htm"):
			if err := appendXMLText(&buf, f); err != nil {
				// A bad chapter doesn't fail the book.
				continue
			}
		case strings.HasSuffix(name, ".opf") && title == "":
			title = opfTitle(f)
		}
		if buf.Len() > maxExtractBytes {
			break
		}
	}

	return &types.ParsedDocument{
		Path:    path,
		Content: buf.String(),
		Title:   title,
	}, nil
}

// opfTitle reads <dc:title> from an OPF package document.
func opfTitle(f *zip.File) string {
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer func() { _ = rc.Close() }()

	decoder := xml.NewDecoder(io.LimitReader(rc, 1<<20))
	inTitle := false
	for {
		tok, err := decoder.Token()
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "title" {
				inTitle = true
			}
		case xml.CharData:
			if inTitle {
				if title := strings.TrimSpace(string(t)); title != "" {
					return title
				}
			}
		case xml.EndElement:
			if t.Name.Local == "title" {
				inTitle = false
			}
		}
	}
}
