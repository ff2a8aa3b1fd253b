package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"

	"github.com/lu4p/cat"

	"github.com/dshills/findex-mcp/pkg/types"
)

// parseOfficeText handles the formats the cat library reads directly:
// docx, odt, and rtf.
func parseOfficeText(path string) (*types.ParsedDocument, error) {
	if _, err := checkSize(path, maxOfficeSize); err != nil {
		return nil, err
	}

	text, err := cat.File(path)
	if err != nil {
		return nil, types.NewParseError(path, err)
	}

	return &types.ParsedDocument{
		Path:    path,
		Content: text,
	}, nil
}

// zipXMLParts maps container extensions to the inner XML parts holding
// the document text.
var zipXMLParts = map[string]func(name string) bool{
	"pptx": func(name string) bool {
		return strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml")
	},
	"odp": func(name string) bool { return name == "content.xml" },
	"ods": func(name string) bool { return name == "content.xml" },
}

// parseZipXML extracts text runs from XML parts inside a zip-based
// office container (pptx, odp, ods).
func parseZipXML(path string) (*types.ParsedDocument, error) {
	if _, err := checkSize(path, maxOfficeSize); err != nil {
		return nil, err
	}

	ext := types.ExtensionOf(path)
	wanted := zipXMLParts[ext]

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, &types.ArchiveError{Kind: "zip", Op: "open", Cause: err}
	}
	defer func() { _ = r.Close() }()

	var buf strings.Builder
	for _, f := range r.File {
		if !wanted(f.Name) {
			continue
		}
		if err := appendXMLText(&buf, f); err != nil {
			return nil, &types.ArchiveError{Kind: "zip", Op: "read " + f.Name, Cause: err}
		}
		if buf.Len() > maxExtractBytes {
			break
		}
	}

	return &types.ParsedDocument{
		Path:    path,
		Content: buf.String(),
	}, nil
}

// appendXMLText stream-parses one zip entry and appends its character
// data to buf, whitespace-separated.
func appendXMLText(buf *strings.Builder, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	decoder := xml.NewDecoder(io.LimitReader(rc, maxOfficeSize))
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if cd, ok := tok.(xml.CharData); ok {
			text := strings.TrimSpace(string(cd))
			if text != "" {
				buf.WriteString(text)
				buf.WriteByte(' ')
			}
		}
		if buf.Len() > maxExtractBytes {
			return nil
		}
	}
}
