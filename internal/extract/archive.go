package extract

import (
	"archive/zip"
	"io"
	"strings"

	"github.com/dshills/findex-mcp/pkg/types"
)

const (
	// maxInnerFileBytes bounds each text file read out of an archive.
	maxInnerFileBytes = 1 << 20
)

// parseZipArchive concatenates the text-shaped inner files of a zip
// archive, with per-file and total caps. Non-text entries are skipped.
func parseZipArchive(path string) (*types.ParsedDocument, error) {
	if _, err := checkSize(path, maxArchiveSize); err != nil {
		return nil, err
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, &types.ArchiveError{Kind: "zip", Op: "open", Cause: err}
	}
	defer func() { _ = r.Close() }()

	var buf strings.Builder
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if _, ok := textExtensions[types.ExtensionOf(f.Name)]; !ok {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxInnerFileBytes))
		_ = rc.Close()
		if err != nil {
			continue
		}

		buf.WriteString(f.Name)
		buf.WriteByte('\n')
		buf.Write(data)
		buf.WriteByte('\n')
		if buf.Len() > maxExtractBytes {
			break
		}
	}

	return &types.ParsedDocument{
		Path:    path,
		Content: buf.String(),
	}, nil
}
