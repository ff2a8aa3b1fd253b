package extract

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/findex-mcp/pkg/types"
)

// parseSheet stringifies the cells of an xlsx/xlsm workbook, sheet by
// sheet, whitespace-separated, with hard caps on cells per sheet and
// total output.
func parseSheet(path string) (*types.ParsedDocument, error) {
	if _, err := checkSize(path, maxSheetSize); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, types.NewParseError(path, err)
	}
	defer func() { _ = f.Close() }()

	var buf strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		cells := 0
		for _, row := range rows {
			for _, cell := range row {
				cell = strings.TrimSpace(cell)
				if cell == "" {
					continue
				}
				buf.WriteString(cell)
				buf.WriteByte(' ')
				cells++
				if cells >= maxCellsPerSheet || buf.Len() > maxExtractBytes {
					break
				}
			}
			if cells >= maxCellsPerSheet || buf.Len() > maxExtractBytes {
				break
			}
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
