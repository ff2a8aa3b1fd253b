// Package extract turns files of heterogeneous formats into plain
// text documents.
//
// A static dispatch table maps lowercase extensions to format
// extractors:
//   - plain text and source code (~100 extensions)
//   - PDF (ledongthuc/pdf, panic-isolated)
//   - docx, odt, rtf (lu4p/cat)
//   - pptx, odp, ods, epub (zip container + streaming XML)
//   - xlsx, xlsm (excelize, cell caps)
//   - zip archives (text-shaped inner files only)
//   - 7z, rar (metadata stub), xls/xlsb/msg/chm/mobi (ASCII scrape)
//
// # Basic Usage
//
//	doc, err := extract.ParseFile("/home/user/docs/report.docx")
//	if err != nil {
//	    var unsupported *types.UnsupportedFormatError
//	    if errors.As(err, &unsupported) {
//	        return // silently skip unknown formats
//	    }
//	    log.Warn("parse failed", zap.Error(err))
//	    return
//	}
//	fmt.Println(doc.Title)
//
// # Contracts
//
// Every extractor obeys the same rules:
//   - input size caps are enforced before reading (100 MB text, 500 MB
//     PDF, 100 MB office containers); oversized files fail with
//     *types.ParseError
//   - extracted output is capped at 10 MB per document and scrubbed to
//     valid UTF-8, substituting replacement characters
//   - spreadsheets stop at 10000 cells per sheet
//   - archive extraction bounds each inner file at 1 MB
//   - PDF extractor panics are contained; a PDF that panics or errors
//     yields empty content rather than failing the file
//
// # Titles
//
// The title is the first non-empty line of the content when it is at
// most 200 characters, with markdown heading markers stripped:
//
//	# Weekly TODO     ->  "Weekly TODO"
//
// Otherwise the filename stem is used. EPUB titles come from the OPF
// <dc:title> metadata instead.
//
// # Failure Routing
//
// Errors split by how callers treat them:
//   - *types.UnsupportedFormatError: no parser for the extension;
//     skipped silently
//   - *types.ParseError: the extractor failed; logged and skipped
//   - *types.ArchiveError: container-level failure; logged and skipped
//
// Nothing in this package aborts a scan; the pipeline downgrades all
// of the above to per-file skips.
package extract
