package index

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/dshills/findex-mcp/internal/query"
)

const (
	// SchemaVersion is bumped whenever the field set or any field's
	// indexing options change. A mismatch on open wipes the index
	// directory; the next scan repopulates it.
	SchemaVersion = "1.0.0"

	// schemaVersionFile sits beside the index segments.
	schemaVersionFile = ".schema_version"
)

// buildIndexMapping defines the indexed fields:
//
//	file_path  keyword, stored   (primary key, exact lookup/delete)
//	content    text, positions, not stored
//	title      text, stored
//	modified   numeric
//	size       numeric, range-queryable
//	extension  keyword, stored
func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	pathField := bleve.NewKeywordFieldMapping()
	pathField.Store = true
	pathField.IncludeInAll = false
	docMapping.AddFieldMappingsAt(query.FieldPath, pathField)

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.IncludeTermVectors = true
	contentField.IncludeInAll = false
	docMapping.AddFieldMappingsAt(query.FieldContent, contentField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Store = true
	titleField.IncludeInAll = false
	docMapping.AddFieldMappingsAt(query.FieldTitle, titleField)

	modifiedField := bleve.NewNumericFieldMapping()
	modifiedField.Store = false
	modifiedField.IncludeInAll = false
	docMapping.AddFieldMappingsAt(query.FieldModified, modifiedField)

	sizeField := bleve.NewNumericFieldMapping()
	sizeField.Store = false
	sizeField.IncludeInAll = false
	docMapping.AddFieldMappingsAt(query.FieldSize, sizeField)

	extField := bleve.NewKeywordFieldMapping()
	extField.Store = true
	extField.IncludeInAll = false
	docMapping.AddFieldMappingsAt(query.FieldExtension, extField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// ensureSchemaVersion checks the version marker inside the index
// directory. An existing index with a missing or different marker is
// deleted so it can be rebuilt under the current schema. Returns true
// when no index exists afterwards and one must be created.
func ensureSchemaVersion(dir string) (bool, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return true, nil
	} else if err != nil {
		return false, err
	}

	data, err := os.ReadFile(filepath.Join(dir, schemaVersionFile))
	if err == nil && strings.TrimSpace(string(data)) == SchemaVersion {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	// Version mismatch, or an index without a marker: rebuild.
	if err := os.RemoveAll(dir); err != nil {
		return false, err
	}
	return true, nil
}

// writeSchemaVersion records the current schema version beside the
// index files.
func writeSchemaVersion(dir string) error {
	return os.WriteFile(filepath.Join(dir, schemaVersionFile), []byte(SchemaVersion+"\n"), 0644)
}
