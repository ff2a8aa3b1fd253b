package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/findex-mcp/internal/extract"
	"github.com/dshills/findex-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeScanInProgress = -32001 // Another scan is already running
	ErrorCodeNotIndexed     = -32002 // Path unknown to the engine
)

// previewLength caps get_preview output.
const previewLength = 10000

// handleSearch handles the search tool invocation
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := clampLimit(getIntDefault(args, "limit", 20))
	minSize := getSizeBound(args, "min_size")
	maxSize := getSizeBound(args, "max_size")
	extensions := getStringSlice(args, "extensions")

	results, err := s.index.Search(ctx, query, limit, minSize, maxSize, extensions)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	hits := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		hits = append(hits, map[string]interface{}{
			"file_path":     r.FilePath,
			"title":         r.Title,
			"score":         r.Score,
			"matched_terms": r.MatchedTerms,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":   query,
		"total":   len(hits),
		"results": hits,
	})), nil
}

// handleSearchFilenames handles the search_filenames tool invocation
func (s *Server) handleSearchFilenames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", nil)
	}
	limit := clampLimit(getIntDefault(args, "limit", 20))

	entries := s.names.Search(query, limit)
	results := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		results = append(results, map[string]interface{}{
			"path": e.Path,
			"name": e.Name,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":   query,
		"total":   len(results),
		"results": results,
	})), nil
}

// handleStartScan handles the start_scan tool invocation. The scan
// runs in the background; progress flows through the bus.
func (s *Server) handleStartScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", nil)
	}
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}
	excludePatterns := getStringSlice(args, "exclude_patterns")

	if err := s.scanner.Start(s.scanCtx, path, excludePatterns); err != nil {
		if errors.Is(err, types.ErrScanInProgress) {
			return nil, newMCPError(ErrorCodeScanInProgress, "scan already in progress", map[string]interface{}{
				"path": path,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to start scan", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"started": true,
		"path":    path,
	})), nil
}

// handleScanStatus handles the scan_status tool invocation
func (s *Server) handleScanStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ev, ok := s.bus.Latest()
	if !ok {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"status": "idle",
		})), nil
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"ptype":            string(ev.Type),
		"total":            ev.Total,
		"processed":        ev.Processed,
		"current_file":     ev.CurrentFile,
		"current_folder":   ev.CurrentFolder,
		"status":           ev.Status,
		"files_per_second": ev.FilesPerSecond,
		"eta_seconds":      ev.ETASeconds,
	})), nil
}

// handleUpdateWatchList handles the update_watch_list tool invocation
func (s *Server) handleUpdateWatchList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	paths := getStringSlice(args, "paths")
	for _, p := range paths {
		if err := validatePath(p); err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid watch path", map[string]interface{}{
				"path":   p,
				"reason": err.Error(),
			})
		}
	}

	if err := s.watcher.UpdateWatchList(paths); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to update watch list", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"watching": len(paths),
	})), nil
}

// handleGetStatistics handles the get_statistics tool invocation
func (s *Server) handleGetStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.index.Statistics()
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read statistics", map[string]interface{}{
			"error": err.Error(),
		})
	}
	nameStats := s.names.Stats()

	response := map[string]interface{}{
		"total_documents":      stats.TotalDocuments,
		"total_size_bytes":     stats.TotalSizeBytes,
		"filename_count":       nameStats.TotalFiles,
		"filename_index_bytes": nameStats.IndexSizeBytes,
	}
	if stats.LastUpdated != 0 {
		response["last_updated"] = stats.LastUpdated
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetPreview handles the get_preview tool invocation
func (s *Server) handleGetPreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", nil)
	}

	doc, err := extract.ParseFile(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "preview failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	content := doc.Content
	truncated := false
	if runes := []rune(content); len(runes) > previewLength {
		content = string(runes[:previewLength])
		truncated = true
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"path":      path,
		"title":     doc.Title,
		"content":   content,
		"truncated": truncated,
	})), nil
}

// handleRecentFiles handles the recent_files tool invocation
func (s *Server) handleRecentFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	limit := clampLimit(getIntDefault(args, "limit", 20))

	files, err := s.catalog.RecentFiles(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list recent files", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(files))
	for _, f := range files {
		results = append(results, map[string]interface{}{
			"path":     f.Path,
			"title":    f.Title,
			"modified": f.Modified,
			"size":     f.Size,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"total":   len(results),
		"results": results,
	})), nil
}

// handleClearIndex handles the clear_index tool invocation. All three
// stores are cleared together so staleness checks cannot mask the
// empty index.
func (s *Server) handleClearIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.index.DeleteAll(); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to clear index", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := s.names.Clear(); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to clear filename index", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := s.catalog.Clear(ctx); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to clear catalog", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"cleared": true,
	})), nil
}

// newMCPError builds a protocol error; the framework handles encoding.
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that path is an absolute, readable directory.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path is required")
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist")
	}
	if err != nil {
		return fmt.Errorf("path is not readable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}
	return nil
}

// formatJSON renders a response map for the text result.
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getSizeBound extracts an optional byte bound.
func getSizeBound(args map[string]interface{}, key string) *int64 {
	if val, ok := args[key].(float64); ok {
		v := int64(val)
		return &v
	}
	return nil
}

// getStringSlice extracts an optional array-of-strings parameter.
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// clampLimit caps a result limit at 100. Zero and negative limits pass
// through; the stores answer them with empty results.
func clampLimit(limit int) int {
	if limit > 100 {
		return 100
	}
	return limit
}
