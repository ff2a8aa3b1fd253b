package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchTool returns the tool definition for search
func searchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search",
		Description: "Full-text search over indexed files. Supports inline operators: ext:pdf, path:fragment, title:fragment, size:>1MB, and quoted phrases",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query, optionally with operators (e.g. 'ext:md size:>10KB meeting notes')",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (capped at 100; 0 returns none)",
					"default":     20,
					"maximum":     100,
				},
				"min_size": map[string]interface{}{
					"type":        "integer",
					"description": "Only return files of at least this many bytes",
				},
				"max_size": map[string]interface{}{
					"type":        "integer",
					"description": "Only return files below this many bytes",
				},
				"extensions": map[string]interface{}{
					"type":        "array",
					"description": "Restrict results to these extensions (without dot)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"query"},
		},
	}
}

// searchFilenamesTool returns the tool definition for search_filenames
func searchFilenamesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_filenames",
		Description: "Fuzzy search over file names only; tolerates typos and partial names",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Name or fragment to look for",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (capped at 100; 0 returns none)",
					"default":     20,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// startScanTool returns the tool definition for start_scan
func startScanTool() mcp.Tool {
	return mcp.Tool{
		Name:        "start_scan",
		Description: "Start indexing a directory tree in the background; poll scan_status for progress",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the directory to index",
				},
				"exclude_patterns": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns (relative to path) to exclude, e.g. '**/*.bak'",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"path"},
		},
	}
}

// scanStatusTool returns the tool definition for scan_status
func scanStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "scan_status",
		Description: "Report the most recent scan/index progress sample",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// updateWatchListTool returns the tool definition for update_watch_list
func updateWatchListTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_watch_list",
		Description: "Replace the set of directories watched for live re-indexing; an empty list stops watching",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"paths": map[string]interface{}{
					"type":        "array",
					"description": "Absolute directory paths to watch recursively",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"paths"},
		},
	}
}

// getStatisticsTool returns the tool definition for get_statistics
func getStatisticsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_statistics",
		Description: "Report index statistics: document count, on-disk footprint, filename index size",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getPreviewTool returns the tool definition for get_preview
func getPreviewTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_preview",
		Description: "Extract and return the first 10000 characters of a file's text content",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the file to preview",
				},
			},
			Required: []string{"path"},
		},
	}
}

// recentFilesTool returns the tool definition for recent_files
func recentFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "recent_files",
		Description: "List indexed files by modification time, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of files to return (capped at 100; 0 returns none)",
					"default":     20,
					"maximum":     100,
				},
			},
		},
	}
}

// clearIndexTool returns the tool definition for clear_index
func clearIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "clear_index",
		Description: "Delete all indexed data (inverted index, filename index, metadata catalog) for a full rebuild",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
