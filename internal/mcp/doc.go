// Package mcp implements the Model Context Protocol (MCP) server for findex.
//
// The MCP server exposes the search engine's public surface to MCP
// clients (Claude Code, Codex CLI):
//   - search: Ranked full-text search with inline operators
//   - search_filenames: Fuzzy search over file names only
//   - start_scan: Index a directory tree in the background
//   - scan_status: Poll the latest scan/index progress sample
//   - update_watch_list: Choose the directories watched for live updates
//   - get_statistics: Index document count and on-disk footprint
//   - get_preview: First 10000 characters of a file's extracted text
//   - recent_files: Indexed files by modification time, newest first
//   - clear_index: Delete all indexed data for a full rebuild
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output,
// making it simple to integrate with any MCP-compatible client.
//
// # Basic Usage
//
// The server is the findex binary itself:
//
//	findex
//
// It then listens on stdin for MCP protocol messages and writes
// responses to stdout. State lives under FINDEX_DATA_DIR (default
// ~/.findex).
//
// # Tool: search
//
// Full-text search over indexed content. The query string may carry
// inline operators (ext:, path:, title:, size:) and quoted phrases:
//
//	Request:
//	{
//	  "name": "search",
//	  "arguments": {
//	    "query": "quarterly report ext:pdf size:>100KB",
//	    "limit": 10,
//	    "extensions": ["pdf", "docx"]
//	  }
//	}
//
//	Response:
//	{
//	  "query": "quarterly report ext:pdf size:>100KB",
//	  "total": 2,
//	  "results": [
//	    {
//	      "file_path": "/home/user/docs/q3-report.pdf",
//	      "title": "Q3 Quarterly Report",
//	      "score": 1.42,
//	      "matched_terms": ["quarterly", "report"]
//	    }
//	  ]
//	}
//
// A limit of 0 returns an empty result set; limits above 100 are
// capped. Explicit min_size/max_size arguments override size:
// operators in the query string.
//
// # Tool: search_filenames
//
// Fuzzy name lookup served by the in-memory filename index; tolerates
// typos within two edits:
//
//	Request:
//	{
//	  "name": "search_filenames",
//	  "arguments": {"query": "raedme.md", "limit": 5}
//	}
//
//	Response:
//	{
//	  "query": "raedme.md",
//	  "total": 1,
//	  "results": [
//	    {"path": "/home/user/project/readme.md", "name": "readme.md"}
//	  ]
//	}
//
// # Tool: start_scan
//
// Kick off indexing of a directory tree. The call returns immediately;
// the scan runs in the background and reports through scan_status:
//
//	Request:
//	{
//	  "name": "start_scan",
//	  "arguments": {
//	    "path": "/home/user/docs",
//	    "exclude_patterns": ["**/*.bak", "archive/**"]
//	  }
//	}
//
//	Response:
//	{
//	  "started": true,
//	  "path": "/home/user/docs"
//	}
//
// Only one scan runs at a time; a second start_scan while one is in
// flight fails and leaves the running scan untouched.
//
// # Tool: scan_status
//
// Poll the most recent progress sample. Events are produced on a
// bounded bus with non-blocking sends, so this is a snapshot, not a
// stream:
//
//	Request:
//	{
//	  "name": "scan_status",
//	  "arguments": {}
//	}
//
//	Response:
//	{
//	  "ptype": "index",
//	  "total": 1250,
//	  "processed": 430,
//	  "current_file": "notes.md",
//	  "current_folder": "/home/user/docs/meetings",
//	  "status": "indexing",
//	  "files_per_second": 86.4,
//	  "eta_seconds": 9
//	}
//
// Before any scan has run the response is {"status": "idle"}. A
// finished scan reports status "done".
//
// # Tool: update_watch_list
//
// Replace the watched directory set. Watched trees are re-indexed
// incrementally within about a second of a change; an empty list stops
// watching:
//
//	Request:
//	{
//	  "name": "update_watch_list",
//	  "arguments": {"paths": ["/home/user/docs", "/home/user/notes"]}
//	}
//
//	Response:
//	{"watching": 2}
//
// # Tool: get_statistics
//
//	Response:
//	{
//	  "total_documents": 1250,
//	  "total_size_bytes": 18734080,
//	  "last_updated": 1722470400,
//	  "filename_count": 2311,
//	  "filename_index_bytes": 104530
//	}
//
// total_size_bytes is the on-disk footprint of the index directory,
// not the sum of indexed file sizes.
//
// # Tool: get_preview
//
// Re-extracts the file's text on demand (content is never stored in
// the index) and returns up to the first 10000 characters, with
// "truncated": true when the content was longer.
//
// # Tool: recent_files and clear_index
//
// recent_files lists catalog records ordered by modification time,
// newest first. clear_index wipes the inverted index, the filename
// index, and the metadata catalog together, so the next scan rebuilds
// everything; clearing only the index would leave catalog staleness
// checks masking it.
//
// # MCP Client Configuration
//
// Configure in Claude Code's MCP settings:
//
//	{
//	  "mcpServers": {
//	    "findex": {
//	      "command": "/usr/local/bin/findex",
//	      "env": {
//	        "FINDEX_DATA_DIR": "/home/user/.findex"
//	      }
//	    }
//	  }
//	}
//
// # Error Handling
//
// The server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "invalid path",
//	    "data": {
//	      "param": "path",
//	      "reason": "path does not exist"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (index, catalog, filesystem)
//   - -32001: Scan already in progress
//   - -32002: Path not indexed (defined as ErrorCodeNotIndexed; no
//     tool handler currently returns it)
//
// # Logging
//
// The server logs to stderr (stdout is reserved for MCP protocol) via
// zap. Set the level via environment:
//
//	FINDEX_LOG_LEVEL=debug findex
package mcp
