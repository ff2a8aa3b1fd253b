package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dshills/findex-mcp/internal/catalog"
	"github.com/dshills/findex-mcp/internal/filename"
	"github.com/dshills/findex-mcp/internal/index"
	"github.com/dshills/findex-mcp/internal/scanner"
	"github.com/dshills/findex-mcp/internal/watcher"
)

const (
	// ServerName is the MCP server name
	ServerName = "findex-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// DefaultDataDir is the app-data directory holding the index, the
// filename index, and the metadata catalog.
const DefaultDataDir = "~/.findex"

// Server wraps the MCP server with application dependencies. It is
// the single owner of both indexes and the catalog; the scanner and
// watcher receive shared handles.
type Server struct {
	mcp     *server.MCPServer
	catalog catalog.Catalog
	index   *index.Index
	names   *filename.Index
	scanner *scanner.Scanner
	watcher *watcher.Watcher
	bus     *scanner.Bus
	logger  *zap.Logger

	// scanCtx bounds background scans to the server lifetime.
	scanCtx    context.Context
	scanCancel context.CancelFunc
}

// NewServer creates a new MCP server instance with state under
// dataDir.
func NewServer(dataDir string, logger *zap.Logger) (*Server, error) {
	if dataDir == "" || dataDir == DefaultDataDir {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".findex")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cat, err := catalog.NewSQLiteCatalog(filepath.Join(dataDir, "metadata.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	ix, err := index.Open(filepath.Join(dataDir, "index"), logger)
	if err != nil {
		_ = cat.Close()
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	if ix.WasRebuilt() {
		// A fresh index with a populated catalog would skip every file
		// on the next scan; reset the catalog so it repopulates.
		if err := cat.Clear(context.Background()); err != nil {
			logger.Warn("catalog reset after index rebuild failed", zap.Error(err))
		}
	}

	names, err := filename.New(filepath.Join(dataDir, "filename_index"), logger)
	if err != nil {
		_ = ix.Close()
		_ = cat.Close()
		return nil, fmt.Errorf("failed to open filename index: %w", err)
	}

	bus := scanner.NewBus()
	sc := scanner.New(cat, ix, names, bus, logger)
	w := watcher.New(sc, cat, ix, logger)

	scanCtx, scanCancel := context.WithCancel(context.Background())

	s := &Server{
		mcp:        server.NewMCPServer(ServerName, ServerVersion),
		catalog:    cat,
		index:      ix,
		names:      names,
		scanner:    sc,
		watcher:    w,
		bus:        bus,
		logger:     logger,
		scanCtx:    scanCtx,
		scanCancel: scanCancel,
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	watchCtx, watchCancel := context.WithCancel(ctx)
	go s.watcher.Run(watchCtx)

	defer func() {
		s.scanCancel()
		watchCancel()
		if err := s.names.Commit(); err != nil {
			s.logger.Warn("filename index commit on shutdown failed", zap.Error(err))
		}
		if err := s.index.Close(); err != nil {
			s.logger.Warn("index close failed", zap.Error(err))
		}
		if err := s.catalog.Close(); err != nil {
			s.logger.Warn("catalog close failed", zap.Error(err))
		}
	}()

	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchTool(), s.handleSearch)
	s.mcp.AddTool(searchFilenamesTool(), s.handleSearchFilenames)
	s.mcp.AddTool(startScanTool(), s.handleStartScan)
	s.mcp.AddTool(scanStatusTool(), s.handleScanStatus)
	s.mcp.AddTool(updateWatchListTool(), s.handleUpdateWatchList)
	s.mcp.AddTool(getStatisticsTool(), s.handleGetStatistics)
	s.mcp.AddTool(getPreviewTool(), s.handleGetPreview)
	s.mcp.AddTool(recentFilesTool(), s.handleRecentFiles)
	s.mcp.AddTool(clearIndexTool(), s.handleClearIndex)
}
