package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/findex-mcp/internal/catalog"
	"github.com/dshills/findex-mcp/internal/index"
	"github.com/dshills/findex-mcp/internal/mcp"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("findex MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", catalog.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", catalog.DriverName)
		fmt.Printf("Index Schema: %s\n", index.SchemaVersion)
		os.Exit(0)
	}

	// Log to stderr; stdout is reserved for the MCP protocol.
	logger, err := buildLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("findex MCP server starting",
		zap.String("version", version),
		zap.String("build_mode", catalog.BuildMode),
		zap.String("sqlite_driver", catalog.DriverName),
		zap.String("index_schema", index.SchemaVersion))

	dataDir := os.Getenv("FINDEX_DATA_DIR")
	if dataDir == "" {
		dataDir = mcp.DefaultDataDir
	}

	server, err := mcp.NewServer(dataDir, logger)
	if err != nil {
		logger.Fatal("failed to create MCP server", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}

// buildLogger creates a stderr zap logger honoring FINDEX_LOG_LEVEL
// (debug, info, warn, error).
func buildLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if lvl := os.Getenv("FINDEX_LOG_LEVEL"); lvl != "" {
		var level zapcore.Level
		if err := level.Set(lvl); err != nil {
			return nil, fmt.Errorf("invalid FINDEX_LOG_LEVEL %q: %w", lvl, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	return cfg.Build()
}
