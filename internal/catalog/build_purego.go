//go:build purego
// +build purego

package catalog

// This file is compiled when building without CGO.
//
// Build command:
//   CGO_ENABLED=0 go build -tags purego ./...
//
// The pure Go implementation requires no C compiler and cross-compiles
// cleanly at some cost in write throughput.
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
