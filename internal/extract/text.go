package extract

import (
	"os"

	"github.com/dshills/findex-mcp/pkg/types"
)

// textExtensions is the static set of plain-text and source-code
// extensions handled by the text extractor.
var textExtensions = map[string]struct{}{
	// Documents and notes
	"txt": {}, "md": {}, "markdown": {}, "rst": {}, "org": {}, "adoc": {},
	"tex": {}, "bib": {}, "log": {}, "csv": {}, "tsv": {},
	// Config and data
	"json": {}, "jsonl": {}, "yaml": {}, "yml": {}, "toml": {}, "ini": {},
	"cfg": {}, "conf": {}, "properties": {}, "env": {}, "xml": {},
	"plist": {}, "gradle": {}, "cmake": {}, "mk": {}, "makefile": {},
	"dockerfile": {}, "proto": {}, "graphql": {}, "sql": {},
	// Web
	"html": {}, "htm": {}, "xhtml": {}, "css": {}, "scss": {}, "sass": {},
	"less": {}, "svg": {}, "vue": {}, "svelte": {},
	// C family
	"c": {}, "h": {}, "cpp": {}, "cc": {}, "cxx": {}, "hpp": {}, "hh": {},
	"hxx": {}, "m": {}, "mm": {},
	// JVM
	"java": {}, "kt": {}, "kts": {}, "scala": {}, "groovy": {}, "clj": {},
	// Scripting
	"py": {}, "rb": {}, "php": {}, "pl": {}, "pm": {}, "lua": {}, "tcl": {},
	"sh": {}, "bash": {}, "zsh": {}, "fish": {}, "ps1": {}, "psm1": {},
	"bat": {}, "cmd": {}, "awk": {}, "sed": {},
	// Systems
	"go": {}, "rs": {}, "zig": {}, "d": {}, "nim": {}, "v": {}, "asm": {},
	"s": {},
	// Typed scripting / functional
	"js": {}, "mjs": {}, "cjs": {}, "jsx": {}, "ts": {}, "tsx": {},
	"dart": {}, "swift": {}, "cs": {}, "fs": {}, "fsx": {}, "ml": {},
	"mli": {}, "hs": {}, "lhs": {}, "elm": {}, "erl": {}, "hrl": {},
	"ex": {}, "exs": {}, "lisp": {}, "scm": {}, "rkt": {}, "jl": {},
	"r": {}, "rmd": {},
	// Infra
	"tf": {}, "tfvars": {}, "hcl": {}, "nix": {}, "cue": {}, "bzl": {},
	"bazel": {}, "vim": {}, "el": {}, "diff": {}, "patch": {},
}

// parseText reads a plain-text file. Invalid UTF-8 sequences are
// replaced; the caller enforces the output cap.
func parseText(path string) (*types.ParsedDocument, error) {
	if _, err := checkSize(path, maxTextFileSize); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &types.ParsedDocument{
		Path:    path,
		Content: string(data),
	}, nil
}
