package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIntDefault(t *testing.T) {
	args := map[string]interface{}{
		"float": float64(42),
		"int":   7,
		"text":  "nope",
	}

	assert.Equal(t, 42, getIntDefault(args, "float", 1))
	assert.Equal(t, 7, getIntDefault(args, "int", 1))
	assert.Equal(t, 1, getIntDefault(args, "text", 1))
	assert.Equal(t, 1, getIntDefault(args, "missing", 1))
	assert.Equal(t, 1, getIntDefault(nil, "missing", 1))
}

func TestGetSizeBound(t *testing.T) {
	args := map[string]interface{}{"min_size": float64(1024)}

	bound := getSizeBound(args, "min_size")
	if assert.NotNil(t, bound) {
		assert.Equal(t, int64(1024), *bound)
	}
	assert.Nil(t, getSizeBound(args, "max_size"))
}

func TestGetStringSlice(t *testing.T) {
	args := map[string]interface{}{
		"extensions": []interface{}{"pdf", "md", 3},
	}

	assert.Equal(t, []string{"pdf", "md"}, getStringSlice(args, "extensions"))
	assert.Nil(t, getStringSlice(args, "missing"))
}

func TestClampLimit(t *testing.T) {
	// limit 0 is a documented edge case: it must reach the stores and
	// yield empty results, not be floored to 1.
	assert.Equal(t, 0, clampLimit(0))
	assert.Equal(t, -5, clampLimit(-5))
	assert.Equal(t, 50, clampLimit(50))
	assert.Equal(t, 100, clampLimit(500))
}

func TestValidatePath(t *testing.T) {
	assert.Error(t, validatePath(""))
	assert.Error(t, validatePath("relative/path"))
	assert.Error(t, validatePath("/definitely/not/here/findex"))
	assert.NoError(t, validatePath(t.TempDir()))
}

func TestMCPErrorMessage(t *testing.T) {
	err := newMCPError(ErrorCodeInvalidParams, "bad input", nil)
	assert.Contains(t, err.Error(), "-32602")
	assert.Contains(t, err.Error(), "bad input")
}
