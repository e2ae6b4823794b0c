package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/internal/config"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "tilde only", input: "~", expected: home},
		{name: "tilde with path", input: "~/test/path", expected: filepath.Join(home, "test", "path")},
		{name: "absolute path", input: "/absolute/path", expected: "/absolute/path"},
		{name: "relative path", input: "relative/path", expected: "relative/path"},
		{name: "empty path", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	catalogDir := filepath.Join(dir, "catalogs")
	writeFile(t, catalogDir, "http.yaml", `
templates:
  - id: http_fetch
    label: HTTP Fetch
    inputs: 0
    outputs: 1
`)
	scripts := filepath.Join(dir, "scripts")
	writeFile(t, scripts, "wrap.lua", `
local out = {}
for _, id in ipairs(builtin_ids) do
  if id == "http_fetch" then
    table.insert(out, { id = "http_fetch_retry", label = "HTTP Fetch (retry)", inputs = 0, outputs = 1 })
  end
end
return out
`)

	cfg := config.Default()
	cfg.Catalog.Paths = []string{catalogDir}
	cfg.Catalog.ScriptsDir = scripts

	catalog, err := loadCatalog(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"generic_process", "data_source", "data_sink", "filter", "http_fetch", "http_fetch_retry"}, catalog.Snapshot().IDs())
	assert.True(t, catalog.Sealed())
	assert.ErrorIs(t, catalog.Register(palette.NodeTemplate{ID: "late", Label: "Late"}), palette.ErrSealed)

	t.Run("unsealed", func(t *testing.T) {
		cfg := config.Default()
		cfg.Catalog.Seal = false
		catalog, err := loadCatalog(context.Background(), cfg)
		require.NoError(t, err)
		assert.False(t, catalog.Sealed())
		assert.Equal(t, 4, catalog.Snapshot().Len())
	})

	t.Run("clash with builtin", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.yaml", "templates:\n  - {id: filter, label: Filter, inputs: 1, outputs: 1}\n")
		cfg := config.Default()
		cfg.Catalog.Paths = []string{bad}
		_, err := loadCatalog(context.Background(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("missing path", func(t *testing.T) {
		cfg := config.Default()
		cfg.Catalog.Paths = []string{filepath.Join(dir, "missing.yaml")}
		_, err := loadCatalog(context.Background(), cfg)
		assert.Error(t, err)
	})
}
