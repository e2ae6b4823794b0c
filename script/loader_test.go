package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Shopify/go-lua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/internal/logging"
)

const httpScript = `-- @name: http
-- @description: HTTP integration nodes
-- @version: 1.2.0
local methods = str_split("GET,POST,PUT", ",")
return {
  {
    id = "http_fetch",
    label = "HTTP Fetch",
    description = "Fetch a resource over HTTP.",
    inputs = 0,
    outputs = 1,
    default_label = "Fetch",
    params = {
      { label = "URL", type = "text", value = "http://localhost:8080" },
      { label = "Method", type = "select", value = methods[1], options = methods },
      { label = "Retries", type = "number", value = 3 },
      { label = "Verbose", type = "boolean", value = false },
    },
  },
  {
    id = "http_respond",
    label = "HTTP Respond",
    inputs = 1,
    outputs = 0,
    params = {},
  },
}
`

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestLoader(dir string) *Loader {
	return NewLoader(dir, palette.Builtin().IDs()).WithLogger(logging.Discard())
}

func TestLoadScriptMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "http.lua", httpScript)

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "http", s.Name)
	assert.Equal(t, "HTTP integration nodes", s.Description)
	assert.Equal(t, "1.2.0", s.Version)

	bare := writeScript(t, dir, "bare.lua", "return {}\n")
	s, err = LoadScript(bare)
	require.NoError(t, err)
	assert.Equal(t, "bare", s.Name, "file name is the fallback")
}

func TestTemplates(t *testing.T) {
	dir := t.TempDir()
	s, err := LoadScript(writeScript(t, dir, "http.lua", httpScript))
	require.NoError(t, err)

	templates, err := newTestLoader(dir).Templates(s)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	fetch := templates[0]
	assert.Equal(t, "http_fetch", fetch.ID)
	assert.Equal(t, 0, fetch.Inputs)
	assert.Equal(t, "Fetch a resource over HTTP.", fetch.DescriptionOr(""))
	require.Len(t, fetch.Params, 4)

	method := fetch.Params[1]
	assert.Equal(t, palette.ParamSelect, method.Type())
	assert.Equal(t, "GET", method.Value())
	assert.Equal(t, []string{"GET", "POST", "PUT"}, method.Options())
	assert.Equal(t, 3.0, fetch.Params[2].Value())
	assert.Equal(t, false, fetch.Params[3].Value())

	respond := templates[1]
	assert.Equal(t, palette.KindSink, respond.Kind())
	assert.Empty(t, respond.Params)
	assert.Nil(t, respond.Description)
}

func TestTemplatesSingleTable(t *testing.T) {
	dir := t.TempDir()
	s, err := LoadScript(writeScript(t, dir, "one.lua", `return { id = "noop", label = "No-op", inputs = 1, outputs = 1 }`))
	require.NoError(t, err)

	templates, err := newTestLoader(dir).Templates(s)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "noop", templates[0].ID)
}

func TestTemplatesSeeBuiltinIDs(t *testing.T) {
	dir := t.TempDir()
	src := `
local out = {}
for i, id in ipairs(builtin_ids) do
  table.insert(out, { id = id .. "_v2", label = "V2 " .. id, inputs = 1, outputs = 1 })
end
return out
`
	s, err := LoadScript(writeScript(t, dir, "v2.lua", src))
	require.NoError(t, err)

	templates, err := newTestLoader(dir).Templates(s)
	require.NoError(t, err)
	require.Len(t, templates, 4)
	assert.Equal(t, "generic_process_v2", templates[0].ID)
	assert.Equal(t, "filter_v2", templates[3].ID)
}

func TestTemplatesRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "no return", src: `local x = 1`, want: "must return"},
		{name: "syntax error", src: `return {`, want: "script bad"},
		{name: "not a table", src: `return 42`, want: "must return a table"},
		{name: "unknown field", src: `return { id = "a", label = "A", colour = "red" }`, want: `unknown field "colour"`},
		{name: "fractional ports", src: `return { id = "a", label = "A", inputs = 1.5 }`, want: "expected an integer"},
		{name: "negative ports", src: `return { id = "a", label = "A", outputs = -1 }`, want: "outputs"},
		{name: "infinite ports", src: `return { id = "a", label = "A", inputs = math.huge }`, want: "expected an integer"},
		{
			name: "NaN number value",
			src:  `return { id = "a", label = "A", params = { { label = "Rate", type = "number", value = 0/0 } } }`,
			want: "finite",
		},
		{name: "sparse table", src: `return { [1e9] = { id = "a", label = "A" } }`, want: "unknown field"},
		{name: "duplicate ids", src: `return { { id = "a", label = "A" }, { id = "a", label = "B" } }`, want: "template a"},
		{
			name: "select default outside options",
			src:  `return { id = "a", label = "A", params = { { label = "M", type = "select", value = "z", options = { "x" } } } }`,
			want: "params[0].value",
		},
		{name: "sandbox has no os", src: `return { id = os.getenv("HOME"), label = "A" }`, want: "script bad"},
		{name: "sandbox has no require", src: `require("io") return {}`, want: "script bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s, err := LoadScript(writeScript(t, dir, "bad.lua", tt.src))
			require.NoError(t, err)

			_, err = newTestLoader(dir).Templates(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "b/second.lua", `return { id = "second", label = "Second", inputs = 1, outputs = 1 }`)
	writeScript(t, dir, "a.lua", `return { id = "first", label = "First", inputs = 1, outputs = 1 }`)
	writeScript(t, dir, "README.md", "not a script")

	loader := newTestLoader(dir)
	scripts, err := loader.Discover()
	require.NoError(t, err)
	require.Len(t, scripts, 2)

	catalog := palette.NewCatalog(palette.Builtin())
	ctx := logging.WithLogger(context.Background(), logging.Discard())
	require.NoError(t, loader.LoadInto(ctx, catalog))

	ids := catalog.Snapshot().IDs()
	assert.Equal(t, []string{"generic_process", "data_source", "data_sink", "filter", "first", "second"}, ids)

	t.Run("missing dir", func(t *testing.T) {
		templates, err := newTestLoader(filepath.Join(dir, "nope")).LoadAll(ctx)
		assert.NoError(t, err)
		assert.Empty(t, templates)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := loader.LoadAll(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPullValue(t *testing.T) {
	l := newState(logging.Discard())
	pushStrings(l, []string{"a", "b"})
	l.SetGlobal("known")

	tests := []struct {
		name  string
		chunk string
		want  any
	}{
		{"nil", "return nil", nil},
		{"bool", "return true", true},
		{"number", "return 42", 42.0},
		{"string", `return "hello"`, "hello"},
		{"pushed strings", "return known", []any{"a", "b"}},
		{"sequence", "return {1, 2, 3}", []any{1.0, 2.0, 3.0}},
		{"map", `return {key = "value"}`, map[string]any{"key": "value"}},
		{"empty table", "return {}", map[string]any{}},
		{"sparse keys", "return {[1e9] = 1}", map[string]any{"1e+09": 1.0}},
		{"gap", "return {[1] = 1, [3] = 3}", map[string]any{"1": 1.0, "3": 3.0}},
		{"fractional key", "return {[1.5] = 1}", map[string]any{"1.5": 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, lua.DoString(l, tt.chunk))
			got := pullValue(l, -1)
			l.SetTop(0)
			assert.Equal(t, tt.want, got)
		})
	}
}
