package yaml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/palette"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadString(t *testing.T) {
	templates, err := NewLoader().LoadString(Example())
	require.NoError(t, err)
	require.Len(t, templates, 2)

	fetch := templates[0]
	assert.Equal(t, "http_fetch", fetch.ID)
	assert.Equal(t, palette.KindSource, fetch.Kind())
	require.NotNil(t, fetch.DefaultLabel)
	assert.Equal(t, "Fetch", *fetch.DefaultLabel)
	assert.Nil(t, fetch.DefaultTextInput)

	method, ok := fetch.Param("Method")
	require.True(t, ok)
	assert.Equal(t, []string{"GET", "POST", "PUT"}, method.Options())

	timeout, ok := fetch.Param("Timeout (ms)")
	require.True(t, ok)
	assert.Equal(t, 5000.0, timeout.Value())

	redirects, _ := fetch.Param("Follow Redirects")
	assert.Equal(t, true, redirects.Value())

	respond := templates[1]
	require.NotNil(t, respond.DefaultTextInput, "empty string is distinct from absent")
	assert.Equal(t, "", *respond.DefaultTextInput)
	assert.NotNil(t, respond.Description)
}

func TestLoadStringRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "duplicate ids",
			doc: `templates:
  - {id: a, label: A, inputs: 1, outputs: 1}
  - {id: a, label: A2, inputs: 1, outputs: 1}
`,
			want: []string{"template a", "id"},
		},
		{
			name: "negative ports",
			doc: `templates:
  - {id: broken, label: Broken, inputs: -1, outputs: 1}
`,
			want: []string{"template broken", "inputs"},
		},
		{
			name: "value does not match type",
			doc: `templates:
  - id: typed
    label: Typed
    inputs: 1
    outputs: 1
    params:
      - {label: Count, type: number, value: many}
`,
			want: []string{"template typed", "params[0]", "Count"},
		},
		{
			name: "number value is NaN",
			doc: `templates:
  - id: rate
    label: Rate
    inputs: 1
    outputs: 1
    params:
      - {label: Rate, type: number, value: .nan}
`,
			want: []string{"template rate", "params[0]", "finite"},
		},
		{
			name: "number value is infinite",
			doc: `templates:
  - id: limit
    label: Limit
    inputs: 1
    outputs: 1
    params:
      - {label: Limit, type: number, value: -.inf}
`,
			want: []string{"template limit", "params[0]", "finite"},
		},
		{
			name: "select without options",
			doc: `templates:
  - id: sel
    label: Sel
    inputs: 1
    outputs: 1
    params:
      - {label: Mode, type: select, value: a}
`,
			want: []string{"template sel", "params[0].options"},
		},
		{
			name: "unknown field",
			doc: `templates:
  - {id: a, label: A, inputs: 1, outputs: 1, colour: red}
`,
			want: []string{"colour"},
		},
		{
			name: "empty catalog",
			doc:  `templates: []`,
			want: []string{"at least one template"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadString(tt.doc)
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}

	t.Run("violations are typed", func(t *testing.T) {
		_, err := NewLoader().LoadString("templates:\n  - {id: b, label: B, inputs: 0, outputs: -3}\n")
		assert.True(t, errors.Is(err, palette.ErrInvalidTemplate))
	})

	t.Run("lenient parser ignores unknown fields", func(t *testing.T) {
		loader := NewLoader().WithParser(NewParser().Lenient())
		templates, err := loader.LoadString("templates:\n  - {id: a, label: A, inputs: 1, outputs: 1, colour: red}\n")
		require.NoError(t, err)
		assert.Len(t, templates, 1)
	})
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "b.yaml", "templates:\n  - {id: first, label: First, inputs: 1, outputs: 1}\n")
	second := writeFile(t, dir, "a.json", `{"templates": [{"id": "second", "label": "Second", "inputs": 0, "outputs": 1,
  "params": [{"label": "On", "type": "boolean", "value": false}]}]}`)

	templates, err := NewLoader().WithConcurrency(2).LoadFiles(context.Background(), first, second)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "first", templates[0].ID, "argument order is preserved")
	assert.Equal(t, "second", templates[1].ID)

	t.Run("dir is sorted", func(t *testing.T) {
		writeFile(t, dir, "notes.txt", "ignored")
		templates, err := NewLoader().LoadDir(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, templates, 2)
		assert.Equal(t, "second", templates[0].ID)
	})

	t.Run("missing dir", func(t *testing.T) {
		templates, err := NewLoader().LoadDir(context.Background(), filepath.Join(dir, "nope"))
		assert.NoError(t, err)
		assert.Empty(t, templates)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader().LoadFiles(context.Background(), filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadInto(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.yaml", "templates:\n  - {id: delay, label: Delay, inputs: 1, outputs: 1}\n")
	clash := writeFile(t, dir, "clash.yaml", "templates:\n  - {id: filter, label: Filter 2, inputs: 1, outputs: 1}\n")

	catalog := palette.NewCatalog(palette.Builtin())
	require.NoError(t, NewLoader().LoadInto(context.Background(), catalog, ok))
	assert.Equal(t, 5, catalog.Snapshot().Len())

	err := NewLoader().LoadInto(context.Background(), catalog, clash)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter")
	assert.Equal(t, 5, catalog.Snapshot().Len())
}

func TestMarshalTemplatesRoundTrip(t *testing.T) {
	parser := NewParser()
	data, err := parser.MarshalTemplates(palette.ListTemplates())
	require.NoError(t, err)

	templates, err := NewLoader().LoadString(string(data))
	require.NoError(t, err)
	require.Len(t, templates, 4)

	for i, want := range palette.ListTemplates() {
		got := templates[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Inputs, got.Inputs)
		assert.Equal(t, want.Outputs, got.Outputs)
		require.Len(t, got.Params, len(want.Params))
		for j := range want.Params {
			assert.True(t, want.Params[j].Equal(got.Params[j]), "%s param %d", want.ID, j)
		}
	}
}

func TestIsCatalogFile(t *testing.T) {
	assert.True(t, IsCatalogFile("nodes.yaml"))
	assert.True(t, IsCatalogFile("nodes.YML"))
	assert.True(t, IsCatalogFile("nodes.json"))
	assert.False(t, IsCatalogFile("nodes.lua"))
}

func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "catalogs")
	require.NoError(t, os.Mkdir(sub, 0o750))
	b := writeFile(t, sub, "b.yml", "templates: []\n")
	a := writeFile(t, sub, "a.yaml", "templates: []\n")
	writeFile(t, sub, "readme.md", "ignored")
	single := writeFile(t, dir, "single.json", "{}")

	files, err := ResolvePaths(single, sub)
	require.NoError(t, err)
	assert.Equal(t, []string{single, a, b}, files)

	_, err = ResolvePaths(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
