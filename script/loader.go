// Package script loads node templates contributed by Lua scripts.
//
// A catalog script is a sandboxed Lua chunk that returns either a single
// template table or an array of them, using the same keys as YAML catalog
// files:
//
//	-- @name: http
//	-- @description: HTTP integration nodes
//	return {
//	  id = "http_fetch",
//	  label = "HTTP Fetch",
//	  inputs = 0,
//	  outputs = 1,
//	  params = {
//	    { label = "Method", type = "select", value = "GET", options = { "GET", "POST" } },
//	  },
//	}
//
// The global builtin_ids lists the ids already in the catalog.
package script

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/internal/logging"
	"github.com/agentstation/palette/yaml"
)

// Extension is the file suffix of catalog scripts.
const Extension = ".lua"

// Script is a discovered catalog script.
type Script struct {
	Name        string
	Path        string
	Description string
	Version     string
	Content     string
}

// Loader discovers catalog scripts and evaluates them.
type Loader struct {
	dir    string
	known  []string
	logger *slog.Logger
}

// NewLoader creates a loader for scripts under dir. known is exposed to
// scripts as builtin_ids.
func NewLoader(dir string, known []string) *Loader {
	return &Loader{dir: dir, known: known, logger: slog.Default()}
}

// WithLogger sets the logger used for discovery messages and script print.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	l.logger = logger
	return l
}

// Discover finds every catalog script under the loader's directory,
// sorted by path. A missing directory yields no scripts.
func (l *Loader) Discover() ([]*Script, error) {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return nil, nil
	}

	var scripts []*Script
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, Extension) {
			return nil
		}

		s, err := LoadScript(path)
		if err != nil {
			return err
		}
		l.logger.Debug("discovered catalog script", "name", s.Name, "path", s.Path)
		scripts = append(scripts, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover scripts in %s: %w", l.dir, err)
	}

	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Path < scripts[j].Path })
	return scripts, nil
}

// LoadScript reads a script and its metadata comments.
func LoadScript(path string) (*Script, error) {
	content, err := os.ReadFile(path) //nolint:gosec // script paths come from the operator's configuration
	if err != nil {
		return nil, err
	}

	s := &Script{
		Path:    path,
		Content: string(content),
	}

	for _, line := range strings.Split(s.Content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "--") {
			break
		}

		switch {
		case strings.HasPrefix(line, "-- @name:"):
			s.Name = strings.TrimSpace(strings.TrimPrefix(line, "-- @name:"))
		case strings.HasPrefix(line, "-- @description:"):
			s.Description = strings.TrimSpace(strings.TrimPrefix(line, "-- @description:"))
		case strings.HasPrefix(line, "-- @version:"):
			s.Version = strings.TrimSpace(strings.TrimPrefix(line, "-- @version:"))
		}
	}

	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return s, nil
}

// Templates evaluates the script and converts its result to validated
// templates.
func (l *Loader) Templates(s *Script) ([]palette.NodeTemplate, error) {
	state := newState(l.logger)
	pushStrings(state, l.known)
	state.SetGlobal("builtin_ids")

	if err := lua.DoString(state, s.Content); err != nil {
		return nil, fmt.Errorf("script %s: %w", s.Name, err)
	}
	if state.Top() == 0 {
		return nil, fmt.Errorf("script %s: must return a template table", s.Name)
	}
	result := pullValue(state, -1)
	state.Pop(1)

	def, err := toCatalog(result)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", s.Name, err)
	}
	templates, err := def.ToTemplates()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", s.Name, err)
	}
	return templates, nil
}

// LoadAll discovers and evaluates every script. Any failing script aborts
// the load.
func (l *Loader) LoadAll(ctx context.Context) ([]palette.NodeTemplate, error) {
	scripts, err := l.Discover()
	if err != nil {
		return nil, err
	}

	var all []palette.NodeTemplate
	for _, s := range scripts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		templates, err := l.Templates(s)
		if err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Debug("loaded catalog script", "name", s.Name, "templates", len(templates))
		all = append(all, templates...)
	}
	return all, nil
}

// LoadInto loads every script and registers the templates in catalog as
// one batch.
func (l *Loader) LoadInto(ctx context.Context, catalog *palette.Catalog) error {
	templates, err := l.LoadAll(ctx)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return nil
	}
	if err := catalog.Register(templates...); err != nil {
		return fmt.Errorf("register script templates: %w", err)
	}
	return nil
}

func toCatalog(v any) (*yaml.CatalogDefinition, error) {
	var tables []any
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			return nil, fmt.Errorf("returned an empty table")
		}
		tables = []any{val}
	case []any:
		tables = val
	default:
		return nil, fmt.Errorf("must return a table, got %T", v)
	}

	def := &yaml.CatalogDefinition{}
	for i, item := range tables {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("template #%d: expected a table, got %T", i, item)
		}
		td, err := toTemplateDefinition(m)
		if err != nil {
			return nil, fmt.Errorf("template #%d: %w", i, err)
		}
		def.Templates = append(def.Templates, td)
	}
	return def, nil
}

func toTemplateDefinition(m map[string]any) (yaml.TemplateDefinition, error) {
	var td yaml.TemplateDefinition
	for key, v := range m {
		var err error
		switch key {
		case "id":
			td.ID, err = asString(key, v)
		case "label":
			td.Label, err = asString(key, v)
		case "description":
			td.Description, err = asOptionalString(key, v)
		case "default_label":
			td.DefaultLabel, err = asOptionalString(key, v)
		case "default_text_input":
			td.DefaultTextInput, err = asOptionalString(key, v)
		case "inputs":
			td.Inputs, err = asInt(key, v)
		case "outputs":
			td.Outputs, err = asInt(key, v)
		case "params":
			td.Params, err = asParams(v)
		default:
			err = fmt.Errorf("unknown field %q", key)
		}
		if err != nil {
			return yaml.TemplateDefinition{}, err
		}
	}
	return td, nil
}

func asParams(v any) ([]yaml.ParamDefinition, error) {
	// An empty Lua table decodes as an empty object.
	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("params: expected an array, got %T", v)
	}

	out := make([]yaml.ParamDefinition, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("params[%d]: expected a table, got %T", i, item)
		}
		var pd yaml.ParamDefinition
		for key, val := range m {
			var err error
			switch key {
			case "label":
				pd.Label, err = asString(key, val)
			case "type":
				pd.Type, err = asString(key, val)
			case "value":
				pd.Value = val
			case "options":
				pd.Options, err = asStrings(key, val)
			default:
				err = fmt.Errorf("unknown field %q", key)
			}
			if err != nil {
				return nil, fmt.Errorf("params[%d]: %w", i, err)
			}
		}
		out = append(out, pd)
	}
	return out, nil
}

func asString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected a string, got %T", key, v)
	}
	return s, nil
}

func asOptionalString(key string, v any) (*string, error) {
	s, err := asString(key, v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func asInt(key string, v any) (int, error) {
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%s: expected a number, got %T", key, v)
	}
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return 0, fmt.Errorf("%s: expected an integer, got %v", key, n)
	}
	return int(n), nil
}

func asStrings(key string, v any) ([]string, error) {
	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return []string{}, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an array, got %T", key, v)
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a string, got %T", key, i, item)
		}
		out[i] = s
	}
	return out, nil
}
