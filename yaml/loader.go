package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/internal/logging"
)

// Extensions lists the file suffixes LoadDir picks up.
var Extensions = []string{".yaml", ".yml", ".json"}

// Loader loads catalog definitions and turns them into templates.
type Loader struct {
	parser *Parser
	limit  int
}

// NewLoader creates a new YAML catalog loader.
func NewLoader() *Loader {
	return &Loader{
		parser: NewParser(),
		limit:  8,
	}
}

// WithParser sets a custom parser.
func (l *Loader) WithParser(parser *Parser) *Loader {
	l.parser = parser
	return l
}

// WithConcurrency bounds how many files are read at once.
func (l *Loader) WithConcurrency(n int) *Loader {
	if n > 0 {
		l.limit = n
	}
	return l
}

// LoadFile loads the templates of one catalog file. Any violation rejects
// the whole file.
func (l *Loader) LoadFile(filename string) ([]palette.NodeTemplate, error) {
	def, err := l.parser.ParseFile(filename)
	if err != nil {
		return nil, fmt.Errorf("parse file %s: %w", filename, err)
	}

	templates, err := l.LoadDefinition(def)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return templates, nil
}

// LoadString loads templates from a YAML string.
func (l *Loader) LoadString(yamlStr string) ([]palette.NodeTemplate, error) {
	def, err := l.parser.ParseString(yamlStr)
	if err != nil {
		return nil, fmt.Errorf("parse string: %w", err)
	}

	return l.LoadDefinition(def)
}

// LoadDefinition converts a parsed definition to validated templates.
func (l *Loader) LoadDefinition(def *CatalogDefinition) ([]palette.NodeTemplate, error) {
	if len(def.Templates) == 0 {
		return nil, fmt.Errorf("invalid catalog definition: at least one template is required")
	}
	templates, err := def.ToTemplates()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog definition: %w", err)
	}
	return templates, nil
}

// LoadFiles reads the files concurrently and returns their templates
// concatenated in argument order, so the resulting catalog order does not
// depend on scheduling. The first failure cancels the remaining reads.
func (l *Loader) LoadFiles(ctx context.Context, filenames ...string) ([]palette.NodeTemplate, error) {
	logger := logging.FromContext(ctx)
	results := make([][]palette.NodeTemplate, len(filenames))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)
	for i, name := range filenames {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			templates, err := l.LoadFile(name)
			if err != nil {
				return err
			}
			logger.Debug("loaded catalog file", "path", name, "templates", len(templates))
			results[i] = templates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []palette.NodeTemplate
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// LoadDir loads every catalog file directly inside dir, in lexical order.
// A missing directory yields no templates.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]palette.NodeTemplate, error) {
	files, err := dirFiles(dir)
	if err != nil {
		return nil, err
	}
	return l.LoadFiles(ctx, files...)
}

// ResolvePaths expands directories to the catalog files directly inside
// them and keeps plain files as given. Every path must exist.
func ResolvePaths(paths ...string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("catalog path %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := dirFiles(p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func dirFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsCatalogFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)
	return files, nil
}

// LoadInto loads the files and registers their templates in catalog as
// one batch.
func (l *Loader) LoadInto(ctx context.Context, catalog *palette.Catalog, filenames ...string) error {
	templates, err := l.LoadFiles(ctx, filenames...)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return nil
	}
	if err := catalog.Register(templates...); err != nil {
		return fmt.Errorf("register templates: %w", err)
	}
	logging.FromContext(ctx).Info("catalog extended", "files", len(filenames), "templates", len(templates))
	return nil
}

// IsCatalogFile reports whether name has a catalog file extension.
func IsCatalogFile(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}
