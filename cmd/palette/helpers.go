package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/internal/config"
	"github.com/agentstation/palette/internal/logging"
	"github.com/agentstation/palette/script"
	"github.com/agentstation/palette/yaml"
)

// expandPath expands ~ to home directory.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// loadConfig loads the config file and applies the global flags on top.
func loadConfig() (*config.Config, error) {
	path, err := expandPath(configFile)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	cfg.Catalog.Paths = append(cfg.Catalog.Paths, catalogPaths...)
	if scriptsDir != "" {
		cfg.Catalog.ScriptsDir = scriptsDir
	}
	return cfg, nil
}

// newLogger builds the process logger. CLI diagnostics go to stderr so
// they never mix with command output.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

// loadCatalog builds the catalog: the builtin templates, then catalog files,
// then Lua scripts. Scripts see every id registered before them.
func loadCatalog(ctx context.Context, cfg *config.Config) (*palette.Catalog, error) {
	catalog := palette.NewCatalog(palette.Builtin())

	paths := make([]string, 0, len(cfg.Catalog.Paths))
	for _, p := range cfg.Catalog.Paths {
		expanded, err := expandPath(p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, expanded)
	}
	files, err := yaml.ResolvePaths(paths...)
	if err != nil {
		return nil, err
	}
	if err := yaml.NewLoader().LoadInto(ctx, catalog, files...); err != nil {
		return nil, err
	}

	if cfg.Catalog.ScriptsDir != "" {
		dir, err := expandPath(cfg.Catalog.ScriptsDir)
		if err != nil {
			return nil, err
		}
		loader := script.NewLoader(dir, catalog.Snapshot().IDs()).WithLogger(logging.FromContext(ctx))
		if err := loader.LoadInto(ctx, catalog); err != nil {
			return nil, err
		}
	}

	if cfg.Catalog.Seal {
		catalog.Seal()
	}
	return catalog, nil
}

// setup loads the config, logger and catalog shared by every command.
func setup(ctx context.Context) (context.Context, *config.Config, *palette.Catalog, error) {
	cfg, err := loadConfig()
	if err != nil {
		return ctx, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return ctx, nil, nil, err
	}
	ctx = logging.WithLogger(ctx, logger)

	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		return ctx, nil, nil, err
	}
	return ctx, cfg, catalog, nil
}
