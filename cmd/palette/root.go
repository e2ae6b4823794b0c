package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags.
	configFile   string
	verbose      bool
	output       string
	catalogPaths []string
	scriptsDir   string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "palette",
	Short: "Node template catalog for the flow editor",
	Long: `Palette manages the catalog of node templates offered by the flow editor.

Every template declares its input and output port counts, a default label
and an ordered list of typed params. The builtin templates can be extended
with YAML/JSON catalog files and Lua catalog scripts.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", textFormat, "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().StringSliceVar(&catalogPaths, "catalog", nil, "Extra catalog files or directories")
	rootCmd.PersistentFlags().StringVar(&scriptsDir, "scripts", "", "Directory of Lua catalog scripts")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
