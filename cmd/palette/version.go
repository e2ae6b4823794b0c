package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information about the palette CLI.`,
	Example: `  # Show version
  palette version

  # Show version in JSON format
  palette version --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		versionInfo := map[string]string{
			"version":   version,
			"commit":    commit,
			"buildDate": buildDate,
			"goVersion": goVersion,
		}

		w := cmd.OutOrStdout()
		if done, err := writeStructured(w, output, versionInfo); done {
			return err
		}

		fmt.Fprintf(w, "palette version %s\n", version)
		if version != "dev" {
			fmt.Fprintf(w, "  commit:     %s\n", commit)
			fmt.Fprintf(w, "  built:      %s\n", buildDate)
			fmt.Fprintf(w, "  go version: %s\n", goVersion)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
