package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/schema"
)

var docsFile string

// docsCmd represents the docs command.
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate documentation",
	Long: `Generate a Markdown reference of every template in the catalog, with
port counts, defaults and params.

With --output json the catalog document is written instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, catalog, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		if docsFile == "" {
			return generateDocs(cmd.OutOrStdout(), catalog.Snapshot().List(), output)
		}
		path, err := expandPath(docsFile)
		if err != nil {
			return err
		}
		return writeDocsFile(path, catalog.Snapshot().List(), output)
	},
}

// writeDocsFile writes the docs to path. A failed close is reported.
func writeDocsFile(path string, templates []palette.NodeTemplate, format string) (err error) {
	f, err := os.Create(path) //nolint:gosec // output path is chosen by the operator
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return generateDocs(f, templates, format)
}

func init() {
	docsCmd.Flags().StringVarP(&docsFile, "file", "f", "", "Write to file instead of stdout")
	rootCmd.AddCommand(docsCmd)
}

func generateDocs(w io.Writer, templates []palette.NodeTemplate, format string) error {
	if format == jsonFormat || format == yamlFormat {
		doc := map[string]any{
			"title":     "Palette Template Reference",
			"version":   version,
			"templates": templates,
		}
		_, err := writeStructured(w, format, doc)
		return err
	}
	_, err := io.WriteString(w, markdownDocs(templates))
	return err
}

// markdownDocs renders the template reference. Sections follow catalog
// order, grouped by kind.
func markdownDocs(templates []palette.NodeTemplate) string {
	var sb strings.Builder

	sb.WriteString("# Palette Template Reference\n\n")
	sb.WriteString("Node templates available in the flow editor.\n\n")
	sb.WriteString("## Table of Contents\n\n")

	byKind := make(map[palette.Kind][]palette.NodeTemplate)
	for _, t := range templates {
		byKind[t.Kind()] = append(byKind[t.Kind()], t)
	}

	for _, kind := range palette.Kinds {
		group := byKind[kind]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "- [%s Templates](#%s-templates)\n", title(string(kind)), kind)
		for _, t := range group {
			fmt.Fprintf(&sb, "  - [%s](#%s)\n", t.Label, t.ID)
		}
	}
	sb.WriteString("\n---\n\n")

	for _, kind := range palette.Kinds {
		group := byKind[kind]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s Templates\n\n", title(string(kind)))

		for _, t := range group {
			fmt.Fprintf(&sb, "### %s\n\n", t.ID)
			fmt.Fprintf(&sb, "**%s**", t.Label)
			if t.Description != nil {
				fmt.Fprintf(&sb, ": %s", *t.Description)
			}
			sb.WriteString("\n\n")

			fmt.Fprintf(&sb, "- Inputs: %d\n", t.Inputs)
			fmt.Fprintf(&sb, "- Outputs: %d\n", t.Outputs)
			if t.DefaultLabel != nil {
				fmt.Fprintf(&sb, "- Default label: %s\n", *t.DefaultLabel)
			}
			if t.DefaultTextInput != nil {
				fmt.Fprintf(&sb, "- Default text input: `%s`\n", *t.DefaultTextInput)
			}
			sb.WriteString("\n")

			if len(t.Params) > 0 {
				sb.WriteString("#### Params\n\n")
				sb.WriteString("| Label | Type | Default | Allowed values |\n")
				sb.WriteString("|---|---|---|---|\n")
				for _, p := range t.Params {
					allowed := ""
					if opts := p.Options(); len(opts) > 0 {
						quoted := make([]string, len(opts))
						for i, o := range opts {
							quoted[i] = "`" + o + "`"
						}
						allowed = strings.Join(quoted, ", ")
					}
					fmt.Fprintf(&sb, "| %s | `%s` | `%v` | %s |\n", p.Label(), p.Type(), p.Value(), allowed)
				}
				sb.WriteString("\n")

				sb.WriteString("#### Value Schema\n\n")
				sb.WriteString("```json\n")
				data, _ := jsonIndent(schema.ForTemplate(t), "")
				sb.WriteString(data)
				sb.WriteString("\n```\n\n")
			}

			sb.WriteString("---\n\n")
		}
	}

	return sb.String()
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
