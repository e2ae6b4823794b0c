package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/internal/logging"
	"github.com/agentstation/palette/query"
	"github.com/agentstation/palette/schema"
	"github.com/agentstation/palette/script"
	"github.com/agentstation/palette/yaml"
)

var kindFilter string

// templatesCmd represents the templates command.
var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"tpl"},
	Short:   "List and inspect node templates",
	Long: `List the node templates in the catalog, show their details, query them
with JSONPath and validate catalog files.`,
	Example: `  # List all templates
  palette templates

  # Only sources, as JSON
  palette templates list --kind source --output json

  # Include a catalog directory
  palette templates --catalog ./catalogs`,
	RunE: runTemplatesList,
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List node templates",
	RunE:  runTemplatesList,
}

var templatesInfoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show details about a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, catalog, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		return printTemplateInfo(cmd.OutOrStdout(), catalog.Snapshot(), args[0], output)
	},
}

var templatesQueryCmd = &cobra.Command{
	Use:   "query <jsonpath>",
	Short: "Evaluate a JSONPath expression over the catalog",
	Long: `Evaluate a JSONPath expression over the catalog document, an array of
templates in catalog order.`,
	Example: `  # Ids of every source template
  palette templates query '$[?(@.inputs == 0)].id'

  # Every select param
  palette templates query "$[*].params[?(@.type == 'select')]"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, catalog, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		return runQuery(cmd.OutOrStdout(), catalog.Snapshot(), args[0], output)
	},
}

var templatesValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate catalog files and scripts",
	Long: `Validate YAML/JSON catalog files and Lua catalog scripts. Each file is
checked on its own and against the builtin template ids.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, _, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		return runValidate(ctx, cmd.OutOrStdout(), args)
	},
}

func init() {
	templatesCmd.PersistentFlags().StringVar(&kindFilter, "kind", "", "Filter by kind (source, transform, sink, standalone)")

	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesInfoCmd)
	templatesCmd.AddCommand(templatesQueryCmd)
	templatesCmd.AddCommand(templatesValidateCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	_, _, catalog, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	templates := catalog.Snapshot().List()
	if kindFilter != "" {
		kind, err := palette.ParseKind(kindFilter)
		if err != nil {
			return err
		}
		templates = filterKind(templates, kind)
	}
	return printTemplates(cmd.OutOrStdout(), templates, output)
}

func filterKind(templates []palette.NodeTemplate, kind palette.Kind) []palette.NodeTemplate {
	out := make([]palette.NodeTemplate, 0, len(templates))
	for _, t := range templates {
		if t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}

// printTemplates outputs templates grouped by kind, or as JSON/YAML.
func printTemplates(w io.Writer, templates []palette.NodeTemplate, format string) error {
	if done, err := writeStructured(w, format, templates); done {
		return err
	}

	byKind := make(map[palette.Kind][]palette.NodeTemplate)
	for _, t := range templates {
		byKind[t.Kind()] = append(byKind[t.Kind()], t)
	}

	for _, kind := range palette.Kinds {
		group := byKind[kind]
		if len(group) == 0 {
			continue
		}
		name := string(kind)
		fmt.Fprintf(w, "\n%s:\n", strings.ToUpper(name[:1])+name[1:])
		fmt.Fprintln(w, strings.Repeat("-", len(name)+1))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, t := range group {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%d in / %d out\t%s\n", t.ID, t.Label, t.Inputs, t.Outputs, t.DescriptionOr(""))
		}
		_ = tw.Flush()
	}

	fmt.Fprintf(w, "\nTotal: %d templates\n", len(templates))
	fmt.Fprintln(w, "\nUse 'palette templates info <id>' for detailed information about a template.")
	return nil
}

// printTemplateInfo shows one template with its params and value schema.
func printTemplateInfo(w io.Writer, reg *palette.Registry, id, format string) error {
	t, ok := reg.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", palette.ErrTemplateNotFound, id)
	}
	if done, err := writeStructured(w, format, t); done {
		return err
	}

	fmt.Fprintf(w, "Template: %s\n", t.ID)
	fmt.Fprintf(w, "Label: %s\n", t.Label)
	fmt.Fprintf(w, "Kind: %s (%d in / %d out)\n", t.Kind(), t.Inputs, t.Outputs)
	if t.Description != nil {
		fmt.Fprintf(w, "Description: %s\n", *t.Description)
	}
	if t.DefaultLabel != nil {
		fmt.Fprintf(w, "Default label: %s\n", *t.DefaultLabel)
	}
	if t.DefaultTextInput != nil {
		fmt.Fprintf(w, "Default text input: %q\n", *t.DefaultTextInput)
	}
	fmt.Fprintln(w)

	if len(t.Params) > 0 {
		fmt.Fprintln(w, "Params:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, p := range t.Params {
			line := fmt.Sprintf("  %s\t%s\t%v", p.Label(), p.Type(), formatValue(p.Value()))
			if opts := p.Options(); len(opts) > 0 {
				line += "\t[" + strings.Join(opts, ", ") + "]"
			}
			_, _ = fmt.Fprintln(tw, line)
		}
		_ = tw.Flush()
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Value schema:")
	data, err := jsonIndent(schema.ForTemplate(t), "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  %s\n", data)
	return nil
}

// runQuery prints the JSONPath matches, one JSON value per line in text
// mode.
func runQuery(w io.Writer, reg *palette.Registry, path, format string) error {
	results, err := query.Select(reg, path)
	if err != nil {
		return err
	}
	if done, err := writeStructured(w, format, results); done {
		return err
	}
	for _, r := range results {
		data, err := jsonIndent(r, "")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, data)
	}
	return nil
}

// runValidate checks every file and reports all failures before returning.
func runValidate(ctx context.Context, w io.Writer, files []string) error {
	loader := yaml.NewLoader()
	scripts := script.NewLoader("", palette.Builtin().IDs()).WithLogger(logging.FromContext(ctx))

	failed := 0
	for _, file := range files {
		path, err := expandPath(file)
		if err != nil {
			return err
		}

		var templates []palette.NodeTemplate
		if filepath.Ext(path) == script.Extension {
			var s *script.Script
			if s, err = script.LoadScript(path); err == nil {
				templates, err = scripts.Templates(s)
			}
		} else {
			templates, err = loader.LoadFile(path)
		}
		if err == nil {
			_, err = palette.Builtin().Extend(templates...)
		}

		if err != nil {
			failed++
			fmt.Fprintf(w, "❌ %s\n", file)
			printViolations(w, err)
			continue
		}
		fmt.Fprintf(w, "✅ %s: %d templates\n", file, len(templates))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(files))
	}
	return nil
}

func printViolations(w io.Writer, err error) {
	var verr *palette.ValidationError
	if !errors.As(err, &verr) {
		fmt.Fprintf(w, "   %v\n", err)
		return
	}
	for _, v := range verr.Violations {
		fmt.Fprintf(w, "   - %s\n", v)
	}
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}
