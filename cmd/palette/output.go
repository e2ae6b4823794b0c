package main

import (
	"encoding/json"
	"fmt"
	"io"

	goyaml "github.com/goccy/go-yaml"
)

// writeStructured writes v as JSON or YAML. It reports false for the text
// format so the caller can render its own table.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case jsonFormat:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return true, err
	case yamlFormat:
		data, err := goyaml.Marshal(v)
		if err != nil {
			return true, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = fmt.Fprint(w, string(data))
		return true, err
	case textFormat, "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q", format)
	}
}

// jsonIndent renders v as indented JSON, prefixing continuation lines.
func jsonIndent(v any, prefix string) (string, error) {
	data, err := json.MarshalIndent(v, prefix, "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}
