// Package yaml provides YAML-based catalog definition support for palette.
// JSON documents are accepted too, since JSON is a subset of YAML.
package yaml

import (
	"errors"
	"fmt"

	"github.com/agentstation/palette"
)

// CatalogDefinition is a catalog file: a list of templates.
type CatalogDefinition struct {
	Version     string               `yaml:"version,omitempty"`
	Description string               `yaml:"description,omitempty"`
	Templates   []TemplateDefinition `yaml:"templates"`
}

// TemplateDefinition is a node template in YAML form.
type TemplateDefinition struct {
	ID               string            `yaml:"id"`
	Label            string            `yaml:"label"`
	Description      *string           `yaml:"description,omitempty"`
	Inputs           int               `yaml:"inputs"`
	Outputs          int               `yaml:"outputs"`
	Params           []ParamDefinition `yaml:"params,omitempty"`
	DefaultLabel     *string           `yaml:"default_label,omitempty"`
	DefaultTextInput *string           `yaml:"default_text_input,omitempty"`
}

// ParamDefinition is a template param in YAML form.
type ParamDefinition struct {
	Label   string   `yaml:"label"`
	Type    string   `yaml:"type"`
	Value   any      `yaml:"value"`
	Options []string `yaml:"options,omitempty"`
}

// Validate checks if the catalog definition is valid.
func (cd *CatalogDefinition) Validate() error {
	if len(cd.Templates) == 0 {
		return fmt.Errorf("at least one template is required")
	}
	_, err := cd.ToTemplates()
	return err
}

// ToTemplates converts the definitions to palette templates and validates
// them as a set. A *palette.ValidationError reports every offending id and
// field.
func (cd *CatalogDefinition) ToTemplates() ([]palette.NodeTemplate, error) {
	out := make([]palette.NodeTemplate, 0, len(cd.Templates))
	var violations []palette.Violation
	for i := range cd.Templates {
		t, err := cd.Templates[i].ToTemplate()
		if err != nil {
			var verr *palette.ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			violations = append(violations, verr.Violations...)
			continue
		}
		out = append(out, t)
	}
	if len(violations) > 0 {
		return nil, &palette.ValidationError{Violations: violations}
	}

	// Registry construction checks the invariants and id uniqueness together.
	if _, err := palette.NewRegistry(out...); err != nil {
		return nil, err
	}
	return out, nil
}

// ToTemplate converts one definition. Params whose value does not match
// their type are reported as violations on that param.
func (td *TemplateDefinition) ToTemplate() (palette.NodeTemplate, error) {
	t := palette.NodeTemplate{
		ID:               td.ID,
		Label:            td.Label,
		Description:      td.Description,
		Inputs:           td.Inputs,
		Outputs:          td.Outputs,
		Params:           make([]palette.Param, 0, len(td.Params)),
		DefaultLabel:     td.DefaultLabel,
		DefaultTextInput: td.DefaultTextInput,
	}

	var violations []palette.Violation
	for i, pd := range td.Params {
		p, err := palette.NewParam(pd.Label, palette.ParamType(pd.Type), pd.Value, pd.Options)
		if err != nil {
			violations = append(violations, palette.Violation{
				TemplateID: td.ID,
				Field:      fmt.Sprintf("params[%d]", i),
				Message:    err.Error(),
			})
			continue
		}
		t.Params = append(t.Params, p)
	}
	if len(violations) > 0 {
		return palette.NodeTemplate{}, &palette.ValidationError{Violations: violations}
	}
	return t, nil
}

// FromTemplate converts a palette template to its YAML definition.
func FromTemplate(t palette.NodeTemplate) TemplateDefinition {
	td := TemplateDefinition{
		ID:               t.ID,
		Label:            t.Label,
		Description:      t.Description,
		Inputs:           t.Inputs,
		Outputs:          t.Outputs,
		DefaultLabel:     t.DefaultLabel,
		DefaultTextInput: t.DefaultTextInput,
	}
	for _, p := range t.Params {
		td.Params = append(td.Params, ParamDefinition{
			Label:   p.Label(),
			Type:    string(p.Type()),
			Value:   p.Value(),
			Options: p.Options(),
		})
	}
	return td
}
