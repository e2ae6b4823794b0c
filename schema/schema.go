// Package schema derives JSON Schemas from node templates and validates
// node param values against them.
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/agentstation/palette"
)

// Draft is the JSON Schema dialect emitted by ForTemplate.
const Draft = "http://json-schema.org/draft-07/schema#"

// ForTemplate returns a JSON Schema describing the param values object of a
// node built from t: one property per param, keyed by label, with the
// template default and, for select params, the allowed choices.
func ForTemplate(t palette.NodeTemplate) map[string]any {
	properties := make(map[string]any, len(t.Params))
	order := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		properties[p.Label()] = propertyFor(p)
		order = append(order, p.Label())
	}

	s := map[string]any{
		"$schema":              Draft,
		"title":                t.Label,
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
		"propertyOrder":        order,
	}
	if t.Description != nil {
		s["description"] = *t.Description
	}
	return s
}

func propertyFor(p palette.Param) map[string]any {
	prop := map[string]any{
		"title":   p.Label(),
		"default": p.Value(),
	}
	switch p.Type() {
	case palette.ParamText:
		prop["type"] = "string"
	case palette.ParamNumber:
		prop["type"] = "number"
	case palette.ParamBoolean:
		prop["type"] = "boolean"
	case palette.ParamSelect:
		prop["type"] = "string"
		options := p.Options()
		enum := make([]any, len(options))
		for i, o := range options {
			enum[i] = o
		}
		prop["enum"] = enum
	}
	return prop
}

// ValidateValues validates a node's param values against the schema of t.
// Values may be partial; missing params keep their defaults.
func ValidateValues(t palette.NodeTemplate, values map[string]any) error {
	if values == nil {
		values = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(ForTemplate(t))
	documentLoader := gojsonschema.NewGoLoader(values)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: template %s: %s", palette.ErrInvalidParam, t.ID, strings.Join(msgs, "; "))
	}

	return nil
}

// ValidateRecord resolves the record's template in reg and validates its
// stored values.
func ValidateRecord(reg *palette.Registry, rec palette.NodeRecord) error {
	t, ok := reg.Get(rec.TemplateID)
	if !ok {
		return fmt.Errorf("%w: %q", palette.ErrTemplateNotFound, rec.TemplateID)
	}
	return ValidateValues(t, rec.Values)
}
