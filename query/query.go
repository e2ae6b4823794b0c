// Package query evaluates JSONPath expressions against a template registry.
//
// The registry is queried as its JSON document, an array of templates in
// declaration order:
//
//	$[*].id                               every template id
//	$[?(@.inputs == 0)].id                ids of source templates
//	$[*].params[?(@.type == 'select')]    every select param
package query

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentstation/palette"
)

// Query is a compiled JSONPath expression.
type Query struct {
	src  string
	expr jp.Expr
}

// Compile parses a JSONPath expression.
func Compile(path string) (*Query, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return &Query{src: path, expr: expr}, nil
}

// String returns the source expression.
func (q *Query) String() string { return q.src }

// Select returns every value matched in the registry document.
func (q *Query) Select(reg *palette.Registry) ([]any, error) {
	doc, err := document(reg.List())
	if err != nil {
		return nil, err
	}
	results := q.expr.Get(doc)
	if results == nil {
		results = []any{}
	}
	return results, nil
}

// Match returns the templates whose own document yields at least one
// result, in declaration order. Expressions are rooted at the template:
// $.params[?(@.label == 'Format')].
func (q *Query) Match(reg *palette.Registry) ([]palette.NodeTemplate, error) {
	var out []palette.NodeTemplate
	for _, t := range reg.List() {
		doc, err := document(t)
		if err != nil {
			return nil, err
		}
		if len(q.expr.Get(doc)) > 0 {
			out = append(out, t)
		}
	}
	return out, nil
}

// Select compiles path and evaluates it against reg.
func Select(reg *palette.Registry, path string) ([]any, error) {
	q, err := Compile(path)
	if err != nil {
		return nil, err
	}
	return q.Select(reg)
}

// Match compiles path and returns the templates it matches.
func Match(reg *palette.Registry, path string) ([]palette.NodeTemplate, error) {
	q, err := Compile(path)
	if err != nil {
		return nil, err
	}
	return q.Match(reg)
}

// document converts v to the generic form jp walks, using the same field
// names as the JSON API.
func document(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode templates: %w", err)
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	return doc, nil
}
