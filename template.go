package palette

import (
	"fmt"
	"slices"
)

// Kind classifies a template by its port counts.
type Kind string

// Template kinds.
const (
	KindSource     Kind = "source"
	KindSink       Kind = "sink"
	KindTransform  Kind = "transform"
	KindStandalone Kind = "standalone"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindSource, KindTransform, KindSink, KindStandalone}

// ParseKind converts s to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(Kinds, k) {
		return "", fmt.Errorf("unknown kind %q", s)
	}
	return k, nil
}

// NodeTemplate describes one instantiable node kind.
//
// Description, DefaultLabel and DefaultTextInput are optional; nil means
// "not specified", which is distinct from an empty string.
type NodeTemplate struct {
	ID               string  `json:"id" yaml:"id"`
	Label            string  `json:"label" yaml:"label"`
	Description      *string `json:"description,omitempty" yaml:"description,omitempty"`
	Inputs           int     `json:"inputs" yaml:"inputs"`
	Outputs          int     `json:"outputs" yaml:"outputs"`
	Params           []Param `json:"params" yaml:"params"`
	DefaultLabel     *string `json:"defaultLabel,omitempty" yaml:"default_label,omitempty"`
	DefaultTextInput *string `json:"defaultTextInput,omitempty" yaml:"default_text_input,omitempty"`
}

// Kind derives the template kind from its port counts.
func (t NodeTemplate) Kind() Kind {
	switch {
	case t.Inputs == 0 && t.Outputs == 0:
		return KindStandalone
	case t.Inputs == 0:
		return KindSource
	case t.Outputs == 0:
		return KindSink
	default:
		return KindTransform
	}
}

// Param returns the param with the given label.
func (t NodeTemplate) Param(label string) (Param, bool) {
	for _, p := range t.Params {
		if p.label == label {
			return p, true
		}
	}
	return Param{}, false
}

// Clone returns a deep copy that shares no memory with t.
func (t NodeTemplate) Clone() NodeTemplate {
	c := t
	c.Description = clonePtr(t.Description)
	c.DefaultLabel = clonePtr(t.DefaultLabel)
	c.DefaultTextInput = clonePtr(t.DefaultTextInput)
	if t.Params != nil {
		c.Params = make([]Param, len(t.Params))
		for i, p := range t.Params {
			p.options = slices.Clone(p.options)
			c.Params[i] = p
		}
	}
	return c
}

// DescriptionOr returns the description, or def when none is set.
func (t NodeTemplate) DescriptionOr(def string) string {
	if t.Description == nil {
		return def
	}
	return *t.Description
}

// Ptr returns a pointer to a copy of v. It is convenient for the optional
// template fields.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
