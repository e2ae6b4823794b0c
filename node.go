package palette

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Node is a live, mutable node instance materialized from a template.
// It owns copies of everything it took from the template.
type Node struct {
	ID         string
	TemplateID string
	Label      string
	TextInput  string
	Inputs     int
	Outputs    int

	params []Param
}

// NodeOption configures Instantiate.
type NodeOption func(*Node)

// WithNodeID sets the node id instead of generating one.
func WithNodeID(id string) NodeOption {
	return func(n *Node) { n.ID = id }
}

// WithNodeLabel overrides the template's default label.
func WithNodeLabel(label string) NodeOption {
	return func(n *Node) { n.Label = label }
}

// Instantiate creates a node from t. The node's label is the template's
// DefaultLabel, falling back to its Label; the text input starts as
// DefaultTextInput. Ids are random UUIDs unless WithNodeID is given.
func Instantiate(t NodeTemplate, opts ...NodeOption) *Node {
	n := &Node{
		ID:         uuid.NewString(),
		TemplateID: t.ID,
		Label:      t.Label,
		Inputs:     t.Inputs,
		Outputs:    t.Outputs,
		params:     make([]Param, len(t.Params)),
	}
	if t.DefaultLabel != nil {
		n.Label = *t.DefaultLabel
	}
	if t.DefaultTextInput != nil {
		n.TextInput = *t.DefaultTextInput
	}
	for i, p := range t.Params {
		p.options = slices.Clone(p.options)
		n.params[i] = p
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Params returns the node's params in template order.
func (n *Node) Params() []Param {
	out := make([]Param, len(n.params))
	for i, p := range n.params {
		p.options = slices.Clone(p.options)
		out[i] = p
	}
	return out
}

// Value returns the current value of the named param.
func (n *Node) Value(label string) (any, bool) {
	for _, p := range n.params {
		if p.label == label {
			return p.Value(), true
		}
	}
	return nil, false
}

// Values returns the current param values keyed by label.
func (n *Node) Values() map[string]any {
	out := make(map[string]any, len(n.params))
	for _, p := range n.params {
		out[p.label] = p.Value()
	}
	return out
}

// Set changes the value of the named param. The value must match the
// param's type, and select values must be one of its options.
func (n *Node) Set(label string, value any) error {
	for i, p := range n.params {
		if p.label != label {
			continue
		}
		q, err := p.WithValue(value)
		if err != nil {
			return err
		}
		n.params[i] = q
		return nil
	}
	return fmt.Errorf("%w: node %s has no param %q", ErrInvalidParam, n.ID, label)
}

// NodeRecord is the persisted form of a node: enough to re-resolve its
// template and restore its state.
type NodeRecord struct {
	ID         string         `json:"id" yaml:"id"`
	TemplateID string         `json:"templateId" yaml:"template_id"`
	Label      string         `json:"label" yaml:"label"`
	TextInput  string         `json:"textInput,omitempty" yaml:"text_input,omitempty"`
	Values     map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
}

// Record returns the persisted form of n.
func (n *Node) Record() NodeRecord {
	return NodeRecord{
		ID:         n.ID,
		TemplateID: n.TemplateID,
		Label:      n.Label,
		TextInput:  n.TextInput,
		Values:     n.Values(),
	}
}

// Restore rebuilds a node from a record by resolving its template in reg
// and applying the stored values. Params missing from the record keep the
// template defaults.
func Restore(reg *Registry, rec NodeRecord) (*Node, error) {
	t, ok := reg.Get(rec.TemplateID)
	if !ok {
		return nil, fmt.Errorf("node %s: %w: %q", rec.ID, ErrTemplateNotFound, rec.TemplateID)
	}
	n := Instantiate(t, WithNodeID(rec.ID))
	if rec.Label != "" {
		n.Label = rec.Label
	}
	n.TextInput = rec.TextInput

	// Apply in template order so errors are deterministic.
	applied := 0
	for _, p := range t.Params {
		v, ok := rec.Values[p.label]
		if !ok {
			continue
		}
		if err := n.Set(p.label, v); err != nil {
			return nil, fmt.Errorf("node %s: %w", rec.ID, err)
		}
		applied++
	}
	if applied != len(rec.Values) {
		for label := range rec.Values {
			if _, ok := t.Param(label); !ok {
				return nil, fmt.Errorf("node %s: %w: template %s has no param %q", rec.ID, ErrInvalidParam, t.ID, label)
			}
		}
	}
	return n, nil
}
