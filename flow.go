package palette

import (
	"errors"
	"fmt"
)

// Flow is a saved editor canvas: node records plus the edges between them.
// Flows are checked for integrity against a registry; they are never run.
type Flow struct {
	Nodes []NodeRecord `json:"nodes" yaml:"nodes"`
	Edges []Edge       `json:"edges" yaml:"edges"`
}

// Edge connects an output port of one node to an input port of another.
// Ports are zero-based indexes below the template's port counts.
type Edge struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	Source     string `json:"source" yaml:"source"`
	SourcePort int    `json:"sourcePort" yaml:"source_port"`
	Target     string `json:"target" yaml:"target"`
	TargetPort int    `json:"targetPort" yaml:"target_port"`
}

// Validate restores every node against reg and checks that edges refer to
// known nodes and existing ports. All problems are joined into one error.
func (f *Flow) Validate(reg *Registry) error {
	var errs []error
	nodes := make(map[string]*Node, len(f.Nodes))
	seen := make(map[string]struct{}, len(f.Nodes))
	for i, rec := range f.Nodes {
		if rec.ID == "" {
			errs = append(errs, fmt.Errorf("nodes[%d]: id is required", i))
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			errs = append(errs, fmt.Errorf("nodes[%d]: duplicate node id %q", i, rec.ID))
			continue
		}
		seen[rec.ID] = struct{}{}
		n, err := Restore(reg, rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("nodes[%d]: %w", i, err))
			continue
		}
		nodes[rec.ID] = n
	}

	for i, e := range f.Edges {
		src, ok := nodes[e.Source]
		if !ok {
			errs = append(errs, fmt.Errorf("edges[%d]: unknown source node %q", i, e.Source))
		} else if e.SourcePort < 0 || e.SourcePort >= src.Outputs {
			errs = append(errs, fmt.Errorf("edges[%d]: node %q has no output port %d", i, e.Source, e.SourcePort))
		}
		dst, ok := nodes[e.Target]
		if !ok {
			errs = append(errs, fmt.Errorf("edges[%d]: unknown target node %q", i, e.Target))
		} else if e.TargetPort < 0 || e.TargetPort >= dst.Inputs {
			errs = append(errs, fmt.Errorf("edges[%d]: node %q has no input port %d", i, e.Target, e.TargetPort))
		}
	}
	return errors.Join(errs...)
}
