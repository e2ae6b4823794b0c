package palette

// Registry is an immutable, ordered set of node templates. It is safe for
// unsynchronized concurrent use: nothing mutates a Registry after
// NewRegistry returns, and every accessor hands out deep copies.
type Registry struct {
	templates []NodeTemplate
	index     map[string]int
}

// NewRegistry validates the templates and builds a registry that keeps
// their declaration order. It fails with a *ValidationError naming every
// offending template and field.
func NewRegistry(templates ...NodeTemplate) (*Registry, error) {
	return build(nil, templates)
}

// MustNewRegistry is like NewRegistry but panics on invalid input.
// Use it for static seed data only.
func MustNewRegistry(templates ...NodeTemplate) *Registry {
	r, err := NewRegistry(templates...)
	if err != nil {
		panic(err)
	}
	return r
}

func build(base *Registry, templates []NodeTemplate) (*Registry, error) {
	var existing map[string]int
	if base != nil {
		existing = base.index
	}
	if err := validateAll(templates, existing); err != nil {
		return nil, err
	}

	n := len(templates)
	if base != nil {
		n += len(base.templates)
	}
	r := &Registry{
		templates: make([]NodeTemplate, 0, n),
		index:     make(map[string]int, n),
	}
	if base != nil {
		// Base entries are immutable, so they can be shared.
		r.templates = append(r.templates, base.templates...)
		for id, i := range base.index {
			r.index[id] = i
		}
	}
	for _, t := range templates {
		r.index[t.ID] = len(r.templates)
		r.templates = append(r.templates, t.Clone())
	}
	return r, nil
}

// List returns every template in declaration order. The result is a deep
// copy; changing it does not affect the registry.
func (r *Registry) List() []NodeTemplate {
	out := make([]NodeTemplate, len(r.templates))
	for i, t := range r.templates {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the template with the given id. A miss is reported
// through the boolean and is not an error.
func (r *Registry) Get(id string) (NodeTemplate, bool) {
	i, ok := r.index[id]
	if !ok {
		return NodeTemplate{}, false
	}
	return r.templates[i].Clone(), true
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// IDs returns the template ids in declaration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.templates))
	for i, t := range r.templates {
		ids[i] = t.ID
	}
	return ids
}

// Len returns the number of templates.
func (r *Registry) Len() int { return len(r.templates) }

// Extend returns a new registry with templates appended after r's entries.
// r itself is left unchanged.
func (r *Registry) Extend(templates ...NodeTemplate) (*Registry, error) {
	return build(r, templates)
}

// Filter returns the templates for which keep reports true, in order.
func (r *Registry) Filter(keep func(NodeTemplate) bool) []NodeTemplate {
	var out []NodeTemplate
	for _, t := range r.templates {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}
