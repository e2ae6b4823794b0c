package palette

import (
	"fmt"
	"strings"
)

// ValidateTemplate checks a template against the catalog invariants and
// returns every violation found. An empty result means the template is valid.
func ValidateTemplate(t NodeTemplate) []Violation {
	var out []Violation
	add := func(field, format string, args ...any) {
		out = append(out, Violation{TemplateID: t.ID, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(t.ID) == "" {
		add("id", "must not be empty")
	}
	if strings.TrimSpace(t.Label) == "" {
		add("label", "must not be empty")
	}
	if t.Inputs < 0 {
		add("inputs", "must be >= 0, got %d", t.Inputs)
	}
	if t.Outputs < 0 {
		add("outputs", "must be >= 0, got %d", t.Outputs)
	}

	seen := make(map[string]int, len(t.Params))
	for i, p := range t.Params {
		field := fmt.Sprintf("params[%d]", i)
		if strings.TrimSpace(p.label) == "" {
			add(field+".label", "must not be empty")
		} else if j, dup := seen[p.label]; dup {
			add(field+".label", "duplicates params[%d] label %q", j, p.label)
		} else {
			seen[p.label] = i
		}

		if !p.typ.Valid() {
			add(field+".type", "unknown type %q", p.typ)
			continue
		}
		if p.typ == ParamNumber && !finite(p.number) {
			add(field+".value", "must be a finite number, got %v", p.number)
		}
		if p.typ != ParamSelect {
			if len(p.options) > 0 {
				add(field+".options", "only select params may have options")
			}
			continue
		}

		if len(p.options) == 0 {
			add(field+".options", "select params need at least one option")
			continue
		}
		distinct := make(map[string]struct{}, len(p.options))
		for k, o := range p.options {
			if _, dup := distinct[o]; dup {
				add(fmt.Sprintf("%s.options[%d]", field, k), "duplicate option %q", o)
			}
			distinct[o] = struct{}{}
		}
		if _, ok := distinct[p.text]; !ok {
			add(field+".value", "%q is not one of %v", p.text, p.options)
		}
	}
	return out
}

// validateAll checks each template and id uniqueness across the set.
// existing holds ids already present in the target registry.
func validateAll(templates []NodeTemplate, existing map[string]int) error {
	var out []Violation
	seen := make(map[string]int, len(templates))
	for i, t := range templates {
		out = append(out, ValidateTemplate(t)...)
		if t.ID == "" {
			continue
		}
		if _, dup := existing[t.ID]; dup {
			out = append(out, Violation{TemplateID: t.ID, Field: "id", Message: "already registered"})
			continue
		}
		if j, dup := seen[t.ID]; dup {
			out = append(out, Violation{TemplateID: t.ID, Field: "id", Message: fmt.Sprintf("duplicates template #%d", j)})
			continue
		}
		seen[t.ID] = i
	}
	if len(out) > 0 {
		return &ValidationError{Violations: out}
	}
	return nil
}
