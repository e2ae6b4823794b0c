package palette

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	// ErrTemplateNotFound is returned when a template id does not resolve.
	// Registry lookups report a miss with a boolean instead.
	ErrTemplateNotFound = errors.New("palette: template not found")

	// ErrInvalidTemplate matches every *ValidationError.
	ErrInvalidTemplate = errors.New("palette: invalid template")

	// ErrInvalidParam is returned when a param value does not match its type.
	ErrInvalidParam = errors.New("palette: invalid param")

	// ErrSealed is returned when registering into a sealed catalog.
	ErrSealed = errors.New("palette: catalog is sealed")
)

// Violation is one broken template invariant.
type Violation struct {
	TemplateID string `json:"templateId" yaml:"template_id"`
	Field      string `json:"field" yaml:"field"`
	Message    string `json:"message" yaml:"message"`
}

// String implements fmt.Stringer.
func (v Violation) String() string {
	id := v.TemplateID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("template %s: %s: %s", id, v.Field, v.Message)
}

// ValidationError reports every violation found while loading templates.
type ValidationError struct {
	Violations []Violation
}

// Error implements error.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "palette: invalid template: " + strings.Join(parts, "; ")
}

// Is lets errors.Is match ErrInvalidTemplate.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidTemplate
}
