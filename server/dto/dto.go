// Package dto defines the request and response bodies of the HTTP API.
package dto

import "github.com/agentstation/palette"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string              `json:"error"`
	Message    string              `json:"message,omitempty"`
	Code       int                 `json:"code,omitempty"`
	Violations []palette.Violation `json:"violations,omitempty"`
}

// Error codes.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeNotFound        = "not_found"
	CodeInvalidTemplate = "invalid_template"
	CodeInvalidParam    = "invalid_param"
	CodeInvalidFlow     = "invalid_flow"
	CodeInternal        = "internal"
)

// CreateNodeRequest is the body of POST /api/v1/nodes.
type CreateNodeRequest struct {
	TemplateID string         `json:"templateId" binding:"required"`
	Label      string         `json:"label,omitempty"`
	Values     map[string]any `json:"values,omitempty"`
}

// ValidateTemplateResponse is returned for a template without violations.
type ValidateTemplateResponse struct {
	Valid bool         `json:"valid"`
	Kind  palette.Kind `json:"kind"`
}

// ValidateFlowResponse acknowledges a valid flow.
type ValidateFlowResponse struct {
	Valid bool `json:"valid"`
	Nodes int  `json:"nodes"`
	Edges int  `json:"edges"`
}

// MessageResponse carries a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
