package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/server/dto"
)

// FlowHandler checks flow documents posted by the editor. Flows are never
// executed.
type FlowHandler struct {
	catalog *palette.Catalog
	logger  *slog.Logger
}

// NewFlowHandler creates a new flow handler
func NewFlowHandler(catalog *palette.Catalog, logger *slog.Logger) *FlowHandler {
	return &FlowHandler{catalog: catalog, logger: logger}
}

// Validate handles POST /api/v1/flows/validate
func (h *FlowHandler) Validate(c *gin.Context) {
	flow, ok := h.bind(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ValidateFlowResponse{
		Valid: true,
		Nodes: len(flow.Nodes),
		Edges: len(flow.Edges),
	})
}

// RunFlow handles POST /run-flow. Any JSON object is acknowledged; use
// Validate for strict checks.
func (h *FlowHandler) RunFlow(c *gin.Context) {
	var payload gin.H
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBindError(c, err)
		return
	}
	nodes, _ := payload["nodes"].([]any)
	edges, _ := payload["edges"].([]any)
	h.logger.Info("received flow", "nodes", len(nodes), "edges", len(edges))
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Flow data received"})
}

func (h *FlowHandler) bind(c *gin.Context) (palette.Flow, bool) {
	var flow palette.Flow
	if err := c.ShouldBindJSON(&flow); err != nil {
		writeBindError(c, err)
		return flow, false
	}
	if err := flow.Validate(h.catalog.Snapshot()); err != nil {
		writeError(c, http.StatusUnprocessableEntity, dto.CodeInvalidFlow, err)
		return flow, false
	}
	return flow, true
}
