package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/schema"
	"github.com/agentstation/palette/server/dto"
)

// NodeHandler materializes node instances for the editor.
type NodeHandler struct {
	catalog *palette.Catalog
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(catalog *palette.Catalog) *NodeHandler {
	return &NodeHandler{catalog: catalog}
}

// Create handles POST /api/v1/nodes. It instantiates the template, applies
// any supplied values and returns the node's record.
func (h *NodeHandler) Create(c *gin.Context) {
	var req dto.CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	t, ok := h.catalog.Snapshot().Get(req.TemplateID)
	if !ok {
		writeError(c, http.StatusNotFound, dto.CodeNotFound, fmt.Errorf("%w: %q", palette.ErrTemplateNotFound, req.TemplateID))
		return
	}

	if err := schema.ValidateValues(t, req.Values); err != nil {
		writeError(c, http.StatusUnprocessableEntity, dto.CodeInvalidParam, err)
		return
	}

	var opts []palette.NodeOption
	if req.Label != "" {
		opts = append(opts, palette.WithNodeLabel(req.Label))
	}
	node := palette.Instantiate(t, opts...)
	for _, p := range t.Params {
		v, ok := req.Values[p.Label()]
		if !ok {
			continue
		}
		if err := node.Set(p.Label(), v); err != nil {
			writeError(c, http.StatusUnprocessableEntity, dto.CodeInvalidParam, err)
			return
		}
	}

	c.JSON(http.StatusCreated, node.Record())
}
