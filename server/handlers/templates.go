package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/query"
	"github.com/agentstation/palette/schema"
	"github.com/agentstation/palette/server/dto"
)

// TemplateHandler serves the template catalog.
type TemplateHandler struct {
	catalog *palette.Catalog
	queries *query.Cache
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(catalog *palette.Catalog) *TemplateHandler {
	return &TemplateHandler{
		catalog: catalog,
		queries: query.NewCache(query.DefaultCacheSize),
	}
}

// List handles GET /api/v1/templates. The optional kind and path query
// parameters narrow the result; path is a JSONPath expression evaluated
// against each template.
func (h *TemplateHandler) List(c *gin.Context) {
	reg := h.catalog.Snapshot()
	templates := reg.List()

	if path := c.Query("path"); path != "" {
		q, err := h.queries.Compile(path)
		if err != nil {
			writeError(c, http.StatusBadRequest, dto.CodeInvalidRequest, err)
			return
		}
		matched, err := q.Match(reg)
		if err != nil {
			writeError(c, http.StatusInternalServerError, dto.CodeInternal, err)
			return
		}
		templates = matched
	}

	if s := c.Query("kind"); s != "" {
		kind, err := palette.ParseKind(s)
		if err != nil {
			writeError(c, http.StatusBadRequest, dto.CodeInvalidRequest, err)
			return
		}
		filtered := make([]palette.NodeTemplate, 0, len(templates))
		for _, t := range templates {
			if t.Kind() == kind {
				filtered = append(filtered, t)
			}
		}
		templates = filtered
	}

	if templates == nil {
		templates = []palette.NodeTemplate{}
	}
	c.JSON(http.StatusOK, templates)
}

// Get handles GET /api/v1/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, t)
}

// Schema handles GET /api/v1/templates/:id/schema
func (h *TemplateHandler) Schema(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, schema.ForTemplate(t))
}

// Validate handles POST /api/v1/templates/validate. The template is checked
// on its own; it is not registered.
func (h *TemplateHandler) Validate(c *gin.Context) {
	var t palette.NodeTemplate
	if err := c.ShouldBindJSON(&t); err != nil {
		writeBindError(c, err)
		return
	}

	if violations := palette.ValidateTemplate(t); len(violations) > 0 {
		writeError(c, http.StatusUnprocessableEntity, dto.CodeInvalidTemplate, &palette.ValidationError{Violations: violations})
		return
	}
	c.JSON(http.StatusOK, dto.ValidateTemplateResponse{Valid: true, Kind: t.Kind()})
}

func (h *TemplateHandler) lookup(c *gin.Context) (palette.NodeTemplate, bool) {
	id := c.Param("id")
	t, ok := h.catalog.Snapshot().Get(id)
	if !ok {
		writeError(c, http.StatusNotFound, dto.CodeNotFound, fmt.Errorf("%w: %q", palette.ErrTemplateNotFound, id))
		return palette.NodeTemplate{}, false
	}
	return t, true
}
