package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/palette"
)

// Version is set at build time using ldflags.
var Version = "dev"

// HealthHandler handles health check requests
type HealthHandler struct {
	catalog *palette.Catalog
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(catalog *palette.Catalog) *HealthHandler {
	return &HealthHandler{catalog: catalog}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	reg := h.catalog.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "palette",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
		"templates": reg.Len(),
		"sealed":    h.catalog.Sealed(),
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   "palette",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
