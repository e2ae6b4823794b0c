// Package server exposes the template catalog over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/palette"
	"github.com/agentstation/palette/internal/config"
	"github.com/agentstation/palette/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	catalog *palette.Catalog
	logger  *slog.Logger
	router  *gin.Engine
	server  *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, catalog *palette.Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:  cfg,
		catalog: catalog,
		logger:  logger,
	}
}

// Setup sets up the server routes and middleware
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()
	s.router.Use(requestLogger(s.logger))
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    s.config.Server.Addr(),
		Handler: s.router,
	}
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.catalog)
	templateHandler := handlers.NewTemplateHandler(s.catalog)
	nodeHandler := handlers.NewNodeHandler(s.catalog)
	flowHandler := handlers.NewFlowHandler(s.catalog, s.logger)

	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)

	v1 := s.router.Group("/api/v1")
	{
		templates := v1.Group("/templates")
		{
			templates.GET("", templateHandler.List)
			templates.POST("/validate", templateHandler.Validate)
			templates.GET("/:id", templateHandler.Get)
			templates.GET("/:id/schema", templateHandler.Schema)
		}

		v1.POST("/nodes", nodeHandler.Create)
		v1.POST("/flows/validate", flowHandler.Validate)
	}

	// Legacy route used by the editor's run button.
	s.router.POST("/run-flow", flowHandler.RunFlow)
}

// Handler returns the configured router. Setup must have been called.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server. It returns nil after a graceful Stop.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.server.Addr, "templates", s.catalog.Snapshot().Len())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	return s.server.Shutdown(ctx)
}
