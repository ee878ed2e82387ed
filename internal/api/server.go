package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/config"
	"example.com/freightdesk/services/forwarding/internal/api/handlers"
	"example.com/freightdesk/services/forwarding/internal/metrics"
	"example.com/freightdesk/services/forwarding/internal/search"
	"example.com/freightdesk/services/forwarding/internal/services"
	"example.com/freightdesk/services/forwarding/internal/tracing"
)

// Services bundles the service layer the HTTP surface exposes.
type Services struct {
	Jobs    *services.JobService
	Houses  *services.HouseService
	Notices *services.ArrivalNoticeService
	Entries *services.AccountingEntryService
}

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server
	services   Services
	elastic    *search.ElasticClient
	metrics    *metrics.Metrics
	tracer     tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, svcs Services, elastic *search.ElasticClient, m *metrics.Metrics, tracer tracing.Tracer) *Server {
	server := &Server{
		config:   cfg,
		services: svcs,
		elastic:  elastic,
		metrics:  m,
		tracer:   tracer,
	}

	router := server.setupRouter()
	server.router = router

	httpServer := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
	}
	server.httpServer = httpServer

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(gin.Recovery())
	if s.config.CorsEnabled {
		router.Use(corsMiddleware(s.config.CorsOrigins))
	}

	maxPageSize := s.config.Listing.MaxPageSize

	v1 := router.Group("/api/v1")
	handlers.NewJobHandler(s.services.Jobs, s.tracer, maxPageSize).RegisterRoutes(v1)
	handlers.NewHouseHandler(s.services.Houses, s.tracer, maxPageSize).RegisterRoutes(v1)
	handlers.NewArrivalNoticeHandler(s.services.Notices, s.tracer, maxPageSize).RegisterRoutes(v1)
	handlers.NewAccountingEntryHandler(s.services.Entries, s.tracer, maxPageSize).RegisterRoutes(v1)
	handlers.NewSearchHandler(s.elastic, s.tracer).RegisterRoutes(v1)

	handlers.NewMetricsHandler(s.metrics, s.tracer).RegisterRoutes(router)

	return router
}

// corsMiddleware allows the configured origins. An empty list allows any.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (len(allowed) == 0 || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
