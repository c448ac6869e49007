package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"grounder/config"
	"grounder/database"
	"grounder/rag"
	"grounder/web/handlers"
	"grounder/web/middleware"
	"grounder/web/services"
)

// EmbeddingClient covers what the web layer needs from the embedding backend:
// vectors for fragment upserts and a health probe.
type EmbeddingClient interface {
	rag.Embedder
	handlers.Pinger
}

type Server struct {
	router       *gin.Engine
	service      *services.ContextService
	store        *database.PostgresStore
	embedder     EmbeddingClient
	providerPing handlers.Pinger
	limiter      *middleware.ClientRateLimiter
	logger       *zap.Logger
	config       *config.Config
}

// NewServer wires the HTTP surface. The store may be nil when retrieval runs
// against an external index; fragment management routes are then not served.
func NewServer(
	service *services.ContextService,
	store *database.PostgresStore,
	embedder EmbeddingClient,
	providerPing handlers.Pinger,
	logger *zap.Logger,
	config *config.Config,
) (*Server, error) {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())

	limiter, err := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerMinute: config.RateLimitRequestsPerMin,
		BurstSize:         config.RateLimitBurstSize,
		MaxClients:        config.RateLimitMaxClients,
	}, logger)
	if err != nil {
		return nil, err
	}

	server := &Server{
		router:       router,
		service:      service,
		store:        store,
		embedder:     embedder,
		providerPing: providerPing,
		limiter:      limiter,
		logger:       logger,
		config:       config,
	}

	server.setupRoutes()
	return server, nil
}

func (s *Server) setupRoutes() {
	contextHandler := handlers.NewContextHandler(s.service, s.logger)
	previewHandler := handlers.NewPreviewHandler(s.service, s.logger)
	healthHandler := handlers.NewHealthHandler(s.embedder, s.providerPing, s.logger)

	// Context assembly API, rate limited per client address
	api := s.router.Group("/api")
	api.Use(middleware.RateLimitMiddleware(s.limiter))
	api.POST("/context", contextHandler.BuildContext)

	// Fragment management only exists when the postgres store backs retrieval
	if s.store != nil {
		fragmentsHandler := handlers.NewFragmentsHandler(s.store, s.embedder, s.logger)
		api.POST("/fragments", fragmentsHandler.Upsert)
		api.DELETE("/fragments/:parentID", fragmentsHandler.DeleteByParent)
	}

	s.router.GET("/healthz", healthHandler.Healthz)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/debug/preview", previewHandler.Preview)
}

// Router exposes the underlying handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
