package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/linkflow-ai/mathnodes/internal/api/dto"
	"github.com/linkflow-ai/mathnodes/internal/api/handlers"
	"github.com/linkflow-ai/mathnodes/internal/api/middleware"
	"github.com/linkflow-ai/mathnodes/internal/domain/services"
	"github.com/linkflow-ai/mathnodes/internal/pkg/config"
	"github.com/linkflow-ai/mathnodes/internal/pkg/metrics"
	nodemw "github.com/linkflow-ai/mathnodes/internal/worker/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	cfg        *config.Config
	router     *chi.Mux
	httpServer *http.Server
}

type Services struct {
	Formula *services.FormulaService
}

// NewServer wires the routes. checks are the readiness probes of the
// configured backends, keyed by name.
func NewServer(cfg *config.Config, svc *Services, checks map[string]handlers.HealthCheck) *Server {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger())
	router.Use(middleware.Recoverer())
	router.Use(metrics.MetricsMiddleware)
	if cfg.Server.RequestTimeout > 0 {
		router.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Location"},
		MaxAge:         300,
	})
	router.Use(corsHandler.Handler)

	// Initialize handlers
	formulaHandler := handlers.NewFormulaHandler(svc.Formula)
	nodeTypeHandler := handlers.NewNodeTypeHandler(nodemw.Default(cfg.Worker.NodeTimeout))
	healthHandler := handlers.NewHealthHandler(cfg.App.Name + "-api")
	for name, check := range checks {
		healthHandler.AddCheck(name, check)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dto.NotFound(w, "Route")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		dto.ErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Routes
	router.Route("/api/v1", func(r chi.Router) {
		// Health
		r.Get("/health", healthHandler.Health)
		r.Get("/health/live", healthHandler.Live)
		r.Get("/health/ready", healthHandler.Ready)

		r.Group(func(r chi.Router) {
			r.Use(rateLimiter.Limit)

			// Formulas
			r.Post("/formulas/evaluate", formulaHandler.Evaluate)
			r.Post("/formulas/tokenize", formulaHandler.Tokenize)
			r.Post("/formulas/evaluate/async", formulaHandler.EvaluateAsync)
			r.Get("/formulas/evaluations/{evaluationID}", formulaHandler.GetEvaluation)
			r.Get("/formulas/functions", formulaHandler.Functions)

			// Formula library
			r.Get("/formulas", formulaHandler.List)
			r.Post("/formulas", formulaHandler.Create)
			r.Get("/formulas/{formulaID}", formulaHandler.Get)
			r.Put("/formulas/{formulaID}", formulaHandler.Update)
			r.Delete("/formulas/{formulaID}", formulaHandler.Delete)
			r.Post("/formulas/{formulaID}/evaluate", formulaHandler.EvaluateSaved)

			// Node Types
			r.Get("/node-types", nodeTypeHandler.ListNodeTypes)
			r.Get("/node-types/categories", nodeTypeHandler.GetNodeCategories)
			r.Get("/node-types/{nodeType}", nodeTypeHandler.GetNodeType)
			r.Post("/node-types/{nodeType}/test", nodeTypeHandler.TestNode)
		})
	})

	// Metrics endpoint (Prometheus)
	router.Handle("/metrics", metrics.Handler())

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Info().
		Interface("capabilities", svc.Formula.Capabilities()).
		Msg("Formula service configured")

	return &Server{
		cfg:        cfg,
		router:     router,
		httpServer: httpServer,
	}
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("Starting HTTP server")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.Shutdown(ctx)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

func (s *Server) Router() *chi.Mux {
	return s.router
}
