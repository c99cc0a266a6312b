package api

import (
	"net/http"
	"time"

	"github.com/limaJavier/invigilation/internal/config"
	"github.com/limaJavier/invigilation/pkg/engine"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes allocation, validation and export over HTTP. Every request is handled on its own data; nothing
// but metrics is shared between requests
type Server struct {
	config  config.ServerConfig
	router  *chi.Mux
	engine  *engine.Engine
	metrics *metrics
	logger  zerolog.Logger
}

// NewServer creates a new API server. Metrics are registered on registerer, which may be nil to skip registration
func NewServer(cfg config.ServerConfig, engine *engine.Engine, registerer prometheus.Registerer, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	s := &Server{
		config:  cfg,
		engine:  engine,
		metrics: newMetrics(registerer),
		logger:  logger,
	}
	s.setupRouter(gatherer)
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter(gatherer prometheus.Gatherer) {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.RequestTimeout))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/allocations", s.handleAllocate)

		r.Route("/validations", func(r chi.Router) {
			r.Post("/add", s.handleValidateAdd)
			r.Post("/update", s.handleValidateUpdate)
			r.Post("/swap", s.handleValidateSwap)
		})

		r.Post("/exports/slots/{day}/{slot}", s.handleExportSlot)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using zerolog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		}()

		next.ServeHTTP(ww, r)
	})
}
