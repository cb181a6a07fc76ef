package http

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/overlap/pkg/domain/interfaces"
)

// DefaultMaxUploadBytes caps the size of an uploaded CSV file
const DefaultMaxUploadBytes int64 = 50_000_000

// Config holds HTTP server settings
type Config struct {
	Addr           string
	MaxUploadBytes int64
	TempDir        string
	Gatherer       prometheus.Gatherer
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, cfg Config, analysisUC interfaces.Analysis) (*Server, error) {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	analyzeHandler := NewAnalyzeHandler(analysisUC, cfg.MaxUploadBytes, cfg.TempDir)

	router.Get("/health", handleHealth)

	if cfg.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(CORS)
		r.Route("/overlap", func(r chi.Router) {
			r.Post("/analyze", analyzeHandler.ServeHTTP)
		})
	})

	return &Server{
		Server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "overlap",
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// errorResponse is the body of every non-2xx API response
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// writeError writes an error response
func writeError(w http.ResponseWriter, r *http.Request, status int, resp errorResponse) {
	writeJSON(w, r, status, resp)
}
