package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/question"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// Dependency is an upstream checked by /v1/ping.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// Handlers groups the route handlers mounted by NewHTTPServer.
type Handlers struct {
	Questions *question.HTTPHandlers
	Stream    http.Handler
	Metrics   http.Handler
}

// NewHTTPServer wires base routes (health, metrics, ping) and the question bank API.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps []Dependency, handlers Handlers, m *metrics.HTTP) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewHandler(cfg.CORS, logger, deps, handlers, m),
	}
}

// NewHandler builds the full middleware chain: CORS, request logging, metrics, routes.
func NewHandler(corsCfg config.CORS, logger zerolog.Logger, deps []Dependency, handlers Handlers, m *metrics.HTTP) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	metricsHandler := handlers.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	mux.Handle("/metrics", metricsHandler)

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), deps); err != nil {
			logging.FromContextOr(r.Context(), logger).Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.MsgUpstreamError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if handlers.Stream != nil {
		mux.Handle("/ws/questions", handlers.Stream)
	}

	if handlers.Questions != nil {
		handlers.Questions.Register(mux)
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w)
	})

	var h http.Handler = mux
	h = metricsMiddleware(m, h)
	h = requestLogger(logger, h)
	return newCORS(corsCfg).Handler(h)
}

func newCORS(cfg config.CORS) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

func pingDependencies(ctx context.Context, deps []Dependency) error {
	for _, dep := range deps {
		if dep.Ping == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", dep.Name, err)
		}
	}
	return nil
}
