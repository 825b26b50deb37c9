package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"calcsvc/internal/calculator"
	"calcsvc/internal/handlers"
	"calcsvc/internal/observability"
)

// NewRouter wires the middleware chain, the calculator endpoints and the
// operational endpoints. Metrics are served from g.
func NewRouter(calc *calculator.Handler, g prometheus.Gatherer) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler(g))

	calculator.RegisterRoutes(r, calc)

	return r
}
