// Package web composes the public HTTP surface of the service.
package web

import (
	"log/slog"
	"net/http"

	"github.com/screwyprof/lotto/pkg/httpkit"
	"github.com/screwyprof/lotto/pkg/logger"
	"github.com/screwyprof/lotto/pkg/metrics"
)

const (
	HealthRoute  = http.MethodGet + " " + "/healthz"
	MetricsRoute = http.MethodGet + " " + "/metrics"
)

// RouteAdder registers its routes on a mux
type RouteAdder interface {
	AddRoutes(m *http.ServeMux)
}

// NewHandler mounts the API routes next to the health and metrics endpoints
// and wraps everything with request ids and request logging.
// A nil recorder disables instrumentation.
func NewHandler(log *slog.Logger, rec *metrics.Recorder, routes ...RouteAdder) http.Handler {
	api := http.NewServeMux()
	for _, r := range routes {
		r.AddRoutes(api)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", rec.Middleware("api")(api))
	mux.HandleFunc(HealthRoute, health)
	mux.Handle(MetricsRoute, rec.Handler())

	return httpkit.RequestIDMiddleware(logger.NewMiddleware(log)(mux))
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
