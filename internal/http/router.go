// Package httpapi assembles the service's HTTP surface: middleware chain,
// operational endpoints, and the form API behind bearer-token auth.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	formHandler "certform/internal/form/handler"
	"certform/internal/platform/metrics"
	"certform/pkg/platform/httputil"
	"certform/pkg/platform/middleware/auth"
	"certform/pkg/platform/middleware/requestid"
	"certform/pkg/platform/middleware/requesttime"
)

// NewRouter wires the middleware chain and mounts all endpoints. The metrics
// and verifier arguments follow the rest of the codebase: nil disables the
// concern rather than failing.
func NewRouter(handler *formHandler.Handler, verifier *auth.Verifier, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	if m != nil {
		r.Use(m.Instrument)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if verifier != nil {
			r.Use(auth.RequireActor(verifier, logger))
		}
		handler.Register(r)
	})

	return r
}
