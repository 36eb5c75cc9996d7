package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"society360/internal/identity"
	authmw "society360/pkg/platform/middleware/auth"
	"society360/pkg/platform/middleware/metadata"
	"society360/pkg/requestcontext"
)

// NewRouter wires the public endpoints around the auth pipeline. Resource
// CRUD (units, finance, maintenance, ...) hangs off the same middleware
// chain; only the surface needed to exercise the pipeline lives here.
func NewRouter(h *Handler, verifier authmw.Verifier, counters authmw.AuthCounters, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(propagateRequestID)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(verifier, counters, logger))

		r.Post("/auth/logout", h.handleLogout)
		r.Get("/me", h.handleMe)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireRole(counters, logger, identity.RoleAdministrator))
			r.Get("/admin/audit", h.handleAuditList)
		})
	})

	return r
}

// propagateRequestID copies chi's request ID into the transport-agnostic
// request context so services and the audit recorder can log it.
func propagateRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reqID := chimw.GetReqID(ctx); reqID != "" {
			ctx = requestcontext.WithRequestID(ctx, reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
