package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	coreauth "society360/internal/auth"
	"society360/internal/identity"
	dErrors "society360/pkg/domain-errors"
	"society360/pkg/requestcontext"
)

// Verifier resolves a raw bearer credential to an identity.
// internal/auth.Verifier satisfies it.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*identity.Identity, error)
}

// AuthCounters receives authentication and authorization outcomes.
// internal/platform/metrics.Metrics carries the underlying counters.
type AuthCounters interface {
	AuthSuccess()
	AuthFailure()
	Forbidden()
}

// Context key for the resolved identity.
type contextKeyIdentity struct{}

// ContextKeyIdentity is exported for tests that build contexts directly.
var ContextKeyIdentity = contextKeyIdentity{}

// GetIdentity retrieves the authenticated identity from the context.
// Returns nil when the request did not pass RequireAuth.
func GetIdentity(ctx context.Context) *identity.Identity {
	ident, ok := ctx.Value(ContextKeyIdentity).(*identity.Identity)
	if !ok {
		return nil
	}
	return ident
}

// WithIdentity injects an identity into the context. Test helper; in
// production only RequireAuth sets it.
func WithIdentity(ctx context.Context, ident *identity.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, ident)
}

// writeJSONError writes a JSON error response with the given status code.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth verifies the bearer credential and attaches the resolved
// identity to the request context. Every rejection is the same generic 401:
// a missing header, a malformed scheme, a bad token, and an unknown subject
// are indistinguishable to the caller.
func RequireAuth(verifier Verifier, counters AuthCounters, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "

			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing credential",
					"request_id", requestcontext.RequestID(ctx),
				)
				if counters != nil {
					counters.AuthFailure()
				}
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid credential")
				return
			}

			ident, err := verifier.Verify(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - verification failed",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				if counters != nil {
					counters.AuthFailure()
				}
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid credential")
				return
			}

			if counters != nil {
				counters.AuthSuccess()
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, ident)))
		})
	}
}

// RequireRole enforces the per-route allow-list. It assumes RequireAuth has
// already run; a request without an identity is rejected as unauthenticated.
// Denials are deliberate 403s naming the caller's actual role.
func RequireRole(counters AuthCounters, logger *slog.Logger, allowed ...identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ident := GetIdentity(ctx)

			if err := coreauth.Authorize(ident, allowed...); err != nil {
				if ident == nil {
					logger.WarnContext(ctx, "role check without authenticated identity",
						"request_id", requestcontext.RequestID(ctx),
					)
					if counters != nil {
						counters.AuthFailure()
					}
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid credential")
					return
				}
				logger.WarnContext(ctx, "forbidden",
					"subject_id", ident.ID,
					"role", ident.Role,
					"request_id", requestcontext.RequestID(ctx),
				)
				if counters != nil {
					counters.Forbidden()
				}
				desc := err.Error()
				var de dErrors.Error
				if errors.As(err, &de) {
					desc = de.Message
				}
				writeJSONError(w, http.StatusForbidden, "forbidden", desc)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
