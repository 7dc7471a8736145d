package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/rest-planning/internal/application"
	"github.com/example/rest-planning/internal/auth"
)

// IdentityVerifier turns a bearer token into identity claims.
type IdentityVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// RequireIdentity rejects requests without a valid bearer token and attaches
// the resulting principal to the request context. A token with an unknown
// role is rejected outright rather than left for the authorizer to deny.
func RequireIdentity(verifier IdentityVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingIdentity)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "el token ha expirado"})
				default:
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "el token no es válido"})
				}
				return
			}

			role, ok := application.ParseRole(claims.Role)
			if !ok {
				responder.writeJSON(r.Context(), w, http.StatusForbidden, errorResponse{Error: "el rol del token no está reconocido"})
				return
			}

			principal := application.Principal{
				Subject: claims.Subject,
				Role:    role,
				AgentID: claims.AgentID,
				GroupID: claims.GroupID,
				UnitID:  claims.UnitID,
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a per-request logger to the context and logs request
// lifecycle events.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
