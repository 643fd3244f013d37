package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/campus-portal/internal/application"
)

// SessionValidator resolves an opaque session token into a principal.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (application.Principal, error)
}

// RequireRole authenticates the request via its session token and rejects
// principals whose role does not match. The principal is stored in the
// request context for handlers downstream.
func RequireRole(validator SessionValidator, role application.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return RequireRoleWithStatus(validator, role, http.StatusUnauthorized, logger)
}

// RequireRoleWithStatus is RequireRole with a configurable status for
// missing or invalid sessions. The attendance submission endpoint answers
// 403 instead of 401 to unauthenticated callers.
func RequireRoleWithStatus(validator SessionValidator, role application.Role, deniedStatus int, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractTokenFromRequest(r)
			if token == "" {
				responder.writeFailure(r.Context(), w, deniedStatus, errMissingSessionToken.Error())
				return
			}

			principal, err := validator.ValidateSession(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, application.ErrSessionExpired), errors.Is(err, application.ErrSessionRevoked):
					responder.writeFailure(r.Context(), w, deniedStatus, "session is no longer valid, please log in again")
				case errors.Is(err, application.ErrNotFound), errors.Is(err, application.ErrUnauthorized):
					responder.writeFailure(r.Context(), w, deniedStatus, "session not found, please log in again")
				default:
					responder.writeFailure(r.Context(), w, http.StatusInternalServerError, "session validation failed")
				}
				return
			}

			if principal.Role != role {
				responder.writeFailure(r.Context(), w, http.StatusForbidden, "you are not allowed to perform this action")
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a per-request logger to the context and records
// request start and completion.
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

func extractTokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}
	return ""
}
