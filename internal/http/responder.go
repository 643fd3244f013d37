package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/campus-portal/internal/application"
)

var (
	errBadRequestBody      = errors.New("invalid request body")
	errMissingSessionToken = errors.New("authentication required")
)

// apiResponse is the envelope every JSON endpoint uses.
type apiResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeSuccess(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	r.writeJSON(ctx, w, status, apiResponse{Success: true, Message: message, Data: data})
}

func (r responder) writeFailure(ctx context.Context, w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	r.writeJSON(ctx, w, status, apiResponse{Success: false, Message: message})
}

// handleServiceError maps application errors onto HTTP statuses. Validation
// problems come back as 400 with the per-field detail, state collisions as
// 409 with the conflict's own message.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeFailure(ctx, w, http.StatusInternalServerError, "unknown error")
		return
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		message := "validation failed"
		if len(vErr.FieldErrors) == 1 {
			for _, msg := range vErr.FieldErrors {
				message = msg
			}
		}
		r.writeJSON(ctx, w, http.StatusBadRequest, apiResponse{
			Success: false,
			Message: message,
			Errors:  vErr.FieldErrors,
		})
		return
	}

	var cErr *application.ConflictError
	if errors.As(err, &cErr) {
		r.writeFailure(ctx, w, http.StatusConflict, cErr.Message)
		return
	}

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeFailure(ctx, w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, application.ErrSessionExpired), errors.Is(err, application.ErrSessionRevoked):
		r.writeFailure(ctx, w, http.StatusUnauthorized, "session is no longer valid, please log in again")
	case errors.Is(err, application.ErrUnauthorized):
		r.writeFailure(ctx, w, http.StatusForbidden, "you are not allowed to perform this action")
	case errors.Is(err, application.ErrNotFound):
		r.writeFailure(ctx, w, http.StatusNotFound, "resource not found")
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err, "error_kind", application.ErrorKind(err))
		r.writeFailure(ctx, w, http.StatusInternalServerError, "internal server error")
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
