package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/campus-portal/internal/application"
)

func TestRequireRoleInjectsPrincipal(t *testing.T) {
	t.Parallel()

	validator := testValidator()
	var captured application.Principal
	handler := RequireRole(validator, application.RoleTeacher, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			t.Fatal("expected principal in request context")
		}
		captured = principal
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "teacher-token"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if captured.UserID != "teacher-1" || captured.Role != application.RoleTeacher {
		t.Errorf("principal = %+v", captured)
	}
}

func TestRequireRolePrefersBearerHeader(t *testing.T) {
	t.Parallel()

	validator := testValidator()
	handler := RequireRole(validator, application.RoleAdmin, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "student-token"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (header token should win)", recorder.Code)
	}
}

func TestRequireRoleSessionStates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"expired session", application.ErrSessionExpired, http.StatusUnauthorized},
		{"revoked session", application.ErrSessionRevoked, http.StatusUnauthorized},
		{"unknown session", application.ErrUnauthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			validator := &stubValidator{err: tt.err}
			handler := RequireRole(validator, application.RoleStudent, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not run for invalid sessions")
			}))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer stale-token")
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
		})
	}
}
