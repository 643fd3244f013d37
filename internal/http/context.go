package http

import (
	"context"

	"github.com/example/campus-portal/internal/application"
)

type contextKey string

const (
	principalContextKey    contextKey = "principal"
	attendanceIDContextKey contextKey = "attendance_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithAttendanceID injects the attendance identifier resolved from the request path.
func ContextWithAttendanceID(ctx context.Context, attendanceID string) context.Context {
	return context.WithValue(ctx, attendanceIDContextKey, attendanceID)
}

// AttendanceIDFromContext extracts an attendance identifier previously associated with the context.
func AttendanceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(attendanceIDContextKey).(string)
	return id, ok
}
