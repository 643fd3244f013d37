// Package http provides the portal's HTTP handlers and middleware.
//
// Routes are prefixed by role, and everything past login is gated on a
// session whose role matches the prefix:
//   - POST /admin/login, /student/login, /teacher/login: issue a session
//     token per role. Body: {"email","password"}. The token is returned in
//     the body, the `X-Session-Token` header and a `session_token` cookie.
//   - POST /admin/logout, /student/logout, /teacher/logout: revoke the
//     current session and clear the cookie.
//   - GET /admin/api/classes|subjects|batches|teachers: catalog listings.
//   - GET /admin/api/schedules[?teacher_id=...]: timetable listings.
//   - POST /admin/api/create_user, schedule_class, remove_schedule,
//     manage_classes, manage_subjects, manage_batches: admin mutations.
//   - POST /student/mark_attendance: submit a Pending attendance claim.
//   - GET /student/attendance, /student/schedule,
//     /student/download_attendance_log.
//   - GET /teacher/api/session, /teacher/schedule,
//     /teacher/today_attendance; POST /teacher/update_status/{id}.
//   - GET /healthz, GET /metrics.
//
// Every JSON response uses the {"success","message","data"} envelope; see
// responder.go for the error-to-status mapping. Request/response DTOs live
// alongside their handlers so tests and documentation share the same ground
// truth.
package http
