package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/campus-portal/internal/application"
)

type attendanceReviewer interface {
	ListToday(ctx context.Context, principal application.Principal) ([]application.AttendanceDetail, error)
	UpdateStatus(ctx context.Context, principal application.Principal, attendanceID, status string) error
}

// TeacherHandler serves the teacher-facing endpoints: the approval queue and
// status decisions.
type TeacherHandler struct {
	attendance attendanceReviewer
	schedules  scheduleService
	responder  responder
	logger     *slog.Logger
}

// NewTeacherHandler creates the teacher API handler.
func NewTeacherHandler(attendance attendanceReviewer, schedules scheduleService, logger *slog.Logger) *TeacherHandler {
	base := defaultLogger(logger)
	return &TeacherHandler{
		attendance: attendance,
		schedules:  schedules,
		responder:  newResponder(base),
		logger:     base,
	}
}

func (h *TeacherHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TeacherHandler", operation, attrs...)
}

type attendanceDetailDTO struct {
	attendanceDTO
	StudentName string `json:"student_name"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Session serves GET /teacher/api/session with the authenticated principal.
func (h *TeacherHandler) Session(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "session", principalResponse{
		UserID: principal.UserID,
		Name:   principal.Name,
		Role:   string(principal.Role),
	})
}

// MySchedule serves GET /teacher/schedule with the teacher's own slots.
func (h *TeacherHandler) MySchedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	details, err := h.schedules.ListSchedulesForTeacher(r.Context(), principal, principal.UserID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "schedule", toScheduleDetailDTOs(details))
}

// TodayAttendance serves GET /teacher/today_attendance.
func (h *TeacherHandler) TodayAttendance(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	details, err := h.attendance.ListToday(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]attendanceDetailDTO, 0, len(details))
	for _, detail := range details {
		payload = append(payload, attendanceDetailDTO{
			attendanceDTO: toAttendanceDTO(detail.AttendanceRecord),
			StudentName:   detail.StudentName,
		})
	}
	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "today's attendance", payload)
}

// UpdateStatus serves POST /teacher/update_status/{attendanceID}.
func (h *TeacherHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	attendanceID, ok := AttendanceIDFromContext(r.Context())
	if !ok || attendanceID == "" {
		h.responder.writeFailure(r.Context(), w, http.StatusBadRequest, "attendance id is required")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateStatus", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode status request", "error", err)
		h.responder.writeFailure(r.Context(), w, http.StatusBadRequest, errBadRequestBody.Error())
		return
	}

	if err := h.attendance.UpdateStatus(r.Context(), principal, attendanceID, req.Status); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "attendance status updated", nil)
}
