package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/campus-portal/internal/application"
	"github.com/example/campus-portal/internal/attendlog"
)

type attendanceSubmitter interface {
	Submit(ctx context.Context, principal application.Principal, params application.SubmitAttendanceParams) (application.AttendanceRecord, error)
	History(ctx context.Context, principal application.Principal) ([]application.AttendanceRecord, error)
}

// logSource exposes the raw mirror file for download.
type logSource interface {
	Snapshot() ([]byte, error)
}

// StudentHandler serves the student-facing endpoints: attendance submission,
// history, the timetable and the mirror log download.
type StudentHandler struct {
	attendance attendanceSubmitter
	schedules  scheduleService
	logs       logSource
	responder  responder
	logger     *slog.Logger
}

// NewStudentHandler creates the student API handler.
func NewStudentHandler(attendance attendanceSubmitter, schedules scheduleService, logs logSource, logger *slog.Logger) *StudentHandler {
	base := defaultLogger(logger)
	return &StudentHandler{
		attendance: attendance,
		schedules:  schedules,
		logs:       logs,
		responder:  newResponder(base),
		logger:     base,
	}
}

func (h *StudentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "StudentHandler", operation, attrs...)
}

type markAttendanceRequest struct {
	ScheduleID string  `json:"schedule_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type attendanceDTO struct {
	ID         string  `json:"id"`
	StudentID  string  `json:"student_id"`
	ScheduleID string  `json:"schedule_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// MarkAttendance serves POST /student/mark_attendance.
func (h *StudentHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusForbidden, "you are not allowed to perform this action")
		return
	}

	var req markAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "MarkAttendance", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode attendance request", "error", err)
		h.responder.writeFailure(r.Context(), w, http.StatusBadRequest, errBadRequestBody.Error())
		return
	}

	record, err := h.attendance.Submit(r.Context(), principal, application.SubmitAttendanceParams{
		ScheduleID: req.ScheduleID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "attendance marked, awaiting approval", toAttendanceDTO(record))
}

// Attendance serves GET /student/attendance with the student's own records.
func (h *StudentHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	records, err := h.attendance.History(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]attendanceDTO, 0, len(records))
	for _, record := range records {
		payload = append(payload, toAttendanceDTO(record))
	}
	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "attendance history", payload)
}

// Schedule serves GET /student/schedule with the full timetable.
func (h *StudentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	slots, err := h.schedules.ListSchedules(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]scheduleDTO, 0, len(slots))
	for _, slot := range slots {
		payload = append(payload, toScheduleDTO(slot))
	}
	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "schedule", payload)
}

// DownloadAttendanceLog serves GET /student/download_attendance_log with the
// raw mirror file.
func (h *StudentHandler) DownloadAttendanceLog(w http.ResponseWriter, r *http.Request) {
	if _, ok := PrincipalFromContext(r.Context()); !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}
	if h.logs == nil {
		h.responder.writeFailure(r.Context(), w, http.StatusNotFound, "attendance log not found")
		return
	}

	data, err := h.logs.Snapshot()
	if err != nil {
		if errors.Is(err, attendlog.ErrLogMissing) {
			h.responder.writeFailure(r.Context(), w, http.StatusNotFound, "attendance log not found")
			return
		}
		h.log(r.Context(), "DownloadAttendanceLog").ErrorContext(r.Context(), "failed to read attendance log", "error", err)
		h.responder.writeFailure(r.Context(), w, http.StatusInternalServerError, "failed to read attendance log")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance_log.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log(r.Context(), "DownloadAttendanceLog").ErrorContext(r.Context(), "failed to write attendance log", "error", err)
	}
}

func toAttendanceDTO(record application.AttendanceRecord) attendanceDTO {
	return attendanceDTO{
		ID:         record.ID,
		StudentID:  record.StudentID,
		ScheduleID: record.ScheduleID,
		Date:       record.Date.UTC().Format(time.RFC3339),
		Status:     record.Status,
		Latitude:   record.Latitude,
		Longitude:  record.Longitude,
	}
}
