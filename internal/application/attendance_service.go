package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-portal/internal/attendlog"
	"github.com/example/campus-portal/internal/persistence"
)

// AttendanceRepository captures the persistence interactions for attendance records.
type AttendanceRepository interface {
	UpsertAttendance(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)
	UpdateAttendanceStatus(ctx context.Context, id, status string) error
	ListAttendanceBetween(ctx context.Context, from, to time.Time) ([]AttendanceDetail, error)
	ListAttendanceForStudent(ctx context.Context, studentID string) ([]AttendanceRecord, error)
}

// AttendanceService runs the submission and approval workflow. The mirror is
// a best-effort secondary sink: its failures are logged and never surfaced.
type AttendanceService struct {
	records     AttendanceRepository
	mirror      attendlog.Mirror
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewAttendanceService wires dependencies for the attendance workflow.
func NewAttendanceService(records AttendanceRepository, mirror attendlog.Mirror, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AttendanceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceService{
		records:     records,
		mirror:      mirror,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *AttendanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AttendanceService", operation, attrs...)
}

// Submit records a pending attendance claim for the authenticated student.
// A resubmission for the same slot overwrites the earlier claim and resets
// its status to Pending.
func (s *AttendanceService) Submit(ctx context.Context, principal Principal, params SubmitAttendanceParams) (record AttendanceRecord, err error) {
	if s == nil {
		err = fmt.Errorf("AttendanceService is nil")
		return
	}
	if s.records == nil {
		err = fmt.Errorf("attendance repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Submit",
		"student_id", principal.UserID,
		"schedule_id", params.ScheduleID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "attendance submission failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("attendance_id", record.ID).InfoContext(ctx, "attendance submitted")
	}()

	if principal.Role != RoleStudent || principal.UserID == "" {
		err = ErrUnauthorized
		return
	}
	scheduleID := strings.TrimSpace(params.ScheduleID)
	if scheduleID == "" {
		vErr := &ValidationError{}
		vErr.add("schedule_id", "schedule id is required")
		err = vErr
		return
	}

	record = AttendanceRecord{
		ID:         s.idGenerator(),
		StudentID:  principal.UserID,
		ScheduleID: scheduleID,
		Date:       s.now(),
		Status:     StatusPending,
		Latitude:   params.Latitude,
		Longitude:  params.Longitude,
	}

	record, err = s.records.UpsertAttendance(ctx, record)
	if err != nil {
		record = AttendanceRecord{}
		err = mapAttendanceRepoError(err)
		return
	}

	// The store write is authoritative; the mirror may lag behind.
	if s.mirror != nil {
		entry := attendlog.Entry{
			AttendanceID: record.ID,
			StudentID:    record.StudentID,
			ScheduleID:   record.ScheduleID,
			Latitude:     record.Latitude,
			Longitude:    record.Longitude,
			Timestamp:    attendlog.FormatTimestamp(record.Date),
			Status:       record.Status,
		}
		if mirrorErr := s.mirror.Append(entry); mirrorErr != nil {
			logger.WarnContext(ctx, "mirror append failed", "error", mirrorErr)
		}
	}
	return
}

// ListToday returns the records submitted on the current calendar day joined
// with student names, newest first.
func (s *AttendanceService) ListToday(ctx context.Context, principal Principal) ([]AttendanceDetail, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	if s.records == nil {
		return nil, fmt.Errorf("attendance repository not configured")
	}
	if principal.Role != RoleTeacher {
		return nil, ErrUnauthorized
	}

	from := startOfDay(s.now())
	to := from.AddDate(0, 0, 1)

	details, err := s.records.ListAttendanceBetween(ctx, from, to)
	if err != nil {
		return nil, mapAttendanceRepoError(err)
	}
	return details, nil
}

// UpdateStatus applies a teacher's Present/Denied decision. The previous state
// is deliberately not checked: any record can be re-adjudicated at any time.
func (s *AttendanceService) UpdateStatus(ctx context.Context, principal Principal, attendanceID, status string) error {
	if s == nil {
		return fmt.Errorf("AttendanceService is nil")
	}
	if s.records == nil {
		return fmt.Errorf("attendance repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateStatus",
		"attendance_id", attendanceID,
		"status", status,
	)

	if principal.Role != RoleTeacher {
		return ErrUnauthorized
	}
	if status != StatusPresent && status != StatusDenied {
		vErr := &ValidationError{}
		vErr.add("status", "status must be Present or Denied")
		return vErr
	}
	if strings.TrimSpace(attendanceID) == "" {
		vErr := &ValidationError{}
		vErr.add("attendance_id", "attendance id is required")
		return vErr
	}

	if err := s.records.UpdateAttendanceStatus(ctx, strings.TrimSpace(attendanceID), status); err != nil {
		mapped := mapAttendanceRepoError(err)
		logger.ErrorContext(ctx, "status update failed", "error", mapped, "error_kind", ErrorKind(mapped))
		return mapped
	}

	// Absence of a matching mirror entry is an accepted no-op.
	if s.mirror != nil {
		if mirrorErr := s.mirror.UpdateStatus(strings.TrimSpace(attendanceID), status); mirrorErr != nil {
			logger.WarnContext(ctx, "mirror status update failed", "error", mirrorErr)
		}
	}

	logger.InfoContext(ctx, "attendance status updated")
	return nil
}

// History returns the authenticated student's own records, newest first.
func (s *AttendanceService) History(ctx context.Context, principal Principal) ([]AttendanceRecord, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	if s.records == nil {
		return nil, fmt.Errorf("attendance repository not configured")
	}
	if principal.Role != RoleStudent || principal.UserID == "" {
		return nil, ErrUnauthorized
	}

	records, err := s.records.ListAttendanceForStudent(ctx, principal.UserID)
	if err != nil {
		return nil, mapAttendanceRepoError(err)
	}
	return records, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func mapAttendanceRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("schedule_id", "schedule does not exist")
		return vErr
	}
	return err
}
