package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-portal/internal/persistence"
	"github.com/example/campus-portal/internal/timetable"
)

// ScheduleRepository captures the persistence interactions needed by the service.
// CreateSchedule runs the per-teacher/day overlap check and the insert inside
// one store transaction.
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, slot ScheduleSlot) (ScheduleSlot, error)
	DeleteSchedule(ctx context.Context, id string) error
	ListSchedulesForTeacher(ctx context.Context, teacherID string) ([]ScheduleDetail, error)
	ListSchedules(ctx context.Context) ([]ScheduleSlot, error)
}

// ScheduleService orchestrates validation and persistence for timetable slots.
type ScheduleService struct {
	schedules   ScheduleRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewScheduleService wires dependencies for schedule operations.
func NewScheduleService(schedules ScheduleRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ScheduleService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		schedules:   schedules,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ScheduleService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ScheduleService", operation, attrs...)
}

// ScheduleClass validates the slot and inserts it unless the teacher is
// already booked in an overlapping window on that day.
func (s *ScheduleService) ScheduleClass(ctx context.Context, principal Principal, input ScheduleInput) (slot ScheduleSlot, err error) {
	if s == nil {
		err = fmt.Errorf("ScheduleService is nil")
		return
	}
	if s.schedules == nil {
		err = fmt.Errorf("schedule repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "ScheduleClass",
		"teacher_id", input.TeacherID,
		"day_of_week", input.DayOfWeek,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "schedule creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("schedule_id", slot.ID).InfoContext(ctx, "class scheduled")
	}()

	if principal.Role != RoleAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := &ValidationError{}
	validateScheduleInput(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	slot = ScheduleSlot{
		ID:        s.idGenerator(),
		ClassID:   strings.TrimSpace(input.ClassID),
		SubjectID: strings.TrimSpace(input.SubjectID),
		TeacherID: strings.TrimSpace(input.TeacherID),
		Batch:     strings.TrimSpace(input.Batch),
		DayOfWeek: input.DayOfWeek,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		CreatedAt: s.now(),
	}

	slot, err = s.schedules.CreateSchedule(ctx, slot)
	if err != nil {
		slot = ScheduleSlot{}
		err = mapScheduleRepoError(err)
		return
	}
	return
}

// RemoveSchedule deletes a slot by id.
func (s *ScheduleService) RemoveSchedule(ctx context.Context, principal Principal, scheduleID string) error {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}
	if s.schedules == nil {
		return fmt.Errorf("schedule repository not configured")
	}

	logger := s.loggerWith(ctx, "RemoveSchedule", "schedule_id", scheduleID)

	if principal.Role != RoleAdmin {
		return ErrUnauthorized
	}
	if strings.TrimSpace(scheduleID) == "" {
		vErr := &ValidationError{}
		vErr.add("schedule_id", "schedule id is required")
		return vErr
	}

	if err := s.schedules.DeleteSchedule(ctx, strings.TrimSpace(scheduleID)); err != nil {
		var mapped error
		if errors.Is(err, persistence.ErrForeignKeyViolation) {
			mapped = conflict(ErrEntityInUse, "cannot remove: this schedule has attendance records")
		} else {
			mapped = mapScheduleRepoError(err)
		}
		logger.ErrorContext(ctx, "schedule removal failed", "error", mapped, "error_kind", ErrorKind(mapped))
		return mapped
	}

	logger.InfoContext(ctx, "schedule removed")
	return nil
}

// ListSchedulesForTeacher returns a teacher's slots joined with class and
// subject names, ordered by weekday then start time.
func (s *ScheduleService) ListSchedulesForTeacher(ctx context.Context, principal Principal, teacherID string) ([]ScheduleDetail, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	if s.schedules == nil {
		return nil, fmt.Errorf("schedule repository not configured")
	}

	if principal.Role != RoleAdmin && !(principal.Role == RoleTeacher && principal.UserID == teacherID) {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(teacherID) == "" {
		vErr := &ValidationError{}
		vErr.add("teacher_id", "teacher id is required")
		return nil, vErr
	}

	details, err := s.schedules.ListSchedulesForTeacher(ctx, strings.TrimSpace(teacherID))
	if err != nil {
		return nil, mapScheduleRepoError(err)
	}
	return details, nil
}

// ListSchedules returns every slot, ordered by weekday then start time.
func (s *ScheduleService) ListSchedules(ctx context.Context, principal Principal) ([]ScheduleSlot, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	if s.schedules == nil {
		return nil, fmt.Errorf("schedule repository not configured")
	}
	if !principal.Role.Valid() {
		return nil, ErrUnauthorized
	}

	slots, err := s.schedules.ListSchedules(ctx)
	if err != nil {
		return nil, mapScheduleRepoError(err)
	}
	return slots, nil
}

func validateScheduleInput(input ScheduleInput, vErr *ValidationError) {
	if strings.TrimSpace(input.ClassID) == "" {
		vErr.add("class_id", "class is required")
	}
	if strings.TrimSpace(input.SubjectID) == "" {
		vErr.add("subject_id", "subject is required")
	}
	if strings.TrimSpace(input.TeacherID) == "" {
		vErr.add("teacher_id", "teacher is required")
	}
	if strings.TrimSpace(input.Batch) == "" {
		vErr.add("batch", "batch is required")
	}
	if !timetable.ValidWeekday(input.DayOfWeek) {
		vErr.add("day_of_week", "day of week must be Monday through Sunday")
	}

	start, startErr := timetable.ParseClock(input.StartTime)
	if startErr != nil {
		vErr.add("start_time", "start time must be HH:MM")
	}
	end, endErr := timetable.ParseClock(input.EndTime)
	if endErr != nil {
		vErr.add("end_time", "end time must be HH:MM")
	}
	if startErr == nil && endErr == nil && start >= end {
		vErr.add("time", "start time must be before end time")
	}
}

func mapScheduleRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrConflict) {
		return conflict(ErrScheduleConflict, "scheduling conflict: teacher is already booked at this time")
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("schedule", "referenced class, subject or teacher does not exist")
		return vErr
	}
	return err
}
