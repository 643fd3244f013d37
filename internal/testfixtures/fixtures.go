package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/campus-portal/internal/persistence"
)

var (
	accountCounter    uint64
	scheduleCounter   uint64
	attendanceCounter uint64
)

var referenceTime = time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// AccountOption configures a generated account fixture.
type AccountOption func(*persistence.Account)

// NewAccountFixture returns a deterministic account with optional overrides.
// The default role is student with a batch assigned.
func NewAccountFixture(opts ...AccountOption) persistence.Account {
	idx := atomic.AddUint64(&accountCounter, 1)
	id := fmt.Sprintf("account-%03d", idx)
	account := persistence.Account{
		ID:           id,
		Role:         persistence.RoleStudent,
		Name:         fmt.Sprintf("Student %03d", idx),
		Email:        fmt.Sprintf("%s@example.com", id),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		Batch:        "CS-2026",
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&account)
	}
	return account
}

// WithRole overrides the account role; non-student roles drop the batch.
func WithRole(role persistence.Role) AccountOption {
	return func(a *persistence.Account) {
		a.Role = role
		if role != persistence.RoleStudent {
			a.Batch = ""
		}
	}
}

// WithBatch overrides the student's batch name.
func WithBatch(batch string) AccountOption {
	return func(a *persistence.Account) {
		a.Batch = batch
	}
}

// WithEmail overrides the generated email address.
func WithEmail(email string) AccountOption {
	return func(a *persistence.Account) {
		a.Email = email
	}
}

// ScheduleOption configures a generated schedule fixture.
type ScheduleOption func(*persistence.Schedule)

// NewScheduleFixture returns a deterministic Monday-morning slot with optional
// overrides. Consecutive fixtures shift the window forward an hour each so
// they never collide by accident.
func NewScheduleFixture(opts ...ScheduleOption) persistence.Schedule {
	idx := atomic.AddUint64(&scheduleCounter, 1)
	startHour := 8 + int(idx%10)
	schedule := persistence.Schedule{
		ID:        fmt.Sprintf("schedule-%03d", idx),
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TeacherID: "teacher-1",
		Batch:     "CS-2026",
		DayOfWeek: "Monday",
		StartTime: fmt.Sprintf("%02d:00", startHour),
		EndTime:   fmt.Sprintf("%02d:00", startHour+1),
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&schedule)
	}
	return schedule
}

// WithTeacher overrides the slot's teacher.
func WithTeacher(teacherID string) ScheduleOption {
	return func(s *persistence.Schedule) {
		s.TeacherID = teacherID
	}
}

// WithWindow overrides the slot's day and time window.
func WithWindow(day, start, end string) ScheduleOption {
	return func(s *persistence.Schedule) {
		s.DayOfWeek = day
		s.StartTime = start
		s.EndTime = end
	}
}

// AttendanceOption configures a generated attendance fixture.
type AttendanceOption func(*persistence.AttendanceRecord)

// NewAttendanceFixture returns a deterministic pending attendance record.
func NewAttendanceFixture(opts ...AttendanceOption) persistence.AttendanceRecord {
	idx := atomic.AddUint64(&attendanceCounter, 1)
	record := persistence.AttendanceRecord{
		ID:         fmt.Sprintf("attendance-%03d", idx),
		StudentID:  "student-1",
		ScheduleID: "schedule-1",
		Date:       referenceTime.Add(time.Duration(idx) * time.Minute),
		Status:     "Pending",
		Latitude:   12.9716,
		Longitude:  77.5946,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// WithStatus overrides the record's status.
func WithStatus(status string) AttendanceOption {
	return func(r *persistence.AttendanceRecord) {
		r.Status = status
	}
}
