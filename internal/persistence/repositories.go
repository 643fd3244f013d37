package persistence

import (
	"context"
	"time"
)

// AccountRepository exposes account storage for the closed set of roles.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account Account) error
	GetAccountByEmail(ctx context.Context, role Role, email string) (Account, error)
	GetAccount(ctx context.Context, role Role, id string) (Account, error)
	ListTeachers(ctx context.Context) ([]Account, error)
	CountStudentsInBatch(ctx context.Context, batch string) (int, error)
	CountAdmins(ctx context.Context) (int, error)
}

// CatalogRepository exposes CRUD for classes, subjects and batches.
type CatalogRepository interface {
	AddClass(ctx context.Context, class Class) error
	RemoveClass(ctx context.Context, id string) error
	ListClasses(ctx context.Context) ([]Class, error)
	AddSubject(ctx context.Context, subject Subject) error
	RemoveSubject(ctx context.Context, id string) error
	ListSubjects(ctx context.Context) ([]Subject, error)
	AddBatch(ctx context.Context, batch Batch) error
	RemoveBatch(ctx context.Context, id string) error
	GetBatch(ctx context.Context, id string) (Batch, error)
	GetBatchByName(ctx context.Context, name string) (Batch, error)
	ListBatches(ctx context.Context) ([]Batch, error)
	BatchInUse(ctx context.Context, name string) (bool, error)
}

// ScheduleRepository stores timetable slots. CreateSchedule performs the
// per-teacher/day overlap check and the insert inside one transaction and
// returns ErrConflict when the slot would double-book the teacher.
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule Schedule) error
	DeleteSchedule(ctx context.Context, id string) error
	ListSchedulesForTeacher(ctx context.Context, teacherID string) ([]ScheduleDetail, error)
	ListSchedules(ctx context.Context) ([]Schedule, error)
}

// AttendanceRepository stores attendance records keyed on (student, schedule).
type AttendanceRepository interface {
	UpsertAttendance(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)
	UpdateAttendanceStatus(ctx context.Context, id, status string) error
	ListAttendanceBetween(ctx context.Context, from, to time.Time) ([]AttendanceDetail, error)
	ListAttendanceForStudent(ctx context.Context, studentID string) ([]AttendanceRecord, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
