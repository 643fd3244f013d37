package application

import "time"

// Role identifies the account type of a principal or login attempt.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID string
	Name   string
	Role   Role
}

// Account represents a login-capable account. Batch is set for students only.
type Account struct {
	ID        string
	Role      Role
	Name      string
	Email     string
	Batch     string
	CreatedAt time.Time
}

// Credentials models the authentication attributes persisted for an account.
type Credentials struct {
	Account      Account
	PasswordHash string
}

// Session represents an authenticated session issued to an account.
type Session struct {
	ID        string
	UserID    string
	Role      Role
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate an account.
type AuthenticateParams struct {
	Role     Role
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	Account Account
	Session Session
}

// ScheduleInput captures caller provided schedule slot fields.
// StartTime and EndTime are zero-padded "HH:MM" times of day.
type ScheduleInput struct {
	ClassID   string
	SubjectID string
	TeacherID string
	Batch     string
	DayOfWeek string
	StartTime string
	EndTime   string
}

// ScheduleSlot represents a persisted timetable slot.
type ScheduleSlot struct {
	ID        string
	ClassID   string
	SubjectID string
	TeacherID string
	Batch     string
	DayOfWeek string
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

// ScheduleDetail is a slot joined with its class and subject names.
type ScheduleDetail struct {
	ScheduleSlot
	ClassName   string
	SubjectName string
}

// Attendance statuses. Pending transitions to Present or Denied by teacher
// action; a resubmission resets any state back to Pending.
const (
	StatusPending = "Pending"
	StatusPresent = "Present"
	StatusDenied  = "Denied"
)

// AttendanceRecord represents a student attendance claim for a schedule slot.
type AttendanceRecord struct {
	ID         string
	StudentID  string
	ScheduleID string
	Date       time.Time
	Status     string
	Latitude   float64
	Longitude  float64
}

// AttendanceDetail is an attendance record joined with the student's name.
type AttendanceDetail struct {
	AttendanceRecord
	StudentName string
}

// SubmitAttendanceParams captures a student attendance submission.
type SubmitAttendanceParams struct {
	ScheduleID string
	Latitude   float64
	Longitude  float64
}

// Class represents a class catalog entry.
type Class struct {
	ID   string
	Name string
}

// Subject represents a subject catalog entry.
type Subject struct {
	ID   string
	Name string
}

// Batch represents a named student cohort.
type Batch struct {
	ID   string
	Name string
}

// CreateUserInput captures the fields for provisioning a student or teacher.
type CreateUserInput struct {
	Role     Role
	Name     string
	Email    string
	Password string
	Batch    string
}
