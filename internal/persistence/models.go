package persistence

import "time"

// Role identifies which account table a record belongs to.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Account represents a login-capable account row. Batch is set for students only.
type Account struct {
	ID           string
	Role         Role
	Name         string
	Email        string
	PasswordHash string
	Batch        string
	CreatedAt    time.Time
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

// Schedule represents a timetable slot stored in persistence.
// StartTime and EndTime are zero-padded "HH:MM" times of day.
type Schedule struct {
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

// ScheduleDetail is a schedule joined with its class and subject names.
type ScheduleDetail struct {
	Schedule
	ClassName   string
	SubjectName string
}

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

// Session represents an authentication session persisted for an account.
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
