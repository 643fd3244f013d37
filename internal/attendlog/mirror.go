// Package attendlog maintains the non-authoritative JSON backup of attendance
// submissions. Writes are best effort: callers must never fail the primary
// store operation because the mirror could not be updated.
package attendlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ErrLogMissing is returned when the mirror file has not been created yet.
var ErrLogMissing = errors.New("attendlog: log file missing")

// Entry is one element of the mirror log array.
type Entry struct {
	AttendanceID string  `json:"attendance_id"`
	StudentID    string  `json:"student_id"`
	ScheduleID   string  `json:"schedule_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timestamp    string  `json:"timestamp"`
	Status       string  `json:"status"`
}

// Mirror is the narrow secondary-sink interface the attendance workflow
// writes through.
type Mirror interface {
	Append(entry Entry) error
	UpdateStatus(attendanceID, status string) error
}

// FileMirror persists the log as a single JSON array, rewritten in full on
// every mutation. The mutex bounds in-process races; concurrent processes
// sharing the file can still lose updates, which is accepted.
type FileMirror struct {
	mu   sync.Mutex
	path string
}

// NewFileMirror creates a mirror backed by the file at path.
func NewFileMirror(path string) *FileMirror {
	return &FileMirror{path: path}
}

// FormatTimestamp renders a mirror timestamp the way the log stores it.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// Append adds an entry to the end of the log.
func (m *FileMirror) Append(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readLocked()
	if err != nil && !errors.Is(err, ErrLogMissing) {
		return err
	}
	entries = append(entries, entry)
	return m.writeLocked(entries)
}

// UpdateStatus rewrites the status of the most recent entry matching the
// attendance id. A missing match leaves the log unchanged and returns nil.
func (m *FileMirror) UpdateStatus(attendanceID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readLocked()
	if err != nil {
		if errors.Is(err, ErrLogMissing) {
			return nil
		}
		return err
	}

	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].AttendanceID == attendanceID {
			entries[i].Status = status
			return m.writeLocked(entries)
		}
	}
	return nil
}

// Snapshot returns the raw log file bytes for download.
func (m *FileMirror) Snapshot() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLogMissing
		}
		return nil, fmt.Errorf("attendlog: read %s: %w", m.path, err)
	}
	return data, nil
}

func (m *FileMirror) readLocked() ([]Entry, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLogMissing
		}
		return nil, fmt.Errorf("attendlog: read %s: %w", m.path, err)
	}

	var entries []Entry
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("attendlog: parse %s: %w", m.path, err)
		}
	}
	return entries, nil
}

func (m *FileMirror) writeLocked(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("attendlog: encode log: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("attendlog: write %s: %w", m.path, err)
	}
	return nil
}
