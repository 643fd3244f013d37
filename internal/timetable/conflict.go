package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday names accepted by the timetable, Monday first.
var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayIndex returns the Monday-based ordinal of a weekday name, or -1 when
// the name is not a valid weekday.
func WeekdayIndex(day string) int {
	for i, name := range weekdays {
		if name == day {
			return i
		}
	}
	return -1
}

// ValidWeekday reports whether day is one of Monday..Sunday.
func ValidWeekday(day string) bool {
	return WeekdayIndex(day) >= 0
}

// Minutes is a time of day expressed as minutes since midnight.
type Minutes int

// ParseClock parses a zero-padded "HH:MM" time of day.
func ParseClock(value string) (Minutes, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("timetable: invalid time %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("timetable: invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("timetable: invalid minute in %q", value)
	}
	return Minutes(hour*60 + minute), nil
}

// String renders the time of day back to "HH:MM".
func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Slot represents a scheduled class occurrence for conflict detection.
type Slot struct {
	ID        string
	TeacherID string
	DayOfWeek string
	Start     Minutes
	End       Minutes
}

// Overlaps reports whether two slots double-book the same teacher. Intervals
// are half-open: a slot ending at 11:00 does not conflict with one starting
// at 11:00.
func Overlaps(a, b Slot) bool {
	if a.TeacherID != b.TeacherID || a.DayOfWeek != b.DayOfWeek {
		return false
	}
	return a.Start < b.End && a.End > b.Start
}

// FindConflicts returns the existing slots the candidate would double-book.
func FindConflicts(existing []Slot, candidate Slot) []Slot {
	var conflicts []Slot
	for _, slot := range existing {
		if slot.ID != "" && slot.ID == candidate.ID {
			continue
		}
		if Overlaps(slot, candidate) {
			conflicts = append(conflicts, slot)
		}
	}
	return conflicts
}
