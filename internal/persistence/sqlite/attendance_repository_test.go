package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/campus-portal/internal/persistence"
)

func seedAttendanceFixtures(t *testing.T, pool *ConnectionPool) {
	t.Helper()
	seedTeacher(t, pool, "teacher-1", "Ravi Iyer")
	seedStudent(t, pool, "student-1", "Asha Verma", "CS-2026")
	seedCatalog(t, pool)
	seedSchedule(t, pool, "schedule-1", "teacher-1", "Monday", "10:00", "11:00")
}

func TestAttendanceRepository_UpsertKeepsRowIdentity(t *testing.T) {
	pool := newTestPool(t)
	seedAttendanceFixtures(t, pool)

	repo := NewAttendanceRepository(pool)
	ctx := context.Background()

	first, err := repo.UpsertAttendance(ctx, persistence.AttendanceRecord{
		ID:         "attendance-1",
		StudentID:  "student-1",
		ScheduleID: "schedule-1",
		Date:       testTime(t, "2026-01-05T10:02:00Z"),
		Status:     "Pending",
		Latitude:   12.97,
		Longitude:  77.59,
	})
	if err != nil {
		t.Fatalf("UpsertAttendance: %v", err)
	}

	// Approve, then resubmit. The row keeps its id and drops back to Pending.
	if err := repo.UpdateAttendanceStatus(ctx, first.ID, "Present"); err != nil {
		t.Fatalf("UpdateAttendanceStatus: %v", err)
	}

	second, err := repo.UpsertAttendance(ctx, persistence.AttendanceRecord{
		ID:         "attendance-2",
		StudentID:  "student-1",
		ScheduleID: "schedule-1",
		Date:       testTime(t, "2026-01-05T10:30:00Z"),
		Status:     "Pending",
		Latitude:   12.98,
		Longitude:  77.60,
	})
	if err != nil {
		t.Fatalf("UpsertAttendance resubmit: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("resubmission id = %q, want original %q", second.ID, first.ID)
	}
	if second.Status != "Pending" {
		t.Errorf("resubmission status = %q, want Pending", second.Status)
	}
	if second.Latitude != 12.98 {
		t.Errorf("resubmission latitude = %v, want 12.98", second.Latitude)
	}

	records, err := repo.ListAttendanceForStudent(ctx, "student-1")
	if err != nil {
		t.Fatalf("ListAttendanceForStudent: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want 1", len(records))
	}
}

func TestAttendanceRepository_UpsertUnknownSchedule(t *testing.T) {
	pool := newTestPool(t)
	seedAttendanceFixtures(t, pool)

	repo := NewAttendanceRepository(pool)
	_, err := repo.UpsertAttendance(context.Background(), persistence.AttendanceRecord{
		ID:         "attendance-1",
		StudentID:  "student-1",
		ScheduleID: "missing-schedule",
		Date:       testTime(t, "2026-01-05T10:02:00Z"),
		Status:     "Pending",
	})
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Errorf("UpsertAttendance error = %v, want ErrForeignKeyViolation", err)
	}
}

func TestAttendanceRepository_UpdateStatusMissing(t *testing.T) {
	pool := newTestPool(t)
	seedAttendanceFixtures(t, pool)

	repo := NewAttendanceRepository(pool)
	err := repo.UpdateAttendanceStatus(context.Background(), "missing", "Present")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("UpdateAttendanceStatus error = %v, want ErrNotFound", err)
	}
}

func TestAttendanceRepository_ListBetween(t *testing.T) {
	pool := newTestPool(t)
	seedAttendanceFixtures(t, pool)
	seedStudent(t, pool, "student-2", "Vikram Rao", "CS-2026")
	seedSchedule(t, pool, "schedule-2", "teacher-1", "Tuesday", "10:00", "11:00")

	repo := NewAttendanceRepository(pool)
	ctx := context.Background()

	records := []persistence.AttendanceRecord{
		{ID: "attendance-1", StudentID: "student-1", ScheduleID: "schedule-1",
			Date: testTime(t, "2026-01-05T10:02:00Z"), Status: "Pending"},
		{ID: "attendance-2", StudentID: "student-2", ScheduleID: "schedule-1",
			Date: testTime(t, "2026-01-05T10:15:00Z"), Status: "Pending"},
		{ID: "attendance-3", StudentID: "student-1", ScheduleID: "schedule-2",
			Date: testTime(t, "2026-01-06T10:05:00Z"), Status: "Pending"},
	}
	for _, record := range records {
		if _, err := repo.UpsertAttendance(ctx, record); err != nil {
			t.Fatalf("UpsertAttendance %s: %v", record.ID, err)
		}
	}

	details, err := repo.ListAttendanceBetween(ctx,
		testTime(t, "2026-01-05T00:00:00Z"), testTime(t, "2026-01-06T00:00:00Z"))
	if err != nil {
		t.Fatalf("ListAttendanceBetween: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("len(details) = %d, want 2", len(details))
	}
	if details[0].ID != "attendance-2" {
		t.Errorf("first detail = %q, want newest attendance-2", details[0].ID)
	}
	if details[0].StudentName != "Vikram Rao" {
		t.Errorf("StudentName = %q, want Vikram Rao", details[0].StudentName)
	}
}
