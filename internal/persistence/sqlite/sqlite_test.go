package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/example/campus-portal/internal/persistence"
)

func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	pool, err := NewConnectionPool(":memory:")
	if err != nil {
		t.Fatalf("NewConnectionPool: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return pool
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

func seedTeacher(t *testing.T, pool *ConnectionPool, id, name string) {
	t.Helper()
	repo := NewAccountRepository(pool)
	err := repo.CreateAccount(context.Background(), persistence.Account{
		ID:           id,
		Role:         persistence.RoleTeacher,
		Name:         name,
		Email:        id + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    testTime(t, "2026-01-05T08:00:00Z"),
	})
	if err != nil {
		t.Fatalf("seed teacher %s: %v", id, err)
	}
}

func seedStudent(t *testing.T, pool *ConnectionPool, id, name, batch string) {
	t.Helper()
	repo := NewAccountRepository(pool)
	err := repo.CreateAccount(context.Background(), persistence.Account{
		ID:           id,
		Role:         persistence.RoleStudent,
		Name:         name,
		Email:        id + "@example.com",
		PasswordHash: "hash",
		Batch:        batch,
		CreatedAt:    testTime(t, "2026-01-05T08:00:00Z"),
	})
	if err != nil {
		t.Fatalf("seed student %s: %v", id, err)
	}
}

func seedCatalog(t *testing.T, pool *ConnectionPool) {
	t.Helper()
	repo := NewCatalogRepository(pool)
	ctx := context.Background()
	if err := repo.AddClass(ctx, persistence.Class{ID: "class-1", Name: "Room 101"}); err != nil {
		t.Fatalf("seed class: %v", err)
	}
	if err := repo.AddSubject(ctx, persistence.Subject{ID: "subject-1", Name: "Mathematics"}); err != nil {
		t.Fatalf("seed subject: %v", err)
	}
	if err := repo.AddBatch(ctx, persistence.Batch{ID: "batch-1", Name: "CS-2026"}); err != nil {
		t.Fatalf("seed batch: %v", err)
	}
}

func seedSchedule(t *testing.T, pool *ConnectionPool, id, teacherID, day, start, end string) {
	t.Helper()
	repo := NewScheduleRepository(pool)
	err := repo.CreateSchedule(context.Background(), persistence.Schedule{
		ID:        id,
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TeacherID: teacherID,
		Batch:     "CS-2026",
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		CreatedAt: testTime(t, "2026-01-05T09:00:00Z"),
	})
	if err != nil {
		t.Fatalf("seed schedule %s: %v", id, err)
	}
}
