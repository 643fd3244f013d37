package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/campus-portal/internal/persistence"
)

func TestCatalogRepository_AddListRemove(t *testing.T) {
	pool := newTestPool(t)
	repo := NewCatalogRepository(pool)
	ctx := context.Background()

	if err := repo.AddClass(ctx, persistence.Class{ID: "class-2", Name: "Room 202"}); err != nil {
		t.Fatalf("AddClass: %v", err)
	}
	if err := repo.AddClass(ctx, persistence.Class{ID: "class-1", Name: "Room 101"}); err != nil {
		t.Fatalf("AddClass: %v", err)
	}

	classes, err := repo.ListClasses(ctx)
	if err != nil {
		t.Fatalf("ListClasses: %v", err)
	}
	if len(classes) != 2 || classes[0].Name != "Room 101" {
		t.Errorf("ListClasses = %+v, want Room 101 first", classes)
	}

	if err := repo.RemoveClass(ctx, "class-2"); err != nil {
		t.Fatalf("RemoveClass: %v", err)
	}
	if err := repo.RemoveClass(ctx, "class-2"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("RemoveClass missing error = %v, want ErrNotFound", err)
	}
}

func TestCatalogRepository_DuplicateName(t *testing.T) {
	pool := newTestPool(t)
	repo := NewCatalogRepository(pool)
	ctx := context.Background()

	if err := repo.AddSubject(ctx, persistence.Subject{ID: "subject-1", Name: "Mathematics"}); err != nil {
		t.Fatalf("AddSubject: %v", err)
	}
	err := repo.AddSubject(ctx, persistence.Subject{ID: "subject-2", Name: "Mathematics"})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Errorf("AddSubject duplicate error = %v, want ErrDuplicate", err)
	}
}

func TestCatalogRepository_RemoveClassInUse(t *testing.T) {
	pool := newTestPool(t)
	repo := NewCatalogRepository(pool)

	seedTeacher(t, pool, "teacher-1", "Ravi Iyer")
	seedCatalog(t, pool)
	seedSchedule(t, pool, "schedule-1", "teacher-1", "Monday", "10:00", "11:00")

	err := repo.RemoveClass(context.Background(), "class-1")
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Errorf("RemoveClass error = %v, want ErrForeignKeyViolation", err)
	}
}

func TestCatalogRepository_GetBatchByName(t *testing.T) {
	pool := newTestPool(t)
	repo := NewCatalogRepository(pool)
	ctx := context.Background()

	seedCatalog(t, pool)

	batch, err := repo.GetBatchByName(ctx, "CS-2026")
	if err != nil {
		t.Fatalf("GetBatchByName: %v", err)
	}
	if batch.ID != "batch-1" {
		t.Errorf("batch.ID = %q, want batch-1", batch.ID)
	}

	if _, err := repo.GetBatchByName(ctx, "EE-2026"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("GetBatchByName missing error = %v, want ErrNotFound", err)
	}
}

func TestCatalogRepository_BatchInUse(t *testing.T) {
	pool := newTestPool(t)
	repo := NewCatalogRepository(pool)
	ctx := context.Background()

	seedCatalog(t, pool)

	inUse, err := repo.BatchInUse(ctx, "CS-2026")
	if err != nil {
		t.Fatalf("BatchInUse: %v", err)
	}
	if inUse {
		t.Error("BatchInUse = true for unused batch")
	}

	seedStudent(t, pool, "student-1", "Asha Verma", "CS-2026")

	inUse, err = repo.BatchInUse(ctx, "CS-2026")
	if err != nil {
		t.Fatalf("BatchInUse: %v", err)
	}
	if !inUse {
		t.Error("BatchInUse = false with enrolled student")
	}
}

func TestCatalogRepository_BatchInUseBySchedule(t *testing.T) {
	pool := newTestPool(t)
	repo := NewCatalogRepository(pool)

	seedTeacher(t, pool, "teacher-1", "Ravi Iyer")
	seedCatalog(t, pool)
	seedSchedule(t, pool, "schedule-1", "teacher-1", "Monday", "10:00", "11:00")

	inUse, err := repo.BatchInUse(context.Background(), "CS-2026")
	if err != nil {
		t.Fatalf("BatchInUse: %v", err)
	}
	if !inUse {
		t.Error("BatchInUse = false with referencing schedule")
	}
}
