package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/campus-portal/internal/persistence"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAccountRepository(pool)
	ctx := context.Background()

	created := persistence.Account{
		ID:           "student-1",
		Role:         persistence.RoleStudent,
		Name:         "Asha Verma",
		Email:        "asha@example.com",
		PasswordHash: "hash",
		Batch:        "CS-2026",
		CreatedAt:    testTime(t, "2026-01-05T08:00:00Z"),
	}
	if err := repo.CreateAccount(ctx, created); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	byEmail, err := repo.GetAccountByEmail(ctx, persistence.RoleStudent, "asha@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail: %v", err)
	}
	if byEmail != created {
		t.Errorf("GetAccountByEmail = %+v, want %+v", byEmail, created)
	}

	byID, err := repo.GetAccount(ctx, persistence.RoleStudent, "student-1")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if byID.Batch != "CS-2026" {
		t.Errorf("GetAccount batch = %q, want CS-2026", byID.Batch)
	}
}

func TestAccountRepository_RoleTablesAreIsolated(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAccountRepository(pool)
	ctx := context.Background()

	seedTeacher(t, pool, "teacher-1", "Ravi Iyer")

	// Same email in a different role table is not a duplicate.
	err := repo.CreateAccount(ctx, persistence.Account{
		ID:           "student-1",
		Role:         persistence.RoleStudent,
		Name:         "Someone Else",
		Email:        "teacher-1@example.com",
		PasswordHash: "hash",
		Batch:        "CS-2026",
		CreatedAt:    testTime(t, "2026-01-05T08:00:00Z"),
	})
	if err != nil {
		t.Fatalf("CreateAccount in other role table: %v", err)
	}

	if _, err := repo.GetAccountByEmail(ctx, persistence.RoleAdmin, "teacher-1@example.com"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("admin lookup error = %v, want ErrNotFound", err)
	}
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAccountRepository(pool)

	seedTeacher(t, pool, "teacher-1", "Ravi Iyer")

	err := repo.CreateAccount(context.Background(), persistence.Account{
		ID:           "teacher-2",
		Role:         persistence.RoleTeacher,
		Name:         "Other Teacher",
		Email:        "teacher-1@example.com",
		PasswordHash: "hash",
		CreatedAt:    testTime(t, "2026-01-05T08:00:00Z"),
	})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Errorf("CreateAccount error = %v, want ErrDuplicate", err)
	}
}

func TestAccountRepository_UnknownRole(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAccountRepository(pool)

	err := repo.CreateAccount(context.Background(), persistence.Account{
		ID:   "x",
		Role: persistence.Role("superuser"),
	})
	if err == nil {
		t.Fatal("CreateAccount with unknown role succeeded, want error")
	}
}

func TestAccountRepository_CountStudentsInBatch(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAccountRepository(pool)
	ctx := context.Background()

	seedStudent(t, pool, "student-1", "Asha Verma", "CS-2026")
	seedStudent(t, pool, "student-2", "Vikram Rao", "CS-2026")
	seedStudent(t, pool, "student-3", "Meera Nair", "EE-2026")

	count, err := repo.CountStudentsInBatch(ctx, "CS-2026")
	if err != nil {
		t.Fatalf("CountStudentsInBatch: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	count, err = repo.CountStudentsInBatch(ctx, "ME-2026")
	if err != nil {
		t.Fatalf("CountStudentsInBatch empty: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestAccountRepository_ListTeachers(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAccountRepository(pool)

	seedTeacher(t, pool, "teacher-2", "Ravi Iyer")
	seedTeacher(t, pool, "teacher-1", "Anita Das")

	teachers, err := repo.ListTeachers(context.Background())
	if err != nil {
		t.Fatalf("ListTeachers: %v", err)
	}
	if len(teachers) != 2 {
		t.Fatalf("len(teachers) = %d, want 2", len(teachers))
	}
	if teachers[0].Name != "Anita Das" || teachers[1].Name != "Ravi Iyer" {
		t.Errorf("teachers not ordered by name: %q, %q", teachers[0].Name, teachers[1].Name)
	}
}

func TestAccountRepository_CountAdmins(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAccountRepository(pool)
	ctx := context.Background()

	count, err := repo.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	err = repo.CreateAccount(ctx, persistence.Account{
		ID:           "admin-1",
		Role:         persistence.RoleAdmin,
		Name:         "Portal Admin",
		Email:        "admin@example.com",
		PasswordHash: "hash",
		CreatedAt:    testTime(t, "2026-01-05T08:00:00Z"),
	})
	if err != nil {
		t.Fatalf("CreateAccount admin: %v", err)
	}

	count, err = repo.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
