package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/campus-portal/internal/persistence"
)

type accountDirectoryStub struct {
	created    []Credentials
	createErr  error
	batchCount int
	countErr   error
	teachers   []Account
	listErr    error
}

func (s *accountDirectoryStub) CreateAccount(ctx context.Context, credentials Credentials) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, credentials)
	return nil
}

func (s *accountDirectoryStub) CountStudentsInBatch(ctx context.Context, batch string) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.batchCount, nil
}

func (s *accountDirectoryStub) ListTeachers(ctx context.Context) ([]Account, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.teachers, nil
}

type batchCatalogStub struct {
	batch Batch
	err   error
}

func (s *batchCatalogStub) GetBatchByName(ctx context.Context, name string) (Batch, error) {
	if s.err != nil {
		return Batch{}, s.err
	}
	return s.batch, nil
}

func stubHasher(password string) (string, error) {
	return "hashed:" + password, nil
}

func validStudentInput() CreateUserInput {
	return CreateUserInput{
		Role:     RoleStudent,
		Name:     "Asha Verma",
		Email:    "asha@example.com",
		Password: "secret",
		Batch:    "CS-2026",
	}
}

func TestAccountService_CreateUser(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	t.Run("provisions a student in an open batch", func(t *testing.T) {
		t.Parallel()

		dir := &accountDirectoryStub{batchCount: 12}
		batches := &batchCatalogStub{batch: Batch{ID: "batch-1", Name: "CS-2026"}}
		svc := NewAccountService(dir, batches, stubHasher, func() string { return "student-1" }, func() time.Time { return now }, 0, nil)

		account, err := svc.CreateUser(context.Background(), adminPrincipal(), validStudentInput())
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if account.ID != "student-1" || account.Batch != "CS-2026" {
			t.Fatalf("unexpected account: %+v", account)
		}
		if len(dir.created) != 1 {
			t.Fatalf("expected one insert, got %d", len(dir.created))
		}
		if dir.created[0].PasswordHash != "hashed:secret" {
			t.Fatalf("password was not hashed: %q", dir.created[0].PasswordHash)
		}
	})

	t.Run("normalizes the email address", func(t *testing.T) {
		t.Parallel()

		dir := &accountDirectoryStub{}
		svc := NewAccountService(dir, &batchCatalogStub{}, stubHasher, nil, nil, 0, nil)

		input := validStudentInput()
		input.Email = "  Asha@Example.COM "

		account, err := svc.CreateUser(context.Background(), adminPrincipal(), input)
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if account.Email != "asha@example.com" {
			t.Fatalf("email not normalized: %q", account.Email)
		}
	})

	t.Run("rejects a full batch", func(t *testing.T) {
		t.Parallel()

		dir := &accountDirectoryStub{batchCount: 60}
		svc := NewAccountService(dir, &batchCatalogStub{}, stubHasher, nil, nil, 60, nil)

		_, err := svc.CreateUser(context.Background(), adminPrincipal(), validStudentInput())
		if !errors.Is(err, ErrBatchFull) {
			t.Fatalf("expected ErrBatchFull, got %v", err)
		}
		var cErr *ConflictError
		if !errors.As(err, &cErr) || cErr.Message != `batch "CS-2026" is full (60 students max)` {
			t.Fatalf("unexpected conflict: %v", err)
		}
		if len(dir.created) != 0 {
			t.Fatal("full batch must not reach the directory")
		}
	})

	t.Run("admits the last seat but not one more", func(t *testing.T) {
		t.Parallel()

		svc := func(count int) *AccountService {
			return NewAccountService(&accountDirectoryStub{batchCount: count}, &batchCatalogStub{}, stubHasher, nil, nil, 60, nil)
		}

		if _, err := svc(59).CreateUser(context.Background(), adminPrincipal(), validStudentInput()); err != nil {
			t.Fatalf("59 of 60: expected success, got %v", err)
		}
		if _, err := svc(60).CreateUser(context.Background(), adminPrincipal(), validStudentInput()); !errors.Is(err, ErrBatchFull) {
			t.Fatalf("60 of 60: expected ErrBatchFull, got %v", err)
		}
	})

	t.Run("rejects an unknown batch", func(t *testing.T) {
		t.Parallel()

		batches := &batchCatalogStub{err: persistence.ErrNotFound}
		svc := NewAccountService(&accountDirectoryStub{}, batches, stubHasher, nil, nil, 0, nil)

		_, err := svc.CreateUser(context.Background(), adminPrincipal(), validStudentInput())
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["batch"]; !ok {
			t.Fatalf("expected batch field error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("teachers carry no batch", func(t *testing.T) {
		t.Parallel()

		dir := &accountDirectoryStub{}
		svc := NewAccountService(dir, &batchCatalogStub{}, stubHasher, func() string { return "teacher-1" }, nil, 0, nil)

		input := CreateUserInput{
			Role:     RoleTeacher,
			Name:     "Ravi Iyer",
			Email:    "ravi@example.com",
			Password: "secret",
			Batch:    "CS-2026",
		}
		account, err := svc.CreateUser(context.Background(), adminPrincipal(), input)
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if account.Batch != "" {
			t.Fatalf("teacher batch = %q, want empty", account.Batch)
		}
	})

	t.Run("collects field errors", func(t *testing.T) {
		t.Parallel()

		svc := NewAccountService(&accountDirectoryStub{}, &batchCatalogStub{}, stubHasher, nil, nil, 0, nil)

		_, err := svc.CreateUser(context.Background(), adminPrincipal(), CreateUserInput{Role: Role("admin"), Email: "not-an-email"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"user_type", "name", "email", "password"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("missing field error for %s: %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("maps duplicate emails to a conflict", func(t *testing.T) {
		t.Parallel()

		dir := &accountDirectoryStub{createErr: fmt.Errorf("%w: accounts.email", persistence.ErrDuplicate)}
		svc := NewAccountService(dir, &batchCatalogStub{}, stubHasher, nil, nil, 0, nil)

		_, err := svc.CreateUser(context.Background(), adminPrincipal(), validStudentInput())
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		t.Parallel()

		svc := NewAccountService(&accountDirectoryStub{}, &batchCatalogStub{}, stubHasher, nil, nil, 0, nil)

		if _, err := svc.CreateUser(context.Background(), teacherPrincipal(), validStudentInput()); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestAccountService_ListTeachers(t *testing.T) {
	t.Parallel()

	dir := &accountDirectoryStub{teachers: []Account{
		{ID: "teacher-1", Name: "Anita Rao", Role: RoleTeacher},
		{ID: "teacher-2", Name: "Ravi Iyer", Role: RoleTeacher},
	}}
	svc := NewAccountService(dir, nil, stubHasher, nil, nil, 0, nil)

	teachers, err := svc.ListTeachers(context.Background(), adminPrincipal())
	if err != nil {
		t.Fatalf("ListTeachers failed: %v", err)
	}
	if len(teachers) != 2 {
		t.Fatalf("expected 2 teachers, got %d", len(teachers))
	}

	if _, err := svc.ListTeachers(context.Background(), teacherPrincipal()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
