package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/campus-portal/internal/persistence"
)

type catalogRepositoryStub struct {
	classes  []Class
	subjects []Subject
	batches  []Batch

	addErr    error
	removeErr error
	removedID string

	batch       Batch
	getBatchErr error
	inUse       bool
	inUseErr    error
	inUseName   string
}

func (s *catalogRepositoryStub) AddClass(ctx context.Context, class Class) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.classes = append(s.classes, class)
	return nil
}

func (s *catalogRepositoryStub) RemoveClass(ctx context.Context, id string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removedID = id
	return nil
}

func (s *catalogRepositoryStub) ListClasses(ctx context.Context) ([]Class, error) {
	return s.classes, nil
}

func (s *catalogRepositoryStub) AddSubject(ctx context.Context, subject Subject) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.subjects = append(s.subjects, subject)
	return nil
}

func (s *catalogRepositoryStub) RemoveSubject(ctx context.Context, id string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removedID = id
	return nil
}

func (s *catalogRepositoryStub) ListSubjects(ctx context.Context) ([]Subject, error) {
	return s.subjects, nil
}

func (s *catalogRepositoryStub) AddBatch(ctx context.Context, batch Batch) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.batches = append(s.batches, batch)
	return nil
}

func (s *catalogRepositoryStub) RemoveBatch(ctx context.Context, id string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removedID = id
	return nil
}

func (s *catalogRepositoryStub) GetBatch(ctx context.Context, id string) (Batch, error) {
	if s.getBatchErr != nil {
		return Batch{}, s.getBatchErr
	}
	return s.batch, nil
}

func (s *catalogRepositoryStub) ListBatches(ctx context.Context) ([]Batch, error) {
	return s.batches, nil
}

func (s *catalogRepositoryStub) BatchInUse(ctx context.Context, name string) (bool, error) {
	s.inUseName = name
	if s.inUseErr != nil {
		return false, s.inUseErr
	}
	return s.inUse, nil
}

func TestCatalogService_AddClass(t *testing.T) {
	t.Parallel()

	t.Run("inserts trimmed names", func(t *testing.T) {
		t.Parallel()

		repo := &catalogRepositoryStub{}
		svc := NewCatalogService(repo, func() string { return "class-1" }, nil, nil)

		class, err := svc.AddClass(context.Background(), adminPrincipal(), "  Room 101  ")
		if err != nil {
			t.Fatalf("AddClass failed: %v", err)
		}
		if class.ID != "class-1" || class.Name != "Room 101" {
			t.Fatalf("unexpected class: %+v", class)
		}
	})

	t.Run("maps duplicates to a named conflict", func(t *testing.T) {
		t.Parallel()

		repo := &catalogRepositoryStub{addErr: persistence.ErrDuplicate}
		svc := NewCatalogService(repo, nil, nil, nil)

		_, err := svc.AddClass(context.Background(), adminPrincipal(), "Room 101")
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		var cErr *ConflictError
		if !errors.As(err, &cErr) || cErr.Message != `class "Room 101" already exists` {
			t.Fatalf("unexpected conflict: %v", err)
		}
	})

	t.Run("rejects blank names", func(t *testing.T) {
		t.Parallel()

		svc := NewCatalogService(&catalogRepositoryStub{}, nil, nil, nil)

		_, err := svc.AddClass(context.Background(), adminPrincipal(), "   ")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		t.Parallel()

		svc := NewCatalogService(&catalogRepositoryStub{}, nil, nil, nil)

		if _, err := svc.AddClass(context.Background(), teacherPrincipal(), "Room 101"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestCatalogService_RemoveClass(t *testing.T) {
	t.Parallel()

	t.Run("deletes by id", func(t *testing.T) {
		t.Parallel()

		repo := &catalogRepositoryStub{}
		svc := NewCatalogService(repo, nil, nil, nil)

		if err := svc.RemoveClass(context.Background(), adminPrincipal(), "class-1"); err != nil {
			t.Fatalf("RemoveClass failed: %v", err)
		}
		if repo.removedID != "class-1" {
			t.Fatalf("unexpected removed id: %q", repo.removedID)
		}
	})

	t.Run("maps referenced classes to an in-use conflict", func(t *testing.T) {
		t.Parallel()

		repo := &catalogRepositoryStub{removeErr: persistence.ErrForeignKeyViolation}
		svc := NewCatalogService(repo, nil, nil, nil)

		err := svc.RemoveClass(context.Background(), adminPrincipal(), "class-1")
		if !errors.Is(err, ErrEntityInUse) {
			t.Fatalf("expected ErrEntityInUse, got %v", err)
		}
		var cErr *ConflictError
		if !errors.As(err, &cErr) || cErr.Message != "cannot remove: this class is used in existing schedules" {
			t.Fatalf("unexpected conflict: %v", err)
		}
	})

	t.Run("maps missing classes to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		repo := &catalogRepositoryStub{removeErr: persistence.ErrNotFound}
		svc := NewCatalogService(repo, nil, nil, nil)

		if err := svc.RemoveClass(context.Background(), adminPrincipal(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCatalogService_Subjects(t *testing.T) {
	t.Parallel()

	t.Run("add and list", func(t *testing.T) {
		t.Parallel()

		repo := &catalogRepositoryStub{}
		svc := NewCatalogService(repo, func() string { return "subject-1" }, nil, nil)

		if _, err := svc.AddSubject(context.Background(), adminPrincipal(), "Mathematics"); err != nil {
			t.Fatalf("AddSubject failed: %v", err)
		}
		subjects, err := svc.ListSubjects(context.Background(), adminPrincipal())
		if err != nil {
			t.Fatalf("ListSubjects failed: %v", err)
		}
		if len(subjects) != 1 || subjects[0].Name != "Mathematics" {
			t.Fatalf("unexpected subjects: %+v", subjects)
		}
	})

	t.Run("referenced subjects cannot be removed", func(t *testing.T) {
		t.Parallel()

		repo := &catalogRepositoryStub{removeErr: persistence.ErrForeignKeyViolation}
		svc := NewCatalogService(repo, nil, nil, nil)

		if err := svc.RemoveSubject(context.Background(), adminPrincipal(), "subject-1"); !errors.Is(err, ErrEntityInUse) {
			t.Fatalf("expected ErrEntityInUse, got %v", err)
		}
	})
}

func TestCatalogService_RemoveBatch(t *testing.T) {
	t.Parallel()

	t.Run("deletes an unused batch", func(t *testing.T) {
		t.Parallel()

		repo := &catalogRepositoryStub{batch: Batch{ID: "batch-1", Name: "CS-2026"}}
		svc := NewCatalogService(repo, nil, nil, nil)

		if err := svc.RemoveBatch(context.Background(), adminPrincipal(), "batch-1"); err != nil {
			t.Fatalf("RemoveBatch failed: %v", err)
		}
		if repo.inUseName != "CS-2026" {
			t.Fatalf("expected in-use check by name, got %q", repo.inUseName)
		}
		if repo.removedID != "batch-1" {
			t.Fatalf("unexpected removed id: %q", repo.removedID)
		}
	})

	t.Run("rejects a batch with students or schedules", func(t *testing.T) {
		t.Parallel()

		repo := &catalogRepositoryStub{batch: Batch{ID: "batch-1", Name: "CS-2026"}, inUse: true}
		svc := NewCatalogService(repo, nil, nil, nil)

		err := svc.RemoveBatch(context.Background(), adminPrincipal(), "batch-1")
		if !errors.Is(err, ErrEntityInUse) {
			t.Fatalf("expected ErrEntityInUse, got %v", err)
		}
		if repo.removedID != "" {
			t.Fatal("in-use batch must not be deleted")
		}
	})

	t.Run("maps unknown batches to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		repo := &catalogRepositoryStub{getBatchErr: persistence.ErrNotFound}
		svc := NewCatalogService(repo, nil, nil, nil)

		if err := svc.RemoveBatch(context.Background(), adminPrincipal(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCatalogService_ListsRequireAdmin(t *testing.T) {
	t.Parallel()

	svc := NewCatalogService(&catalogRepositoryStub{}, nil, nil, nil)
	principal := studentPrincipal()

	if _, err := svc.ListClasses(context.Background(), principal); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ListClasses: expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.ListSubjects(context.Background(), principal); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ListSubjects: expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.ListBatches(context.Background(), principal); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ListBatches: expected ErrUnauthorized, got %v", err)
	}
}
