package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-portal/internal/persistence"
)

// CatalogRepository captures the persistence interactions for classes,
// subjects and batches.
type CatalogRepository interface {
	AddClass(ctx context.Context, class Class) error
	RemoveClass(ctx context.Context, id string) error
	ListClasses(ctx context.Context) ([]Class, error)
	AddSubject(ctx context.Context, subject Subject) error
	RemoveSubject(ctx context.Context, id string) error
	ListSubjects(ctx context.Context) ([]Subject, error)
	AddBatch(ctx context.Context, batch Batch) error
	RemoveBatch(ctx context.Context, id string) error
	GetBatch(ctx context.Context, id string) (Batch, error)
	ListBatches(ctx context.Context) ([]Batch, error)
	BatchInUse(ctx context.Context, name string) (bool, error)
}

// CatalogService manages the class, subject and batch catalogs.
type CatalogService struct {
	catalog     CatalogRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCatalogService wires dependencies for catalog operations.
func NewCatalogService(catalog CatalogRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CatalogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CatalogService{
		catalog:     catalog,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, attrs...)
}

// AddClass inserts a class catalog entry.
func (s *CatalogService) AddClass(ctx context.Context, principal Principal, name string) (Class, error) {
	if err := s.requireAdmin(principal); err != nil {
		return Class{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Class{}, requiredField("class_name", "class name is required")
	}

	class := Class{ID: s.idGenerator(), Name: name}
	if err := s.catalog.AddClass(ctx, class); err != nil {
		return Class{}, mapCatalogRepoError(err, fmt.Sprintf("class %q already exists", name))
	}
	s.loggerWith(ctx, "AddClass", "class_id", class.ID).InfoContext(ctx, "class added")
	return class, nil
}

// RemoveClass deletes a class; a class still referenced by schedules is
// rejected by the store's foreign key constraint.
func (s *CatalogService) RemoveClass(ctx context.Context, principal Principal, id string) error {
	if err := s.requireAdmin(principal); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return requiredField("class_id", "class id is required")
	}

	if err := s.catalog.RemoveClass(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrForeignKeyViolation) {
			return conflict(ErrEntityInUse, "cannot remove: this class is used in existing schedules")
		}
		return mapCatalogRepoError(err, "")
	}
	s.loggerWith(ctx, "RemoveClass", "class_id", id).InfoContext(ctx, "class removed")
	return nil
}

// ListClasses returns the class catalog ordered by name.
func (s *CatalogService) ListClasses(ctx context.Context, principal Principal) ([]Class, error) {
	if err := s.requireAdmin(principal); err != nil {
		return nil, err
	}
	classes, err := s.catalog.ListClasses(ctx)
	if err != nil {
		return nil, mapCatalogRepoError(err, "")
	}
	return classes, nil
}

// AddSubject inserts a subject catalog entry.
func (s *CatalogService) AddSubject(ctx context.Context, principal Principal, name string) (Subject, error) {
	if err := s.requireAdmin(principal); err != nil {
		return Subject{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Subject{}, requiredField("subject_name", "subject name is required")
	}

	subject := Subject{ID: s.idGenerator(), Name: name}
	if err := s.catalog.AddSubject(ctx, subject); err != nil {
		return Subject{}, mapCatalogRepoError(err, fmt.Sprintf("subject %q already exists", name))
	}
	s.loggerWith(ctx, "AddSubject", "subject_id", subject.ID).InfoContext(ctx, "subject added")
	return subject, nil
}

// RemoveSubject deletes a subject; one still referenced by schedules is
// rejected by the store's foreign key constraint.
func (s *CatalogService) RemoveSubject(ctx context.Context, principal Principal, id string) error {
	if err := s.requireAdmin(principal); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return requiredField("subject_id", "subject id is required")
	}

	if err := s.catalog.RemoveSubject(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrForeignKeyViolation) {
			return conflict(ErrEntityInUse, "cannot remove: this subject is used in existing schedules")
		}
		return mapCatalogRepoError(err, "")
	}
	s.loggerWith(ctx, "RemoveSubject", "subject_id", id).InfoContext(ctx, "subject removed")
	return nil
}

// ListSubjects returns the subject catalog ordered by name.
func (s *CatalogService) ListSubjects(ctx context.Context, principal Principal) ([]Subject, error) {
	if err := s.requireAdmin(principal); err != nil {
		return nil, err
	}
	subjects, err := s.catalog.ListSubjects(ctx)
	if err != nil {
		return nil, mapCatalogRepoError(err, "")
	}
	return subjects, nil
}

// AddBatch inserts a batch catalog entry.
func (s *CatalogService) AddBatch(ctx context.Context, principal Principal, name string) (Batch, error) {
	if err := s.requireAdmin(principal); err != nil {
		return Batch{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Batch{}, requiredField("batch_name", "batch name is required")
	}

	batch := Batch{ID: s.idGenerator(), Name: name}
	if err := s.catalog.AddBatch(ctx, batch); err != nil {
		return Batch{}, mapCatalogRepoError(err, fmt.Sprintf("batch %q already exists", name))
	}
	s.loggerWith(ctx, "AddBatch", "batch_id", batch.ID).InfoContext(ctx, "batch added")
	return batch, nil
}

// RemoveBatch deletes a batch after explicitly confirming no student or
// schedule still references its name.
func (s *CatalogService) RemoveBatch(ctx context.Context, principal Principal, id string) error {
	if err := s.requireAdmin(principal); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return requiredField("batch_id", "batch id is required")
	}

	batch, err := s.catalog.GetBatch(ctx, id)
	if err != nil {
		return mapCatalogRepoError(err, "")
	}

	inUse, err := s.catalog.BatchInUse(ctx, batch.Name)
	if err != nil {
		return mapCatalogRepoError(err, "")
	}
	if inUse {
		return conflict(ErrEntityInUse, "cannot remove: this batch is in use by students or schedules")
	}

	if err := s.catalog.RemoveBatch(ctx, id); err != nil {
		return mapCatalogRepoError(err, "")
	}
	s.loggerWith(ctx, "RemoveBatch", "batch_id", id).InfoContext(ctx, "batch removed")
	return nil
}

// ListBatches returns the batch catalog ordered by name.
func (s *CatalogService) ListBatches(ctx context.Context, principal Principal) ([]Batch, error) {
	if err := s.requireAdmin(principal); err != nil {
		return nil, err
	}
	batches, err := s.catalog.ListBatches(ctx)
	if err != nil {
		return nil, mapCatalogRepoError(err, "")
	}
	return batches, nil
}

func (s *CatalogService) requireAdmin(principal Principal) error {
	if s == nil {
		return fmt.Errorf("CatalogService is nil")
	}
	if s.catalog == nil {
		return fmt.Errorf("catalog repository not configured")
	}
	if principal.Role != RoleAdmin {
		return ErrUnauthorized
	}
	return nil
}

func requiredField(field, message string) error {
	vErr := &ValidationError{}
	vErr.add(field, message)
	return vErr
}

func mapCatalogRepoError(err error, duplicateMessage string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		if duplicateMessage == "" {
			duplicateMessage = "record already exists"
		}
		return conflict(ErrAlreadyExists, duplicateMessage)
	}
	return err
}
