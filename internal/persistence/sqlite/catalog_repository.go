package sqlite

import (
	"context"

	"github.com/example/campus-portal/internal/persistence"
)

// CatalogRepository persists the class, subject and batch catalogs. The three
// tables share the same shape, so the CRUD goes through table-parameterized
// helpers over a closed set of names.
type CatalogRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewCatalogRepository creates a catalog repository backed by the pool.
func NewCatalogRepository(pool *ConnectionPool) *CatalogRepository {
	return &CatalogRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

type namedEntry struct {
	ID   string
	Name string
}

func (r *CatalogRepository) addEntry(ctx context.Context, query string, entry namedEntry) error {
	if _, err := r.helper.Exec(ctx, query, entry.ID, entry.Name); err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

func (r *CatalogRepository) removeEntry(ctx context.Context, query, id string) error {
	result, err := r.helper.Exec(ctx, query, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return r.mapper.MapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) listEntries(ctx context.Context, query string) ([]namedEntry, error) {
	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var entries []namedEntry
	for rows.Next() {
		var entry namedEntry
		if err := rows.Scan(&entry.ID, &entry.Name); err != nil {
			return nil, r.mapper.MapError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return entries, nil
}

// AddClass inserts a class. A duplicate name surfaces as ErrDuplicate.
func (r *CatalogRepository) AddClass(ctx context.Context, class persistence.Class) error {
	return r.addEntry(ctx, "INSERT INTO classes (id, name) VALUES (?, ?)", namedEntry(class))
}

// RemoveClass deletes a class by id. A class still referenced by schedules
// surfaces as ErrForeignKeyViolation.
func (r *CatalogRepository) RemoveClass(ctx context.Context, id string) error {
	return r.removeEntry(ctx, "DELETE FROM classes WHERE id = ?", id)
}

// ListClasses returns all classes ordered by name.
func (r *CatalogRepository) ListClasses(ctx context.Context) ([]persistence.Class, error) {
	entries, err := r.listEntries(ctx, "SELECT id, name FROM classes ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	classes := make([]persistence.Class, len(entries))
	for i, entry := range entries {
		classes[i] = persistence.Class(entry)
	}
	return classes, nil
}

// AddSubject inserts a subject. A duplicate name surfaces as ErrDuplicate.
func (r *CatalogRepository) AddSubject(ctx context.Context, subject persistence.Subject) error {
	return r.addEntry(ctx, "INSERT INTO subjects (id, name) VALUES (?, ?)", namedEntry(subject))
}

// RemoveSubject deletes a subject by id. A subject still referenced by
// schedules surfaces as ErrForeignKeyViolation.
func (r *CatalogRepository) RemoveSubject(ctx context.Context, id string) error {
	return r.removeEntry(ctx, "DELETE FROM subjects WHERE id = ?", id)
}

// ListSubjects returns all subjects ordered by name.
func (r *CatalogRepository) ListSubjects(ctx context.Context) ([]persistence.Subject, error) {
	entries, err := r.listEntries(ctx, "SELECT id, name FROM subjects ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	subjects := make([]persistence.Subject, len(entries))
	for i, entry := range entries {
		subjects[i] = persistence.Subject(entry)
	}
	return subjects, nil
}

// AddBatch inserts a batch. A duplicate name surfaces as ErrDuplicate.
func (r *CatalogRepository) AddBatch(ctx context.Context, batch persistence.Batch) error {
	return r.addEntry(ctx, "INSERT INTO batches (id, name) VALUES (?, ?)", namedEntry(batch))
}

// RemoveBatch deletes a batch by id. Callers check BatchInUse first because
// students and schedules reference batches by name, not by foreign key.
func (r *CatalogRepository) RemoveBatch(ctx context.Context, id string) error {
	return r.removeEntry(ctx, "DELETE FROM batches WHERE id = ?", id)
}

// GetBatch looks up a batch by id.
func (r *CatalogRepository) GetBatch(ctx context.Context, id string) (persistence.Batch, error) {
	var batch persistence.Batch
	err := r.helper.QueryRow(ctx, "SELECT id, name FROM batches WHERE id = ?", id).
		Scan(&batch.ID, &batch.Name)
	if err != nil {
		return persistence.Batch{}, r.mapper.MapError(err)
	}
	return batch, nil
}

// GetBatchByName looks up a batch by its unique name.
func (r *CatalogRepository) GetBatchByName(ctx context.Context, name string) (persistence.Batch, error) {
	var batch persistence.Batch
	err := r.helper.QueryRow(ctx, "SELECT id, name FROM batches WHERE name = ?", name).
		Scan(&batch.ID, &batch.Name)
	if err != nil {
		return persistence.Batch{}, r.mapper.MapError(err)
	}
	return batch, nil
}

// ListBatches returns all batches ordered by name.
func (r *CatalogRepository) ListBatches(ctx context.Context) ([]persistence.Batch, error) {
	entries, err := r.listEntries(ctx, "SELECT id, name FROM batches ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	batches := make([]persistence.Batch, len(entries))
	for i, entry := range entries {
		batches[i] = persistence.Batch(entry)
	}
	return batches, nil
}

// BatchInUse reports whether any student or schedule still references the
// batch name.
func (r *CatalogRepository) BatchInUse(ctx context.Context, name string) (bool, error) {
	var inUse bool
	err := r.helper.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM students WHERE batch = ?
		UNION
		SELECT 1 FROM schedules WHERE batch = ?
	)`, name, name).Scan(&inUse)
	if err != nil {
		return false, r.mapper.MapError(err)
	}
	return inUse, nil
}
