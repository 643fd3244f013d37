package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a uniqueness constraint rejects a write.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrConflict is returned when a write loses to an overlapping schedule slot.
	ErrConflict = errors.New("persistence: conflict")
	// ErrForeignKeyViolation is returned when a referenced record blocks the operation.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrConstraintViolation is returned when a check or not-null constraint rejects a write.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
