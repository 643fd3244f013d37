package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a uniqueness rule rejects a write.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrScheduleConflict is returned when a slot would double-book a teacher.
	ErrScheduleConflict = errors.New("application: schedule conflict")
	// ErrEntityInUse is returned when a referenced record blocks removal.
	ErrEntityInUse = errors.New("application: entity in use")
	// ErrBatchFull is returned when a batch has reached its student capacity.
	ErrBatchFull = errors.New("application: batch full")
	// ErrInvalidCredentials is returned when login credentials do not match an account.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned when a session token has passed its expiry.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a session token was revoked by logout.
	ErrSessionRevoked = errors.New("application: session revoked")
)

// ConflictError pairs a conflict sentinel with the human-readable message the
// request boundary should surface.
type ConflictError struct {
	Reason  error
	Message string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" && e.Reason != nil {
		return e.Reason.Error()
	}
	return e.Message
}

// Unwrap exposes the sentinel so callers can match with errors.Is.
func (e *ConflictError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Reason
}

func conflict(reason error, message string) error {
	return &ConflictError{Reason: reason, Message: message}
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
