package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/campus-portal/internal/persistence"
)

// DefaultBatchCapacity caps how many students may share a batch.
const DefaultBatchCapacity = 60

// AccountDirectory captures the persistence interactions for accounts.
type AccountDirectory interface {
	CreateAccount(ctx context.Context, credentials Credentials) error
	CountStudentsInBatch(ctx context.Context, batch string) (int, error)
	ListTeachers(ctx context.Context) ([]Account, error)
}

// BatchCatalog resolves batch names during student provisioning.
type BatchCatalog interface {
	GetBatchByName(ctx context.Context, name string) (Batch, error)
}

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// AccountService provisions student and teacher accounts.
type AccountService struct {
	accounts      AccountDirectory
	batches       BatchCatalog
	hashPassword  PasswordHasher
	idGenerator   func() string
	now           func() time.Time
	batchCapacity int
	logger        *slog.Logger
}

// NewAccountService wires dependencies for account provisioning.
func NewAccountService(accounts AccountDirectory, batches BatchCatalog, hash PasswordHasher, idGenerator func() string, now func() time.Time, batchCapacity int, logger *slog.Logger) *AccountService {
	if hash == nil {
		hash = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if batchCapacity <= 0 {
		batchCapacity = DefaultBatchCapacity
	}
	return &AccountService{
		accounts:      accounts,
		batches:       batches,
		hashPassword:  hash,
		idGenerator:   idGenerator,
		now:           now,
		batchCapacity: batchCapacity,
		logger:        defaultLogger(logger),
	}
}

func (s *AccountService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AccountService", operation, attrs...)
}

// CreateUser provisions a student or teacher account. Students must name an
// existing batch with spare capacity.
func (s *AccountService) CreateUser(ctx context.Context, principal Principal, input CreateUserInput) (account Account, err error) {
	if s == nil {
		err = fmt.Errorf("AccountService is nil")
		return
	}
	if s.accounts == nil {
		err = fmt.Errorf("account directory not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateUser", "role", string(input.Role))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "user creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", account.ID).InfoContext(ctx, "user created")
	}()

	if principal.Role != RoleAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := &ValidationError{}
	if input.Role != RoleStudent && input.Role != RoleTeacher {
		vErr.add("user_type", "user type must be student or teacher")
	}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, mailErr := mail.ParseAddress(email); mailErr != nil {
		vErr.add("email", "email is invalid")
	}
	if input.Password == "" {
		vErr.add("password", "password is required")
	}
	batch := strings.TrimSpace(input.Batch)
	if input.Role == RoleStudent && batch == "" {
		vErr.add("batch", "batch is required for students")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if input.Role == RoleStudent {
		if s.batches != nil {
			if _, batchErr := s.batches.GetBatchByName(ctx, batch); batchErr != nil {
				if errors.Is(batchErr, persistence.ErrNotFound) || errors.Is(batchErr, ErrNotFound) {
					err = requiredField("batch", fmt.Sprintf("batch %q does not exist", batch))
					return
				}
				err = batchErr
				return
			}
		}

		var count int
		count, err = s.accounts.CountStudentsInBatch(ctx, batch)
		if err != nil {
			return
		}
		if count >= s.batchCapacity {
			err = conflict(ErrBatchFull, fmt.Sprintf("batch %q is full (%d students max)", batch, s.batchCapacity))
			return
		}
	} else {
		batch = ""
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return
	}

	account = Account{
		ID:        s.idGenerator(),
		Role:      input.Role,
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Batch:     batch,
		CreatedAt: s.now(),
	}

	if err = s.accounts.CreateAccount(ctx, Credentials{Account: account, PasswordHash: hash}); err != nil {
		account = Account{}
		if errors.Is(err, persistence.ErrDuplicate) {
			err = conflict(ErrAlreadyExists, fmt.Sprintf("email %q already exists", email))
		}
		return
	}
	return
}

// ListTeachers returns teacher accounts ordered by name.
func (s *AccountService) ListTeachers(ctx context.Context, principal Principal) ([]Account, error) {
	if s == nil {
		return nil, fmt.Errorf("AccountService is nil")
	}
	if s.accounts == nil {
		return nil, fmt.Errorf("account directory not configured")
	}
	if principal.Role != RoleAdmin {
		return nil, ErrUnauthorized
	}

	teachers, err := s.accounts.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	return teachers, nil
}
