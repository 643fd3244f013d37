package sqlite

import (
	"context"
	"fmt"

	"github.com/example/campus-portal/internal/persistence"
)

// roleTables is the closed mapping from role to account table. Queries build
// table names from this map only, never from request input.
var roleTables = map[persistence.Role]string{
	persistence.RoleAdmin:   "admins",
	persistence.RoleTeacher: "teachers",
	persistence.RoleStudent: "students",
}

// AccountRepository persists admin, teacher and student accounts, one table
// per role.
type AccountRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAccountRepository creates an account repository backed by the pool.
func NewAccountRepository(pool *ConnectionPool) *AccountRepository {
	return &AccountRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

func roleTable(role persistence.Role) (string, error) {
	table, ok := roleTables[role]
	if !ok {
		return "", fmt.Errorf("unknown role %q", role)
	}
	return table, nil
}

// CreateAccount inserts an account into its role's table. A duplicate email
// surfaces as ErrDuplicate.
func (r *AccountRepository) CreateAccount(ctx context.Context, account persistence.Account) error {
	table, err := roleTable(account.Role)
	if err != nil {
		return err
	}

	if account.Role == persistence.RoleStudent {
		_, err = r.helper.Exec(ctx, fmt.Sprintf(
			"INSERT INTO %s (id, name, email, password_hash, batch, created_at) VALUES (?, ?, ?, ?, ?, ?)", table),
			account.ID, account.Name, account.Email, account.PasswordHash, account.Batch, formatTime(account.CreatedAt),
		)
	} else {
		_, err = r.helper.Exec(ctx, fmt.Sprintf(
			"INSERT INTO %s (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)", table),
			account.ID, account.Name, account.Email, account.PasswordHash, formatTime(account.CreatedAt),
		)
	}
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetAccountByEmail looks up an account by email within one role's table.
func (r *AccountRepository) GetAccountByEmail(ctx context.Context, role persistence.Role, email string) (persistence.Account, error) {
	table, err := roleTable(role)
	if err != nil {
		return persistence.Account{}, err
	}

	query := fmt.Sprintf("SELECT id, name, email, password_hash, created_at FROM %s WHERE email = ?", table)
	if role == persistence.RoleStudent {
		query = "SELECT id, name, email, password_hash, batch, created_at FROM students WHERE email = ?"
	}
	return r.scanAccount(r.helper.QueryRow(ctx, query, email), role)
}

// GetAccount looks up an account by id within one role's table.
func (r *AccountRepository) GetAccount(ctx context.Context, role persistence.Role, id string) (persistence.Account, error) {
	table, err := roleTable(role)
	if err != nil {
		return persistence.Account{}, err
	}

	query := fmt.Sprintf("SELECT id, name, email, password_hash, created_at FROM %s WHERE id = ?", table)
	if role == persistence.RoleStudent {
		query = "SELECT id, name, email, password_hash, batch, created_at FROM students WHERE id = ?"
	}
	return r.scanAccount(r.helper.QueryRow(ctx, query, id), role)
}

// ListTeachers returns all teacher accounts ordered by name.
func (r *AccountRepository) ListTeachers(ctx context.Context) ([]persistence.Account, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT id, name, email, password_hash, created_at FROM teachers ORDER BY name, id")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var teachers []persistence.Account
	for rows.Next() {
		var account persistence.Account
		var createdAt string
		if err := rows.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &createdAt); err != nil {
			return nil, r.mapper.MapError(err)
		}
		account.Role = persistence.RoleTeacher
		if account.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		teachers = append(teachers, account)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return teachers, nil
}

// CountStudentsInBatch returns how many students are enrolled in a batch.
func (r *AccountRepository) CountStudentsInBatch(ctx context.Context, batch string) (int, error) {
	var count int
	err := r.helper.QueryRow(ctx,
		"SELECT COUNT(*) FROM students WHERE batch = ?", batch,
	).Scan(&count)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

// CountAdmins returns how many admin accounts exist.
func (r *AccountRepository) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.helper.QueryRow(ctx, "SELECT COUNT(*) FROM admins").Scan(&count)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AccountRepository) scanAccount(row rowScanner, role persistence.Role) (persistence.Account, error) {
	var account persistence.Account
	var createdAt string
	var err error

	if role == persistence.RoleStudent {
		err = row.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &account.Batch, &createdAt)
	} else {
		err = row.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &createdAt)
	}
	if err != nil {
		return persistence.Account{}, r.mapper.MapError(err)
	}

	account.Role = role
	if account.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Account{}, err
	}
	return account, nil
}
