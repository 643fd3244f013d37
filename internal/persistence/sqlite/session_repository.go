package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/campus-portal/internal/persistence"
)

// SessionRepository persists authentication sessions for all three roles in
// one table keyed by the opaque token.
type SessionRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSessionRepository creates a session repository backed by the pool.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateSession inserts a session row.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	_, err := r.helper.Exec(ctx, `INSERT INTO sessions
		(id, user_id, role, token, expires_at, created_at, updated_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, string(session.Role), session.Token,
		formatTime(session.ExpiresAt), formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt), formatNullableTime(session.RevokedAt),
	)
	if err != nil {
		return persistence.Session{}, r.mapper.MapError(err)
	}
	return session, nil
}

// GetSession looks up a session by token.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	row := r.helper.QueryRow(ctx, `SELECT
			id, user_id, role, token, expires_at, created_at, updated_at, revoked_at
		FROM sessions WHERE token = ?`,
		token,
	)
	session, err := scanSession(row)
	if err != nil {
		return persistence.Session{}, r.mapper.MapError(err)
	}
	return session, nil
}

// RevokeSession stamps a session revoked and returns the updated row.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	var session persistence.Session

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(tx, `UPDATE sessions
			SET revoked_at = ?, updated_at = ?
			WHERE token = ? AND revoked_at IS NULL`,
			formatTime(revokedAt), formatTime(revokedAt), token,
		)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}

		row := r.helper.QueryRowTx(tx, `SELECT
				id, user_id, role, token, expires_at, created_at, updated_at, revoked_at
			FROM sessions WHERE token = ?`,
			token,
		)
		session, err = scanSession(row)
		return err
	})
	if err != nil {
		return persistence.Session{}, r.mapper.MapError(err)
	}
	return session, nil
}

// DeleteExpiredSessions removes sessions that expired before the reference
// time, revoked or not.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.helper.Exec(ctx,
		"DELETE FROM sessions WHERE expires_at < ?", formatTime(reference))
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

func scanSession(row rowScanner) (persistence.Session, error) {
	var session persistence.Session
	var role, expiresAt, createdAt, updatedAt string
	var revokedAt sql.NullString

	if err := row.Scan(
		&session.ID, &session.UserID, &role, &session.Token,
		&expiresAt, &createdAt, &updatedAt, &revokedAt,
	); err != nil {
		return persistence.Session{}, err
	}

	session.Role = persistence.Role(role)
	var err error
	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return persistence.Session{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Session{}, err
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Session{}, err
	}
	if session.RevokedAt, err = parseNullableTime(revokedAt); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}
