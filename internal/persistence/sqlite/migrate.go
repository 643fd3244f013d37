package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one ordered schema step. Statements run inside a single
// transaction together with the schema_migrations bookkeeping row.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "accounts",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS admins (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS teachers (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS students (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				batch TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_students_batch ON students(batch)`,
		},
	},
	{
		version: 2,
		name:    "catalogs",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS classes (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS subjects (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS batches (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL UNIQUE
			)`,
		},
	},
	{
		version: 3,
		name:    "schedules",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS schedules (
				id TEXT PRIMARY KEY,
				class_id TEXT NOT NULL REFERENCES classes(id),
				subject_id TEXT NOT NULL REFERENCES subjects(id),
				teacher_id TEXT NOT NULL REFERENCES teachers(id),
				batch TEXT NOT NULL,
				day_of_week TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				created_at TEXT NOT NULL,
				CHECK (start_time < end_time)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_schedules_teacher_day ON schedules(teacher_id, day_of_week)`,
		},
	},
	{
		version: 4,
		name:    "attendance",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS attendance (
				id TEXT PRIMARY KEY,
				student_id TEXT NOT NULL REFERENCES students(id),
				schedule_id TEXT NOT NULL REFERENCES schedules(id),
				date TEXT NOT NULL,
				status TEXT NOT NULL CHECK (status IN ('Pending', 'Present', 'Denied')),
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				UNIQUE (student_id, schedule_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date)`,
		},
	},
	{
		version: 5,
		name:    "sessions",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				role TEXT NOT NULL,
				token TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				revoked_at TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
		},
	},
}

// Migrate applies pending schema migrations in version order.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := cp.migrationApplied(ctx, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range m.stmts {
				if _, execErr := tx.Exec(stmt); execErr != nil {
					return fmt.Errorf("migration %d (%s): %w", m.version, m.name, execErr)
				}
			}
			if _, execErr := tx.Exec(
				"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
				m.version, m.name,
			); execErr != nil {
				return fmt.Errorf("migration %d (%s): failed to record: %w", m.version, m.name, execErr)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (cp *ConnectionPool) migrationApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := cp.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %d: %w", version, err)
	}
	return count > 0, nil
}
