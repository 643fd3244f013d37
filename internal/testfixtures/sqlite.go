package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/campus-portal/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool       *sqlite.ConnectionPool
	Accounts   *sqlite.AccountRepository
	Catalog    *sqlite.CatalogRepository
	Schedules  *sqlite.ScheduleRepository
	Attendance *sqlite.AttendanceRepository
	Sessions   *sqlite.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a harness on a temporary database file that is
// migrated automatically. Cleanup is registered with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "portal.db")

	pool, err := sqlite.NewConnectionPool(path)
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}
	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:       pool,
		Accounts:   sqlite.NewAccountRepository(pool),
		Catalog:    sqlite.NewCatalogRepository(pool),
		Schedules:  sqlite.NewScheduleRepository(pool),
		Attendance: sqlite.NewAttendanceRepository(pool),
		Sessions:   sqlite.NewSessionRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
