package main

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/campus-portal/internal/application"
	"github.com/example/campus-portal/internal/config"
	"github.com/example/campus-portal/internal/logging"
	"github.com/example/campus-portal/internal/persistence"
	"github.com/example/campus-portal/internal/persistence/sqlite"
)

func newTestPool(t *testing.T) *sqlite.ConnectionPool {
	t.Helper()

	pool, err := sqlite.NewConnectionPool(filepath.Join(t.TempDir(), "portal.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return pool
}

func TestSeedAdmin(t *testing.T) {
	pool := newTestPool(t)
	repo := sqlite.NewAccountRepository(pool)
	logger := logging.Discard()
	ctx := context.Background()

	cfg := config.Config{
		SeedAdminEmail:    "admin@example.com",
		SeedAdminPassword: "bootstrap-secret",
	}

	idGenerator := func() string { return "admin-seed" }

	if err := seedAdmin(ctx, repo, cfg, idGenerator, logger); err != nil {
		t.Fatalf("seedAdmin failed: %v", err)
	}

	account, err := repo.GetAccountByEmail(ctx, persistence.RoleAdmin, "admin@example.com")
	if err != nil {
		t.Fatalf("seeded admin not found: %v", err)
	}
	if err := application.VerifyPassword(account.PasswordHash, "bootstrap-secret"); err != nil {
		t.Fatalf("seeded password does not verify: %v", err)
	}

	// A second run must not create another admin.
	if err := seedAdmin(ctx, repo, cfg, idGenerator, logger); err != nil {
		t.Fatalf("second seedAdmin failed: %v", err)
	}
	count, err := repo.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 admin after reseeding, got %d", count)
	}
}

func TestSeedAdminSkippedWithoutConfig(t *testing.T) {
	pool := newTestPool(t)
	repo := sqlite.NewAccountRepository(pool)
	logger := logging.Discard()

	if err := seedAdmin(context.Background(), repo, config.Config{}, func() string { return "id" }, logger); err != nil {
		t.Fatalf("seedAdmin failed: %v", err)
	}

	count, err := repo.CountAdmins(context.Background())
	if err != nil {
		t.Fatalf("CountAdmins failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no seeded admins, got %d", count)
	}
}

func TestHealthHandler(t *testing.T) {
	pool := newTestPool(t)
	handler := healthHandler(pool)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 {
		t.Fatalf("expected 200 from healthy storage, got %d", rec.Code)
	}

	_ = pool.Close()
	rec = httptest.NewRecorder()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	handler(rec, httptest.NewRequest("GET", "/healthz", nil).WithContext(ctx))
	if rec.Code != 503 {
		t.Fatalf("expected 503 after closing storage, got %d", rec.Code)
	}
}
