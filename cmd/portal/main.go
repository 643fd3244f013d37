package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/campus-portal/internal/application"
	"github.com/example/campus-portal/internal/attendlog"
	"github.com/example/campus-portal/internal/config"
	httptransport "github.com/example/campus-portal/internal/http"
	"github.com/example/campus-portal/internal/persistence"
	"github.com/example/campus-portal/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := func() string { return uuid.NewString() }
	tokenGenerator := func() string { return uuid.NewString() }
	now := time.Now

	accountRepo := sqlite.NewAccountRepository(pool)
	catalogRepo := sqlite.NewCatalogRepository(pool)
	scheduleRepo := sqlite.NewScheduleRepository(pool)
	attendanceRepo := sqlite.NewAttendanceRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)

	if err := seedAdmin(context.Background(), accountRepo, cfg, idGenerator, logger); err != nil {
		logger.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	mirror := attendlog.NewFileMirror(cfg.AttendanceLogPath)

	credentialStore := newCredentialStoreAdapter(accountRepo)
	accountDirectory := newAccountDirectoryAdapter(accountRepo)
	catalogAdapter := newCatalogRepositoryAdapter(catalogRepo)
	scheduleAdapter := newScheduleRepositoryAdapter(scheduleRepo)
	attendanceAdapter := newAttendanceRepositoryAdapter(attendanceRepo)
	sessionAdapter := newSessionRepositoryAdapter(sessionRepo)

	authService := application.NewAuthService(credentialStore, sessionAdapter, nil, tokenGenerator, now, cfg.SessionTTL, logger)
	accountService := application.NewAccountService(accountDirectory, catalogAdapter, nil, idGenerator, now, cfg.BatchCapacity, logger)
	catalogService := application.NewCatalogService(catalogAdapter, idGenerator, now, logger)
	scheduleService := application.NewScheduleService(scheduleAdapter, idGenerator, now, logger)
	attendanceService := application.NewAttendanceService(attendanceAdapter, mirror, idGenerator, now, logger)

	adminAuth := httptransport.NewAuthHandler(authService, application.RoleAdmin, logger)
	studentAuth := httptransport.NewAuthHandler(authService, application.RoleStudent, logger)
	teacherAuth := httptransport.NewAuthHandler(authService, application.RoleTeacher, logger)
	adminHandler := httptransport.NewAdminHandler(catalogService, accountService, scheduleService, logger)
	studentHandler := httptransport.NewStudentHandler(attendanceService, scheduleService, mirror, logger)
	teacherHandler := httptransport.NewTeacherHandler(attendanceService, scheduleService, logger)

	metrics := httptransport.NewMetrics()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		AdminAuth:   adminAuth,
		StudentAuth: studentAuth,
		TeacherAuth: teacherAuth,
		Admin:       adminHandler,
		Student:     studentHandler,
		Teacher:     teacherHandler,
		Sessions:    authService,
		Metrics:     metrics,
		Health:      healthHandler(pool),
		Logger:      logger,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("campus portal listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// seedAdmin provisions the first admin account from configuration so a fresh
// deployment has a login. Existing admins make this a no-op.
func seedAdmin(ctx context.Context, repo persistence.AccountRepository, cfg config.Config, idGenerator func() string, logger *slog.Logger) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	count, err := repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := application.CreatePasswordHash(cfg.SeedAdminPassword, application.DefaultArgon2idParams)
	if err != nil {
		return err
	}

	account := persistence.Account{
		ID:           idGenerator(),
		Role:         persistence.RoleAdmin,
		Name:         "Administrator",
		Email:        cfg.SeedAdminEmail,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return nil
		}
		return err
	}

	logger.Info("seeded admin account", "email", cfg.SeedAdminEmail)
	return nil
}

func healthHandler(pool *sqlite.ConnectionPool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
