package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the portal service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	SessionTTL        time.Duration
	AttendanceLogPath string
	SeedAdminEmail    string
	SeedAdminPassword string
	BatchCapacity     int
}

// Load parses configuration values from the current process environment. A
// .env file in the working directory is folded into the environment first,
// without overriding variables already set.
//
// The loader applies sensible defaults for optional fields while validating
// the rest.
func Load() (Config, error) {
	// Missing .env is the common case outside local development.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:          8080,
		SQLiteDSN:         "file:portal.db?_foreign_keys=on",
		SessionTTL:        24 * time.Hour,
		AttendanceLogPath: "attendance_log.json",
		BatchCapacity:     60,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("PORTAL_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "PORTAL_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("PORTAL_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("PORTAL_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "PORTAL_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if path := strings.TrimSpace(os.Getenv("PORTAL_ATTENDANCE_LOG")); path != "" {
		cfg.AttendanceLogPath = path
	}

	cfg.SeedAdminEmail = strings.TrimSpace(strings.ToLower(os.Getenv("PORTAL_SEED_ADMIN_EMAIL")))
	cfg.SeedAdminPassword = os.Getenv("PORTAL_SEED_ADMIN_PASSWORD")
	if (cfg.SeedAdminEmail == "") != (cfg.SeedAdminPassword == "") {
		invalid = append(invalid, "PORTAL_SEED_ADMIN_EMAIL/PORTAL_SEED_ADMIN_PASSWORD")
	}

	if capacityValue := strings.TrimSpace(os.Getenv("PORTAL_BATCH_CAPACITY")); capacityValue != "" {
		capacity, err := strconv.Atoi(capacityValue)
		if err != nil || capacity <= 0 {
			invalid = append(invalid, "PORTAL_BATCH_CAPACITY")
		} else {
			cfg.BatchCapacity = capacity
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
