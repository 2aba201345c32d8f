package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr               string
	Environment        string
	SnapshotPath       string
	BackupDir          string
	ReportDir          string
	LatePolicy         string
	Autosave           bool
	BackupInterval     time.Duration
	JWTSecret          string
	AdminPassword      string
	TokenTTL           time.Duration
	MaxBodyBytes       int64
	RateLimitPerMinute int
	MetricsEnabled     bool
}

func Load() Config {
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		SnapshotPath:       getEnv("SNAPSHOT_PATH", "employees.json"),
		BackupDir:          getEnv("BACKUP_DIR", "payroll_backups"),
		ReportDir:          getEnv("REPORT_DIR", "reports"),
		LatePolicy:         getEnv("LATE_POLICY", "penalized"),
		Autosave:           getEnvBool("AUTOSAVE", true),
		BackupInterval:     getEnvDuration("BACKUP_INTERVAL", 0),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 12*time.Hour),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.SnapshotPath) == "" {
		return fmt.Errorf("SNAPSHOT_PATH is required")
	}
	if strings.TrimSpace(c.BackupDir) == "" {
		return fmt.Errorf("BACKUP_DIR is required")
	}
	switch c.LatePolicy {
	case "penalized", "proportional":
	default:
		return fmt.Errorf("LATE_POLICY must be penalized or proportional, got %q", c.LatePolicy)
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.AdminPassword) == "" {
			return fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.BackupInterval < 0 {
		return fmt.Errorf("BACKUP_INTERVAL must be zero or positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
