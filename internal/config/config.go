// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for the database (always absolute)
	LogLevel string
	Port     int
	DevMode  bool
	Timezone string // IANA zone cron schedules are evaluated in
	Snapshot *SnapshotConfig
	Backup   *BackupConfig

	// Origin host patterns allowed to open event streams. Dev mode accepts any origin.
	WSOriginPatterns []string
}

// SnapshotConfig controls the scheduled report snapshots
type SnapshotConfig struct {
	Enabled  bool
	Schedule string // Standard five-field cron expression
}

// BackupConfig controls off-site database backups to an S3-compatible bucket.
// Backups are enabled when a bucket is configured.
type BackupConfig struct {
	Bucket          string
	Endpoint        string // Empty for AWS S3, set for R2 or MinIO
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Schedule        string
	RetentionDays   int // 0 keeps every backup
}

// Enabled reports whether a bucket is configured
func (c *BackupConfig) Enabled() bool {
	return c != nil && c.Bucket != ""
}

// Location resolves the scheduler timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("FINSIGHT_DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("FINSIGHT_PORT", 8080),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("SCHEDULER_TIMEZONE", "UTC"),
		Snapshot: loadSnapshotConfig(),
		Backup:   loadBackupConfig(),

		WSOriginPatterns: getEnvAsList("WS_ORIGIN_PATTERNS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabasePath is the SQLite file inside the data directory
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "finsight.db")
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	snapshots := c.Snapshot != nil && c.Snapshot.Enabled
	if snapshots && c.Snapshot.Schedule == "" {
		return fmt.Errorf("snapshot schedule is required when snapshots are enabled")
	}

	backups := c.Backup.Enabled()
	if backups {
		if c.Backup.Schedule == "" {
			return fmt.Errorf("backup schedule is required when a backup bucket is set")
		}
		if c.Backup.RetentionDays < 0 {
			return fmt.Errorf("backup retention cannot be negative")
		}
	}

	if snapshots || backups {
		if _, err := c.Location(); err != nil {
			return err
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping empty entries
func getEnvAsList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func loadSnapshotConfig() *SnapshotConfig {
	return &SnapshotConfig{
		Enabled:  getEnvAsBool("SNAPSHOT_ENABLED", true),
		Schedule: getEnv("SNAPSHOT_SCHEDULE", "0 2 * * *"), // 02:00 daily
	}
}

func loadBackupConfig() *BackupConfig {
	return &BackupConfig{
		Bucket:          getEnv("BACKUP_S3_BUCKET", ""),
		Endpoint:        getEnv("BACKUP_S3_ENDPOINT", ""),
		Region:          getEnv("BACKUP_S3_REGION", "auto"),
		AccessKeyID:     getEnv("BACKUP_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
		Schedule:        getEnv("BACKUP_SCHEDULE", "0 3 * * *"),
		RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
	}
}
