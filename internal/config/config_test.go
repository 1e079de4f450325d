package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("FINSIGHT_DATA_DIR", "")
	t.Setenv("FINSIGHT_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEV_MODE", "")
	t.Setenv("SNAPSHOT_ENABLED", "")
	t.Setenv("SNAPSHOT_SCHEDULE", "")
	t.Setenv("SCHEDULER_TIMEZONE", "")
	t.Setenv("BACKUP_S3_BUCKET", "")
	t.Setenv("BACKUP_SCHEDULE", "")
	t.Setenv("BACKUP_RETENTION_DAYS", "")
	t.Setenv("WS_ORIGIN_PATTERNS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.DataDir))
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.True(t, cfg.Snapshot.Enabled)
	assert.Equal(t, "0 2 * * *", cfg.Snapshot.Schedule)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.False(t, cfg.Backup.Enabled())
	assert.Equal(t, "0 3 * * *", cfg.Backup.Schedule)
	assert.Equal(t, 30, cfg.Backup.RetentionDays)
	assert.Empty(t, cfg.WSOriginPatterns)
	assert.Equal(t, filepath.Join(cfg.DataDir, "finsight.db"), cfg.DatabasePath())
}

func TestLoad_FromEnvironment(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")
	t.Setenv("FINSIGHT_DATA_DIR", dataDir)
	t.Setenv("FINSIGHT_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("SNAPSHOT_ENABLED", "false")
	t.Setenv("SNAPSHOT_SCHEDULE", "30 6 * * 1")
	t.Setenv("SCHEDULER_TIMEZONE", "Europe/Athens")
	t.Setenv("BACKUP_S3_BUCKET", "finsight-backups")
	t.Setenv("BACKUP_S3_ENDPOINT", "https://example.r2.cloudflarestorage.com")
	t.Setenv("BACKUP_RETENTION_DAYS", "7")
	t.Setenv("WS_ORIGIN_PATTERNS", "app.example.com, *.finsight.local,,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.DirExists(t, dataDir)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.False(t, cfg.Snapshot.Enabled)
	assert.Equal(t, "30 6 * * 1", cfg.Snapshot.Schedule)
	assert.Equal(t, "Europe/Athens", cfg.Timezone)
	assert.True(t, cfg.Backup.Enabled())
	assert.Equal(t, "finsight-backups", cfg.Backup.Bucket)
	assert.Equal(t, "https://example.r2.cloudflarestorage.com", cfg.Backup.Endpoint)
	assert.Equal(t, 7, cfg.Backup.RetentionDays)
	assert.Equal(t, []string{"app.example.com", "*.finsight.local"}, cfg.WSOriginPatterns)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("FINSIGHT_DATA_DIR", t.TempDir())
	t.Setenv("FINSIGHT_PORT", "not-a-port")
	t.Setenv("DEV_MODE", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Port: 8080, Timezone: "UTC", Snapshot: &SnapshotConfig{Enabled: true, Schedule: "0 2 * * *"}},
		},
		{
			name:    "port out of range",
			cfg:     Config{Port: 0},
			wantErr: "invalid port",
		},
		{
			name:    "enabled without schedule",
			cfg:     Config{Port: 8080, Timezone: "UTC", Snapshot: &SnapshotConfig{Enabled: true}},
			wantErr: "schedule is required",
		},
		{
			name:    "unknown timezone",
			cfg:     Config{Port: 8080, Timezone: "Mars/Olympus", Snapshot: &SnapshotConfig{Enabled: true, Schedule: "0 2 * * *"}},
			wantErr: "invalid scheduler timezone",
		},
		{
			name: "nothing scheduled skips timezone check",
			cfg:  Config{Port: 8080, Timezone: "Mars/Olympus", Snapshot: &SnapshotConfig{Enabled: false}},
		},
		{
			name:    "backup bucket without schedule",
			cfg:     Config{Port: 8080, Timezone: "UTC", Backup: &BackupConfig{Bucket: "b"}},
			wantErr: "backup schedule is required",
		},
		{
			name:    "negative retention",
			cfg:     Config{Port: 8080, Timezone: "UTC", Backup: &BackupConfig{Bucket: "b", Schedule: "@daily", RetentionDays: -1}},
			wantErr: "retention cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
