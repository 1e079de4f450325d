package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/events"
)

// BackupRunner creates and prunes off-site database backups
type BackupRunner interface {
	CreateAndUploadBackup(ctx context.Context) (string, error)
	RotateOldBackups(ctx context.Context, retentionDays int) (int, error)
}

// EventPublisher broadcasts system events
type EventPublisher interface {
	Emit(eventType events.EventType, module string, data events.EventData)
}

// BackupJob uploads a database backup and prunes expired ones
type BackupJob struct {
	runner        BackupRunner
	retentionDays int
	timeout       time.Duration
	events        EventPublisher
	log           zerolog.Logger
}

// NewBackupJob creates a new BackupJob
func NewBackupJob(runner BackupRunner, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		runner:        runner,
		retentionDays: retentionDays,
		timeout:       15 * time.Minute,
		log:           log.With().Str("job", "cloud_backup").Logger(),
	}
}

// SetEventPublisher enables BackupCompleted events
func (j *BackupJob) SetEventPublisher(publisher EventPublisher) {
	j.events = publisher
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "cloud_backup"
}

// Run uploads a fresh backup, then rotates. A rotation failure does not fail the job
// because the new backup is already stored.
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	key, err := j.runner.CreateAndUploadBackup(ctx)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	deleted, err := j.runner.RotateOldBackups(ctx, j.retentionDays)
	if err != nil {
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}

	if j.events != nil {
		j.events.Emit(events.BackupCompleted, "reliability", &events.BackupCompletedData{
			Archive: key,
			Rotated: deleted,
		})
	}

	j.log.Info().Str("archive", key).Int("rotated", deleted).Msg("Backup job completed")
	return nil
}
