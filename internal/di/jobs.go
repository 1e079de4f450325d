package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/config"
	"github.com/aristath/finsight/internal/reliability"
	"github.com/aristath/finsight/internal/scheduler"
)

// RegisterJobs creates the background jobs and schedules the enabled ones.
// The snapshot job is always returned so it can be triggered manually; the backup
// job exists only when a bucket is configured.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil || container.AdvisorService == nil {
		return nil, fmt.Errorf("services must be initialized before jobs")
	}

	instances := &JobInstances{
		Snapshot: scheduler.NewSnapshotJob(container.ProfileRepo, container.AdvisorService, log),
	}

	if cfg.Backup.Enabled() {
		store, err := reliability.NewS3Client(context.Background(), reliability.S3Config{
			Endpoint:        cfg.Backup.Endpoint,
			Region:          cfg.Backup.Region,
			Bucket:          cfg.Backup.Bucket,
			AccessKeyID:     cfg.Backup.AccessKeyID,
			SecretAccessKey: cfg.Backup.SecretAccessKey,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create backup client: %w", err)
		}
		container.BackupService = reliability.NewCloudBackupService(store, container.DB, cfg.DataDir, log)
		instances.Backup = scheduler.NewBackupJob(container.BackupService, cfg.Backup.RetentionDays, log)
		if container.EventBus != nil {
			instances.Backup.SetEventPublisher(container.EventBus)
		}
	}

	snapshots := cfg.Snapshot != nil && cfg.Snapshot.Enabled
	if !snapshots && instances.Backup == nil {
		log.Info().Msg("No scheduled jobs enabled")
		return instances, nil
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	sched := scheduler.New(loc, log)

	if snapshots {
		if err := sched.AddJob(cfg.Snapshot.Schedule, instances.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to schedule snapshot job: %w", err)
		}
	}
	if instances.Backup != nil {
		if err := sched.AddJob(cfg.Backup.Schedule, instances.Backup); err != nil {
			return nil, fmt.Errorf("failed to schedule backup job: %w", err)
		}
	}
	container.Scheduler = sched

	return instances, nil
}
