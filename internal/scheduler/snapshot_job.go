package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/modules/snapshots"
)

// UserLister lists the users that have a stored profile
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// Snapshotter builds and stores a report for one user
type Snapshotter interface {
	Snapshot(ctx context.Context, userID string, asOf time.Time) (snapshots.Snapshot, error)
}

// SnapshotJob stores a report for every profiled user
type SnapshotJob struct {
	users       UserLister
	snapshotter Snapshotter
	timeout     time.Duration
	log         zerolog.Logger
}

// NewSnapshotJob creates a new SnapshotJob
func NewSnapshotJob(users UserLister, snapshotter Snapshotter, log zerolog.Logger) *SnapshotJob {
	return &SnapshotJob{
		users:       users,
		snapshotter: snapshotter,
		timeout:     5 * time.Minute,
		log:         log.With().Str("job", "snapshot_reports").Logger(),
	}
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "snapshot_reports"
}

// Run snapshots every user. A failing user is logged and skipped; the job fails only
// when no user could be snapshotted.
func (j *SnapshotJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	userIDs, err := j.users.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	// Zero asOf lets the service stamp every report with its own clock
	var stored, failed int
	for _, userID := range userIDs {
		snap, err := j.snapshotter.Snapshot(ctx, userID, time.Time{})
		if err != nil {
			failed++
			j.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to snapshot user")
			continue
		}
		stored++
		j.log.Debug().Str("user_id", userID).Str("snapshot_id", snap.ID).Msg("User snapshotted")
	}

	j.log.Info().
		Int("users", len(userIDs)).
		Int("stored", stored).
		Int("failed", failed).
		Msg("Snapshot run completed")

	if failed > 0 && stored == 0 {
		return fmt.Errorf("all %d snapshots failed", failed)
	}
	return nil
}
