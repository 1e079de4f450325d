// Package di provides dependency injection type definitions.
//
// Container holds every long-lived dependency. It is built once by Wire and is the
// single source of truth for the server and the scheduler.
package di

import (
	"github.com/aristath/finsight/internal/database"
	"github.com/aristath/finsight/internal/events"
	"github.com/aristath/finsight/internal/modules/advisor"
	advisorhandlers "github.com/aristath/finsight/internal/modules/advisor/handlers"
	"github.com/aristath/finsight/internal/modules/holdings"
	"github.com/aristath/finsight/internal/modules/ledger"
	ledgerhandlers "github.com/aristath/finsight/internal/modules/ledger/handlers"
	"github.com/aristath/finsight/internal/modules/profiles"
	"github.com/aristath/finsight/internal/modules/snapshots"
	"github.com/aristath/finsight/internal/reliability"
	"github.com/aristath/finsight/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// Database
	DB *database.DB

	// Events
	EventBus *events.Bus

	// Repositories
	TransactionRepo *ledger.TransactionRepository
	AccountRepo     *ledger.AccountRepository
	HoldingRepo     *holdings.Repository
	ProfileRepo     *profiles.Repository
	SnapshotRepo    *snapshots.Repository

	// Services
	AdvisorService *advisor.Service
	BackupService  *reliability.CloudBackupService // nil without a backup bucket

	// HTTP
	AdvisorHandler *advisorhandlers.Handler
	LedgerHandler  *ledgerhandlers.Handler

	// Background jobs (nil when nothing is scheduled)
	Scheduler *scheduler.Scheduler
}

// JobInstances holds job references for manual triggering
type JobInstances struct {
	Snapshot *scheduler.SnapshotJob
	Backup   *scheduler.BackupJob
}

// Close releases the container's resources
func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
