package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/modules/holdings"
	"github.com/aristath/finsight/internal/modules/ledger"
	"github.com/aristath/finsight/internal/modules/profiles"
	"github.com/aristath/finsight/internal/modules/snapshots"
)

// InitializeRepositories builds every repository on the container's database
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil || container.DB == nil {
		return fmt.Errorf("container database cannot be nil")
	}

	conn := container.DB.Conn()
	container.TransactionRepo = ledger.NewTransactionRepository(conn, log)
	container.AccountRepo = ledger.NewAccountRepository(conn, log)
	container.HoldingRepo = holdings.NewRepository(conn, log)
	container.ProfileRepo = profiles.NewRepository(conn, log)
	container.SnapshotRepo = snapshots.NewRepository(conn, log)

	log.Debug().Msg("Repositories initialized")
	return nil
}
