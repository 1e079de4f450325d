package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/events"
	"github.com/aristath/finsight/internal/modules/advisor"
	advisorhandlers "github.com/aristath/finsight/internal/modules/advisor/handlers"
	ledgerhandlers "github.com/aristath/finsight/internal/modules/ledger/handlers"
)

// InitializeServices builds the event bus, the advisor service and the HTTP handlers
func InitializeServices(container *Container, clock domain.Clock, log zerolog.Logger) error {
	if container == nil || container.ProfileRepo == nil {
		return fmt.Errorf("repositories must be initialized before services")
	}

	container.EventBus = events.NewBus(log)

	container.AdvisorService = advisor.NewService(
		container.TransactionRepo,
		container.AccountRepo,
		container.HoldingRepo,
		container.ProfileRepo,
		container.SnapshotRepo,
		clock,
		log,
	)
	container.AdvisorService.SetEventPublisher(container.EventBus)
	container.AdvisorHandler = advisorhandlers.NewHandler(container.AdvisorService, log)
	container.LedgerHandler = ledgerhandlers.NewHandler(
		container.TransactionRepo,
		container.AccountRepo,
		container.HoldingRepo,
		container.ProfileRepo,
		log,
	)

	log.Debug().Msg("Services initialized")
	return nil
}
