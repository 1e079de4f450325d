package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/config"
	"github.com/aristath/finsight/internal/domain"
)

// Wire initializes all dependencies and returns a fully configured container.
// Order of operations:
//  1. Open and migrate the database
//  2. Build repositories
//  3. Build services
//  4. Register jobs
func Wire(cfg *config.Config, clock domain.Clock, log zerolog.Logger) (*Container, *JobInstances, error) {
	container, err := InitializeDatabase(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := InitializeRepositories(container, log); err != nil {
		_ = container.Close()
		return nil, nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := InitializeServices(container, clock, log); err != nil {
		_ = container.Close()
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	jobs, err := RegisterJobs(container, cfg, log)
	if err != nil {
		_ = container.Close()
		return nil, nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	log.Info().Msg("Dependency injection wiring completed successfully")

	return container, jobs, nil
}
