package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/config"
	"github.com/aristath/finsight/internal/database"
)

// InitializeDatabase opens finsight.db and applies the schema
func InitializeDatabase(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: database.ProfileLedger, // Financial records get full fsync
		Name:    "finsight",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize finsight database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate finsight database: %w", err)
	}

	log.Info().Str("path", db.Path()).Str("profile", string(db.Profile())).Msg("Database initialized")

	return &Container{DB: db}, nil
}
