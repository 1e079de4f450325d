// Package reliability backs the finsight database up to S3-compatible object storage.
package reliability

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aristath/finsight/internal/database"
)

// BackupDatabase writes a consistent copy of db to destPath using SQLite's VACUUM INTO
func BackupDatabase(db *database.DB, destPath string) error {
	if db == nil {
		return fmt.Errorf("database is nil")
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	// VACUUM INTO refuses to overwrite
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale backup: %w", err)
	}

	if _, err := db.Conn().Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("VACUUM INTO failed for %s: %w", db.Name(), err)
	}
	return nil
}
