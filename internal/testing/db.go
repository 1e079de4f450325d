// Package testing provides testing utilities and helpers for the finsight project.
package testing

import (
	"fmt"
	"os"
	"testing"

	"github.com/aristath/finsight/internal/database"
)

// NewTestDB creates a migrated SQLite database in a temporary file.
// The database is closed and removed when the test finishes.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "test_finsight_*.db")
	if err != nil {
		t.Fatalf("Failed to create temporary database file: %v", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()

	db, err := database.New(database.Config{
		Path:    tmpPath,
		Profile: database.ProfileStandard,
		Name:    "finsight",
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			// Cleanup must not fail the test
			t.Logf("Warning: Failed to close test database: %v", err)
		}
	})

	return db
}

// CountRows returns the number of rows in a table
func CountRows(t *testing.T, db *database.DB, table string) int {
	t.Helper()

	var count int
	if err := db.Conn().QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return count
}
