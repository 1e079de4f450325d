package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{
		Path: filepath.Join(t.TempDir(), "nested", "finsight.db"),
		Name: "finsight",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_CreatesDirectoryAndDefaultsProfile(t *testing.T) {
	db := newTestDB(t)

	assert.Equal(t, ProfileStandard, db.Profile())
	assert.Equal(t, "finsight", db.Name())
	assert.True(t, filepath.IsAbs(db.Path()))
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())

	for _, table := range []string{"transactions", "accounts", "holdings", "profiles", "snapshots"} {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate())

	boom := errors.New("boom")
	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, execErr := tx.Exec(`INSERT INTO holdings (user_id, symbol, updated_at) VALUES ('u1', 'VTI', 0)`)
		require.NoError(t, execErr)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM holdings").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTransaction_RecoversPanics(t *testing.T) {
	db := newTestDB(t)

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		panic("unexpected")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in transaction")
}

func TestWithTransaction_NilConnection(t *testing.T) {
	assert.Error(t, WithTransaction(nil, func(tx *sql.Tx) error { return nil }))
}

func TestBuildConnectionString(t *testing.T) {
	ledger := buildConnectionString("/tmp/x.db", ProfileLedger)
	assert.Contains(t, ledger, "synchronous(FULL)")

	standard := buildConnectionString("/tmp/x.db", ProfileStandard)
	assert.Contains(t, standard, "synchronous(NORMAL)")
	assert.Contains(t, standard, "journal_mode(WAL)")
}
