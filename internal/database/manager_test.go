package database

import (
	"path/filepath"
	"testing"

	"databinding-hunter/internal/config"
	"databinding-hunter/test/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *SQLiteManager {
	t.Helper()
	dbConfig := config.DefaultDatabaseConfig()
	dbConfig.DataDir = t.TempDir()
	dbConfig.DatabaseName = "test.db"

	manager := NewSQLiteManager(dbConfig, mocks.NewMockLogger()).(*SQLiteManager)
	require.NoError(t, manager.Initialize())
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestSQLiteManager(t *testing.T) {
	manager := newTestManager(t)

	t.Run("Initialize", func(t *testing.T) {
		db := manager.GetDB()
		require.NotNil(t, db)

		for _, table := range []string{"migrations", "runs", "run_failures"} {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
			require.NoError(t, err)
			assert.Equal(t, table, name)
		}
	})

	t.Run("MigrationsRecorded", func(t *testing.T) {
		var count int
		require.NoError(t, manager.GetDB().QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
		assert.Equal(t, 2, count)
	})

	t.Run("AutoMigrateIdempotent", func(t *testing.T) {
		require.NoError(t, NewMigrator(manager.GetDB(), mocks.NewMockLogger()).AutoMigrate())

		var count int
		require.NoError(t, manager.GetDB().QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
		assert.Equal(t, 2, count)
	})

	t.Run("BeginTransaction", func(t *testing.T) {
		tx, err := manager.BeginTransaction()
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
	})

	t.Run("InitializeTwice", func(t *testing.T) {
		db := manager.GetDB()
		require.NoError(t, manager.Initialize())
		assert.Same(t, db, manager.GetDB())
	})

	t.Run("Close", func(t *testing.T) {
		other := newTestManager(t)
		require.NoError(t, other.Close())
		require.NoError(t, other.Close())
		assert.Nil(t, other.GetDB())

		_, err := other.BeginTransaction()
		assert.ErrorIs(t, err, ErrNotInitialized)
	})

	t.Run("Path", func(t *testing.T) {
		assert.Equal(t, "test.db", filepath.Base(manager.Path()))
	})
}

func TestMigrator_Pending(t *testing.T) {
	manager := newTestManager(t)
	pending, err := NewMigrator(manager.GetDB(), mocks.NewMockLogger()).Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := loadMigrations(migrationFS)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Less(t, all[0].Version, all[1].Version)
	assert.Equal(t, "20261001090000_create_runs_table", all[0].Description)
}

func TestSQLiteManager_InfoLogged(t *testing.T) {
	dbConfig := config.DefaultDatabaseConfig()
	dbConfig.DataDir = t.TempDir()

	log := mocks.NewMockLogger()
	manager := NewSQLiteManager(dbConfig, log)
	require.NoError(t, manager.Initialize())
	defer manager.Close()

	assert.Contains(t, log.CallsOf("Info"), "Database initialized successfully")
}

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		version string
		ok      bool
	}{
		{name: "create", file: "20261001090000_create_runs_table.sql", version: "20261001090000", ok: true},
		{name: "update", file: "20261001090000_update_runs_add_column.sql", version: "20261001090000", ok: true},
		{name: "not sql", file: "20261001090000_create_runs_table.txt"},
		{name: "short version", file: "2026_create_runs_table.sql"},
		{name: "unknown action", file: "20261001090000_alter_runs_table.sql"},
		{name: "too few parts", file: "20261001090000_create_runs.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, ok := parseMigrationName(tt.file)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.version, version)
		})
	}
}
