package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdao-labs/devdao-node/engine/store"
)

func TestDB_OpenModes(t *testing.T) {
	t.Run("in-memory", func(t *testing.T) {
		database, err := OpenInMemory()
		require.NoError(t, err)
		require.NotNil(t, database)

		runSampleInsertSelect(t, database)
		assert.NoError(t, database.Close())
	})

	t.Run("file-based", func(t *testing.T) {
		dir := t.TempDir()

		database, err := OpenFile(dir, "test.db")
		require.NoError(t, err)
		require.NotNil(t, database)

		assert.FileExists(t, filepath.Join(dir, "test.db"))

		runSampleInsertSelect(t, database)
		assert.NoError(t, database.Close())
	})

	t.Run("default filename", func(t *testing.T) {
		dir := t.TempDir()

		database, err := OpenFile(dir, "")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, DefaultFileName))
		assert.NoError(t, database.Close())
	})
}

func TestDB_SchemaMigrated(t *testing.T) {
	database, err := OpenInMemory()
	require.NoError(t, err)
	defer database.Close()

	for _, model := range store.Models() {
		assert.True(t, database.Client().Migrator().HasTable(model), "missing table for %T", model)
	}
}

func runSampleInsertSelect(t *testing.T, database *DB) {
	t.Helper()

	entry := store.EngineEvent{Kind: "test_event", Actor: "dev:alice"}
	require.NoError(t, database.Client().Create(&entry).Error)
	require.NotZero(t, entry.ID)

	var loaded store.EngineEvent
	require.NoError(t, database.Client().First(&loaded, entry.ID).Error)
	assert.Equal(t, "test_event", loaded.Kind)
	assert.Equal(t, "dev:alice", loaded.Actor)
}
