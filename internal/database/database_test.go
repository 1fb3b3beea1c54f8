package database_test

import (
	"testing"

	"github.com/fantasynight/tracker/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBCreatesSchema(t *testing.T) {
	db, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"players", "matches"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDBIsIdempotent(t *testing.T) {
	db, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	db.Close()

	// A second run against a fresh handle must not fail on already-applied
	// migrations.
	db, err = database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	db.Close()
}
