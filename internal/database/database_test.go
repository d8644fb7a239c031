package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "rated_matches", "rating_history", "goose_db_version"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := t.TempDir() + "/ladder.db"

	db, teardown, err := InitDB(path, "", "")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO players (id, name) VALUES ('p1', 'Player One')")
	require.NoError(t, err)
	teardown()

	db, teardown, err = InitDB(path, "", "")
	require.NoError(t, err, "re-running migrations should be a no-op")
	defer teardown()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count))
	assert.Equal(t, 1, count)
}
