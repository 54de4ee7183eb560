package repositories_test

import (
	_ "embed"
	"io"
	"testing"

	"github.com/nyaya-ai/nyaya/internal/sqlite"
	"github.com/nyaya-ai/nyaya/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/fixtures.sql
var testFixtures string

// newTestDB creates a new in-memory database with the test fixtures for testing purposes.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()
	logger := testhelpers.NewLogger(io.Discard)
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	_, err = db.ReadWrite.Exec(testFixtures)
	require.NoError(t, err)
	return db
}
