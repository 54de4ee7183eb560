package sqlite

import (
	"io"
	"log/slog"
	"testing"

	"github.com/nyaya-ai/nyaya/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

const (
	firsTable      = "CREATE TABLE firs (id INTEGER PRIMARY KEY, fir_number TEXT)"
	firsWithStatus = "CREATE TABLE firs (id INTEGER PRIMARY KEY, fir_number TEXT, status TEXT NOT NULL DEFAULT 'pending')"
	firsNumberIdx  = "; CREATE INDEX firs_fir_number ON firs (fir_number)"
	// rejectInserts fails every insert so tests can tell whether the trigger exists.
	rejectInserts = "; CREATE TRIGGER firs_reject AFTER INSERT ON firs BEGIN SELECT RAISE (FAIL, 'rejected'); END;"
	acceptInserts = "; CREATE TRIGGER firs_reject AFTER INSERT ON firs BEGIN SELECT 1; END;"
	insertFIR     = "INSERT INTO firs (fir_number) VALUES ('FIR/2024/0105/000001')"
	dropNumberIdx = "DROP INDEX firs_fir_number"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := connect(":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	return db
}

func TestDatabase_migrate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		schemas  []string
		probe    string
		probeErr bool
	}{
		{name: "empty schema", schemas: []string{""}, probe: "SELECT * FROM sqlite_schema", probeErr: false},
		{name: "create table", schemas: []string{firsTable}, probe: insertFIR, probeErr: false},
		{name: "drop table", schemas: []string{firsTable, ""}, probe: insertFIR, probeErr: true},
		{
			name:     "add column",
			schemas:  []string{firsTable, firsWithStatus},
			probe:    "INSERT INTO firs (fir_number, status) VALUES ('x', 'solved')",
			probeErr: false,
		},
		{
			name:     "remove column",
			schemas:  []string{firsTable, firsWithStatus, firsTable},
			probe:    "INSERT INTO firs (fir_number, status) VALUES ('x', 'solved')",
			probeErr: true,
		},
		{name: "create index", schemas: []string{firsTable + firsNumberIdx}, probe: dropNumberIdx, probeErr: false},
		{
			name:     "drop index",
			schemas:  []string{firsTable + firsNumberIdx, firsTable},
			probe:    dropNumberIdx,
			probeErr: true,
		},
		{
			name: "update index",
			schemas: []string{
				firsTable + firsNumberIdx,
				firsTable + "; CREATE INDEX firs_fir_number ON firs (id, fir_number)",
			},
			probe:    dropNumberIdx,
			probeErr: false,
		},
		{
			name:     "index survives table migration",
			schemas:  []string{firsTable + firsNumberIdx, firsWithStatus + firsNumberIdx},
			probe:    dropNumberIdx,
			probeErr: false,
		},
		{name: "create trigger", schemas: []string{firsTable + rejectInserts}, probe: insertFIR, probeErr: true},
		{
			name:     "delete trigger",
			schemas:  []string{firsTable + rejectInserts, firsTable},
			probe:    insertFIR,
			probeErr: false,
		},
		{
			name:     "update trigger",
			schemas:  []string{firsTable + rejectInserts, firsTable + acceptInserts},
			probe:    insertFIR,
			probeErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := t.Context()
			db := newTestDatabase(t)
			for _, schema := range tt.schemas {
				db.logger.LogAttrs(ctx, slog.LevelDebug, "migrating", slog.String("schema", schema))
				require.NoError(t, db.migrateTo(ctx, schema))
			}
			_, err := db.ReadWrite.ExecContext(ctx, tt.probe)
			if tt.probeErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewDatabase(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	logger := testhelpers.NewLogger(io.Discard)
	db, err := NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	var tables []string
	err = db.ReadOnly.SelectContext(ctx, &tables,
		`SELECT name FROM sqlite_schema WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	require.Equal(t, []string{
		"accused", "ai_feedback", "fir_sections", "firs", "legal_sections", "officers", "prediction_feedback",
		"review_drafts", "sessions",
	}, tables)

	// Synchronizing an up-to-date schema is a no-op.
	require.NoError(t, db.migrateTo(ctx, schemaDefinition))

	// The read-only pool rejects writes.
	_, err = db.ReadOnly.ExecContext(ctx, `DELETE FROM legal_sections`)
	require.Error(t, err)

	require.NoError(t, db.Optimize(ctx))
}

func TestDatabase_migrateKeepsRows(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	db := newTestDatabase(t)

	require.NoError(t, db.migrateTo(ctx, firsTable))
	_, err := db.ReadWrite.ExecContext(ctx, insertFIR)
	require.NoError(t, err)

	require.NoError(t, db.migrateTo(ctx, firsWithStatus))

	var status string
	err = db.ReadWrite.GetContext(ctx, &status, "SELECT status FROM firs WHERE fir_number = 'FIR/2024/0105/000001'")
	require.NoError(t, err)
	require.Equal(t, "pending", status)
}
