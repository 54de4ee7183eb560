package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/random"
)

var ErrForeignKeyViolation = errors.NewSentinel("foreign key violation after migration")

// queryer is implemented by both *sql.Conn and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// migrateTo ensures that the db schema matches the target schema definition.
//
// We employ a very simple declarative schema migration that:
//
// 1. Deletes deleted tables,
// 2. Creates new tables,
// 3. Migrates changed tables using 12-step schema migration https://www.sqlite.org/lang_altertable.html#otheralter,
// 4. Drops and recreates changed indexes and triggers.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) (err error) {
	// ATTACH and the foreign key pragma don't work inside a transaction so the whole migration runs on one
	// dedicated connection.
	var conn *sql.Conn
	if conn, err = db.ReadWrite.Conn(ctx); err != nil {
		return errors.Wrap(err, "acquire connection")
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, errors.Wrap(closeErr, "release connection"))
		}
	}()

	// Step 1: Disable foreign key validation temporarily.
	if _, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return errors.Wrap(err, "disable foreign key validation")
	}
	// Step 12: Re-enable foreign key validation.
	defer func() {
		if _, fkErr := conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA foreign_keys = ON"); fkErr != nil {
			err = errors.Join(err, errors.Wrap(fkErr, "re-enable foreign key validation"))
		}
	}()

	// Create schema against a temporary database so that we know what has changed.
	var (
		randomID     string
		dbNameLength uint = 20
	)
	if randomID, err = random.Letters(dbNameLength); err != nil {
		return errors.Wrap(err, "generate random ID")
	}
	schemaTargetDataSourceName := fmt.Sprintf("file:%s?mode=memory&cache=shared", randomID)
	var schemaTargetDatabase *sql.DB
	if schemaTargetDatabase, err = sql.Open("sqlite3", schemaTargetDataSourceName); err != nil {
		return errors.Wrap(err, "open schema target database")
	}
	defer func() {
		if closeErr := schemaTargetDatabase.Close(); closeErr != nil {
			err = errors.Join(err, errors.Wrap(closeErr, "close schema target database"))
		}
	}()
	if _, err = schemaTargetDatabase.ExecContext(ctx, schemaDefinition); err != nil {
		return errors.Wrap(err, "migrate schema target database")
	}
	if _, err = conn.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", schemaTargetDataSourceName); err != nil {
		return errors.Wrap(err, "attach schema target database")
	}
	defer func() {
		if _, detachErr := conn.ExecContext(context.WithoutCancel(ctx), "DETACH DATABASE schemaTarget"); detachErr != nil {
			err = errors.Join(err, errors.Wrap(detachErr, "detach schema target database"))
		}
	}()

	// Step 2: Start transaction.
	var tx *sql.Tx
	if tx, err = conn.BeginTx(ctx, nil); err != nil {
		return errors.Wrap(err, "start transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, errors.Wrap(rollbackErr, "rollback transaction"))
		}
	}()

	// Step 3-7 migrate tables.
	if err = db.migrateTables(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate tables")
	}

	// Step 8: Recreate indexes and triggers associated with table if needed.
	if err = db.migrateIndexesAndTriggers(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate indexes and triggers")
	}

	// Step 9 is skipped because the schema has no views.
	// Step 10: Check foreign key constraints.
	var violations []string
	if violations, err = db.queryStringSlice(ctx, tx,
		`SELECT "table" FROM pragma_foreign_key_check`); err != nil {
		return errors.Wrap(err, "foreign key check")
	}
	if len(violations) > 0 {
		return errors.Wrap(ErrForeignKeyViolation, "foreign key check",
			slog.String("tables", strings.Join(violations, ",")))
	}

	// Step 11: Commit transaction from step 2.
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}

	return nil
}

// migrateTables ensures table schema is synchronized between databases.
func (db *Database) migrateTables(ctx context.Context, tx *sql.Tx) error {
	// Step 3: Remember schema (also includes trivial creation and deletion of tables).
	var err error

	// Drop deleted tables.
	var deletedTables []string
	if deletedTables, err = db.queryDeletedTables(ctx, tx); err != nil {
		return errors.Wrap(err, "query deleted tables")
	}
	for _, table := range deletedTables {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", table))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE "%s";`, table)); err != nil {
			return errors.Wrap(err, "drop table", slog.String("table", table))
		}
	}

	// Create new tables.
	var newTableSQLs []string
	if newTableSQLs, err = db.queryNewTableSQLs(ctx, tx); err != nil {
		return errors.Wrap(err, "query new table SQLs")
	}
	for _, newTableSQL := range newTableSQLs {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", newTableSQL))
		if _, err = tx.ExecContext(ctx, newTableSQL); err != nil {
			return errors.Wrap(err, "create table")
		}
	}

	// Identify tables with changed schema and continue the 12-step schema migration with them.
	var changedTables []changedTable
	if changedTables, err = db.queryChangedTables(ctx, tx); err != nil {
		return errors.Wrap(err, "query changed tables")
	}

	for _, table := range changedTables {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating table",
			slog.String("table", table.name),
			slog.String("current_sql", table.currentSQL),
			slog.String("new_sql", table.newSQL))

		// Step 4: Create tables according to new schema on temporary names.
		tempName := table.name + "_migration_temp"
		tempNameSQL := strings.Replace(table.newSQL, table.name, tempName, 1)
		if _, err = tx.ExecContext(ctx, tempNameSQL); err != nil {
			return errors.Wrap(err, "create new table to temporary name", slog.String("query", tempNameSQL))
		}

		// Step 5: Copy common columns between tables.
		var commonColumns []string
		if commonColumns, err = db.queryCommonColumns(ctx, tx, table.name); err != nil {
			return errors.Wrap(err, "query common columns")
		}
		if len(commonColumns) > 0 {
			common := strings.Join(commonColumns, ", ")
			copySQL := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s;", //nolint: gosec // we trust the query.
				tempName, common, common, table.name)
			db.logger.LogAttrs(ctx, slog.LevelInfo, "copying data", slog.String("query", copySQL))
			if _, err = tx.ExecContext(ctx, copySQL); err != nil {
				return errors.Wrap(err, "copy data")
			}
		}

		// Step 6: Drop the old table.
		if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE "%s";`, table.name)); err != nil {
			return errors.Wrap(err, "drop old table")
		}

		// Step 7: Rename new table to old table's name.
		if _, err = tx.ExecContext(ctx,
			fmt.Sprintf(`ALTER TABLE "%s" RENAME TO "%s";`, tempName, table.name)); err != nil {
			return errors.Wrap(err, "rename new table")
		}
	}
	return nil
}

// migrateIndexesAndTriggers drops indexes and triggers that were removed or changed and creates the missing ones.
//
// Indexes and triggers of tables recreated by migrateTables are gone at this point and get created again.
func (db *Database) migrateIndexesAndTriggers(ctx context.Context, tx *sql.Tx) error {
	var (
		err   error
		stale []schemaObject
	)
	if stale, err = db.queryStaleObjects(ctx, tx); err != nil {
		return errors.Wrap(err, "query stale objects")
	}
	for _, object := range stale {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping schema object",
			slog.String("type", object.objectType), slog.String("name", object.name))
		dropSQL := fmt.Sprintf(`DROP %s "%s";`, strings.ToUpper(object.objectType), object.name)
		if _, err = tx.ExecContext(ctx, dropSQL); err != nil {
			return errors.Wrap(err, "drop schema object", slog.String("query", dropSQL))
		}
	}

	var createSQLs []string
	if createSQLs, err = db.queryStringSlice(ctx, tx, `SELECT target.sql
FROM schemaTarget.sqlite_schema AS target
         LEFT JOIN main.sqlite_schema AS current ON current.name = target.name AND current.type = target.type
WHERE target.type IN ('index', 'trigger') AND target.sql IS NOT NULL AND current.type IS NULL
ORDER BY target.type, target.name;`); err != nil {
		return errors.Wrap(err, "query new schema objects")
	}
	for _, createSQL := range createSQLs {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating schema object", slog.String("query", createSQL))
		if _, err = tx.ExecContext(ctx, createSQL); err != nil {
			return errors.Wrap(err, "create schema object", slog.String("query", createSQL))
		}
	}
	return nil
}

type schemaObject struct {
	objectType string
	name       string
}

// queryStaleObjects lists the indexes and triggers that are missing from or differ in the target schema.
//
// Automatic indexes have NULL sql and are managed by SQLite.
func (db *Database) queryStaleObjects(ctx context.Context, tx *sql.Tx) ([]schemaObject, error) {
	var (
		objects []schemaObject
		rows    *sql.Rows
		err     error
	)
	if rows, err = tx.QueryContext(ctx, `SELECT current.type, current.name
FROM main.sqlite_schema AS current
         LEFT JOIN schemaTarget.sqlite_schema AS target ON current.name = target.name AND current.type = target.type
WHERE current.type IN ('index', 'trigger')
  AND current.sql IS NOT NULL
  AND (target.type IS NULL OR current.sql <> target.sql);`); err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer func() {
		if err = rows.Close(); err != nil {
			err = errors.Wrap(err, "close rows")
			db.logger.Error("could not close rows", errors.SlogError(err))
		}
	}()
	for rows.Next() {
		var object schemaObject
		if err = rows.Scan(&object.objectType, &object.name); err != nil {
			return nil, errors.Wrap(err, "scan schema object")
		}
		objects = append(objects, object)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}
	return objects, nil
}

// queryDeletedTables returns a list of tables that are present in the current schema but not in the target schema.
func (db *Database) queryDeletedTables(ctx context.Context, tx *sql.Tx) ([]string, error) {
	var (
		deletedTables []string
		err           error
	)
	if deletedTables, err = db.queryStringSlice(ctx, tx, `SELECT current.name AS deleted_table
FROM main.sqlite_schema AS current
LEFT JOIN schemaTarget.sqlite_schema AS target ON current.name=target.name AND current.type=target.type
WHERE current.type = 'table' AND target.type IS NULL AND current.name NOT LIKE 'sqlite_%';`); err != nil {
		return nil, errors.Wrap(err, "query string slice")
	}
	return deletedTables, nil
}

// queryNewTableSQLs returns a list of SQL statements to create new tables that are present in the target schema but not
// in the current schema.
func (db *Database) queryNewTableSQLs(ctx context.Context, tx *sql.Tx) ([]string, error) {
	var (
		newTableSQLs []string
		err          error
	)
	if newTableSQLs, err = db.queryStringSlice(ctx, tx, `SELECT target.sql AS sql
FROM schemaTarget.sqlite_schema AS target
         LEFT JOIN main.sqlite_schema AS current ON current.name=target.name AND current.type=target.type
WHERE target.type = 'table' AND current.type IS NULL AND target.name NOT LIKE 'sqlite_%';`); err != nil {
		return nil, errors.Wrap(err, "query string slice")
	}
	return newTableSQLs, nil
}

func (db *Database) queryCommonColumns(ctx context.Context, tx *sql.Tx, table string) ([]string, error) {
	var (
		commonColumns []string
		err           error
	)
	// We wrap the column names in with double quotes to handle column names that are SQLite keywords.
	if commonColumns, err = db.queryStringSlice(ctx, tx, `SELECT '"' || target.name || '"'
FROM PRAGMA_TABLE_INFO(:table_name, 'main') AS current
JOIN PRAGMA_TABLE_INFO(:table_name, 'schemaTarget') AS target ON target.name = current.name;`,
		sql.Named("table_name", table)); err != nil {
		return nil, errors.Wrap(err, "query string slice")
	}
	return commonColumns, nil
}

// queryStringSlice returns a slice of strings from a query and its args.
//
// It is used to query a single column from a table.
func (db *Database) queryStringSlice(ctx context.Context, q queryer, query string, args ...any) ([]string, error) {
	var (
		results []string
		rows    *sql.Rows
		err     error
	)
	if rows, err = q.QueryContext(ctx, query, args...); err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer func() {
		if err = rows.Close(); err != nil {
			err = errors.Wrap(err, "close rows")
			db.logger.Error("could not close rows", errors.SlogError(err))
		}
	}()
	for rows.Next() {
		var result string
		if err = rows.Scan(&result); err != nil {
			return nil, errors.Wrap(err, "scan table")
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}
	return results, nil
}

type changedTable struct {
	name       string
	currentSQL string
	newSQL     string
}

// queryChangedTables returns a list of tables that have different schema in the current schema and the target schema.
func (db *Database) queryChangedTables(ctx context.Context, tx *sql.Tx) ([]changedTable, error) {
	var (
		changedTables []changedTable
		rows          *sql.Rows
		err           error
	)
	if rows, err = tx.QueryContext(ctx, `SELECT
    current.name AS changed_table,
    current.sql AS current_sql,
    target.sql AS new_sql
FROM main.sqlite_schema AS current
         JOIN schemaTarget.sqlite_schema AS target ON current.name=target.name AND current.type=target.type
WHERE current.type = 'table' AND current.name NOT LIKE 'sqlite_%' AND current.sql <> target.sql;
`); err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer func() {
		if err = rows.Close(); err != nil {
			err = errors.Wrap(err, "close rows")
			db.logger.Error("could not close rows", errors.SlogError(err))
		}
	}()
	for rows.Next() {
		var result changedTable
		if err = rows.Scan(&result.name, &result.currentSQL, &result.newSQL); err != nil {
			return nil, errors.Wrap(err, "scan table")
		}
		changedTables = append(changedTables, result)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}
	return changedTables, nil
}
