package sqlite

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 driver
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/random"
)

//go:embed schema.sql
var schemaDefinition string

type Database struct {
	ReadWrite *sqlx.DB
	ReadOnly  *sqlx.DB
	logger    *slog.Logger
}

// NewDatabase connects to database and synchronizes the schema.
//
// It establishes two database connections, one for read/write operations and one for read-only operations.
// See https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995.
//
// The url parameter is the path to the SQLite database file or ":memory:" for an in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	var (
		err error
		db  *Database
	)
	if db, err = connect(url, logger); err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	if err = db.migrateTo(ctx, schemaDefinition); err != nil {
		return nil, errors.Wrap(err, "synchronize schema")
	}
	return db, nil
}

// connect opens the connection pools without touching the schema.
func connect(url string, logger *slog.Logger) (*Database, error) {
	var (
		err         error
		readWriteDB *sqlx.DB
		readDB      *sqlx.DB
	)

	commonConfig := strings.Join([]string{
		// Avoids SQLITE_BUSY errors when database is under load.
		"_busy_timeout=5000",
		// Increases performance at the cost of durability https://www.sqlite.org/pragma.html#pragma_synchronous.
		"_synchronous=normal",
		// Enables foreign key constraints.
		"_foreign_keys=on",
	}, "&")

	// The options prefixed with underscore '_' are SQLite pragmas documented at https://www.sqlite.org/pragma.html.
	// The options without leading underscore are SQLite URI parameters documented at https://www.sqlite.org/uri.html.
	var readConfig, readWriteConfig string

	// For in-memory databases, we need shared cache mode so that both databases access the same data.
	//
	// For parallel tests, we need to use a different database file for each test to avoid sharing data.
	// See https://www.sqlite.org/inmemorydb.html.
	if strings.Contains(url, ":memory:") {
		var (
			randomID     string
			dbNameLength uint = 20
		)
		if randomID, err = random.Letters(dbNameLength); err != nil {
			return nil, errors.Wrap(err, "generate random ID")
		}
		inMemoryConfig := "mode=memory&cache=shared"
		readConfig = fmt.Sprintf("file:%s?_query_only=true&%s&%s", randomID, commonConfig, inMemoryConfig)
		readWriteConfig = fmt.Sprintf("file:%s?_txlock=immediate&%s&%s", randomID, commonConfig, inMemoryConfig)
	} else {
		// Write-ahead logging enables higher performance and concurrent readers.
		commonConfig += "&_journal_mode=wal"
		readConfig = fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s", url, commonConfig)
		readWriteConfig = fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s", url, commonConfig)
	}

	if readWriteDB, err = sqlx.Open("sqlite3", readWriteConfig); err != nil {
		return nil, errors.Wrap(err, "open read-write database")
	}

	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(time.Hour)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	// Creates the database file before the read-only pool tries to open it.
	if err = readWriteDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping read-write database")
	}

	if readDB, err = sqlx.Open("sqlite3", readConfig); err != nil {
		return nil, errors.Wrap(err, "open read database")
	}

	maxReadConns := 10
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(time.Hour)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger.With(slog.String("source", "sqlite")),
	}, nil
}

// Close closes both connection pools.
func (db *Database) Close() error {
	return errors.Join(
		errors.Wrap(db.ReadOnly.Close(), "close read database"),
		errors.Wrap(db.ReadWrite.Close(), "close read-write database"),
	)
}
