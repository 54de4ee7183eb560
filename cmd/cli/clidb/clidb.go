// Package clidb opens the service database for command line tools.
package clidb

import (
	"context"
	"log/slog"
	"os"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/logging"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
	"github.com/spf13/cobra"
)

const urlFlag = "sqlite-url"

// AddFlags registers the --sqlite-url flag. It defaults to NYAYA_SQLITE_URL like the web server.
func AddFlags(cmd *cobra.Command) {
	def, ok := os.LookupEnv("NYAYA_SQLITE_URL")
	if !ok {
		def = "./nyaya.sqlite3"
	}
	cmd.Flags().String(urlFlag, def, "SQLite URL")
}

// Logger writes warnings and errors to the command's error output.
func Logger(cmd *cobra.Command) *slog.Logger {
	logger, err := logging.NewLogger(cmd.ErrOrStderr(), "text", "warn")
	if err != nil {
		// The arguments are constants.
		panic(err)
	}
	return logger
}

// Open connects to the database named by --sqlite-url and synchronizes its schema.
func Open(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) (*sqlite.Database, error) {
	url, err := cmd.Flags().GetString(urlFlag)
	if err != nil {
		return nil, errors.Wrap(err, "read flag", slog.String("flag", urlFlag))
	}
	db, err := sqlite.NewDatabase(ctx, url, logger)
	if err != nil {
		return nil, errors.Wrap(err, "open database", slog.String("url", url))
	}
	return db, nil
}
