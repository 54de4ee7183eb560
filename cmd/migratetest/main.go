package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/nyaya-ai/nyaya/internal/catalog"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/repositories"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
	"github.com/nyaya-ai/nyaya/internal/testhelpers"
)

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
		sections  []models.LegalSection
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("NYAYA_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "NYAYA_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	if sections, err = catalog.Load(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error loading catalog", errors.SlogError(err))
		os.Exit(1)
	}
	if err = repositories.NewSectionRepository(db, logger).Sync(ctx, sections); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error syncing catalog", errors.SlogError(err))
		os.Exit(1)
	}

	// Existing FIRs must survive the schema migration alongside the refreshed catalog.
	var counts struct {
		Sections int `db:"sections"`
		FIRs     int `db:"firs"`
	}
	if err = db.ReadOnly.GetContext(ctx, &counts,
		`SELECT (SELECT COUNT(*) FROM legal_sections) AS sections, (SELECT COUNT(*) FROM firs) AS firs`); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error counting rows", errors.SlogError(err))
		os.Exit(1)
	}
	if counts.Sections == 0 {
		logger.LogAttrs(ctx, slog.LevelError, "no legal sections found, something is likely wrong")
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "row counts",
		slog.Int("legal_sections", counts.Sections), slog.Int("firs", counts.FIRs))

	if err = db.Close(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error closing database", errors.SlogError(err))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
