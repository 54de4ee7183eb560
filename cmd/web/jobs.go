package main

import (
	"context"
	"log/slog"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/repositories"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
	"github.com/robfig/cron/v3"
)

// cronLogger adapts slog to the logger interface of the cron scheduler.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, errors.SlogError(err))...)
}

// newScheduler registers the maintenance jobs. The caller starts and stops the scheduler.
func (app *application) newScheduler(db *sqlite.Database, drafts *repositories.DraftRepository) *cron.Cron {
	logger := cronLogger{logger: app.logger.With(slog.String("source", "cron"))}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	ctx := context.Background()

	app.addJob(c, "@hourly", "optimize database", func() error {
		return db.Optimize(ctx)
	})
	app.addJob(c, "@every 15m", "purge stale drafts", func() error {
		_, err := drafts.PurgeStale(ctx, app.cfg.DraftTTL)
		return err
	})
	return c
}

func (app *application) addJob(c *cron.Cron, spec string, name string, job func() error) {
	attrs := []slog.Attr{slog.String("job", name), slog.String("schedule", spec)}
	if _, err := c.AddFunc(spec, func() {
		if err := job(); err != nil {
			app.logger.LogAttrs(context.Background(), slog.LevelError, "job failed",
				append(attrs, errors.SlogError(err))...)
		}
	}); err != nil {
		// The schedules are constants so this is a programming error.
		panic(errors.Wrap(err, "add job", attrs...))
	}
}
