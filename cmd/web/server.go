package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"golang.org/x/sync/errgroup"
)

// configureAndStartServer serves the application on addr until ctx is done and then shuts down gracefully.
const (
	minServerTimeout = 15 * time.Second
	// predictionMargin leaves room for the fallback and the database writes after a timed out model call.
	predictionMargin = 5 * time.Second
)

// serverTimeout returns the request timeout. A slow model call must time out and fall back before the request does.
func serverTimeout(predictionTimeout time.Duration) time.Duration {
	return max(minServerTimeout, predictionTimeout+predictionMargin)
}

func (app *application) configureAndStartServer(ctx context.Context, addr string) error {
	var (
		err      error
		listener net.Listener
	)
	idleTimeout := time.Minute
	defaultTimeout := serverTimeout(app.cfg.PredictionTimeout)

	srv := &http.Server{ //nolint:exhaustruct // defaults for the rest
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           app.routes(defaultTimeout),
		IdleTimeout:       idleTimeout,
		ReadTimeout:       defaultTimeout,
		WriteTimeout:      defaultTimeout,
		ReadHeaderTimeout: time.Second,
	}

	if listener, err = net.Listen("tcp", addr); err != nil {
		return errors.Wrap(err, "TCP listen", slog.String("addr", addr))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if serveErr := srv.Serve(listener); !errors.Is(serveErr, http.ErrServerClosed) {
			return errors.Wrap(serveErr, "server serve")
		}
		return nil
	})
	g.Go(func() error {
		app.chatStreams.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.LogAttrs(ctx, slog.LevelInfo, "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			return errors.Wrap(shutdownErr, "shutdown server")
		}
		return nil
	})

	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String("addr", listener.Addr().String()))
	if err = g.Wait(); err != nil {
		return errors.Wrap(err, "serve")
	}
	return nil
}
