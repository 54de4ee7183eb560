// Package pprofserver exposes the runtime profiles on the loopback interface.
package pprofserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/nyaya-ai/nyaya/internal/errors"
)

func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	return mux
}

// Launch serves pprof on the IPv6 loopback address at port in the background until ctx is done. An empty port
// disables the server.
func Launch(ctx context.Context, port string, logger *slog.Logger) {
	if port == "" {
		return
	}
	addr := net.JoinHostPort("::1", port)
	srv := &http.Server{ //nolint:exhaustruct // defaults are fine on loopback
		Addr:              addr,
		Handler:           newServeMux(),
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd // 5 seconds
	}
	go func() {
		logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("pprof_addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server failed", errors.SlogError(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
