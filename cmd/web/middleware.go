package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nyaya-ai/nyaya/internal/contexthelpers"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/logging"
	"github.com/nyaya-ai/nyaya/internal/models"
)

const officerIDSessionKey = "officerID"

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps server-sent events working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequest tags the request with an id that every log line of the request carries.
func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			requestID = uuid.NewString()
			start     = time.Now()
			rec       = &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		)
		r = contexthelpers.SetRequestID(r, requestID)
		ctx := logging.WithAttrs(r.Context(),
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("uri", r.URL.RequestURI()),
		)
		r = r.WithContext(ctx)
		w.Header().Set("X-Request-Id", requestID)

		app.logger.LogAttrs(ctx, slog.LevelDebug, "received request", slog.String("proto", r.Proto))
		next.ServeHTTP(rec, r)
		app.logger.LogAttrs(ctx, slog.LevelDebug, "served request",
			slog.Int("status", rec.status), slog.Duration("duration", time.Since(start)))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, errors.New(fmt.Sprintf("%v", err)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// authenticate marks the request as authenticated when the session belongs to an existing officer.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		officerID := app.sessionManager.GetInt64(r.Context(), officerIDSessionKey)

		// Officer has not yet logged in.
		if officerID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := app.officers.Get(r.Context(), officerID); err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				app.serverError(w, r, err)
				return
			}
			// The officer was removed while the session lived on.
			app.sessionManager.Remove(r.Context(), officerIDSessionKey)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, contexthelpers.AuthenticateContext(r, officerID))
	})
}

func (app *application) requireOfficer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !contexthelpers.IsAuthenticated(r.Context()) {
			app.writeJSON(w, r, http.StatusUnauthorized, errorResponse{
				Success: false,
				Error:   "login required",
				Field:   "",
			})
			return
		}
		w.Header().Add("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// serverSentEventMiddleware makes our session library scs work with Server Sent Events (SSE).
// Use this instead of app.sessionManager.LoadAndSave.
// See https://github.com/alexedwards/scs/issues/141#issuecomment-1807075358
func (app *application) serverSentEventMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		cookie, err := r.Cookie(app.sessionManager.Cookie.Name)
		if err == nil {
			token = cookie.Value
		}
		ctx, err := app.sessionManager.Load(r.Context(), token)
		if err != nil {
			app.serverError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isStreamRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/awareness-chat/streams/")
}
