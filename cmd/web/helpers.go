package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nyaya-ai/nyaya/internal/contexthelpers"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
)

// maxBodyBytes bounds JSON request bodies. Complaint texts are a few kilobytes at most.
const maxBodyBytes = 1 << 20

var (
	errMissingIfMatch = errors.NewSentinel("missing If-Match header")
	errInvalidJSON    = errors.NewSentinel("invalid JSON body")
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

type retryableErrorResponse struct {
	errorResponse
	Retryable bool `json:"retryable"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(append(body, '\n')); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "write response", errors.SlogError(err))
	}
}

// decodeJSON reads the request body into dst. Unknown fields are ignored for compatibility with older clients.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	if err = json.Unmarshal(body, dst); err != nil {
		return errors.Mark(errors.Wrap(err, "decode body"), errInvalidJSON)
	}
	return nil
}

// ifMatchVersion parses the draft version the client last saw from the If-Match header. Both `3` and `"3"` are
// accepted.
func ifMatchVersion(r *http.Request) (int, error) {
	raw := r.Header.Get("If-Match")
	if raw == "" {
		return 0, errMissingIfMatch
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError("If-Match", "must be a draft version")
	}
	return version, nil
}

func setETag(w http.ResponseWriter, version int) {
	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(version)))
}

func officerID(r *http.Request) int64 {
	id, _ := contexthelpers.OfficerID(r.Context())
	return id
}

// handleError maps the domain error taxonomy to a JSON error response.
func (app *application) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		app.clientError(w, r, http.StatusBadRequest, validationErr.Error(), validationErr.Field, err)
	case errors.Is(err, errInvalidJSON), errors.Is(err, models.ErrValidation):
		app.clientError(w, r, http.StatusBadRequest, "invalid request", "", err)
	case errors.Is(err, models.ErrInvalidCredentials):
		app.clientError(w, r, http.StatusUnauthorized, "invalid badge number or password", "", err)
	case errors.Is(err, models.ErrNotFound):
		app.clientError(w, r, http.StatusNotFound, "not found", "", err)
	case errors.Is(err, models.ErrInvalidTransition):
		app.clientError(w, r, http.StatusConflict, "action not allowed for this prediction", "", err)
	case errors.Is(err, models.ErrVersionConflict):
		app.clientError(w, r, http.StatusPreconditionFailed, "draft was modified, reload and try again", "", err)
	case errors.Is(err, errMissingIfMatch):
		app.clientError(w, r, http.StatusPreconditionRequired, "If-Match header is required", "If-Match", err)
	case errors.Is(err, models.ErrPersistence):
		app.logger.LogAttrs(r.Context(), slog.LevelError, "persistence error", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusInternalServerError, retryableErrorResponse{
			errorResponse: errorResponse{Success: false, Error: "saving failed, please try again", Field: ""},
			Retryable:     true,
		})
	default:
		app.serverError(w, r, err)
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{
		Success: false,
		Error:   http.StatusText(http.StatusInternalServerError),
		Field:   "",
	})
}

func (app *application) clientError(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	field string,
	err error,
) {
	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status), errors.SlogError(err))
	app.writeJSON(w, r, status, errorResponse{Success: false, Error: message, Field: field})
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound, "not found", "", errors.New("no route"))
}
