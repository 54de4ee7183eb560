package repositories

import (
	"database/sql"
	"log/slog"

	"github.com/mattn/go-sqlite3"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
)

// writeError classifies a failed write. Constraint violations are the caller's fault and become validation errors on
// field. Everything else is marked as a retryable persistence failure.
func writeError(err error, field string, msg string, attrs ...slog.Attr) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode { //nolint:exhaustive // other codes are persistence failures
		case sqlite3.ErrConstraintForeignKey:
			return errors.Wrap(models.NewValidationError(field, "refers to an unknown record"), msg, attrs...)
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errors.Wrap(models.NewValidationError(field, "already exists"), msg, attrs...)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return errors.Wrap(models.NewValidationError(field, "is invalid"), msg, attrs...)
		}
	}
	return errors.Mark(errors.Wrap(err, msg, attrs...), models.ErrPersistence)
}

// readError turns sql.ErrNoRows into models.ErrNotFound.
func readError(err error, msg string, attrs ...slog.Attr) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(models.ErrNotFound, msg, attrs...)
	}
	return errors.Wrap(err, msg, attrs...)
}
