package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
)

// DraftRepository stores officer reviews in progress.
type DraftRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewDraftRepository(db *sqlite.Database, logger *slog.Logger) *DraftRepository {
	return &DraftRepository{
		db:     db,
		logger: logger.With(slog.String("source", "DraftRepository")),
	}
}

const draftColumns = `id, officer_id, complaint_text, incident_type, location, fallback, state, version, updated_at`

func (r *DraftRepository) CreateDraft(ctx context.Context, draft *models.ReviewDraft) error {
	draft.Version = 1
	stmt := `INSERT INTO review_drafts (id, officer_id, complaint_text, incident_type, location, fallback, state, version)
VALUES (:id, :officer_id, :complaint_text, :incident_type, :location, :fallback, :state, :version)`
	if _, err := r.db.ReadWrite.NamedExecContext(ctx, stmt, draft); err != nil {
		return writeError(err, "officerId", "insert draft", slog.String("draft_id", draft.ID))
	}
	return r.refresh(ctx, draft)
}

// refresh reloads the server-maintained columns.
func (r *DraftRepository) refresh(ctx context.Context, draft *models.ReviewDraft) error {
	if err := r.db.ReadWrite.GetContext(ctx, &draft.UpdatedAt,
		`SELECT updated_at FROM review_drafts WHERE id = ?`, draft.ID); err != nil {
		return readError(err, "read draft timestamp", slog.String("draft_id", draft.ID))
	}
	return nil
}

// GetDraft returns the draft if it belongs to the officer.
func (r *DraftRepository) GetDraft(ctx context.Context, id string, officerID int64) (*models.ReviewDraft, error) {
	var draft models.ReviewDraft
	stmt := `SELECT ` + draftColumns + ` FROM review_drafts WHERE id = ? AND officer_id = ?`
	if err := r.db.ReadOnly.GetContext(ctx, &draft, stmt, id, officerID); err != nil {
		return nil, readError(err, "get draft", slog.String("draft_id", id))
	}
	return &draft, nil
}

// UpdateDraft replaces the state if nobody else has updated the draft since draft.Version was read.
func (r *DraftRepository) UpdateDraft(ctx context.Context, draft *models.ReviewDraft) error {
	var (
		res      sql.Result
		affected int64
		err      error
	)
	stmt := `UPDATE review_drafts
SET state = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND officer_id = ? AND version = ?`
	if res, err = r.db.ReadWrite.ExecContext(ctx, stmt, draft.State, draft.ID, draft.OfficerID, draft.Version); err != nil {
		return writeError(err, "state", "update draft", slog.String("draft_id", draft.ID))
	}
	if affected, err = res.RowsAffected(); err != nil {
		return errors.Mark(errors.Wrap(err, "count updated drafts"), models.ErrPersistence)
	}
	if affected == 0 {
		if _, err = r.GetDraft(ctx, draft.ID, draft.OfficerID); err != nil {
			return err
		}
		return errors.Wrap(models.ErrVersionConflict, "update draft",
			slog.String("draft_id", draft.ID), slog.Int("expected", draft.Version))
	}
	draft.Version++
	return r.refresh(ctx, draft)
}

// PurgeStale deletes drafts that haven't been updated within ttl and returns how many were deleted.
func (r *DraftRepository) PurgeStale(ctx context.Context, ttl time.Duration) (int64, error) {
	var (
		res     sql.Result
		deleted int64
		err     error
	)
	modifier := fmt.Sprintf("-%d seconds", int64(ttl.Seconds()))
	if res, err = r.db.ReadWrite.ExecContext(ctx,
		`DELETE FROM review_drafts WHERE updated_at < datetime('now', ?)`, modifier); err != nil {
		return 0, errors.Wrap(err, "delete stale drafts")
	}
	if deleted, err = res.RowsAffected(); err != nil {
		return 0, errors.Wrap(err, "count deleted drafts")
	}
	if deleted > 0 {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "purged stale drafts", slog.Int64("count", deleted))
	}
	return deleted, nil
}
