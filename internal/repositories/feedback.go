package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
)

const (
	defaultFeedbackPageSize = 10
	maxFeedbackPageSize     = 100
)

type FeedbackRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewFeedbackRepository(db *sqlite.Database, logger *slog.Logger) *FeedbackRepository {
	return &FeedbackRepository{
		db:     db,
		logger: logger.With(slog.String("source", "FeedbackRepository")),
	}
}

// Create stores a rating of the suggestions of a saved FIR. New feedback starts as pending.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.PredictionFeedback) error {
	if err := feedback.Validate(); err != nil {
		return err
	}
	var (
		res sql.Result
		err error
	)
	stmt := `INSERT INTO prediction_feedback (fir_id, feedback_type, rating, comments) VALUES (?, ?, ?, ?)`
	if res, err = r.db.ReadWrite.ExecContext(ctx, stmt,
		feedback.FIRID, feedback.FeedbackType, feedback.Rating, strings.TrimSpace(feedback.Comments)); err != nil {
		return writeError(err, "firId", "insert feedback", slog.Int64("fir_id", feedback.FIRID))
	}
	if feedback.ID, err = res.LastInsertId(); err != nil {
		return errors.Mark(errors.Wrap(err, "read feedback id"), models.ErrPersistence)
	}
	if err = r.db.ReadWrite.GetContext(ctx, feedback,
		`SELECT id, fir_id, feedback_type, rating, comments, status, created_at FROM prediction_feedback WHERE id = ?`,
		feedback.ID); err != nil {
		return errors.Wrap(err, "read feedback", slog.Int64("feedback_id", feedback.ID))
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "received feedback",
		slog.Int64("fir_id", feedback.FIRID),
		slog.String("feedback_type", string(feedback.FeedbackType)),
		slog.Int("rating", feedback.Rating))
	return nil
}

// FeedbackPage is one page of feedback with statistics over all feedback.
type FeedbackPage struct {
	Data       []models.PredictionFeedback
	Stats      models.FeedbackStats
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// List returns the requested page of feedback matching the filter, newest first. Page numbers start at 1.
func (r *FeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) (*FeedbackPage, error) {
	var (
		where []string
		args  []any
		err   error
	)
	page := FeedbackPage{
		Data:       []models.PredictionFeedback{},
		Stats:      models.FeedbackStats{}, //nolint:exhaustruct // queried below
		Page:       max(1, filter.Page),
		Limit:      filter.Limit,
		Total:      0,
		TotalPages: 0,
	}
	if page.Limit <= 0 {
		page.Limit = defaultFeedbackPageSize
	}
	page.Limit = min(page.Limit, maxFeedbackPageSize)

	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.FeedbackType != "" {
		where = append(where, "feedback_type = ?")
		args = append(args, filter.FeedbackType)
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	if err = r.db.ReadOnly.GetContext(ctx, &page.Total,
		`SELECT COUNT(*) FROM prediction_feedback`+whereClause, args...); err != nil {
		return nil, errors.Wrap(err, "count feedback")
	}
	page.TotalPages = (page.Total + page.Limit - 1) / page.Limit

	stmt := `SELECT id, fir_id, feedback_type, rating, comments, status, created_at
FROM prediction_feedback` + whereClause + `
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`
	args = append(args, page.Limit, (page.Page-1)*page.Limit)
	if err = r.db.ReadOnly.SelectContext(ctx, &page.Data, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "select feedback")
	}

	stmt = `SELECT COUNT(*)                                                AS total,
       COALESCE(SUM(feedback_type = 'accurate'), 0)          AS accurate,
       COALESCE(SUM(feedback_type = 'partially-correct'), 0) AS partially_correct,
       COALESCE(SUM(feedback_type = 'incorrect'), 0)         AS incorrect,
       COALESCE(AVG(rating), 0)                              AS average_rating
FROM prediction_feedback`
	if err = r.db.ReadOnly.GetContext(ctx, &page.Stats, stmt); err != nil {
		return nil, errors.Wrap(err, "compute feedback stats")
	}
	return &page, nil
}
