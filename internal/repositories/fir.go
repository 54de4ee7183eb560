package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
)

// FIRSave is everything written when an officer registers a FIR.
type FIRSave struct {
	// FIR carries the accused list and the selected legal sections.
	FIR *models.FIR
	// Feedback holds the officer decisions on AI suggestions.
	Feedback []models.AIFeedback
	// DraftID names the server-side review draft consumed by this save. Empty for client-held reviews.
	DraftID      string
	DraftVersion int
}

type FIRRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
	now    func() time.Time
}

func NewFIRRepository(db *sqlite.Database, logger *slog.Logger) *FIRRepository {
	return &FIRRepository{
		db:     db,
		logger: logger.With(slog.String("source", "FIRRepository")),
		now:    time.Now,
	}
}

const firColumns = `id, COALESCE(fir_number, '') AS fir_number, complainant_name, contact_number, address, incident_type,
       incident_date, incident_time, location, complaint_text, status, officer_id, created_at, updated_at`

// formatFIRNumber derives the FIR number from the registration date and the row id, so it is unique by construction.
func formatFIRNumber(registered time.Time, id int64) string {
	return fmt.Sprintf("FIR/%s/%06d", registered.Format("2006/0102"), id)
}

// Save stores the FIR with its accused, legal sections and AI feedback in one transaction. The consumed review draft
// is deleted in the same transaction.
//
// On success the FIR's ID, FIRNumber and Status are set.
func (r *FIRRepository) Save(ctx context.Context, save FIRSave) error {
	var (
		tx  *sqlx.Tx
		res sql.Result
		id  int64
		err error
	)
	fir := save.FIR
	if fir.Status == "" {
		fir.Status = models.FIRStatusPending
	}
	if strings.TrimSpace(fir.IncidentType) == "" {
		fir.IncidentType = "Other"
	}

	if tx, err = r.db.ReadWrite.BeginTxx(ctx, nil); err != nil {
		return errors.Mark(errors.Wrap(err, "begin transaction"), models.ErrPersistence)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback failed", errors.SlogError(rollbackErr))
		}
	}()

	stmt := `INSERT INTO firs (complainant_name, contact_number, address, incident_type, incident_date, incident_time,
                  location, complaint_text, status, officer_id)
VALUES (:complainant_name, :contact_number, :address, :incident_type, :incident_date, :incident_time, :location,
        :complaint_text, :status, :officer_id)`
	if res, err = tx.NamedExecContext(ctx, stmt, fir); err != nil {
		return writeError(err, "officerId", "insert FIR")
	}
	if id, err = res.LastInsertId(); err != nil {
		return errors.Mark(errors.Wrap(err, "read FIR id"), models.ErrPersistence)
	}
	firNumber := formatFIRNumber(r.now(), id)
	if _, err = tx.ExecContext(ctx, `UPDATE firs SET fir_number = ? WHERE id = ?`, firNumber, id); err != nil {
		return writeError(err, "firNumber", "set FIR number", slog.Int64("fir_id", id))
	}

	stmt = `INSERT INTO accused (fir_id, name, address, description) VALUES (:fir_id, :name, :address, :description)`
	for i := range fir.AccusedList {
		fir.AccusedList[i].FIRID = id
		if _, err = tx.NamedExecContext(ctx, stmt, fir.AccusedList[i]); err != nil {
			return writeError(err, "accusedList", "insert accused", slog.Int("index", i))
		}
	}

	stmt = `INSERT INTO fir_sections (fir_id, prediction_id, section_number, title, description, punishment, category,
                          confidence, is_manual, officer_action, officer_feedback, original_ai_prediction)
VALUES (:fir_id, :prediction_id, :section_number, :title, :description, :punishment, :category, :confidence,
        :is_manual, :officer_action, :officer_feedback, :original_ai_prediction)`
	for i := range fir.LegalSections {
		fir.LegalSections[i].FIRID = id
		if _, err = tx.NamedExecContext(ctx, stmt, fir.LegalSections[i]); err != nil {
			return writeError(err, "legalSections", "insert legal section",
				slog.String("section_number", fir.LegalSections[i].SectionNumber))
		}
	}

	stmt = `INSERT INTO ai_feedback (fir_id, complaint_text, ai_predicted_section, ai_confidence, officer_action,
                         corrected_section, feedback_notes, original_description, corrected_description)
VALUES (:fir_id, :complaint_text, :ai_predicted_section, :ai_confidence, :officer_action, :corrected_section,
        :feedback_notes, :original_description, :corrected_description)`
	for i := range save.Feedback {
		save.Feedback[i].FIRID = id
		if _, err = tx.NamedExecContext(ctx, stmt, save.Feedback[i]); err != nil {
			return writeError(err, "feedback", "insert AI feedback",
				slog.String("ai_predicted_section", save.Feedback[i].AIPredictedSection))
		}
	}

	if save.DraftID != "" {
		if err = consumeDraft(ctx, tx, save.DraftID, fir.OfficerID, save.DraftVersion); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Mark(errors.Wrap(err, "commit FIR"), models.ErrPersistence)
	}

	fir.ID = id
	fir.FIRNumber = firNumber
	r.logger.LogAttrs(ctx, slog.LevelInfo, "saved FIR",
		slog.String("fir_number", firNumber),
		slog.Int("sections", len(fir.LegalSections)),
		slog.Int("feedback", len(save.Feedback)))
	return nil
}

func consumeDraft(ctx context.Context, tx *sqlx.Tx, draftID string, officerID *int64, version int) error {
	var (
		res      sql.Result
		affected int64
		current  int
		err      error
	)
	if officerID == nil {
		return errors.Wrap(models.ErrNotFound, "consume draft", slog.String("draft_id", draftID))
	}
	if res, err = tx.ExecContext(ctx, `DELETE FROM review_drafts WHERE id = ? AND officer_id = ? AND version = ?`,
		draftID, *officerID, version); err != nil {
		return errors.Mark(errors.Wrap(err, "delete draft"), models.ErrPersistence)
	}
	if affected, err = res.RowsAffected(); err != nil {
		return errors.Mark(errors.Wrap(err, "count deleted drafts"), models.ErrPersistence)
	}
	if affected == 1 {
		return nil
	}
	err = tx.GetContext(ctx, &current, `SELECT version FROM review_drafts WHERE id = ? AND officer_id = ?`,
		draftID, *officerID)
	if err != nil {
		return readError(err, "consume draft", slog.String("draft_id", draftID))
	}
	return errors.Wrap(models.ErrVersionConflict, "consume draft",
		slog.String("draft_id", draftID), slog.Int("expected", version), slog.Int("current", current))
}

// Get returns the FIR with its legal sections and accused list.
func (r *FIRRepository) Get(ctx context.Context, id int64) (*models.FIR, error) {
	var fir models.FIR
	stmt := `SELECT ` + firColumns + ` FROM firs WHERE id = ?`
	if err := r.db.ReadOnly.GetContext(ctx, &fir, stmt, id); err != nil {
		return nil, readError(err, "get FIR", slog.Int64("fir_id", id))
	}
	firs := []models.FIR{fir}
	if err := r.loadChildren(ctx, firs); err != nil {
		return nil, err
	}
	return &firs[0], nil
}

// List returns a page of FIRs, newest first, and the number of FIRs matching the filter.
func (r *FIRRepository) List(ctx context.Context, filter models.FIRFilter) ([]models.FIR, int, error) {
	var (
		where []string
		args  []any
		total int
		firs  []models.FIR
		err   error
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.IncidentType != "" {
		where = append(where, "incident_type = ? COLLATE NOCASE")
		args = append(args, filter.IncidentType)
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	if err = r.db.ReadOnly.GetContext(ctx, &total, `SELECT COUNT(*) FROM firs`+whereClause, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count FIRs")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	stmt := `SELECT ` + firColumns + ` FROM firs` + whereClause + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	if err = r.db.ReadOnly.SelectContext(ctx, &firs, stmt, append(args, limit, max(0, filter.Offset))...); err != nil {
		return nil, 0, errors.Wrap(err, "select FIRs")
	}
	if err = r.loadChildren(ctx, firs); err != nil {
		return nil, 0, err
	}
	return firs, total, nil
}

// loadChildren attaches legal sections and accused to firs with one query per table.
func (r *FIRRepository) loadChildren(ctx context.Context, firs []models.FIR) error {
	if len(firs) == 0 {
		return nil
	}
	var (
		ids      = make([]int64, 0, len(firs))
		index    = make(map[int64]int, len(firs))
		sections []models.FIRSection
		accused  []models.Accused
		query    string
		args     []any
		err      error
	)
	for i, fir := range firs {
		ids = append(ids, fir.ID)
		index[fir.ID] = i
		firs[i].LegalSections = []models.FIRSection{}
		firs[i].AccusedList = []models.Accused{}
	}

	if query, args, err = sqlx.In(`SELECT id, fir_id, prediction_id, section_number, title, description, punishment,
       category, confidence, is_manual, officer_action, officer_feedback, original_ai_prediction
FROM fir_sections WHERE fir_id IN (?) ORDER BY id`, ids); err != nil {
		return errors.Wrap(err, "build sections query")
	}
	if err = r.db.ReadOnly.SelectContext(ctx, &sections, r.db.ReadOnly.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "select legal sections")
	}
	for _, s := range sections {
		i := index[s.FIRID]
		firs[i].LegalSections = append(firs[i].LegalSections, s)
	}

	if query, args, err = sqlx.In(`SELECT id, fir_id, name, address, description FROM accused WHERE fir_id IN (?)
ORDER BY id`, ids); err != nil {
		return errors.Wrap(err, "build accused query")
	}
	if err = r.db.ReadOnly.SelectContext(ctx, &accused, r.db.ReadOnly.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "select accused")
	}
	for _, a := range accused {
		i := index[a.FIRID]
		firs[i].AccusedList = append(firs[i].AccusedList, a)
	}
	return nil
}

// UpdateStatus marks the FIR pending or solved.
func (r *FIRRepository) UpdateStatus(ctx context.Context, id int64, status models.FIRStatus) error {
	var (
		res      sql.Result
		affected int64
		err      error
	)
	if res, err = r.db.ReadWrite.ExecContext(ctx, `UPDATE firs SET status = ? WHERE id = ?`, status, id); err != nil {
		return writeError(err, "status", "update FIR status", slog.Int64("fir_id", id))
	}
	if affected, err = res.RowsAffected(); err != nil {
		return errors.Mark(errors.Wrap(err, "count updated FIRs"), models.ErrPersistence)
	}
	if affected == 0 {
		return errors.Wrap(models.ErrNotFound, "update FIR status", slog.Int64("fir_id", id))
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "updated FIR status",
		slog.Int64("fir_id", id), slog.String("status", string(status)))
	return nil
}

// Stats counts FIRs by status for the police dashboard.
func (r *FIRRepository) Stats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	stmt := `SELECT COUNT(*)                                  AS total_firs,
       COALESCE(SUM(status = 'pending'), 0) AS pending_firs,
       COALESCE(SUM(status = 'solved'), 0)  AS solved_firs
FROM firs`
	if err := r.db.ReadOnly.GetContext(ctx, &stats, stmt); err != nil {
		return models.DashboardStats{}, errors.Wrap(err, "count FIRs by status")
	}
	return stats, nil
}
