package review

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/prediction"
)

// Store persists drafts with optimistic versioning.
type Store interface {
	CreateDraft(ctx context.Context, draft *models.ReviewDraft) error
	// GetDraft returns models.ErrNotFound for drafts of other officers.
	GetDraft(ctx context.Context, id string, officerID int64) (*models.ReviewDraft, error)
	// UpdateDraft stores draft if its Version is still current and bumps Version and UpdatedAt.
	UpdateDraft(ctx context.Context, draft *models.ReviewDraft) error
}

// Predictor suggests legal sections for a complaint.
type Predictor interface {
	PredictSections(ctx context.Context, complaintText string, incident prediction.Incident) (prediction.Result, error)
}

// Session is a loaded server-side draft.
type Session struct {
	ID            string
	OfficerID     int64
	ComplaintText string
	Incident      prediction.Incident
	Fallback      bool
	Version       int
	UpdatedAt     time.Time
	Draft         *Draft
}

// SessionView is the wire form of a Session.
type SessionView struct {
	ID            string    `json:"id"`
	ComplaintText string    `json:"complaintText"`
	IncidentType  string    `json:"incidentType,omitempty"`
	Location      string    `json:"location,omitempty"`
	Fallback      bool      `json:"fallback"`
	Version       int       `json:"version"`
	UpdatedAt     time.Time `json:"updatedAt"`
	View
}

func (s *Session) View() SessionView {
	return SessionView{
		ID:            s.ID,
		ComplaintText: s.ComplaintText,
		IncidentType:  s.Incident.IncidentType,
		Location:      s.Incident.Location,
		Fallback:      s.Fallback,
		Version:       s.Version,
		UpdatedAt:     s.UpdatedAt,
		View:          s.Draft.View(),
	}
}

// Service runs reviews whose state lives on the server so that a review survives page reloads and concurrent edits
// are detected.
type Service struct {
	store     Store
	predictor Predictor
	logger    *slog.Logger
}

func NewService(store Store, predictor Predictor, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		predictor: predictor,
		logger:    logger.With(slog.String("source", "review")),
	}
}

// Start predicts sections for the complaint and stores a new draft for the officer.
func (s *Service) Start(
	ctx context.Context,
	officerID int64,
	complaintText string,
	incident prediction.Incident,
) (*Session, error) {
	var (
		result prediction.Result
		state  []byte
		err    error
	)
	if result, err = s.predictor.PredictSections(ctx, complaintText, incident); err != nil {
		return nil, errors.Wrap(err, "predict sections")
	}
	draft := NewDraft(result.Predictions)
	if state, err = json.Marshal(draft); err != nil {
		return nil, errors.Wrap(err, "encode draft")
	}
	record := models.ReviewDraft{
		ID:            uuid.NewString(),
		OfficerID:     officerID,
		ComplaintText: complaintText,
		IncidentType:  incident.IncidentType,
		Location:      incident.Location,
		Fallback:      result.Fallback,
		State:         string(state),
		Version:       1,
		UpdatedAt:     time.Time{},
	}
	if err = s.store.CreateDraft(ctx, &record); err != nil {
		return nil, errors.Wrap(err, "create draft")
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "started review",
		slog.String("draft_id", record.ID),
		slog.Int("predictions", len(result.Predictions)),
		slog.Bool("fallback", result.Fallback))
	return toSession(&record, draft), nil
}

// Get loads a draft of the officer.
func (s *Service) Get(ctx context.Context, id string, officerID int64) (*Session, error) {
	record, err := s.store.GetDraft(ctx, id, officerID)
	if err != nil {
		return nil, errors.Wrap(err, "get draft")
	}
	draft := newEmptyDraft()
	if err = json.Unmarshal([]byte(record.State), draft); err != nil {
		return nil, errors.Wrap(err, "decode draft", slog.String("draft_id", id))
	}
	return toSession(record, draft), nil
}

// Apply runs op against the draft and stores the result.
//
// expectedVersion is the version the caller last saw. A stale version fails with models.ErrVersionConflict. If op
// fails nothing is stored.
func (s *Service) Apply(
	ctx context.Context,
	id string,
	officerID int64,
	expectedVersion int,
	op func(d *Draft) error,
) (*Session, error) {
	var (
		record *models.ReviewDraft
		state  []byte
		err    error
	)
	if record, err = s.store.GetDraft(ctx, id, officerID); err != nil {
		return nil, errors.Wrap(err, "get draft")
	}
	if record.Version != expectedVersion {
		return nil, errors.Wrap(models.ErrVersionConflict, "check version",
			slog.Int("expected", expectedVersion), slog.Int("current", record.Version))
	}
	draft := newEmptyDraft()
	if err = json.Unmarshal([]byte(record.State), draft); err != nil {
		return nil, errors.Wrap(err, "decode draft", slog.String("draft_id", id))
	}
	if err = op(draft); err != nil {
		return nil, errors.Wrap(err, "apply")
	}
	if state, err = json.Marshal(draft); err != nil {
		return nil, errors.Wrap(err, "encode draft")
	}
	record.State = string(state)
	if err = s.store.UpdateDraft(ctx, record); err != nil {
		return nil, errors.Wrap(err, "update draft")
	}
	return toSession(record, draft), nil
}

func toSession(record *models.ReviewDraft, draft *Draft) *Session {
	return &Session{
		ID:            record.ID,
		OfficerID:     record.OfficerID,
		ComplaintText: record.ComplaintText,
		Incident: prediction.Incident{
			IncidentType: record.IncidentType,
			Location:     record.Location,
		},
		Fallback:  record.Fallback,
		Version:   record.Version,
		UpdatedAt: record.UpdatedAt,
		Draft:     draft,
	}
}
