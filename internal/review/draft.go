// Package review tracks the officer's decisions on suggested legal sections before the FIR is saved.
package review

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
)

// Correction is the section the officer entered in the correction form.
type Correction struct {
	SectionNumber string `json:"sectionNumber"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	FeedbackNotes string `json:"feedbackNotes"`
}

// Draft is the review state of one complaint.
//
// Every AI prediction is unset, accepted, rejected or corrected. Manual predictions are always selected. The
// feedback set holds at most one record per prediction, the latest decision.
//
// Draft is not safe for concurrent use.
type Draft struct {
	predictions    []models.Prediction
	selected       map[string]bool
	feedback       map[string]models.FeedbackRecord
	correctionOpen map[string]bool
}

// NewDraft starts a review of the given suggestions. Nothing is selected initially.
func NewDraft(predictions []models.AIPrediction) *Draft {
	d := newEmptyDraft()
	for _, p := range predictions {
		d.predictions = append(d.predictions, p)
	}
	return d
}

func newEmptyDraft() *Draft {
	return &Draft{
		predictions:    nil,
		selected:       make(map[string]bool),
		feedback:       make(map[string]models.FeedbackRecord),
		correctionOpen: make(map[string]bool),
	}
}

func (d *Draft) find(id string) (int, models.Prediction, error) {
	idx := slices.IndexFunc(d.predictions, func(p models.Prediction) bool { return p.PredictionID() == id })
	if idx < 0 {
		return -1, nil, errors.Wrap(models.ErrNotFound, "find prediction", slog.String("prediction_id", id))
	}
	return idx, d.predictions[idx], nil
}

func invalidTransition(id string, from string, action models.OfficerAction) error {
	return errors.Wrap(models.ErrInvalidTransition, "apply officer action",
		slog.String("prediction_id", id),
		slog.String("from", from),
		slog.String("action", string(action)))
}

// Accept selects an AI prediction. Accepting an accepted prediction does nothing and so does accepting a manual one.
func (d *Draft) Accept(id string) error {
	idx, p, err := d.find(id)
	if err != nil {
		return err
	}
	switch p := p.(type) {
	case models.AIPrediction:
		switch p.Action { //nolint:exhaustive // remaining actions are invalid
		case models.OfficerActionAccepted:
			return nil
		case models.OfficerActionUnset:
			p.Action = models.OfficerActionAccepted
			d.predictions[idx] = p
			d.selected[id] = true
			d.feedback[id] = models.FeedbackRecord{
				PredictionID:     id,
				Action:           models.OfficerActionAccepted,
				CorrectedSection: "",
				FeedbackNotes:    "",
			}
			return nil
		default:
			return invalidTransition(id, string(p.Action), models.OfficerActionAccepted)
		}
	case models.ManualPrediction:
		return nil
	default:
		return invalidTransition(id, string(models.OfficerActionCorrected), models.OfficerActionAccepted)
	}
}

// Reject deselects an AI prediction and opens its correction form. Rejecting a rejected prediction does nothing.
func (d *Draft) Reject(id string) error {
	idx, p, err := d.find(id)
	if err != nil {
		return err
	}
	switch p := p.(type) {
	case models.AIPrediction:
		switch p.Action { //nolint:exhaustive // remaining actions are invalid
		case models.OfficerActionRejected:
			return nil
		case models.OfficerActionUnset:
			p.Action = models.OfficerActionRejected
			d.predictions[idx] = p
			delete(d.selected, id)
			d.feedback[id] = models.FeedbackRecord{
				PredictionID:     id,
				Action:           models.OfficerActionRejected,
				CorrectedSection: "",
				FeedbackNotes:    "",
			}
			d.correctionOpen[id] = true
			return nil
		default:
			return invalidTransition(id, string(p.Action), models.OfficerActionRejected)
		}
	case models.ManualPrediction:
		return invalidTransition(id, string(models.OfficerActionManual), models.OfficerActionRejected)
	default:
		return invalidTransition(id, string(models.OfficerActionCorrected), models.OfficerActionRejected)
	}
}

// OpenCorrection opens the correction form of an AI or corrected prediction without changing its state.
func (d *Draft) OpenCorrection(id string) error {
	_, p, err := d.find(id)
	if err != nil {
		return err
	}
	if _, ok := p.(models.ManualPrediction); ok {
		return invalidTransition(id, string(models.OfficerActionManual), models.OfficerActionCorrected)
	}
	d.correctionOpen[id] = true
	return nil
}

// Correct replaces the section of an AI prediction with the officer's entry and selects it.
//
// The AI suggestion is retained for audit. Correcting a corrected prediction overwrites the previous correction. On
// error the draft is left unchanged.
func (d *Draft) Correct(id string, c Correction) error {
	c.SectionNumber = strings.TrimSpace(c.SectionNumber)
	c.Title = strings.TrimSpace(c.Title)
	if c.SectionNumber == "" {
		return models.NewValidationError("sectionNumber", "is required")
	}
	if c.Title == "" {
		return models.NewValidationError("title", "is required")
	}

	idx, p, err := d.find(id)
	if err != nil {
		return err
	}

	var corrected models.CorrectedPrediction
	switch p := p.(type) {
	case models.AIPrediction:
		corrected = models.CorrectedPrediction{
			ID:                 id,
			Section:            models.LegalSection{}, //nolint:exhaustruct // set below
			Original:           p.Section,
			OriginalConfidence: p.Confidence,
			Notes:              "",
		}
	case models.CorrectedPrediction:
		corrected = p
	default:
		return invalidTransition(id, string(models.OfficerActionManual), models.OfficerActionCorrected)
	}

	corrected.Section = models.LegalSection{
		SectionNumber: c.SectionNumber,
		Title:         c.Title,
		Description:   strings.TrimSpace(c.Description),
		Punishment:    "",
		Category:      corrected.Original.Category,
		Keywords:      nil,
	}
	corrected.Notes = strings.TrimSpace(c.FeedbackNotes)

	d.predictions[idx] = corrected
	d.selected[id] = true
	d.feedback[id] = models.FeedbackRecord{
		PredictionID:     id,
		Action:           models.OfficerActionCorrected,
		CorrectedSection: corrected.Section.SectionNumber,
		FeedbackNotes:    corrected.Notes,
	}
	delete(d.correctionOpen, id)
	return nil
}

// AcceptAll accepts every AI prediction that hasn't been rejected or corrected.
func (d *Draft) AcceptAll() {
	for _, p := range d.predictions {
		if ai, ok := p.(models.AIPrediction); ok && ai.Action != models.OfficerActionRejected {
			// Only unset and accepted predictions remain and both accept without error.
			_ = d.Accept(ai.ID)
		}
	}
}

// AddManual appends a section the officer entered by hand. It is selected right away.
func (d *Draft) AddManual(section models.LegalSection) (models.ManualPrediction, error) {
	section.SectionNumber = strings.TrimSpace(section.SectionNumber)
	section.Title = strings.TrimSpace(section.Title)
	if section.SectionNumber == "" {
		return models.ManualPrediction{}, models.NewValidationError("sectionNumber", "is required")
	}
	if section.Title == "" {
		return models.ManualPrediction{}, models.NewValidationError("title", "is required")
	}
	manual := models.ManualPrediction{
		ID:      "manual-" + uuid.NewString(),
		Section: section,
	}
	d.predictions = append(d.predictions, manual)
	d.selected[manual.ID] = true
	return manual, nil
}

// RemoveManual deletes a manual prediction. AI predictions can't be removed.
func (d *Draft) RemoveManual(id string) error {
	idx, p, err := d.find(id)
	if err != nil {
		return err
	}
	if _, ok := p.(models.ManualPrediction); !ok {
		return models.NewValidationError("predictionId", "only manual sections can be removed")
	}
	d.predictions = slices.Delete(d.predictions, idx, idx+1)
	delete(d.selected, id)
	delete(d.feedback, id)
	delete(d.correctionOpen, id)
	return nil
}

// Predictions returns all predictions in display order.
func (d *Draft) Predictions() []models.Prediction {
	return slices.Clone(d.predictions)
}

// Selected returns the predictions that will be saved, in display order.
func (d *Draft) Selected() []models.Prediction {
	var selected []models.Prediction
	for _, p := range d.predictions {
		if d.selected[p.PredictionID()] {
			selected = append(selected, p)
		}
	}
	return selected
}

func (d *Draft) IsSelected(id string) bool {
	return d.selected[id]
}

func (d *Draft) CorrectionOpen(id string) bool {
	return d.correctionOpen[id]
}

// Feedback returns the latest decision per prediction, in display order.
func (d *Draft) Feedback() []models.FeedbackRecord {
	var records []models.FeedbackRecord
	for _, p := range d.predictions {
		if record, ok := d.feedback[p.PredictionID()]; ok {
			records = append(records, record)
		}
	}
	return records
}
