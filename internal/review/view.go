package review

import (
	"log/slog"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
)

// View is the wire form of a draft. Clients that hold the draft themselves send it back in this form on save.
type View struct {
	Predictions    []models.PredictionView `json:"predictions"`
	SelectedIDs    []string                `json:"selectedIds"`
	Feedback       []models.FeedbackRecord `json:"feedback"`
	CorrectionOpen []string                `json:"correctionOpen,omitempty"`
}

func (d *Draft) View() View {
	view := View{
		Predictions:    make([]models.PredictionView, 0, len(d.predictions)),
		SelectedIDs:    []string{},
		Feedback:       d.Feedback(),
		CorrectionOpen: nil,
	}
	for _, p := range d.predictions {
		id := p.PredictionID()
		view.Predictions = append(view.Predictions, p.View())
		if d.selected[id] {
			view.SelectedIDs = append(view.SelectedIDs, id)
		}
		if d.correctionOpen[id] {
			view.CorrectionOpen = append(view.CorrectionOpen, id)
		}
	}
	if view.Feedback == nil {
		view.Feedback = []models.FeedbackRecord{}
	}
	return view
}

// FromView rebuilds a draft from its wire form and checks that the state is consistent.
//
// Manual, accepted and corrected predictions are selected regardless of selectedIds. Rejected predictions can't be
// selected. Feedback records must agree with the officerAction of their prediction and are applied in order so a
// later record for the same prediction wins.
func FromView(view View) (*Draft, error) {
	d := newEmptyDraft()
	for i, pv := range view.Predictions {
		id := strings.TrimSpace(pv.ID)
		if id == "" {
			return nil, models.NewValidationError("predictions", "every prediction needs an id")
		}
		if _, _, err := d.find(id); err == nil {
			return nil, errors.Wrap(models.NewValidationError("predictions", "duplicate prediction id"),
				"rebuild draft", slog.String("prediction_id", id))
		}
		section := models.LegalSection{
			SectionNumber: strings.TrimSpace(pv.SectionNumber),
			Title:         strings.TrimSpace(pv.Title),
			Description:   pv.Description,
			Punishment:    pv.Punishment,
			Category:      pv.Category,
			Keywords:      nil,
		}
		if section.SectionNumber == "" || section.Title == "" {
			return nil, errors.Wrap(models.NewValidationError("predictions", "section number and title are required"),
				"rebuild draft", slog.Int("index", i))
		}

		switch {
		case pv.IsManual:
			d.predictions = append(d.predictions, models.ManualPrediction{ID: id, Section: section})
			d.selected[id] = true
		case pv.OfficerAction == models.OfficerActionCorrected:
			if strings.TrimSpace(pv.OriginalSection) == "" {
				return nil, errors.Wrap(models.NewValidationError("predictions", "corrected prediction lacks its original"),
					"rebuild draft", slog.String("prediction_id", id))
			}
			d.predictions = append(d.predictions, models.CorrectedPrediction{
				ID:      id,
				Section: section,
				Original: models.LegalSection{
					SectionNumber: strings.TrimSpace(pv.OriginalSection),
					Title:         "",
					Description:   "",
					Punishment:    "",
					Category:      pv.Category,
					Keywords:      nil,
				},
				OriginalConfidence: clampConfidence(pv.Confidence),
				Notes:              pv.FeedbackNotes,
			})
			d.selected[id] = true
		case pv.OfficerAction == models.OfficerActionUnset,
			pv.OfficerAction == models.OfficerActionAccepted,
			pv.OfficerAction == models.OfficerActionRejected:
			d.predictions = append(d.predictions, models.AIPrediction{
				ID:         id,
				Section:    section,
				Confidence: clampConfidence(pv.Confidence),
				Action:     pv.OfficerAction,
			})
			if pv.OfficerAction == models.OfficerActionAccepted {
				d.selected[id] = true
			}
		default:
			return nil, errors.Wrap(models.NewValidationError("officerAction", "unknown action"),
				"rebuild draft", slog.String("prediction_id", id), slog.String("action", string(pv.OfficerAction)))
		}
	}

	for _, id := range view.SelectedIDs {
		_, p, err := d.find(id)
		if err != nil {
			return nil, models.NewValidationError("selectedIds", "unknown prediction "+id)
		}
		if ai, ok := p.(models.AIPrediction); ok && ai.Action == models.OfficerActionRejected {
			return nil, models.NewValidationError("selectedIds", "rejected prediction "+id+" can't be selected")
		}
		d.selected[id] = true
	}

	for _, record := range view.Feedback {
		_, p, err := d.find(record.PredictionID)
		if err != nil {
			return nil, models.NewValidationError("feedback", "unknown prediction "+record.PredictionID)
		}
		var state models.OfficerAction
		switch p := p.(type) {
		case models.ManualPrediction:
			// Manual sections carry no AI suggestion to give feedback on.
			continue
		case models.AIPrediction:
			state = p.Action
		case models.CorrectedPrediction:
			state = models.OfficerActionCorrected
		}
		switch record.Action { //nolint:exhaustive // remaining actions are invalid
		case models.OfficerActionAccepted, models.OfficerActionRejected, models.OfficerActionCorrected:
		default:
			return nil, models.NewValidationError("feedback", "unknown action "+string(record.Action))
		}
		if record.Action != state {
			return nil, errors.Wrap(models.NewValidationError("feedback",
				"action on prediction "+record.PredictionID+" does not match its officerAction"),
				"rebuild draft", slog.String("action", string(record.Action)), slog.String("state", string(state)))
		}
		d.feedback[record.PredictionID] = record
	}

	for _, id := range view.CorrectionOpen {
		if _, _, err := d.find(id); err == nil {
			d.correctionOpen[id] = true
		}
	}
	return d, nil
}

func clampConfidence(c float64) float64 {
	return min(models.ManualConfidence, max(0, c))
}
