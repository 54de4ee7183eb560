package review

import (
	"encoding/json"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
)

type predictionKind string

const (
	kindAI        predictionKind = "ai"
	kindCorrected predictionKind = "corrected"
	kindManual    predictionKind = "manual"
)

// predictionRecord is the persisted form of a [models.Prediction].
type predictionRecord struct {
	Kind       predictionKind       `json:"kind"`
	ID         string               `json:"id"`
	Section    models.LegalSection  `json:"section"`
	Confidence float64              `json:"confidence,omitempty"`
	Action     models.OfficerAction `json:"action,omitempty"`
	Original   *models.LegalSection `json:"original,omitempty"`
	Notes      string               `json:"notes,omitempty"`
}

type draftState struct {
	Predictions    []predictionRecord      `json:"predictions"`
	Selected       []string                `json:"selected"`
	Feedback       []models.FeedbackRecord `json:"feedback"`
	CorrectionOpen []string                `json:"correctionOpen,omitempty"`
}

var ErrCorruptState = errors.NewSentinel("corrupt draft state")

// MarshalJSON keeps the prediction kinds so that the draft can be stored and loaded again.
func (d *Draft) MarshalJSON() ([]byte, error) {
	state := draftState{
		Predictions:    make([]predictionRecord, 0, len(d.predictions)),
		Selected:       []string{},
		Feedback:       d.Feedback(),
		CorrectionOpen: nil,
	}
	for _, p := range d.predictions {
		var record predictionRecord
		switch p := p.(type) {
		case models.AIPrediction:
			record = predictionRecord{Kind: kindAI, ID: p.ID, Section: p.Section, Confidence: p.Confidence,
				Action: p.Action, Original: nil, Notes: ""}
		case models.CorrectedPrediction:
			original := p.Original
			record = predictionRecord{Kind: kindCorrected, ID: p.ID, Section: p.Section,
				Confidence: p.OriginalConfidence, Action: models.OfficerActionCorrected, Original: &original,
				Notes: p.Notes}
		case models.ManualPrediction:
			record = predictionRecord{Kind: kindManual, ID: p.ID, Section: p.Section, Confidence: 0,
				Action: models.OfficerActionUnset, Original: nil, Notes: ""}
		}
		state.Predictions = append(state.Predictions, record)
		if d.selected[p.PredictionID()] {
			state.Selected = append(state.Selected, p.PredictionID())
		}
		if d.correctionOpen[p.PredictionID()] {
			state.CorrectionOpen = append(state.CorrectionOpen, p.PredictionID())
		}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrap(err, "marshal draft state")
	}
	return data, nil
}

func (d *Draft) UnmarshalJSON(data []byte) error {
	var state draftState
	if err := json.Unmarshal(data, &state); err != nil {
		return errors.Mark(errors.Wrap(err, "unmarshal draft state"), ErrCorruptState)
	}
	loaded := newEmptyDraft()
	for _, record := range state.Predictions {
		switch record.Kind {
		case kindAI:
			loaded.predictions = append(loaded.predictions, models.AIPrediction{
				ID: record.ID, Section: record.Section, Confidence: record.Confidence, Action: record.Action,
			})
		case kindCorrected:
			if record.Original == nil {
				return errors.Wrap(ErrCorruptState, "corrected prediction without original")
			}
			loaded.predictions = append(loaded.predictions, models.CorrectedPrediction{
				ID: record.ID, Section: record.Section, Original: *record.Original,
				OriginalConfidence: record.Confidence, Notes: record.Notes,
			})
		case kindManual:
			loaded.predictions = append(loaded.predictions, models.ManualPrediction{
				ID: record.ID, Section: record.Section,
			})
		default:
			return errors.Wrap(ErrCorruptState, "unknown prediction kind")
		}
	}
	for _, id := range state.Selected {
		loaded.selected[id] = true
	}
	for _, record := range state.Feedback {
		loaded.feedback[record.PredictionID] = record
	}
	for _, id := range state.CorrectionOpen {
		loaded.correctionOpen[id] = true
	}
	*d = *loaded
	return nil
}
