package models

// OfficerAction is the disposition an officer applied to a prediction.
type OfficerAction string

const (
	OfficerActionUnset     OfficerAction = ""
	OfficerActionAccepted  OfficerAction = "accepted"
	OfficerActionRejected  OfficerAction = "rejected"
	OfficerActionCorrected OfficerAction = "corrected"
	// OfficerActionManual is recorded on saved sections the officer added by hand.
	OfficerActionManual OfficerAction = "manual"
)

// ManualConfidence is shown for manual entries while the draft is open. Saved manual sections have no confidence.
const ManualConfidence = 100

// Prediction is a candidate legal section for a complaint. It is one of [AIPrediction], [CorrectedPrediction] or
// [ManualPrediction].
type Prediction interface {
	PredictionID() string
	// View flattens the prediction for API responses.
	View() PredictionView
	isPrediction()
}

// AIPrediction was suggested by the language model or by the keyword fallback.
type AIPrediction struct {
	ID         string
	Section    LegalSection
	Confidence float64
	// Action is unset, accepted or rejected.
	Action OfficerAction
}

// CorrectedPrediction replaced an AI suggestion with the section the officer entered.
type CorrectedPrediction struct {
	ID                 string
	Section            LegalSection
	Original           LegalSection
	OriginalConfidence float64
	Notes              string
}

// ManualPrediction was added by the officer without an AI suggestion.
type ManualPrediction struct {
	ID      string
	Section LegalSection
}

// PredictionView is the flat representation used on the wire.
type PredictionView struct {
	ID               string        `json:"id"`
	SectionNumber    string        `json:"sectionNumber"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Punishment       string        `json:"punishment"`
	Category         string        `json:"category"`
	Confidence       float64       `json:"confidence"`
	IsManual         bool          `json:"isManual"`
	OfficerAction    OfficerAction `json:"officerAction,omitempty"`
	CorrectedSection string        `json:"correctedSection,omitempty"`
	OriginalSection  string        `json:"originalSection,omitempty"`
	FeedbackNotes    string        `json:"feedbackNotes,omitempty"`
}

func (p AIPrediction) PredictionID() string { return p.ID }

func (p AIPrediction) View() PredictionView {
	return PredictionView{
		ID:               p.ID,
		SectionNumber:    p.Section.SectionNumber,
		Title:            p.Section.Title,
		Description:      p.Section.Description,
		Punishment:       p.Section.Punishment,
		Category:         p.Section.Category,
		Confidence:       p.Confidence,
		IsManual:         false,
		OfficerAction:    p.Action,
		CorrectedSection: "",
		OriginalSection:  "",
		FeedbackNotes:    "",
	}
}

func (AIPrediction) isPrediction() {}

func (p CorrectedPrediction) PredictionID() string { return p.ID }

func (p CorrectedPrediction) View() PredictionView {
	return PredictionView{
		ID:               p.ID,
		SectionNumber:    p.Section.SectionNumber,
		Title:            p.Section.Title,
		Description:      p.Section.Description,
		Punishment:       p.Section.Punishment,
		Category:         p.Section.Category,
		Confidence:       p.OriginalConfidence,
		IsManual:         false,
		OfficerAction:    OfficerActionCorrected,
		CorrectedSection: p.Section.SectionNumber,
		OriginalSection:  p.Original.SectionNumber,
		FeedbackNotes:    p.Notes,
	}
}

func (CorrectedPrediction) isPrediction() {}

func (p ManualPrediction) PredictionID() string { return p.ID }

func (p ManualPrediction) View() PredictionView {
	return PredictionView{
		ID:               p.ID,
		SectionNumber:    p.Section.SectionNumber,
		Title:            p.Section.Title,
		Description:      p.Section.Description,
		Punishment:       p.Section.Punishment,
		Category:         p.Section.Category,
		Confidence:       ManualConfidence,
		IsManual:         true,
		OfficerAction:    OfficerActionUnset,
		CorrectedSection: "",
		OriginalSection:  "",
		FeedbackNotes:    "",
	}
}

func (ManualPrediction) isPrediction() {}

// FeedbackRecord is the latest officer decision on one prediction.
type FeedbackRecord struct {
	PredictionID     string        `json:"predictionId"`
	Action           OfficerAction `json:"action"`
	CorrectedSection string        `json:"correctedSection,omitempty"`
	FeedbackNotes    string        `json:"feedbackNotes,omitempty"`
}
