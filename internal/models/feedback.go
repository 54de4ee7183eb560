package models

import "time"

type FeedbackType string

const (
	FeedbackTypeAccurate         FeedbackType = "accurate"
	FeedbackTypePartiallyCorrect FeedbackType = "partially-correct"
	FeedbackTypeIncorrect        FeedbackType = "incorrect"
)

var validFeedbackTypes = map[FeedbackType]bool{
	FeedbackTypeAccurate:         true,
	FeedbackTypePartiallyCorrect: true,
	FeedbackTypeIncorrect:        true,
}

func (t FeedbackType) Valid() bool {
	return validFeedbackTypes[t]
}

const (
	MinRating = 1
	MaxRating = 5
)

// PredictionFeedback is an officer's rating of how well the suggested sections fit a saved FIR.
type PredictionFeedback struct {
	ID           int64        `db:"id"            json:"id"`
	FIRID        int64        `db:"fir_id"        json:"firId"`
	FeedbackType FeedbackType `db:"feedback_type" json:"feedbackType"`
	Rating       int          `db:"rating"        json:"rating"`
	Comments     string       `db:"comments"      json:"comments"`
	Status       string       `db:"status"        json:"status"`
	CreatedAt    time.Time    `db:"created_at"    json:"createdAt"`
}

// Validate checks the type and rating bounds.
func (f PredictionFeedback) Validate() error {
	if f.FIRID <= 0 {
		return NewValidationError("firId", "is required")
	}
	if !f.FeedbackType.Valid() {
		return NewValidationError("feedbackType", "must be accurate, partially-correct or incorrect")
	}
	if f.Rating < MinRating || f.Rating > MaxRating {
		return NewValidationError("rating", "must be between 1 and 5")
	}
	return nil
}

type FeedbackFilter struct {
	Status       string
	FeedbackType FeedbackType
	Page         int
	Limit        int
}

type FeedbackStats struct {
	Total            int     `db:"total"             json:"total"`
	Accurate         int     `db:"accurate"          json:"accurate"`
	PartiallyCorrect int     `db:"partially_correct" json:"partiallyCorrect"`
	Incorrect        int     `db:"incorrect"         json:"incorrect"`
	AverageRating    float64 `db:"average_rating"    json:"averageRating"`
}
