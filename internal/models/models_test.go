package models_test

import (
	"slices"
	"testing"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := errors.Wrap(models.NewValidationError("complaintText", "is required"), "save fir")
	require.ErrorIs(t, err, models.ErrValidation)

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "complaintText", validationErr.Field)
}

func TestParseFIRStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    models.FIRStatus
		wantErr bool
	}{
		{in: "PENDING", want: models.FIRStatusPending},
		{in: "solved", want: models.FIRStatusSolved},
		{in: " Solved ", want: models.FIRStatusSolved},
		{in: "closed", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := models.ParseFIRStatus(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, models.ErrValidation)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPredictionFeedbackValidate(t *testing.T) {
	valid := models.PredictionFeedback{FIRID: 1, FeedbackType: models.FeedbackTypeAccurate, Rating: 5}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(f *models.PredictionFeedback)
		field  string
	}{
		{name: "missing fir", mutate: func(f *models.PredictionFeedback) { f.FIRID = 0 }, field: "firId"},
		{name: "unknown type", mutate: func(f *models.PredictionFeedback) { f.FeedbackType = "great" }, field: "feedbackType"},
		{name: "rating too low", mutate: func(f *models.PredictionFeedback) { f.Rating = 0 }, field: "rating"},
		{name: "rating too high", mutate: func(f *models.PredictionFeedback) { f.Rating = 6 }, field: "rating"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			var validationErr *models.ValidationError
			require.ErrorAs(t, f.Validate(), &validationErr)
			require.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestPredictionViews(t *testing.T) {
	manual := models.ManualPrediction{
		ID:      "manual-1",
		Section: models.LegalSection{SectionNumber: "Section 302", Title: "Murder"},
	}
	view := manual.View()
	require.True(t, view.IsManual)
	require.InDelta(t, models.ManualConfidence, view.Confidence, 0)

	corrected := models.CorrectedPrediction{
		ID:                 "pred-1",
		Section:            models.LegalSection{SectionNumber: "Section 324", Title: "Hurt"},
		Original:           models.LegalSection{SectionNumber: "Section 131", Title: "Assault"},
		OriginalConfidence: 80,
		Notes:              "weapon used",
	}
	view = corrected.View()
	require.Equal(t, models.OfficerActionCorrected, view.OfficerAction)
	require.Equal(t, "Section 324", view.CorrectedSection)
	require.Equal(t, "Section 131", view.OriginalSection)
}

func TestFIRValidate(t *testing.T) {
	valid := models.FIR{
		ComplainantName: "Asha Rao",
		ContactNumber:   "9876543210",
		ComplaintText:   "My phone was stolen at the bus stand.",
		AccusedList:     []models.Accused{{Name: "Unknown"}},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(f *models.FIR)
		field  string
	}{
		{name: "missing complaint", mutate: func(f *models.FIR) { f.ComplaintText = "  " }, field: "complaintText"},
		{name: "missing complainant", mutate: func(f *models.FIR) { f.ComplainantName = "" }, field: "complainantName"},
		{name: "missing contact", mutate: func(f *models.FIR) { f.ContactNumber = "" }, field: "contactNumber"},
		{name: "short contact", mutate: func(f *models.FIR) { f.ContactNumber = "98765" }, field: "contactNumber"},
		{name: "contact with letters", mutate: func(f *models.FIR) { f.ContactNumber = "98765abcde" }, field: "contactNumber"},
		{name: "nameless accused", mutate: func(f *models.FIR) { f.AccusedList = []models.Accused{{}} }, field: "accusedList"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := valid
			f.AccusedList = slices.Clone(valid.AccusedList)
			tt.mutate(&f)
			var validationErr *models.ValidationError
			require.ErrorAs(t, f.Validate(), &validationErr)
			require.Equal(t, tt.field, validationErr.Field)
		})
	}
}
