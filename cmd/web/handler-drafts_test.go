package main

import (
	"net/http"
	"regexp"
	"strconv"
	"testing"

	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/stretchr/testify/require"
)

type testDraft struct {
	ID          string                  `json:"id"`
	Version     int                     `json:"version"`
	Fallback    bool                    `json:"fallback"`
	Predictions []models.PredictionView `json:"predictions"`
	SelectedIDs []string                `json:"selectedIds"`
	Feedback    []models.FeedbackRecord `json:"feedback"`
}

type testDraftResponse struct {
	Success bool      `json:"success"`
	Draft   testDraft `json:"draft"`
}

func TestPredictSections(t *testing.T) {
	t.Parallel()
	client := startLoggedIn(t, nil)

	var resp predictSectionsResponse
	doJSON(t, client, http.MethodPost, "/api/ai-section-predict", map[string]string{
		"complaintText": "Someone stole my bag and pushed me at the market.",
		"incidentType":  "Theft",
		"location":      "KR Market",
	}, nil, http.StatusOK, &resp)
	require.True(t, resp.Success)
	require.False(t, resp.Fallback)
	require.Len(t, resp.Predictions, 2)
	require.Equal(t, "pred-1", resp.Predictions[0].ID)
	require.Equal(t, "Section 303", resp.Predictions[0].SectionNumber)
	require.InDelta(t, 92, resp.Predictions[0].Confidence, 0)
	require.Equal(t, "Section 115", resp.Predictions[1].SectionNumber)
	require.InDelta(t, 70, resp.Predictions[1].Confidence, 0)

	doJSON(t, client, http.MethodPost, "/api/ai-section-predict",
		map[string]string{"complaintText": "  "}, nil, http.StatusBadRequest, nil)
}

func TestPredictSections_Fallback(t *testing.T) {
	t.Parallel()
	client := startLoggedIn(t, map[string]string{"NYAYA_AI_PROVIDER": "none"})

	var resp predictSectionsResponse
	doJSON(t, client, http.MethodPost, "/api/ai-section-predict",
		map[string]string{"complaintText": "He stole my phone and ran"}, nil, http.StatusOK, &resp)
	require.True(t, resp.Fallback)
	require.NotEmpty(t, resp.Predictions)
	require.Equal(t, "Section 303", resp.Predictions[0].SectionNumber)
	require.Equal(t, "Theft", resp.Predictions[0].Title)
	require.InDelta(t, 85, resp.Predictions[0].Confidence, 0)
}

func TestDraftReviewAndSave(t *testing.T) {
	t.Parallel()
	client := startLoggedIn(t, nil)

	var created testDraftResponse
	resp := doJSON(t, client, http.MethodPost, "/api/drafts", map[string]string{
		"complaintText": "Someone stole my bag and pushed me at the market.",
	}, nil, http.StatusCreated, &created)
	draft := created.Draft
	require.Equal(t, 1, draft.Version)
	require.Equal(t, `"1"`, resp.Header.Get("ETag"))
	require.Len(t, draft.Predictions, 2)
	require.Empty(t, draft.SelectedIDs)
	base := "/api/drafts/" + draft.ID

	// Mutations need the version the client last saw.
	doJSON(t, client, http.MethodPost, base+"/predictions/pred-1/accept", nil, nil,
		http.StatusPreconditionRequired, nil)

	var updated testDraftResponse
	doJSON(t, client, http.MethodPost, base+"/predictions/pred-1/accept", nil, ifMatch("1"), http.StatusOK, &updated)
	require.Equal(t, 2, updated.Draft.Version)
	require.Equal(t, []string{"pred-1"}, updated.Draft.SelectedIDs)

	// A second tab still holding version 1 loses.
	doJSON(t, client, http.MethodPost, base+"/predictions/pred-2/reject", nil, ifMatch("1"),
		http.StatusPreconditionFailed, nil)

	doJSON(t, client, http.MethodPost, base+"/predictions/pred-2/reject", nil, ifMatch(`"2"`), http.StatusOK, &updated)
	doJSON(t, client, http.MethodPost, base+"/predictions/pred-2/correct", map[string]string{
		"sectionNumber": "",
		"title":         "Mischief",
	}, ifMatch("3"), http.StatusBadRequest, nil)
	doJSON(t, client, http.MethodPost, base+"/predictions/pred-2/correct", map[string]string{
		"sectionNumber": "Section 324",
		"title":         "Mischief",
		"feedbackNotes": "No injury reported",
	}, ifMatch("3"), http.StatusOK, &updated)
	require.Equal(t, 4, updated.Draft.Version)
	corrected := updated.Draft.Predictions[1]
	require.Equal(t, models.OfficerActionCorrected, corrected.OfficerAction)
	require.Equal(t, "Section 324", corrected.CorrectedSection)
	require.Equal(t, "Section 115", corrected.OriginalSection)
	require.Contains(t, updated.Draft.SelectedIDs, "pred-2")

	doJSON(t, client, http.MethodPost, base+"/manual", map[string]string{
		"sectionNumber": "Section 302",
		"title":         "Murder",
	}, ifMatch("4"), http.StatusCreated, &updated)
	require.Len(t, updated.Draft.Predictions, 3)
	manual := updated.Draft.Predictions[2]
	require.True(t, manual.IsManual)
	require.Contains(t, updated.Draft.SelectedIDs, manual.ID)

	// Manual sections carry no AI suggestion to reject.
	doJSON(t, client, http.MethodPost, base+"/predictions/"+manual.ID+"/reject", nil, ifMatch("5"),
		http.StatusConflict, nil)
	doJSON(t, client, http.MethodPost, base+"/predictions/missing/accept", nil, ifMatch("5"),
		http.StatusNotFound, nil)

	var fetched testDraftResponse
	doJSON(t, client, http.MethodGet, base, nil, nil, http.StatusOK, &fetched)
	require.Equal(t, 5, fetched.Draft.Version)
	require.Len(t, fetched.Draft.Feedback, 2)

	fir := map[string]any{
		"draftId":         draft.ID,
		"complainantName": "Asha Rao",
		"contactNumber":   "9876543210",
		"incidentType":    "Theft",
		"location":        "KR Market",
		"accusedList":     []map[string]string{{"name": "Unknown", "description": "Tall, red shirt"}},
	}
	doJSON(t, client, http.MethodPost, "/api/save-fir", fir, ifMatch("4"), http.StatusPreconditionFailed, nil)

	var saved savedFIRResponse
	doJSON(t, client, http.MethodPost, "/api/save-fir", fir, ifMatch("5"), http.StatusCreated, &saved)
	require.Regexp(t, regexp.MustCompile(`^FIR/\d{4}/\d{4}/\d{6}$`), saved.FIRNumber)

	// The draft is consumed by the save.
	doJSON(t, client, http.MethodGet, base, nil, nil, http.StatusNotFound, nil)

	var detail struct {
		FIR models.FIR `json:"fir"`
	}
	doJSON(t, client, http.MethodGet, "/api/firs/"+strconv.FormatInt(saved.ID, 10), nil, nil, http.StatusOK, &detail)
	require.Equal(t, "Someone stole my bag and pushed me at the market.", detail.FIR.ComplaintText)
	require.Equal(t, models.FIRStatusPending, detail.FIR.Status)
	require.Len(t, detail.FIR.AccusedList, 1)
	require.Len(t, detail.FIR.LegalSections, 3)
	bySection := map[string]models.FIRSection{}
	for _, s := range detail.FIR.LegalSections {
		bySection[s.SectionNumber] = s
	}
	require.Equal(t, models.OfficerActionAccepted, bySection["Section 303"].OfficerAction)
	require.Equal(t, "Section 115", bySection["Section 324"].OriginalAIPrediction)
	require.True(t, bySection["Section 302"].IsManual)
	require.Nil(t, bySection["Section 302"].Confidence)
}

func TestSaveFIR_InlineReview(t *testing.T) {
	t.Parallel()
	client := startLoggedIn(t, nil)

	review := map[string]any{
		"predictions": []map[string]any{
			{"id": "pred-1", "sectionNumber": "Section 303", "title": "Theft", "confidence": 85, "officerAction": "accepted"},
			{"id": "pred-2", "sectionNumber": "Section 351", "title": "Criminal intimidation", "confidence": 40,
				"officerAction": "rejected"},
		},
		"selectedIds": []string{"pred-1"},
		"feedback": []map[string]any{
			{"predictionId": "pred-1", "action": "accepted"},
			{"predictionId": "pred-2", "action": "rejected"},
		},
	}
	fir := map[string]any{
		"complainantName": "Ravi Kumar",
		"contactNumber":   "9876543210",
		"complaintText":   "My bicycle was stolen from outside the library.",
		"review":          review,
	}

	tests := []struct {
		name       string
		mutate     func(body map[string]any)
		wantStatus int
		wantField  string
	}{
		{
			name:       "short contact number",
			mutate:     func(body map[string]any) { body["contactNumber"] = "98765" },
			wantStatus: http.StatusBadRequest,
			wantField:  "contactNumber",
		},
		{
			name:       "missing complaint",
			mutate:     func(body map[string]any) { delete(body, "complaintText") },
			wantStatus: http.StatusBadRequest,
			wantField:  "complaintText",
		},
		{
			name: "nothing selected",
			mutate: func(body map[string]any) {
				body["review"] = map[string]any{
					"predictions": []map[string]any{
						{"id": "pred-1", "sectionNumber": "Section 303", "title": "Theft", "confidence": 85},
					},
					"selectedIds": []string{},
				}
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "legalSections",
		},
		{
			name: "feedback contradicts review",
			mutate: func(body map[string]any) {
				body["review"] = map[string]any{
					"predictions": review["predictions"],
					"selectedIds": []string{"pred-1"},
					"feedback": []map[string]any{
						{"predictionId": "pred-2", "action": "accepted"},
					},
				}
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "feedback",
		},
		{
			name:       "no review",
			mutate:     func(body map[string]any) { delete(body, "review") },
			wantStatus: http.StatusBadRequest,
			wantField:  "review",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]any{}
			for k, v := range fir {
				body[k] = v
			}
			tt.mutate(body)
			var failed errorResponse
			doJSON(t, client, http.MethodPost, "/api/save-fir", body, nil, tt.wantStatus, &failed)
			require.Equal(t, tt.wantField, failed.Field)
		})
	}

	var saved savedFIRResponse
	doJSON(t, client, http.MethodPost, "/api/save-fir", fir, nil, http.StatusCreated, &saved)
	require.Positive(t, saved.ID)
}
