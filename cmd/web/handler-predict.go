package main

import (
	"math"
	"net/http"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/prediction"
)

type predictSectionsRequest struct {
	ComplaintText string `json:"complaintText"`
	IncidentType  string `json:"incidentType"`
	Location      string `json:"location"`
}

type predictSectionsResponse struct {
	Success     bool                    `json:"success"`
	Predictions []models.PredictionView `json:"predictions"`
	Fallback    bool                    `json:"fallback"`
}

// predictSections suggests legal sections for the complaint an officer is registering.
func (app *application) predictSections(w http.ResponseWriter, r *http.Request) {
	var (
		req    predictSectionsRequest
		result prediction.Result
		err    error
	)
	if err = decodeJSON(r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	if result, err = app.predictor.PredictSections(r.Context(), req.ComplaintText, prediction.Incident{
		IncidentType: req.IncidentType,
		Location:     req.Location,
	}); err != nil {
		app.handleError(w, r, errors.Wrap(err, "predict sections"))
		return
	}
	views := make([]models.PredictionView, 0, len(result.Predictions))
	for _, p := range result.Predictions {
		views = append(views, p.View())
	}
	app.writeJSON(w, r, http.StatusOK, predictSectionsResponse{
		Success:     true,
		Predictions: views,
		Fallback:    result.Fallback,
	})
}

type predictLawsRequest struct {
	Complaint string `json:"complaint"`
}

type lawMatch struct {
	Section         string `json:"section"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	MatchPercentage int    `json:"matchPercentage"`
	Description     string `json:"description"`
	Punishment      string `json:"punishment"`
}

// predictLaws is the citizen facing section predictor. It shares the gateway with the police console.
func (app *application) predictLaws(w http.ResponseWriter, r *http.Request) {
	var (
		req    predictLawsRequest
		result prediction.Result
		err    error
	)
	if err = decodeJSON(r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	if result, err = app.predictor.PredictSections(r.Context(), req.Complaint, prediction.Incident{}); err != nil {
		app.handleError(w, r, errors.Wrap(err, "predict laws"))
		return
	}
	matches := make([]lawMatch, 0, len(result.Predictions))
	for _, p := range result.Predictions {
		matches = append(matches, lawMatch{
			Section:         p.Section.SectionNumber,
			Title:           p.Section.Title,
			Category:        p.Section.Category,
			MatchPercentage: int(math.Round(p.Confidence)),
			Description:     p.Section.Description,
			Punishment:      p.Section.Punishment,
		})
	}
	app.writeJSON(w, r, http.StatusOK, matches)
}
