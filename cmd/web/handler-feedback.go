package main

import (
	"net/http"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/repositories"
)

type feedbackRequest struct {
	FIRID        int64               `json:"firId"`
	FeedbackType models.FeedbackType `json:"feedbackType"`
	Rating       int                 `json:"rating"`
	Comments     string              `json:"comments"`
}

func (app *application) createFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	feedback := models.PredictionFeedback{ //nolint:exhaustruct // the store fills in the rest
		FIRID:        req.FIRID,
		FeedbackType: req.FeedbackType,
		Rating:       req.Rating,
		Comments:     req.Comments,
	}
	if err := app.feedback.Create(r.Context(), &feedback); err != nil {
		app.handleError(w, r, errors.Wrap(err, "create feedback"))
		return
	}
	app.writeJSON(w, r, http.StatusCreated, map[string]any{
		"success": true,
		"id":      feedback.ID,
		"status":  feedback.Status,
	})
}

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type feedbackListResponse struct {
	Success    bool                        `json:"success"`
	Data       []models.PredictionFeedback `json:"data"`
	Stats      models.FeedbackStats        `json:"stats"`
	Pagination pagination                  `json:"pagination"`
}

func (app *application) listFeedback(w http.ResponseWriter, r *http.Request) {
	var (
		filter = models.FeedbackFilter{
			Status:       strings.TrimSpace(r.URL.Query().Get("status")),
			FeedbackType: models.FeedbackType(strings.TrimSpace(r.URL.Query().Get("type"))),
			Page:         1,
			Limit:        0,
		}
		page *repositories.FeedbackPage
		err  error
	)
	if filter.FeedbackType != "" && !filter.FeedbackType.Valid() {
		app.handleError(w, r, models.NewValidationError("type", "must be accurate, partially-correct or incorrect"))
		return
	}
	if filter.Page, err = queryInt(r, "page", 1); err != nil {
		app.handleError(w, r, err)
		return
	}
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		app.handleError(w, r, err)
		return
	}
	if page, err = app.feedback.List(r.Context(), filter); err != nil {
		app.handleError(w, r, errors.Wrap(err, "list feedback"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, feedbackListResponse{
		Success: true,
		Data:    page.Data,
		Stats:   page.Stats,
		Pagination: pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}
