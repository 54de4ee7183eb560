package main

import (
	"log/slog"
	"net/http"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/prediction"
	"github.com/nyaya-ai/nyaya/internal/review"
)

type draftResponse struct {
	Success bool               `json:"success"`
	Draft   review.SessionView `json:"draft"`
}

func (app *application) writeDraft(w http.ResponseWriter, r *http.Request, status int, session *review.Session) {
	setETag(w, session.Version)
	app.writeJSON(w, r, status, draftResponse{Success: true, Draft: session.View()})
}

// createDraft predicts sections for a complaint and opens a server-side review of them.
func (app *application) createDraft(w http.ResponseWriter, r *http.Request) {
	var (
		req     predictSectionsRequest
		session *review.Session
		err     error
	)
	if err = decodeJSON(r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	if session, err = app.reviews.Start(r.Context(), officerID(r), req.ComplaintText, prediction.Incident{
		IncidentType: req.IncidentType,
		Location:     req.Location,
	}); err != nil {
		app.handleError(w, r, errors.Wrap(err, "start review"))
		return
	}
	app.writeDraft(w, r, http.StatusCreated, session)
}

func (app *application) getDraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, err := app.reviews.Get(r.Context(), id, officerID(r))
	if err != nil {
		app.handleError(w, r, errors.Wrap(err, "get draft", slog.String("draft_id", id)))
		return
	}
	app.writeDraft(w, r, http.StatusOK, session)
}

// applyToDraft runs op against the draft named in the path under the version sent in If-Match.
func (app *application) applyToDraft(w http.ResponseWriter, r *http.Request, status int, op func(d *review.Draft) error) {
	var (
		id      = r.PathValue("id")
		version int
		session *review.Session
		err     error
	)
	if version, err = ifMatchVersion(r); err != nil {
		app.handleError(w, r, err)
		return
	}
	if session, err = app.reviews.Apply(r.Context(), id, officerID(r), version, op); err != nil {
		app.handleError(w, r, errors.Wrap(err, "apply to draft",
			slog.String("draft_id", id), slog.String("prediction_id", r.PathValue("pid"))))
		return
	}
	app.writeDraft(w, r, status, session)
}

func (app *application) acceptPrediction(w http.ResponseWriter, r *http.Request) {
	app.applyToDraft(w, r, http.StatusOK, func(d *review.Draft) error {
		return d.Accept(r.PathValue("pid"))
	})
}

func (app *application) rejectPrediction(w http.ResponseWriter, r *http.Request) {
	app.applyToDraft(w, r, http.StatusOK, func(d *review.Draft) error {
		return d.Reject(r.PathValue("pid"))
	})
}

func (app *application) openCorrection(w http.ResponseWriter, r *http.Request) {
	app.applyToDraft(w, r, http.StatusOK, func(d *review.Draft) error {
		return d.OpenCorrection(r.PathValue("pid"))
	})
}

func (app *application) correctPrediction(w http.ResponseWriter, r *http.Request) {
	var correction review.Correction
	if err := decodeJSON(r, &correction); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.applyToDraft(w, r, http.StatusOK, func(d *review.Draft) error {
		return d.Correct(r.PathValue("pid"), correction)
	})
}

func (app *application) acceptAll(w http.ResponseWriter, r *http.Request) {
	app.applyToDraft(w, r, http.StatusOK, func(d *review.Draft) error {
		d.AcceptAll()
		return nil
	})
}

type manualSectionRequest struct {
	SectionNumber string `json:"sectionNumber"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Punishment    string `json:"punishment"`
	Category      string `json:"category"`
}

func (app *application) addManual(w http.ResponseWriter, r *http.Request) {
	var req manualSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.applyToDraft(w, r, http.StatusCreated, func(d *review.Draft) error {
		_, err := d.AddManual(models.LegalSection{
			SectionNumber: req.SectionNumber,
			Title:         req.Title,
			Description:   req.Description,
			Punishment:    req.Punishment,
			Category:      req.Category,
			Keywords:      nil,
		})
		return err
	})
}

func (app *application) removeManual(w http.ResponseWriter, r *http.Request) {
	app.applyToDraft(w, r, http.StatusOK, func(d *review.Draft) error {
		return d.RemoveManual(r.PathValue("pid"))
	})
}
