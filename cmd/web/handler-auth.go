package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
)

type loginRequest struct {
	BadgeNumber string `json:"badgeNumber"`
	Password    string `json:"password"`
}

type officerResponse struct {
	Success bool            `json:"success"`
	Officer *models.Officer `json:"officer"`
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var (
		req     loginRequest
		officer *models.Officer
		err     error
	)
	if err = decodeJSON(r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	req.BadgeNumber = strings.TrimSpace(req.BadgeNumber)
	if req.BadgeNumber == "" || req.Password == "" {
		app.handleError(w, r, models.NewValidationError("badgeNumber", "badge number and password are required"))
		return
	}
	if officer, err = app.officers.Authenticate(r.Context(), req.BadgeNumber, req.Password); err != nil {
		app.handleError(w, r, errors.Wrap(err, "authenticate", slog.String("badge", req.BadgeNumber)))
		return
	}

	// Renew the token on privilege change to prevent session fixation.
	if err = app.sessionManager.RenewToken(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "renew session token"))
		return
	}
	app.sessionManager.Put(r.Context(), officerIDSessionKey, officer.ID)
	app.logger.LogAttrs(r.Context(), slog.LevelInfo, "officer logged in", slog.Int64("officer_id", officer.ID))

	app.writeJSON(w, r, http.StatusOK, officerResponse{Success: true, Officer: officer})
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.Destroy(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "destroy session"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]bool{"success": true})
}

func (app *application) me(w http.ResponseWriter, r *http.Request) {
	officer, err := app.officers.Get(r.Context(), officerID(r))
	if err != nil {
		app.handleError(w, r, errors.Wrap(err, "get officer"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, officerResponse{Success: true, Officer: officer})
}
