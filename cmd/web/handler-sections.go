package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
)

type sectionsResponse struct {
	Success  bool                  `json:"success"`
	Sections []models.LegalSection `json:"sections"`
}

// searchSections lets citizens browse the legal catalog.
func (app *application) searchSections(w http.ResponseWriter, r *http.Request) {
	var (
		query    = r.URL.Query()
		limit    int
		sections []models.LegalSection
		err      error
	)
	if limit, err = queryInt(r, "limit", 0); err != nil {
		app.handleError(w, r, err)
		return
	}
	if sections, err = app.sections.Search(r.Context(), query.Get("q"), query.Get("category"), limit); err != nil {
		app.handleError(w, r, errors.Wrap(err, "search sections"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, sectionsResponse{Success: true, Sections: sections})
}

// getSection accepts both "Section 303" and "303".
func (app *application) getSection(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(r.PathValue("number"))
	if !strings.HasPrefix(strings.ToLower(number), "section ") {
		number = "Section " + number
	}
	section, err := app.sections.Get(r.Context(), number)
	if err != nil {
		app.handleError(w, r, errors.Wrap(err, "get section", slog.String("section_number", number)))
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "section": section})
}
