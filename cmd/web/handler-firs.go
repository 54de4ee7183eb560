package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/firpdf"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/prediction"
	"github.com/nyaya-ai/nyaya/internal/register"
	"github.com/nyaya-ai/nyaya/internal/repositories"
	"github.com/nyaya-ai/nyaya/internal/review"
)

const (
	defaultFIRPageSize = 10
	maxFIRPageSize     = 100
)

// firFields are the FIR form fields shared by both ways of registering a FIR.
type firFields struct {
	ComplainantName string           `json:"complainantName"`
	ContactNumber   string           `json:"contactNumber"`
	Address         string           `json:"address"`
	IncidentType    string           `json:"incidentType"`
	IncidentDate    string           `json:"incidentDate"`
	IncidentTime    string           `json:"incidentTime"`
	Location        string           `json:"location"`
	ComplaintText   string           `json:"complaintText"`
	AccusedList     []models.Accused `json:"accusedList"`
}

func (f firFields) fir(officerID int64) *models.FIR {
	return &models.FIR{ //nolint:exhaustruct // ids, number and timestamps are assigned by the store
		ComplainantName: strings.TrimSpace(f.ComplainantName),
		ContactNumber:   strings.TrimSpace(f.ContactNumber),
		Address:         strings.TrimSpace(f.Address),
		IncidentType:    strings.TrimSpace(f.IncidentType),
		IncidentDate:    f.IncidentDate,
		IncidentTime:    f.IncidentTime,
		Location:        strings.TrimSpace(f.Location),
		ComplaintText:   strings.TrimSpace(f.ComplaintText),
		Status:          models.FIRStatusPending,
		OfficerID:       &officerID,
		AccusedList:     f.AccusedList,
	}
}

type saveFIRRequest struct {
	firFields
	// DraftID names a server-side review. The draft version goes in the If-Match header.
	DraftID string `json:"draftId"`
	// Review is the client-held review state, used when DraftID is empty.
	Review *review.View `json:"review"`
}

type savedFIRResponse struct {
	Success   bool   `json:"success"`
	ID        int64  `json:"id"`
	FIRNumber string `json:"firNumber"`
}

// saveFIR registers a FIR with the sections the officer selected during review and records the officer's decisions
// on the AI suggestions.
func (app *application) saveFIR(w http.ResponseWriter, r *http.Request) {
	var (
		req     saveFIRRequest
		draft   *review.Draft
		session *review.Session
		version int
		err     error
	)
	if err = decodeJSON(r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	fir := req.fir(officerID(r))

	switch {
	case req.DraftID != "":
		if version, err = ifMatchVersion(r); err != nil {
			app.handleError(w, r, err)
			return
		}
		if session, err = app.reviews.Get(r.Context(), req.DraftID, officerID(r)); err != nil {
			app.handleError(w, r, errors.Wrap(err, "load draft", slog.String("draft_id", req.DraftID)))
			return
		}
		if session.Version != version {
			app.handleError(w, r, errors.Wrap(models.ErrVersionConflict, "check draft version",
				slog.Int("expected", version), slog.Int("current", session.Version)))
			return
		}
		draft = session.Draft
		if fir.ComplaintText == "" {
			fir.ComplaintText = session.ComplaintText
		}
	case req.Review != nil:
		if draft, err = review.FromView(*req.Review); err != nil {
			app.handleError(w, r, errors.Wrap(err, "rebuild review"))
			return
		}
	default:
		app.handleError(w, r, models.NewValidationError("review", "draftId or review is required"))
		return
	}

	if err = fir.Validate(); err != nil {
		app.handleError(w, r, err)
		return
	}
	fir.LegalSections = draft.Sections()
	if len(fir.LegalSections) == 0 {
		app.handleError(w, r, models.NewValidationError("legalSections", "select at least one legal section"))
		return
	}

	if err = app.firs.Save(r.Context(), repositories.FIRSave{
		FIR:          fir,
		Feedback:     draft.AIFeedback(fir.ComplaintText),
		DraftID:      req.DraftID,
		DraftVersion: version,
	}); err != nil {
		app.handleError(w, r, errors.Wrap(err, "save FIR"))
		return
	}
	app.writeJSON(w, r, http.StatusCreated, savedFIRResponse{Success: true, ID: fir.ID, FIRNumber: fir.FIRNumber})
}

type predictedSection struct {
	SectionNumber string   `json:"sectionNumber"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Punishment    string   `json:"punishment"`
	Category      string   `json:"category"`
	Confidence    *float64 `json:"confidence"`
	IsManual      bool     `json:"isManual"`
}

type createFIRRequest struct {
	firFields
	PredictedSections []predictedSection `json:"predictedSections"`
}

// createFIR registers a FIR with sections the client already settled on, without review feedback.
func (app *application) createFIR(w http.ResponseWriter, r *http.Request) {
	var (
		req createFIRRequest
		err error
	)
	if err = decodeJSON(r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	fir := req.fir(officerID(r))
	if err = fir.Validate(); err != nil {
		app.handleError(w, r, err)
		return
	}
	for i, s := range req.PredictedSections {
		section := models.FIRSection{ //nolint:exhaustruct // ids are assigned by the store
			PredictionID:  "pred-" + strconv.Itoa(i+1),
			SectionNumber: strings.TrimSpace(s.SectionNumber),
			Title:         strings.TrimSpace(s.Title),
			Description:   s.Description,
			Punishment:    s.Punishment,
			Category:      s.Category,
			Confidence:    s.Confidence,
			IsManual:      s.IsManual,
			OfficerAction: models.OfficerActionAccepted,
		}
		if section.SectionNumber == "" || section.Title == "" {
			app.handleError(w, r, models.NewValidationError("predictedSections", "section number and title are required"))
			return
		}
		switch {
		case s.IsManual:
			section.PredictionID = "manual-" + strconv.Itoa(i+1)
			section.Confidence = nil
			section.OfficerAction = models.OfficerActionManual
		case s.Confidence == nil:
			confidence := float64(prediction.DefaultConfidence)
			section.Confidence = &confidence
		case *s.Confidence < 0 || *s.Confidence > 100: //nolint:mnd // percent
			app.handleError(w, r, models.NewValidationError("predictedSections",
				"confidence must be between 0 and 100"))
			return
		}
		fir.LegalSections = append(fir.LegalSections, section)
	}

	if err = app.firs.Save(r.Context(), repositories.FIRSave{FIR: fir, Feedback: nil, DraftID: "", DraftVersion: 0}); err != nil {
		app.handleError(w, r, errors.Wrap(err, "create FIR"))
		return
	}
	app.writeJSON(w, r, http.StatusCreated, savedFIRResponse{Success: true, ID: fir.ID, FIRNumber: fir.FIRNumber})
}

func firFilter(r *http.Request) (models.FIRFilter, error) {
	var (
		query  = r.URL.Query()
		filter = models.FIRFilter{
			Status:       "",
			IncidentType: strings.TrimSpace(query.Get("type")),
			Limit:        defaultFIRPageSize,
			Offset:       0,
		}
		err error
	)
	if status := query.Get("status"); status != "" {
		if filter.Status, err = models.ParseFIRStatus(status); err != nil {
			return filter, err
		}
	}
	if filter.Limit, err = queryInt(r, "limit", defaultFIRPageSize); err != nil {
		return filter, err
	}
	filter.Limit = min(max(filter.Limit, 1), maxFIRPageSize)
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		return filter, err
	}
	filter.Offset = max(filter.Offset, 0)
	return filter, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError(key, "must be a number")
	}
	return n, nil
}

type firListResponse struct {
	Success bool         `json:"success"`
	FIRs    []models.FIR `json:"firs"`
	Total   int          `json:"total"`
	HasMore bool         `json:"hasMore"`
}

func (app *application) listFIRs(w http.ResponseWriter, r *http.Request) {
	var (
		filter models.FIRFilter
		firs   []models.FIR
		total  int
		err    error
	)
	if filter, err = firFilter(r); err != nil {
		app.handleError(w, r, err)
		return
	}
	if firs, total, err = app.firs.List(r.Context(), filter); err != nil {
		app.handleError(w, r, errors.Wrap(err, "list FIRs"))
		return
	}
	if firs == nil {
		firs = []models.FIR{}
	}
	app.writeJSON(w, r, http.StatusOK, firListResponse{
		Success: true,
		FIRs:    firs,
		Total:   total,
		HasMore: filter.Offset+len(firs) < total,
	})
}

func pathFIRID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Wrap(models.ErrNotFound, "parse FIR id", slog.String("id", r.PathValue("id")))
	}
	return id, nil
}

func (app *application) loadFIR(r *http.Request) (*models.FIR, error) {
	id, err := pathFIRID(r)
	if err != nil {
		return nil, err
	}
	fir, err := app.firs.Get(r.Context(), id)
	if err != nil {
		return nil, errors.Wrap(err, "get FIR", slog.Int64("fir_id", id))
	}
	return fir, nil
}

func (app *application) getFIR(w http.ResponseWriter, r *http.Request) {
	fir, err := app.loadFIR(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "fir": fir})
}

func (app *application) updateFIRStatus(w http.ResponseWriter, r *http.Request) {
	var (
		id     int64
		status models.FIRStatus
		err    error
	)
	if id, err = pathFIRID(r); err != nil {
		app.handleError(w, r, err)
		return
	}
	if status, err = models.ParseFIRStatus(r.URL.Query().Get("status")); err != nil {
		app.handleError(w, r, err)
		return
	}
	if err = app.firs.UpdateStatus(r.Context(), id, status); err != nil {
		app.handleError(w, r, errors.Wrap(err, "update FIR status", slog.Int64("fir_id", id)))
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "id": id, "status": status})
}

func (app *application) firPDF(w http.ResponseWriter, r *http.Request) {
	fir, err := app.loadFIR(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", firpdf.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+firpdf.Filename(fir)+`"`)
	if err = firpdf.Render(w, fir); err != nil {
		// Headers may be out already so only log.
		app.logger.LogAttrs(r.Context(), slog.LevelError, "render FIR pdf", errors.SlogError(err))
	}
}

// exportRegister writes every FIR matching the filter to a spreadsheet.
func (app *application) exportRegister(w http.ResponseWriter, r *http.Request) {
	var (
		filter models.FIRFilter
		firs   []models.FIR
		err    error
	)
	if filter, err = firFilter(r); err != nil {
		app.handleError(w, r, err)
		return
	}
	filter.Limit, filter.Offset = 0, 0
	if firs, _, err = app.firs.List(r.Context(), filter); err != nil {
		app.handleError(w, r, errors.Wrap(err, "list FIRs for register"))
		return
	}
	w.Header().Set("Content-Type", register.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="fir-register.xlsx"`)
	if err = register.Write(w, firs); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "write FIR register", errors.SlogError(err))
	}
}

func (app *application) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := app.firs.Stats(r.Context())
	if err != nil {
		app.handleError(w, r, errors.Wrap(err, "dashboard stats"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, stats)
}
