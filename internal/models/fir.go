package models

import (
	"strings"
	"time"
)

type FIRStatus string

const (
	FIRStatusPending FIRStatus = "pending"
	FIRStatusSolved  FIRStatus = "solved"
)

// ParseFIRStatus accepts the status in any letter case, e.g. "PENDING".
func ParseFIRStatus(s string) (FIRStatus, error) {
	switch status := FIRStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case FIRStatusPending, FIRStatusSolved:
		return status, nil
	default:
		return "", NewValidationError("status", "must be pending or solved")
	}
}

// FIR is a First Information Report registered by an officer.
type FIR struct {
	ID              int64        `db:"id"               json:"id"`
	FIRNumber       string       `db:"fir_number"       json:"firNumber"`
	ComplainantName string       `db:"complainant_name" json:"complainantName"`
	ContactNumber   string       `db:"contact_number"   json:"contactNumber"`
	Address         string       `db:"address"          json:"address"`
	IncidentType    string       `db:"incident_type"    json:"incidentType"`
	IncidentDate    string       `db:"incident_date"    json:"incidentDate"`
	IncidentTime    string       `db:"incident_time"    json:"incidentTime"`
	Location        string       `db:"location"         json:"location"`
	ComplaintText   string       `db:"complaint_text"   json:"complaintText"`
	Status          FIRStatus    `db:"status"           json:"status"`
	OfficerID       *int64       `db:"officer_id"       json:"officerId,omitempty"`
	CreatedAt       time.Time    `db:"created_at"       json:"createdAt"`
	UpdatedAt       time.Time    `db:"updated_at"       json:"updatedAt"`
	LegalSections   []FIRSection `db:"-"                json:"legalSections"`
	AccusedList     []Accused    `db:"-"                json:"accusedList"`
}

const contactNumberDigits = 10

// Validate checks the fields an officer must fill in before a FIR can be registered.
func (f *FIR) Validate() error {
	switch {
	case strings.TrimSpace(f.ComplaintText) == "":
		return NewValidationError("complaintText", "is required")
	case strings.TrimSpace(f.ComplainantName) == "":
		return NewValidationError("complainantName", "is required")
	case strings.TrimSpace(f.ContactNumber) == "":
		return NewValidationError("contactNumber", "is required")
	case !isDigits(f.ContactNumber, contactNumberDigits):
		return NewValidationError("contactNumber", "must be 10 digits")
	}
	for _, accused := range f.AccusedList {
		if strings.TrimSpace(accused.Name) == "" {
			return NewValidationError("accusedList", "every accused needs a name")
		}
	}
	return nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Accused is a person named in the complaint.
type Accused struct {
	ID          int64  `db:"id"          json:"id"`
	FIRID       int64  `db:"fir_id"      json:"-"`
	Name        string `db:"name"        json:"name"`
	Address     string `db:"address"     json:"address"`
	Description string `db:"description" json:"description"`
}

// FIRSection is a legal section attached to a saved FIR.
type FIRSection struct {
	ID            int64  `db:"id"             json:"id"`
	FIRID         int64  `db:"fir_id"         json:"-"`
	PredictionID  string `db:"prediction_id"  json:"predictionId"`
	SectionNumber string `db:"section_number" json:"sectionNumber"`
	Title         string `db:"title"          json:"title"`
	Description   string `db:"description"    json:"description"`
	Punishment    string `db:"punishment"     json:"punishment"`
	Category      string `db:"category"       json:"category"`
	// Confidence is nil for manual sections.
	Confidence      *float64      `db:"confidence"       json:"confidence"`
	IsManual        bool          `db:"is_manual"        json:"isManual"`
	OfficerAction   OfficerAction `db:"officer_action"   json:"officerAction"`
	OfficerFeedback string        `db:"officer_feedback" json:"officerFeedback,omitempty"`
	// OriginalAIPrediction is the AI section number a corrected section replaced.
	OriginalAIPrediction string `db:"original_ai_prediction" json:"originalAiPrediction,omitempty"`
}

// AIFeedback is the training signal recorded for an AI suggestion when the FIR is saved.
type AIFeedback struct {
	ID                   int64         `db:"id"                    json:"id"`
	FIRID                int64         `db:"fir_id"                json:"firId"`
	ComplaintText        string        `db:"complaint_text"        json:"complaintText"`
	AIPredictedSection   string        `db:"ai_predicted_section"  json:"aiPredictedSection"`
	AIConfidence         float64       `db:"ai_confidence"         json:"aiConfidence"`
	OfficerAction        OfficerAction `db:"officer_action"        json:"officerAction"`
	CorrectedSection     string        `db:"corrected_section"     json:"correctedSection,omitempty"`
	FeedbackNotes        string        `db:"feedback_notes"        json:"feedbackNotes,omitempty"`
	OriginalDescription  string        `db:"original_description"  json:"originalDescription,omitempty"`
	CorrectedDescription string        `db:"corrected_description" json:"correctedDescription,omitempty"`
}

// FIRFilter selects FIRs for listings. Empty fields match everything.
type FIRFilter struct {
	Status       FIRStatus
	IncidentType string
	Limit        int
	Offset       int
}

// DashboardStats counts FIRs by status.
type DashboardStats struct {
	TotalFIRs   int `db:"total_firs"   json:"totalFirs"`
	PendingFIRs int `db:"pending_firs" json:"pendingFirs"`
	SolvedFIRs  int `db:"solved_firs"  json:"solvedFirs"`
}
