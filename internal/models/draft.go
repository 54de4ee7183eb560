package models

import "time"

// ReviewDraft is a server-side review in progress. State holds the serialized review and Version guards against lost
// updates.
type ReviewDraft struct {
	ID            string    `db:"id"`
	OfficerID     int64     `db:"officer_id"`
	ComplaintText string    `db:"complaint_text"`
	IncidentType  string    `db:"incident_type"`
	Location      string    `db:"location"`
	Fallback      bool      `db:"fallback"`
	State         string    `db:"state"`
	Version       int       `db:"version"`
	UpdatedAt     time.Time `db:"updated_at"`
}
