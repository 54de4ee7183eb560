package models

import "time"

// Officer can log in to the police console.
type Officer struct {
	ID           int64     `db:"id"            json:"id"`
	BadgeNumber  string    `db:"badge_number"  json:"badgeNumber"`
	Name         string    `db:"name"          json:"name"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at"    json:"createdAt"`
}
