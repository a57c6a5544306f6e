package models

import "time"

// LocationType tags how a location entered the system.
type LocationType string

const (
	LocationClassroom LocationType = "CLASSROOM"
	LocationHallway   LocationType = "HALLWAY"
	LocationEntrance  LocationType = "ENTRANCE"
	// LocationUnknown marks locations auto-created on first scan of an
	// unregistered code.
	LocationUnknown LocationType = "UNKNOWN"
)

// Location is a scannable spot inside a school, unique per (school, code).
type Location struct {
	ID        string       `db:"id" json:"id"`
	SchoolID  string       `db:"school_id" json:"school_id"`
	Name      string       `db:"name" json:"name"`
	Code      string       `db:"code" json:"code"`
	Type      LocationType `db:"type" json:"type"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// LocationSummary is the projection embedded in scan responses.
type LocationSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Summary builds the scan-response projection for the location.
func (l *Location) Summary() LocationSummary {
	return LocationSummary{ID: l.ID, Name: l.Name, Code: l.Code}
}
