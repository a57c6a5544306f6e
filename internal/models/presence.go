package models

import "time"

// PresenceState classifies a student's derived presence.
type PresenceState string

const (
	PresenceNoScans       PresenceState = "NO_SCANS"
	PresenceInLocation    PresenceState = "IN_LOCATION"
	PresenceOutOfLocation PresenceState = "OUT_OF_LOCATION"
)

// PresenceStatus is the derived current state of one student. It is never
// stored; it is computed from the latest scan event at query time.
type PresenceStatus struct {
	StudentID       string           `json:"studentId"`
	Status          PresenceState    `json:"status"`
	CurrentLocation *LocationSummary `json:"currentLocation"`
	LastScanAt      *time.Time       `json:"lastScanAt"`
}

// Occupant is a student currently inside a location.
type Occupant struct {
	StudentID string    `db:"student_id" json:"student_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	ScannedAt time.Time `db:"scanned_at" json:"scanned_at"`
}

// OutOfClassRow is a student whose latest event is OUT, with the location
// they last scanned at.
type OutOfClassRow struct {
	StudentID    string    `db:"student_id" json:"student_id"`
	FullName     string    `db:"full_name" json:"full_name"`
	LocationName string    `db:"location_name" json:"location_name"`
	LocationCode string    `db:"location_code" json:"location_code"`
	ScannedAt    time.Time `db:"scanned_at" json:"scanned_at"`
}

// OccupancyResponse lists a location's current occupants.
type OccupancyResponse struct {
	LocationID string     `json:"locationId"`
	Count      int        `json:"count"`
	Occupants  []Occupant `json:"occupants"`
}

// CurrentOutResponse lists a school's currently-out students.
type CurrentOutResponse struct {
	SchoolID   string          `json:"schoolId"`
	Count      int             `json:"count"`
	OutOfClass []OutOfClassRow `json:"outOfClass"`
}
