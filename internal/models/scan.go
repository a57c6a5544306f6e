package models

import "time"

// Direction is a student's presence state relative to the building.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Valid reports whether the direction is one of the two known states.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Opposite returns the toggled direction.
func (d Direction) Opposite() Direction {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}

// NextDirection computes the direction for a student's next scan from their
// latest event. A student with no history is assumed to be entering.
//
// The toggle is global: it flips relative to the last event anywhere, not
// per location. An IN at location A followed immediately by a scan at
// location B therefore yields OUT (read as "left A"). That is the shipped
// product behaviour; do not localise it without product sign-off.
func NextDirection(last *Direction) Direction {
	if last == nil {
		return DirectionIn
	}
	return last.Opposite()
}

// ScanSource identifies which credential channel produced an event.
type ScanSource string

const (
	SourceQR  ScanSource = "QR"
	SourceNFC ScanSource = "NFC"
)

// Valid reports whether the source is a known credential channel.
func (s ScanSource) Valid() bool {
	return s == SourceQR || s == SourceNFC
}

// ScanEvent is one immutable badge read. Rows are append-only; the id
// sequence breaks ordering ties between events sharing a timestamp.
type ScanEvent struct {
	ID          int64      `db:"id" json:"id"`
	StudentID   string     `db:"student_id" json:"student_id"`
	LocationID  string     `db:"location_id" json:"location_id"`
	Direction   Direction  `db:"direction" json:"direction"`
	Source      ScanSource `db:"source" json:"source"`
	DeviceLabel *string    `db:"device_label" json:"device_label,omitempty"`
	ScannedAt   time.Time  `db:"scanned_at" json:"scanned_at"`
}

// ScanHistoryRow is a scan event joined with student and location context,
// used for school-wide history listings and exports.
type ScanHistoryRow struct {
	EventID      int64      `db:"event_id" json:"event_id"`
	StudentID    string     `db:"student_id" json:"student_id"`
	StudentName  string     `db:"student_name" json:"student_name"`
	LocationName string     `db:"location_name" json:"location_name"`
	LocationCode string     `db:"location_code" json:"location_code"`
	Direction    Direction  `db:"direction" json:"direction"`
	Source       ScanSource `db:"source" json:"source"`
	DeviceLabel  *string    `db:"device_label" json:"device_label,omitempty"`
	ScannedAt    time.Time  `db:"scanned_at" json:"scanned_at"`
}
