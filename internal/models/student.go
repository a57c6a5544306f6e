package models

import "time"

// Student is a learner enrolled at a school. Rows are owned by the
// administrative domain; the scan path only reads them.
type Student struct {
	ID         string    `db:"id" json:"id"`
	SchoolID   string    `db:"school_id" json:"school_id"`
	SchoolIDNo string    `db:"school_id_no" json:"school_id_no"`
	FullName   string    `db:"full_name" json:"full_name"`
	Grade      *string   `db:"grade" json:"grade,omitempty"`
	QRValue    *string   `db:"qr_value" json:"qr_value,omitempty"`
	CardUID    *string   `db:"card_uid" json:"card_uid,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StudentSummary is the projection embedded in scan responses.
type StudentSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SchoolID string `json:"school_id"`
}

// Summary builds the scan-response projection for the student.
func (s *Student) Summary() StudentSummary {
	return StudentSummary{ID: s.ID, Name: s.FullName, SchoolID: s.SchoolID}
}
