package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hallguardian/hallguardian-api/internal/models"
)

// LatestScan is a student's most recent event joined with its location.
type LatestScan struct {
	models.ScanEvent
	LocationName string `db:"location_name"`
	LocationCode string `db:"location_code"`
}

// ScanEventRepository owns the append-only scan_events table. Events are
// never updated or deleted; presence views are derived from them at query
// time.
type ScanEventRepository struct {
	db *sqlx.DB
}

// NewScanEventRepository constructs a ScanEventRepository.
func NewScanEventRepository(db *sqlx.DB) *ScanEventRepository {
	return &ScanEventRepository{db: db}
}

// InsertToggled appends the student's next event in a single transaction:
// it locks the student row, reads the latest event by (scanned_at, id),
// toggles the direction and inserts with a store-assigned timestamp.
//
// The row lock serialises concurrent scans for the same student so two
// callers can never both toggle off the same stale latest event; scans for
// different students take disjoint locks and proceed in parallel. Any error
// (including context cancellation) rolls the whole unit back, so no partial
// event is ever visible.
func (r *ScanEventRepository) InsertToggled(ctx context.Context, studentID, locationID string, source models.ScanSource, deviceLabel *string) (*models.ScanEvent, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin scan tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var lockedID string
	if err := tx.GetContext(ctx, &lockedID, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lock student: %w", err)
	}

	var lastDirection *models.Direction
	var last models.Direction
	err = tx.GetContext(ctx, &last,
		`SELECT direction FROM scan_events WHERE student_id = $1 ORDER BY scanned_at DESC, id DESC LIMIT 1`,
		studentID)
	switch {
	case err == nil:
		lastDirection = &last
	case errors.Is(err, sql.ErrNoRows):
		// first scan ever for this student
	default:
		return nil, fmt.Errorf("read latest event: %w", err)
	}

	event := &models.ScanEvent{
		StudentID:   studentID,
		LocationID:  locationID,
		Direction:   models.NextDirection(lastDirection),
		Source:      source,
		DeviceLabel: deviceLabel,
	}

	row := tx.QueryRowxContext(ctx,
		`INSERT INTO scan_events (student_id, location_id, direction, source, device_label)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, scanned_at`,
		event.StudentID, event.LocationID, event.Direction, event.Source, event.DeviceLabel)
	if err := row.Scan(&event.ID, &event.ScannedAt); err != nil {
		return nil, fmt.Errorf("insert scan event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit scan tx: %w", err)
	}
	return event, nil
}

// LatestForStudent returns the student's most recent event with location
// context. Returns sql.ErrNoRows when the student has never scanned.
func (r *ScanEventRepository) LatestForStudent(ctx context.Context, studentID string) (*LatestScan, error) {
	const query = `SELECT se.id, se.student_id, se.location_id, se.direction, se.source, se.device_label, se.scanned_at,
        l.name AS location_name, l.code AS location_code
        FROM scan_events se
        JOIN locations l ON l.id = se.location_id
        WHERE se.student_id = $1
        ORDER BY se.scanned_at DESC, se.id DESC
        LIMIT 1`
	var latest LatestScan
	if err := r.db.GetContext(ctx, &latest, query, studentID); err != nil {
		return nil, err
	}
	return &latest, nil
}

// Occupants lists students whose latest event overall is IN at the given
// location, newest first. A student whose latest event is IN elsewhere is
// excluded even if an earlier event was IN here. Computed live on every
// call; no occupancy counter is maintained anywhere.
func (r *ScanEventRepository) Occupants(ctx context.Context, locationID string) ([]models.Occupant, error) {
	const query = `WITH ranked AS (
            SELECT se.student_id, se.location_id, se.direction, se.scanned_at,
                   ROW_NUMBER() OVER (PARTITION BY se.student_id ORDER BY se.scanned_at DESC, se.id DESC) AS rn
            FROM scan_events se
        )
        SELECT s.id AS student_id, s.full_name, r.scanned_at
        FROM ranked r
        JOIN students s ON s.id = r.student_id
        WHERE r.rn = 1 AND r.location_id = $1 AND r.direction = 'IN'
        ORDER BY r.scanned_at DESC`
	occupants := []models.Occupant{}
	if err := r.db.SelectContext(ctx, &occupants, query, locationID); err != nil {
		return nil, fmt.Errorf("list occupants: %w", err)
	}
	return occupants, nil
}

// CurrentlyOut lists students in the school whose latest event is OUT,
// together with the location they last scanned at, newest first.
func (r *ScanEventRepository) CurrentlyOut(ctx context.Context, schoolID string) ([]models.OutOfClassRow, error) {
	const query = `WITH ranked AS (
            SELECT se.student_id, se.location_id, se.direction, se.scanned_at,
                   ROW_NUMBER() OVER (PARTITION BY se.student_id ORDER BY se.scanned_at DESC, se.id DESC) AS rn
            FROM scan_events se
            JOIN students s ON s.id = se.student_id
            WHERE s.school_id = $1
        )
        SELECT s.id AS student_id, s.full_name, l.name AS location_name, l.code AS location_code, r.scanned_at
        FROM ranked r
        JOIN students s ON s.id = r.student_id
        JOIN locations l ON l.id = r.location_id
        WHERE r.rn = 1 AND r.direction = 'OUT'
        ORDER BY r.scanned_at DESC`
	rows := []models.OutOfClassRow{}
	if err := r.db.SelectContext(ctx, &rows, query, schoolID); err != nil {
		return nil, fmt.Errorf("list currently out: %w", err)
	}
	return rows, nil
}

// ListBySchool returns the school's most recent scan history for exports.
func (r *ScanEventRepository) ListBySchool(ctx context.Context, schoolID string, limit int) ([]models.ScanHistoryRow, error) {
	if limit <= 0 || limit > 10000 {
		limit = 1000
	}
	const query = `SELECT se.id AS event_id, s.id AS student_id, s.full_name AS student_name,
        l.name AS location_name, l.code AS location_code,
        se.direction, se.source, se.device_label, se.scanned_at
        FROM scan_events se
        JOIN students s ON s.id = se.student_id
        JOIN locations l ON l.id = se.location_id
        WHERE s.school_id = $1
        ORDER BY se.scanned_at DESC, se.id DESC
        LIMIT $2`
	rows := []models.ScanHistoryRow{}
	if err := r.db.SelectContext(ctx, &rows, query, schoolID, limit); err != nil {
		return nil, fmt.Errorf("list scan history: %w", err)
	}
	return rows, nil
}
