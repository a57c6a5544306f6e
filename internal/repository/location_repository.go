package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hallguardian/hallguardian-api/internal/models"
)

const locationColumns = `id, school_id, name, code, type, created_at`

// LocationRepository resolves scan locations, creating placeholder rows the
// first time an unregistered code is seen.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository constructs a LocationRepository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// FindByID fetches a location by primary key. Returns sql.ErrNoRows when
// absent.
func (r *LocationRepository) FindByID(ctx context.Context, id string) (*models.Location, error) {
	const query = `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	var location models.Location
	if err := r.db.GetContext(ctx, &location, query, id); err != nil {
		return nil, err
	}
	return &location, nil
}

// FindByCode fetches a location by its school-local code.
func (r *LocationRepository) FindByCode(ctx context.Context, schoolID, code string) (*models.Location, error) {
	const query = `SELECT ` + locationColumns + ` FROM locations WHERE school_id = $1 AND code = $2`
	var location models.Location
	if err := r.db.GetContext(ctx, &location, query, schoolID, code); err != nil {
		return nil, err
	}
	return &location, nil
}

// ResolveOrCreate returns the location for (schoolID, code), creating an
// UNKNOWN-typed placeholder named after the code on first sight. The insert
// uses ON CONFLICT DO NOTHING against the (school_id, code) unique
// constraint, so two scanners racing on a brand-new code converge on a
// single row: the loser of the insert race picks it up on the re-read.
func (r *LocationRepository) ResolveOrCreate(ctx context.Context, schoolID, code string) (*models.Location, error) {
	location, err := r.FindByCode(ctx, schoolID, code)
	if err == nil {
		return location, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup location: %w", err)
	}

	const insert = `INSERT INTO locations (id, school_id, name, code, type, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (school_id, code) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, insert, uuid.NewString(), schoolID, code, code, models.LocationUnknown, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}

	location, err = r.FindByCode(ctx, schoolID, code)
	if err != nil {
		return nil, fmt.Errorf("reread location: %w", err)
	}
	return location, nil
}
