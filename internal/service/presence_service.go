package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/hallguardian/hallguardian-api/internal/models"
	"github.com/hallguardian/hallguardian-api/internal/repository"
	appErrors "github.com/hallguardian/hallguardian-api/pkg/errors"
)

type presenceEventStore interface {
	LatestForStudent(ctx context.Context, studentID string) (*repository.LatestScan, error)
	Occupants(ctx context.Context, locationID string) ([]models.Occupant, error)
	CurrentlyOut(ctx context.Context, schoolID string) ([]models.OutOfClassRow, error)
}

type locationReader interface {
	FindByID(ctx context.Context, id string) (*models.Location, error)
}

// PresenceService answers derived presence questions. Every answer is
// recomputed from the event store on each call.
type PresenceService struct {
	events    presenceEventStore
	locations locationReader
	logger    *zap.Logger
}

// NewPresenceService constructs the presence query service.
func NewPresenceService(events presenceEventStore, locations locationReader, logger *zap.Logger) *PresenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresenceService{events: events, locations: locations, logger: logger}
}

// CurrentLocation reports where a student currently is. A student with no
// events yields NO_SCANS; a latest OUT event yields OUT_OF_LOCATION with no
// location attached.
func (s *PresenceService) CurrentLocation(ctx context.Context, studentID string) (*models.PresenceStatus, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id required")
	}

	latest, err := s.events.LatestForStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.PresenceStatus{StudentID: studentID, Status: models.PresenceNoScans}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest scan")
	}

	status := &models.PresenceStatus{
		StudentID:  studentID,
		Status:     models.PresenceOutOfLocation,
		LastScanAt: &latest.ScannedAt,
	}
	if latest.Direction == models.DirectionIn {
		status.Status = models.PresenceInLocation
		status.CurrentLocation = &models.LocationSummary{
			ID:   latest.LocationID,
			Name: latest.LocationName,
			Code: latest.LocationCode,
		}
	}
	return status, nil
}

// Occupants lists who is currently inside a location.
func (s *PresenceService) Occupants(ctx context.Context, locationID string) (*models.OccupancyResponse, error) {
	if locationID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "location id required")
	}

	if _, err := s.locations.FindByID(ctx, locationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "location not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load location")
	}

	occupants, err := s.events.Occupants(ctx, locationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list occupants")
	}
	return &models.OccupancyResponse{LocationID: locationID, Count: len(occupants), Occupants: occupants}, nil
}

// CurrentlyOut lists the school's students whose latest event is OUT.
func (s *PresenceService) CurrentlyOut(ctx context.Context, schoolID string) (*models.CurrentOutResponse, error) {
	if schoolID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school id required")
	}

	rows, err := s.events.CurrentlyOut(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list out-of-class students")
	}
	return &models.CurrentOutResponse{SchoolID: schoolID, Count: len(rows), OutOfClass: rows}, nil
}
