package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallguardian/hallguardian-api/internal/models"
	"github.com/hallguardian/hallguardian-api/internal/repository"
	appErrors "github.com/hallguardian/hallguardian-api/pkg/errors"
)

type presenceEventStoreMock struct {
	latest     *repository.LatestScan
	latestErr  error
	occupants  []models.Occupant
	outRows    []models.OutOfClassRow
	occupErr   error
	outErr     error
	outCalled  bool
	occuCalled bool
}

func (m *presenceEventStoreMock) LatestForStudent(ctx context.Context, studentID string) (*repository.LatestScan, error) {
	return m.latest, m.latestErr
}

func (m *presenceEventStoreMock) Occupants(ctx context.Context, locationID string) ([]models.Occupant, error) {
	m.occuCalled = true
	return m.occupants, m.occupErr
}

func (m *presenceEventStoreMock) CurrentlyOut(ctx context.Context, schoolID string) ([]models.OutOfClassRow, error) {
	m.outCalled = true
	return m.outRows, m.outErr
}

type locationReaderMock struct {
	location *models.Location
	err      error
}

func (m *locationReaderMock) FindByID(ctx context.Context, id string) (*models.Location, error) {
	return m.location, m.err
}

func TestPresenceServiceCurrentLocationNoScans(t *testing.T) {
	events := &presenceEventStoreMock{latestErr: sql.ErrNoRows}
	svc := NewPresenceService(events, &locationReaderMock{}, nil)

	status, err := svc.CurrentLocation(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.PresenceNoScans, status.Status)
	assert.Nil(t, status.CurrentLocation)
	assert.Nil(t, status.LastScanAt)
}

func TestPresenceServiceCurrentLocationIn(t *testing.T) {
	scannedAt := time.Now()
	events := &presenceEventStoreMock{latest: &repository.LatestScan{
		ScanEvent: models.ScanEvent{
			ID:         4,
			StudentID:  "student-1",
			LocationID: "location-1",
			Direction:  models.DirectionIn,
			Source:     models.SourceQR,
			ScannedAt:  scannedAt,
		},
		LocationName: "Science Lab",
		LocationCode: "LAB1",
	}}
	svc := NewPresenceService(events, &locationReaderMock{}, nil)

	status, err := svc.CurrentLocation(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.PresenceInLocation, status.Status)
	require.NotNil(t, status.CurrentLocation)
	assert.Equal(t, "Science Lab", status.CurrentLocation.Name)
	require.NotNil(t, status.LastScanAt)
	assert.True(t, status.LastScanAt.Equal(scannedAt))
}

// An OUT latest event means the student left wherever they last scanned;
// no current location is reported even though the event has one attached.
func TestPresenceServiceCurrentLocationOut(t *testing.T) {
	events := &presenceEventStoreMock{latest: &repository.LatestScan{
		ScanEvent: models.ScanEvent{
			ID:         5,
			StudentID:  "student-1",
			LocationID: "location-1",
			Direction:  models.DirectionOut,
			Source:     models.SourceNFC,
			ScannedAt:  time.Now(),
		},
		LocationName: "Science Lab",
		LocationCode: "LAB1",
	}}
	svc := NewPresenceService(events, &locationReaderMock{}, nil)

	status, err := svc.CurrentLocation(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.PresenceOutOfLocation, status.Status)
	assert.Nil(t, status.CurrentLocation)
	assert.NotNil(t, status.LastScanAt)
}

func TestPresenceServiceCurrentLocationMissingID(t *testing.T) {
	svc := NewPresenceService(&presenceEventStoreMock{}, &locationReaderMock{}, nil)

	_, err := svc.CurrentLocation(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPresenceServiceOccupants(t *testing.T) {
	events := &presenceEventStoreMock{occupants: []models.Occupant{
		{StudentID: "student-1", FullName: "Anna Kim", ScannedAt: time.Now()},
		{StudentID: "student-2", FullName: "Bobby Lee", ScannedAt: time.Now()},
	}}
	locations := &locationReaderMock{location: &models.Location{ID: "location-1", Name: "Room A1", Code: "A1"}}
	svc := NewPresenceService(events, locations, nil)

	occupancy, err := svc.Occupants(context.Background(), "location-1")
	require.NoError(t, err)
	assert.Equal(t, 2, occupancy.Count)
	assert.Len(t, occupancy.Occupants, 2)
	assert.Equal(t, "location-1", occupancy.LocationID)
}

func TestPresenceServiceOccupantsUnknownLocation(t *testing.T) {
	events := &presenceEventStoreMock{}
	locations := &locationReaderMock{err: sql.ErrNoRows}
	svc := NewPresenceService(events, locations, nil)

	_, err := svc.Occupants(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.False(t, events.occuCalled)
}

func TestPresenceServiceOccupantsEmptyLocation(t *testing.T) {
	events := &presenceEventStoreMock{occupants: []models.Occupant{}}
	locations := &locationReaderMock{location: &models.Location{ID: "location-1"}}
	svc := NewPresenceService(events, locations, nil)

	occupancy, err := svc.Occupants(context.Background(), "location-1")
	require.NoError(t, err)
	assert.Equal(t, 0, occupancy.Count)
	assert.NotNil(t, occupancy.Occupants)
}

func TestPresenceServiceCurrentlyOut(t *testing.T) {
	events := &presenceEventStoreMock{outRows: []models.OutOfClassRow{
		{StudentID: "student-3", FullName: "Cara Diaz", LocationName: "Main Gate", LocationCode: "GATE", ScannedAt: time.Now()},
	}}
	svc := NewPresenceService(events, &locationReaderMock{}, nil)

	out, err := svc.CurrentlyOut(context.Background(), "school-1")
	require.NoError(t, err)
	assert.True(t, events.outCalled)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "school-1", out.SchoolID)
	assert.Equal(t, "Cara Diaz", out.OutOfClass[0].FullName)
}
