package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallguardian/hallguardian-api/internal/models"
	appErrors "github.com/hallguardian/hallguardian-api/pkg/errors"
)

type studentResolverMock struct {
	student    *models.Student
	err        error
	qrCalled   bool
	cardCalled bool
}

func (m *studentResolverMock) FindByQR(ctx context.Context, schoolID, qrValue string) (*models.Student, error) {
	m.qrCalled = true
	return m.student, m.err
}

func (m *studentResolverMock) FindByCardUID(ctx context.Context, schoolID, cardUID string) (*models.Student, error) {
	m.cardCalled = true
	return m.student, m.err
}

type locationResolverMock struct {
	location *models.Location
	err      error
	called   bool
	lastCode string
}

func (m *locationResolverMock) ResolveOrCreate(ctx context.Context, schoolID, code string) (*models.Location, error) {
	m.called = true
	m.lastCode = code
	return m.location, m.err
}

type eventAppenderMock struct {
	event         *models.ScanEvent
	err           error
	called        bool
	lastStudentID string
	lastLocation  string
	lastSource    models.ScanSource
}

func (m *eventAppenderMock) InsertToggled(ctx context.Context, studentID, locationID string, source models.ScanSource, deviceLabel *string) (*models.ScanEvent, error) {
	m.called = true
	m.lastStudentID = studentID
	m.lastLocation = locationID
	m.lastSource = source
	return m.event, m.err
}

func newScanFixtures() (*studentResolverMock, *locationResolverMock, *eventAppenderMock) {
	students := &studentResolverMock{student: &models.Student{ID: "student-1", SchoolID: "school-1", FullName: "Anna Kim"}}
	locations := &locationResolverMock{location: &models.Location{ID: "location-1", SchoolID: "school-1", Name: "Room A1", Code: "A1", Type: models.LocationClassroom}}
	events := &eventAppenderMock{event: &models.ScanEvent{
		ID:         1,
		StudentID:  "student-1",
		LocationID: "location-1",
		Direction:  models.DirectionIn,
		Source:     models.SourceQR,
		ScannedAt:  time.Now(),
	}}
	return students, locations, events
}

func TestScanServiceIngestQR(t *testing.T) {
	students, locations, events := newScanFixtures()
	svc := NewScanService(students, locations, events, nil, nil, nil)

	result, err := svc.Ingest(context.Background(), IngestScanRequest{
		SchoolID:     "school-1",
		Credential:   "QR-123",
		LocationCode: "A1",
		Source:       models.SourceQR,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1), result.EventID)
	assert.Equal(t, models.DirectionIn, result.Direction)
	assert.Equal(t, "Anna Kim", result.Student.Name)
	assert.Equal(t, "A1", result.Location.Code)
	assert.True(t, students.qrCalled)
	assert.False(t, students.cardCalled)
	assert.Equal(t, "student-1", events.lastStudentID)
	assert.Equal(t, "location-1", events.lastLocation)
	assert.Equal(t, models.SourceQR, events.lastSource)
}

func TestScanServiceIngestNFCResolvesByCard(t *testing.T) {
	students, locations, events := newScanFixtures()
	events.event.Source = models.SourceNFC
	events.event.Direction = models.DirectionOut
	svc := NewScanService(students, locations, events, nil, nil, nil)

	result, err := svc.Ingest(context.Background(), IngestScanRequest{
		SchoolID:     "school-1",
		Credential:   "04:AA:BB",
		LocationCode: "A1",
		Source:       models.SourceNFC,
	})
	require.NoError(t, err)
	assert.True(t, students.cardCalled)
	assert.False(t, students.qrCalled)
	assert.Equal(t, models.DirectionOut, result.Direction)
	assert.Equal(t, models.SourceNFC, result.Source)
}

func TestScanServiceIngestMissingFields(t *testing.T) {
	students, locations, events := newScanFixtures()
	svc := NewScanService(students, locations, events, nil, nil, nil)

	_, err := svc.Ingest(context.Background(), IngestScanRequest{SchoolID: "school-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.False(t, students.qrCalled)
	assert.False(t, events.called)
}

func TestScanServiceIngestUnknownSource(t *testing.T) {
	students, locations, events := newScanFixtures()
	svc := NewScanService(students, locations, events, nil, nil, nil)

	_, err := svc.Ingest(context.Background(), IngestScanRequest{
		SchoolID:     "school-1",
		Credential:   "QR-123",
		LocationCode: "A1",
		Source:       models.ScanSource("BARCODE"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.False(t, events.called)
}

func TestScanServiceIngestUnknownStudent(t *testing.T) {
	students, locations, events := newScanFixtures()
	students.student = nil
	students.err = sql.ErrNoRows
	svc := NewScanService(students, locations, events, nil, nil, nil)

	_, err := svc.Ingest(context.Background(), IngestScanRequest{
		SchoolID:     "school-1",
		Credential:   "QR-unknown",
		LocationCode: "A1",
		Source:       models.SourceQR,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStudentNotFound.Code, appErr.Code)
	// a failed resolution must leave no trace
	assert.False(t, locations.called)
	assert.False(t, events.called)
}

func TestScanServiceIngestLocationFailure(t *testing.T) {
	students, locations, events := newScanFixtures()
	locations.location = nil
	locations.err = errors.New("connection refused")
	svc := NewScanService(students, locations, events, nil, nil, nil)

	_, err := svc.Ingest(context.Background(), IngestScanRequest{
		SchoolID:     "school-1",
		Credential:   "QR-123",
		LocationCode: "A1",
		Source:       models.SourceQR,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.False(t, events.called)
}

func TestScanServiceIngestStudentGoneAtAppend(t *testing.T) {
	students, locations, events := newScanFixtures()
	events.event = nil
	events.err = sql.ErrNoRows
	svc := NewScanService(students, locations, events, nil, nil, nil)

	_, err := svc.Ingest(context.Background(), IngestScanRequest{
		SchoolID:     "school-1",
		Credential:   "QR-123",
		LocationCode: "A1",
		Source:       models.SourceQR,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStudentNotFound.Code, appErrors.FromError(err).Code)
}

func TestScanServiceIngestPassesNewLocationCodeThrough(t *testing.T) {
	students, locations, events := newScanFixtures()
	svc := NewScanService(students, locations, events, nil, nil, nil)

	_, err := svc.Ingest(context.Background(), IngestScanRequest{
		SchoolID:     "school-1",
		Credential:   "QR-123",
		LocationCode: "NEW-WING",
		Source:       models.SourceQR,
	})
	require.NoError(t, err)
	assert.Equal(t, "NEW-WING", locations.lastCode)
}
