package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hallguardian/hallguardian-api/internal/models"
	appErrors "github.com/hallguardian/hallguardian-api/pkg/errors"
)

type studentResolver interface {
	FindByQR(ctx context.Context, schoolID, qrValue string) (*models.Student, error)
	FindByCardUID(ctx context.Context, schoolID, cardUID string) (*models.Student, error)
}

type locationResolver interface {
	ResolveOrCreate(ctx context.Context, schoolID, code string) (*models.Location, error)
}

type eventAppender interface {
	InsertToggled(ctx context.Context, studentID, locationID string, source models.ScanSource, deviceLabel *string) (*models.ScanEvent, error)
}

// IngestScanRequest carries one inbound badge read. Credential is a QR value
// or a card UID depending on Source.
type IngestScanRequest struct {
	SchoolID     string            `json:"school_id" validate:"required"`
	Credential   string            `json:"credential" validate:"required"`
	LocationCode string            `json:"location_code" validate:"required"`
	Source       models.ScanSource `json:"source" validate:"required,scan_source"`
	DeviceLabel  *string           `json:"device_label"`
}

// ScanResult is returned to the scanning device after a successful ingest.
type ScanResult struct {
	Success   bool                   `json:"success"`
	EventID   int64                  `json:"eventId"`
	Student   models.StudentSummary  `json:"student"`
	Location  models.LocationSummary `json:"location"`
	Direction models.Direction       `json:"direction"`
	Source    models.ScanSource      `json:"source"`
}

// ScanService orchestrates one inbound scan: credential resolution, location
// resolve-or-create, atomic toggled append.
type ScanService struct {
	students  studentResolver
	locations locationResolver
	events    eventAppender
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewScanService constructs the scan ingestion service.
func NewScanService(students studentResolver, locations locationResolver, events eventAppender, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ScanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ScanService{students: students, locations: locations, events: events, validator: validate, logger: logger, metrics: metrics}
	svc.validator.RegisterValidation("scan_source", func(fl validator.FieldLevel) bool {
		return models.ScanSource(fl.Field().String()).Valid()
	})
	return svc
}

// Ingest processes one badge read and returns the stored result. Exactly one
// event row is created on success and none on any error path; the
// read-compute-write for the student's direction happens atomically inside
// the event store.
func (s *ScanService) Ingest(ctx context.Context, req IngestScanRequest) (*ScanResult, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.ObserveScanFailure(appErrors.ErrValidation.Code)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "credential, locationCode, and schoolId are required")
	}

	student, err := s.resolveStudent(ctx, req)
	if err != nil {
		return nil, err
	}

	location, err := s.locations.ResolveOrCreate(ctx, req.SchoolID, req.LocationCode)
	if err != nil {
		s.metrics.ObserveScanFailure(appErrors.ErrInternal.Code)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve location")
	}

	event, err := s.events.InsertToggled(ctx, student.ID, location.ID, req.Source, req.DeviceLabel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// student row vanished between resolution and lock
			s.metrics.ObserveScanFailure(appErrors.ErrStudentNotFound.Code)
			return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "")
		}
		s.metrics.ObserveScanFailure(appErrors.ErrInternal.Code)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record scan")
	}

	s.metrics.ObserveScan(string(event.Source), string(event.Direction))
	s.logger.Info("scan ingested",
		zap.Int64("event_id", event.ID),
		zap.String("student_id", student.ID),
		zap.String("location_code", location.Code),
		zap.String("direction", string(event.Direction)),
		zap.String("source", string(event.Source)),
	)

	return &ScanResult{
		Success:   true,
		EventID:   event.ID,
		Student:   student.Summary(),
		Location:  location.Summary(),
		Direction: event.Direction,
		Source:    event.Source,
	}, nil
}

func (s *ScanService) resolveStudent(ctx context.Context, req IngestScanRequest) (*models.Student, error) {
	var (
		student *models.Student
		err     error
	)
	switch req.Source {
	case models.SourceQR:
		student, err = s.students.FindByQR(ctx, req.SchoolID, req.Credential)
	case models.SourceNFC:
		student, err = s.students.FindByCardUID(ctx, req.SchoolID, req.Credential)
	default:
		s.metrics.ObserveScanFailure(appErrors.ErrValidation.Code)
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown scan source")
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.ObserveScanFailure(appErrors.ErrStudentNotFound.Code)
			if req.Source == models.SourceNFC {
				return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "student not found for that card UID")
			}
			return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "student not found for that QR")
		}
		s.metrics.ObserveScanFailure(appErrors.ErrInternal.Code)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
	}
	return student, nil
}
