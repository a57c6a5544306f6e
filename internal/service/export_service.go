package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hallguardian/hallguardian-api/internal/models"
	appErrors "github.com/hallguardian/hallguardian-api/pkg/errors"
	"github.com/hallguardian/hallguardian-api/pkg/export"
)

type scanHistoryReader interface {
	ListBySchool(ctx context.Context, schoolID string, limit int) ([]models.ScanHistoryRow, error)
}

// ExportFile bundles rendered export output with transport metadata.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders a school's recent scan history as CSV or PDF.
type ExportService struct {
	events   scanHistoryReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	maxRows  int
	pdfTitle string
}

// NewExportService constructs the scan history export service.
func NewExportService(events scanHistoryReader, logger *zap.Logger, maxRows int, pdfTitle string) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRows <= 0 {
		maxRows = 1000
	}
	return &ExportService{
		events:   events,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		maxRows:  maxRows,
		pdfTitle: pdfTitle,
	}
}

var historyHeaders = []string{"Event ID", "Student", "Location", "Code", "Direction", "Source", "Device", "Scanned At"}

// Render produces the export in the requested format ("csv" or "pdf").
func (s *ExportService) Render(ctx context.Context, schoolID, format string) (*ExportFile, error) {
	if schoolID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school id required")
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	rows, err := s.events.ListBySchool(ctx, schoolID, s.maxRows)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scan history")
	}

	dataset := export.Dataset{Headers: historyHeaders, Rows: make([]map[string]string, len(rows))}
	for i, row := range rows {
		device := ""
		if row.DeviceLabel != nil {
			device = *row.DeviceLabel
		}
		dataset.Rows[i] = map[string]string{
			"Event ID":   fmt.Sprintf("%d", row.EventID),
			"Student":    row.StudentName,
			"Location":   row.LocationName,
			"Code":       row.LocationCode,
			"Direction":  string(row.Direction),
			"Source":     string(row.Source),
			"Device":     device,
			"Scanned At": row.ScannedAt.UTC().Format("2006-01-02 15:04:05"),
		}
	}

	s.logger.Info("scan history export", zap.String("school_id", schoolID), zap.String("format", format), zap.Int("rows", len(rows)))

	if format == "pdf" {
		content, err := s.pdf.Render(dataset, s.pdfTitle)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Content: content, ContentType: "application/pdf", Filename: "scan-events.pdf"}, nil
	}

	content, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return &ExportFile{Content: content, ContentType: "text/csv", Filename: "scan-events.csv"}, nil
}
