package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hallguardian/hallguardian-api/internal/service"
	"github.com/hallguardian/hallguardian-api/pkg/response"
)

type exportService interface {
	Render(ctx context.Context, schoolID, format string) (*service.ExportFile, error)
}

// ExportHandler streams scan history exports.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export godoc
// @Summary Export a school's recent scan history
// @Tags Scans
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "School ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /schools/{id}/scan-events/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	file, err := h.exports.Render(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Blob(c, file.ContentType, file.Filename, file.Content)
}
