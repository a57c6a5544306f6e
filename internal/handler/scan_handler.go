package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hallguardian/hallguardian-api/internal/models"
	"github.com/hallguardian/hallguardian-api/internal/service"
	appErrors "github.com/hallguardian/hallguardian-api/pkg/errors"
	"github.com/hallguardian/hallguardian-api/pkg/response"
)

type scanIngestor interface {
	Ingest(ctx context.Context, req service.IngestScanRequest) (*service.ScanResult, error)
}

// QRScanRequest is the wire payload for QR badge reads.
type QRScanRequest struct {
	QRValue      string  `json:"qrValue"`
	LocationCode string  `json:"locationCode"`
	SchoolID     string  `json:"schoolId"`
	DeviceLabel  *string `json:"deviceLabel"`
}

// NFCScanRequest is the wire payload for NFC card reads.
type NFCScanRequest struct {
	CardUID      string  `json:"cardUid"`
	LocationCode string  `json:"locationCode"`
	SchoolID     string  `json:"schoolId"`
	DeviceLabel  *string `json:"deviceLabel"`
}

// ScanHandler exposes the scan ingestion endpoints.
type ScanHandler struct {
	scans scanIngestor
}

// NewScanHandler constructs ScanHandler.
func NewScanHandler(scans scanIngestor) *ScanHandler {
	return &ScanHandler{scans: scans}
}

// ScanQR godoc
// @Summary Ingest a QR badge read
// @Tags Scans
// @Accept json
// @Produce json
// @Param payload body QRScanRequest true "Scan payload"
// @Success 200 {object} service.ScanResult
// @Router /scan/qr [post]
func (h *ScanHandler) ScanQR(c *gin.Context) {
	var req QRScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.scans.Ingest(c.Request.Context(), service.IngestScanRequest{
		SchoolID:     req.SchoolID,
		Credential:   req.QRValue,
		LocationCode: req.LocationCode,
		Source:       models.SourceQR,
		DeviceLabel:  req.DeviceLabel,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ScanNFC godoc
// @Summary Ingest an NFC card read
// @Tags Scans
// @Accept json
// @Produce json
// @Param payload body NFCScanRequest true "Scan payload"
// @Success 200 {object} service.ScanResult
// @Router /scan/nfc [post]
func (h *ScanHandler) ScanNFC(c *gin.Context) {
	var req NFCScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.scans.Ingest(c.Request.Context(), service.IngestScanRequest{
		SchoolID:     req.SchoolID,
		Credential:   req.CardUID,
		LocationCode: req.LocationCode,
		Source:       models.SourceNFC,
		DeviceLabel:  req.DeviceLabel,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
