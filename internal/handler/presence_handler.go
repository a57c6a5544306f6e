package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hallguardian/hallguardian-api/internal/models"
	"github.com/hallguardian/hallguardian-api/pkg/response"
)

type presenceService interface {
	CurrentLocation(ctx context.Context, studentID string) (*models.PresenceStatus, error)
	Occupants(ctx context.Context, locationID string) (*models.OccupancyResponse, error)
	CurrentlyOut(ctx context.Context, schoolID string) (*models.CurrentOutResponse, error)
}

// PresenceHandler exposes derived presence queries.
type PresenceHandler struct {
	presence presenceService
}

// NewPresenceHandler constructs PresenceHandler.
func NewPresenceHandler(presence presenceService) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

// CurrentLocation godoc
// @Summary Current location of a student
// @Tags Presence
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} models.PresenceStatus
// @Router /students/{id}/current-location [get]
func (h *PresenceHandler) CurrentLocation(c *gin.Context) {
	status, err := h.presence.CurrentLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// Occupants godoc
// @Summary Students currently inside a location
// @Tags Presence
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} models.OccupancyResponse
// @Router /locations/{id}/occupants [get]
func (h *PresenceHandler) Occupants(c *gin.Context) {
	occupancy, err := h.presence.Occupants(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occupancy)
}

// CurrentOut godoc
// @Summary Students currently out of class for a school
// @Tags Presence
// @Produce json
// @Param id path string true "School ID"
// @Success 200 {object} models.CurrentOutResponse
// @Router /schools/{id}/current-out [get]
func (h *PresenceHandler) CurrentOut(c *gin.Context) {
	out, err := h.presence.CurrentlyOut(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}
