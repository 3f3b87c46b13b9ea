package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostel-core-api/internal/models"
	"github.com/noah-isme/hostel-core-api/internal/service"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
	"github.com/noah-isme/hostel-core-api/pkg/response"
)

type massUpdateService interface {
	UpdateRooms(ctx context.Context, req service.MassUpdateRoomsRequest) (*models.MassUpdateResult, error)
	UpdateBeds(ctx context.Context, req service.MassUpdateBedsRequest) (*models.MassUpdateResult, error)
}

// MassUpdateHandler exposes bulk room operations.
type MassUpdateHandler struct {
	service massUpdateService
	metrics *service.MetricsService
}

// NewMassUpdateHandler constructs a mass update handler.
func NewMassUpdateHandler(svc massUpdateService, metrics *service.MetricsService) *MassUpdateHandler {
	return &MassUpdateHandler{service: svc, metrics: metrics}
}

// UpdateRooms godoc
// @Summary Apply one patch to many rooms
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body service.MassUpdateRoomsRequest true "Mass update payload"
// @Success 200 {object} response.Envelope
// @Router /rooms/mass-update [post]
func (h *MassUpdateHandler) UpdateRooms(c *gin.Context) {
	var req service.MassUpdateRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.UpdateRooms(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordMassUpdate("rooms", result.MatchedCount)
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// UpdateBeds godoc
// @Summary Regenerate bed sets across many rooms
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body service.MassUpdateBedsRequest true "Mass update payload"
// @Success 200 {object} response.Envelope
// @Router /rooms/mass-update/beds [post]
func (h *MassUpdateHandler) UpdateBeds(c *gin.Context) {
	var req service.MassUpdateBedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.UpdateBeds(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordMassUpdate("beds", result.MatchedCount)
	}
	response.JSON(c, http.StatusOK, result, nil)
}
