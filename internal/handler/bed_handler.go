package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostel-core-api/internal/service"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
	"github.com/noah-isme/hostel-core-api/pkg/response"
)

// BedHandler exposes the bed set endpoints nested under rooms.
type BedHandler struct {
	service *service.BedSetService
}

// NewBedHandler constructs a bed handler.
func NewBedHandler(svc *service.BedSetService) *BedHandler {
	return &BedHandler{service: svc}
}

// ListByRoom godoc
// @Summary List beds of a room with derived availability
// @Tags Beds
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id}/beds [get]
func (h *BedHandler) ListByRoom(c *gin.Context) {
	beds, err := h.service.ListByRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, beds, nil)
}

// Regenerate godoc
// @Summary Replace a room's bed set
// @Tags Beds
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body service.RegenerateBedsRequest true "Bed set payload"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id}/beds [put]
func (h *BedHandler) Regenerate(c *gin.Context) {
	var req service.RegenerateBedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	beds, err := h.service.Regenerate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, beds, nil)
}
