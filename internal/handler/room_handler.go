package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostel-core-api/internal/models"
	"github.com/noah-isme/hostel-core-api/internal/service"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
	"github.com/noah-isme/hostel-core-api/pkg/response"
)

// RoomHandler exposes room CRUD plus the cached query surface.
type RoomHandler struct {
	service *service.RoomService
	queries *service.QueryService
}

// NewRoomHandler constructs a room handler.
func NewRoomHandler(svc *service.RoomService, queries *service.QueryService) *RoomHandler {
	return &RoomHandler{service: svc, queries: queries}
}

// List godoc
// @Summary List rooms with derived occupancy
// @Tags Rooms
// @Produce json
// @Param block_id query string false "Filter by block"
// @Param floor query int false "Filter by floor"
// @Param room_type query string false "Filter by room type"
// @Param ac_type query string false "Filter by AC type"
// @Param availability query string false "empty, partial or full"
// @Param search query string false "Search by room number"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	var filter models.RoomFilter
	filter.BlockID = c.Query("block_id")
	filter.RoomType = models.RoomType(c.Query("room_type"))
	filter.ACType = models.ACType(c.Query("ac_type"))
	filter.Availability = models.Availability(c.Query("availability"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	if raw := c.Query("floor"); raw != "" {
		if floor, err := strconv.Atoi(raw); err == nil {
			filter.FloorNumber = &floor
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	rooms, pagination, err := h.queries.Rooms(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, pagination)
}

// FilterOptions godoc
// @Summary Distinct values for room list filters
// @Tags Rooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms/filter-options [get]
func (h *RoomHandler) FilterOptions(c *gin.Context) {
	options, err := h.queries.FilterOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// AvailableForBooking godoc
// @Summary Room availability grouped per type in booking preference order
// @Tags Rooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms/available-for-booking [get]
func (h *RoomHandler) AvailableForBooking(c *gin.Context) {
	summary, err := h.queries.AvailableForBooking(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Get godoc
// @Summary Get room detail
// @Tags Rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	room, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Create godoc
// @Summary Create room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body service.CreateRoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Router /rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req service.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	room, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// Update godoc
// @Summary Update room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body service.UpdateRoomRequest true "Room payload"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	var req service.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	room, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}
