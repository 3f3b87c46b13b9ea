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

// BlockHandler exposes hostel block endpoints.
type BlockHandler struct {
	service *service.BlockService
}

// NewBlockHandler constructs a block handler.
func NewBlockHandler(svc *service.BlockService) *BlockHandler {
	return &BlockHandler{service: svc}
}

// List godoc
// @Summary List hostel blocks
// @Tags Blocks
// @Produce json
// @Param school_id query string false "Filter by school"
// @Param is_active query bool false "Filter by active flag"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /blocks [get]
func (h *BlockHandler) List(c *gin.Context) {
	var filter models.BlockFilter
	filter.SchoolID = c.Query("school_id")
	filter.Search = strings.TrimSpace(c.Query("search"))
	if raw := c.Query("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	blocks, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, pagination)
}

// Get godoc
// @Summary Get block detail
// @Tags Blocks
// @Produce json
// @Param id path string true "Block ID"
// @Success 200 {object} response.Envelope
// @Router /blocks/{id} [get]
func (h *BlockHandler) Get(c *gin.Context) {
	block, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}

// Create godoc
// @Summary Create hostel block
// @Tags Blocks
// @Accept json
// @Produce json
// @Param payload body service.CreateBlockRequest true "Block payload"
// @Success 201 {object} response.Envelope
// @Router /blocks [post]
func (h *BlockHandler) Create(c *gin.Context) {
	var req service.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	block, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, block)
}

// Update godoc
// @Summary Update hostel block
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path string true "Block ID"
// @Param payload body service.UpdateBlockRequest true "Block payload"
// @Success 200 {object} response.Envelope
// @Router /blocks/{id} [put]
func (h *BlockHandler) Update(c *gin.Context) {
	var req service.UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	block, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}

// Deactivate godoc
// @Summary Deactivate hostel block
// @Tags Blocks
// @Produce json
// @Param id path string true "Block ID"
// @Success 204
// @Router /blocks/{id} [delete]
func (h *BlockHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GenerateRooms godoc
// @Summary Generate rooms for every floor of a block
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path string true "Block ID"
// @Param payload body service.GenerateRoomsRequest true "Generation payload"
// @Success 201 {object} response.Envelope
// @Router /blocks/{id}/rooms/generate [post]
func (h *BlockHandler) GenerateRooms(c *gin.Context) {
	var req service.GenerateRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.GenerateRooms(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
