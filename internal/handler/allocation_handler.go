package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostel-core-api/internal/models"
	"github.com/noah-isme/hostel-core-api/internal/service"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
	"github.com/noah-isme/hostel-core-api/pkg/response"
)

type allocationService interface {
	List(ctx context.Context, filter models.AllocationFilter) ([]models.AllocationDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.AllocationDetail, error)
	Allocate(ctx context.Context, req service.AllocateRequest) (*models.AllocationDetail, error)
	End(ctx context.Context, id string, vacationDate *time.Time) (*models.AllocationDetail, error)
	Transfer(ctx context.Context, id string, req service.TransferRequest) (*models.AllocationDetail, error)
}

// AllocationHandler exposes bed allocation endpoints.
type AllocationHandler struct {
	service allocationService
	metrics *service.MetricsService
}

// NewAllocationHandler constructs an allocation handler.
func NewAllocationHandler(svc allocationService, metrics *service.MetricsService) *AllocationHandler {
	return &AllocationHandler{service: svc, metrics: metrics}
}

type endAllocationRequest struct {
	VacationDate *time.Time `json:"vacation_date,omitempty"`
}

// List godoc
// @Summary List allocations
// @Tags Allocations
// @Produce json
// @Param block_id query string false "Filter by block"
// @Param room_id query string false "Filter by room"
// @Param bed_id query string false "Filter by bed"
// @Param student_id query string false "Filter by student"
// @Param status query string false "active, vacated or transferred"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /allocations [get]
func (h *AllocationHandler) List(c *gin.Context) {
	var filter models.AllocationFilter
	filter.BlockID = c.Query("block_id")
	filter.RoomID = c.Query("room_id")
	filter.BedID = c.Query("bed_id")
	filter.StudentID = c.Query("student_id")
	filter.Status = models.AllocationStatus(c.Query("status"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	allocations, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocations, pagination)
}

// Get godoc
// @Summary Get allocation detail
// @Tags Allocations
// @Produce json
// @Param id path string true "Allocation ID"
// @Success 200 {object} response.Envelope
// @Router /allocations/{id} [get]
func (h *AllocationHandler) Get(c *gin.Context) {
	allocation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocation, nil)
}

// Allocate godoc
// @Summary Allocate a bed to a student
// @Tags Allocations
// @Accept json
// @Produce json
// @Param payload body service.AllocateRequest true "Allocation payload"
// @Success 201 {object} response.Envelope
// @Router /allocations [post]
func (h *AllocationHandler) Allocate(c *gin.Context) {
	var req service.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.AllocatedBy == nil {
		if claims := claimsFromContext(c); claims != nil {
			req.AllocatedBy = &claims.UserID
		}
	}
	allocation, err := h.service.Allocate(c.Request.Context(), req)
	h.record("allocate", err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, allocation)
}

// End godoc
// @Summary End an active allocation
// @Tags Allocations
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param payload body endAllocationRequest false "Vacation payload"
// @Success 200 {object} response.Envelope
// @Router /allocations/{id}/end [post]
func (h *AllocationHandler) End(c *gin.Context) {
	var req endAllocationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	allocation, err := h.service.End(c.Request.Context(), c.Param("id"), req.VacationDate)
	h.record("end", err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocation, nil)
}

// Transfer godoc
// @Summary Transfer an active allocation to another bed
// @Tags Allocations
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param payload body service.TransferRequest true "Transfer payload"
// @Success 201 {object} response.Envelope
// @Router /allocations/{id}/transfer [post]
func (h *AllocationHandler) Transfer(c *gin.Context) {
	var req service.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	allocation, err := h.service.Transfer(c.Request.Context(), c.Param("id"), req)
	h.record("transfer", err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, allocation)
}

func (h *AllocationHandler) record(operation string, err error) {
	if h.metrics != nil {
		h.metrics.RecordAllocation(operation, err)
	}
}
