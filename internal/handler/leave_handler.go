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

type leaveService interface {
	List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.LeaveRequest, error)
	Submit(ctx context.Context, req service.SubmitLeaveRequest) (*models.LeaveRequest, error)
	Approve(ctx context.Context, id string, req service.DecideLeaveRequest) (*models.LeaveRequest, error)
	Reject(ctx context.Context, id string, req service.DecideLeaveRequest) (*models.LeaveRequest, error)
	MarkReturned(ctx context.Context, id string, req service.MarkReturnedRequest) (*models.LeaveRequest, error)
}

// LeaveHandler exposes the leave request lifecycle endpoints.
type LeaveHandler struct {
	service leaveService
	metrics *service.MetricsService
}

// NewLeaveHandler constructs a leave handler.
func NewLeaveHandler(svc leaveService, metrics *service.MetricsService) *LeaveHandler {
	return &LeaveHandler{service: svc, metrics: metrics}
}

// List godoc
// @Summary List leave requests
// @Tags Leaves
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param status query string false "Filter by status"
// @Param leave_type query string false "Filter by leave type"
// @Param from query string false "Overlap window start (RFC 3339)"
// @Param to query string false "Overlap window end (RFC 3339)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	var filter models.LeaveFilter
	filter.StudentID = c.Query("student_id")
	filter.Status = models.LeaveStatus(c.Query("status"))
	filter.LeaveType = models.LeaveType(c.Query("leave_type"))
	if raw := c.Query("from"); raw != "" {
		if from, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &from
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &to
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	leaves, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, pagination)
}

// Get godoc
// @Summary Get leave request detail
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id} [get]
func (h *LeaveHandler) Get(c *gin.Context) {
	leave, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

// Submit godoc
// @Summary Submit a leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Param payload body service.SubmitLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Router /leaves [post]
func (h *LeaveHandler) Submit(c *gin.Context) {
	var req service.SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleStudent && claims.ProfileID != "" {
		req.StudentID = claims.ProfileID
	}
	leave, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.recordTransition(string(leave.Status))
	response.Created(c, leave)
}

// Approve godoc
// @Summary Approve a pending leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body service.DecideLeaveRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

// Reject godoc
// @Summary Reject a pending leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body service.DecideLeaveRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id}/reject [post]
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

// MarkReturned godoc
// @Summary Record a student's return from approved leave
// @Tags Leaves
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body service.MarkReturnedRequest false "Return payload"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id}/return [post]
func (h *LeaveHandler) MarkReturned(c *gin.Context) {
	var req service.MarkReturnedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	leave, err := h.service.MarkReturned(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.recordTransition(string(leave.Status))
	response.JSON(c, http.StatusOK, leave, nil)
}

func (h *LeaveHandler) decide(c *gin.Context, fn func(context.Context, string, service.DecideLeaveRequest) (*models.LeaveRequest, error)) {
	var req service.DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.DeciderID == "" {
		if claims := claimsFromContext(c); claims != nil && claims.ProfileID != "" {
			req.DeciderID = claims.ProfileID
		}
	}
	leave, err := fn(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.recordTransition(string(leave.Status))
	response.JSON(c, http.StatusOK, leave, nil)
}

func (h *LeaveHandler) recordTransition(toStatus string) {
	if h.metrics != nil {
		h.metrics.RecordLeaveTransition(toStatus)
	}
}
