package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostel-core-api/internal/models"
	"github.com/noah-isme/hostel-core-api/internal/service"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
	"github.com/noah-isme/hostel-core-api/pkg/response"
)

// ComplaintHandler exposes the complaint lifecycle endpoints.
type ComplaintHandler struct {
	service *service.ComplaintService
	metrics *service.MetricsService
}

// NewComplaintHandler constructs a complaint handler.
func NewComplaintHandler(svc *service.ComplaintService, metrics *service.MetricsService) *ComplaintHandler {
	return &ComplaintHandler{service: svc, metrics: metrics}
}

// List godoc
// @Summary List complaints
// @Tags Complaints
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param room_id query string false "Filter by room"
// @Param status query string false "Filter by status"
// @Param category query string false "Filter by category"
// @Param priority query string false "Filter by priority"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	var filter models.ComplaintFilter
	filter.StudentID = c.Query("student_id")
	filter.RoomID = c.Query("room_id")
	filter.Status = models.ComplaintStatus(c.Query("status"))
	filter.Category = models.ComplaintCategory(c.Query("category"))
	filter.Priority = models.ComplaintPriority(c.Query("priority"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	complaints, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, complaints, pagination)
}

// Get godoc
// @Summary Get complaint detail
// @Tags Complaints
// @Produce json
// @Param id path string true "Complaint ID"
// @Success 200 {object} response.Envelope
// @Router /complaints/{id} [get]
func (h *ComplaintHandler) Get(c *gin.Context) {
	complaint, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, complaint, nil)
}

// File godoc
// @Summary File a complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Param payload body service.FileComplaintRequest true "Complaint payload"
// @Success 201 {object} response.Envelope
// @Router /complaints [post]
func (h *ComplaintHandler) File(c *gin.Context) {
	var req service.FileComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleStudent && claims.ProfileID != "" {
		req.StudentID = claims.ProfileID
	}
	complaint, err := h.service.File(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.recordTransition(string(complaint.Status))
	response.Created(c, complaint)
}

// Assign godoc
// @Summary Assign a complaint to a staff member
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param payload body service.AssignComplaintRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /complaints/{id}/assign [post]
func (h *ComplaintHandler) Assign(c *gin.Context) {
	var req service.AssignComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	complaint, err := h.service.Assign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.recordTransition(string(complaint.Status))
	response.JSON(c, http.StatusOK, complaint, nil)
}

// Resolve godoc
// @Summary Resolve a complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param payload body service.ResolveComplaintRequest true "Resolution payload"
// @Success 200 {object} response.Envelope
// @Router /complaints/{id}/resolve [post]
func (h *ComplaintHandler) Resolve(c *gin.Context) {
	var req service.ResolveComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.ResolverID == "" {
		if claims := claimsFromContext(c); claims != nil && claims.ProfileID != "" {
			req.ResolverID = claims.ProfileID
		}
	}
	complaint, err := h.service.Resolve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.recordTransition(string(complaint.Status))
	response.JSON(c, http.StatusOK, complaint, nil)
}

// Close godoc
// @Summary Close a resolved complaint
// @Tags Complaints
// @Produce json
// @Param id path string true "Complaint ID"
// @Success 200 {object} response.Envelope
// @Router /complaints/{id}/close [post]
func (h *ComplaintHandler) Close(c *gin.Context) {
	complaint, err := h.service.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.recordTransition(string(complaint.Status))
	response.JSON(c, http.StatusOK, complaint, nil)
}

func (h *ComplaintHandler) recordTransition(toStatus string) {
	if h.metrics != nil {
		h.metrics.RecordComplaintTransition(toStatus)
	}
}
