package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hostel-core-api/internal/middleware"
	"github.com/noah-isme/hostel-core-api/internal/models"
	"github.com/noah-isme/hostel-core-api/internal/service"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type leaveServiceMock struct {
	submitResp  *models.LeaveRequest
	submitErr   error
	decideResp  *models.LeaveRequest
	decideErr   error
	returnResp  *models.LeaveRequest
	returnErr   error
	lastSubmit  service.SubmitLeaveRequest
	lastDecide  service.DecideLeaveRequest
	lastFilter  models.LeaveFilter
	approveUsed bool
	rejectUsed  bool
}

func (m *leaveServiceMock) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, *models.Pagination, error) {
	m.lastFilter = filter
	return nil, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *leaveServiceMock) Get(ctx context.Context, id string) (*models.LeaveRequest, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
}

func (m *leaveServiceMock) Submit(ctx context.Context, req service.SubmitLeaveRequest) (*models.LeaveRequest, error) {
	m.lastSubmit = req
	return m.submitResp, m.submitErr
}

func (m *leaveServiceMock) Approve(ctx context.Context, id string, req service.DecideLeaveRequest) (*models.LeaveRequest, error) {
	m.approveUsed = true
	m.lastDecide = req
	return m.decideResp, m.decideErr
}

func (m *leaveServiceMock) Reject(ctx context.Context, id string, req service.DecideLeaveRequest) (*models.LeaveRequest, error) {
	m.rejectUsed = true
	m.lastDecide = req
	return m.decideResp, m.decideErr
}

func (m *leaveServiceMock) MarkReturned(ctx context.Context, id string, req service.MarkReturnedRequest) (*models.LeaveRequest, error) {
	return m.returnResp, m.returnErr
}

func leaveFixture(status models.LeaveStatus) *models.LeaveRequest {
	return &models.LeaveRequest{ID: "leave-1", StudentID: "student-1", Status: status}
}

func TestLeaveHandlerSubmitUsesStudentProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &leaveServiceMock{submitResp: leaveFixture(models.LeaveStatusPending)}
	handler := NewLeaveHandler(mockSvc, nil)

	payload, _ := json.Marshal(service.SubmitLeaveRequest{
		StudentID: "someone-else",
		LeaveType: models.LeaveTypeHome,
		StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		Reason:    "term break",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/leaves", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent, ProfileID: "student-1"})

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "student-1", mockSvc.lastSubmit.StudentID)
}

func TestLeaveHandlerApproveFillsDecider(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &leaveServiceMock{decideResp: leaveFixture(models.LeaveStatusApproved)}
	handler := NewLeaveHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/leaves/leave-1/approve", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "leave-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-2", Role: models.RoleWarden, ProfileID: "warden-1"})

	handler.Approve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.approveUsed)
	assert.Equal(t, "warden-1", mockSvc.lastDecide.DeciderID)
}

func TestLeaveHandlerRejectTransitionError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &leaveServiceMock{decideErr: appErrors.ErrInvalidTransition}
	handler := NewLeaveHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/leaves/leave-1/reject", bytes.NewBufferString(`{"decider_id":"warden-1"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "leave-1"}}

	handler.Reject(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, mockSvc.rejectUsed)
}

func TestLeaveHandlerListParsesWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &leaveServiceMock{}
	handler := NewLeaveHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/leaves?status=pending&from=2026-03-01T00:00:00Z", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.LeaveStatusPending, mockSvc.lastFilter.Status)
	require.NotNil(t, mockSvc.lastFilter.From)
	assert.Equal(t, 2026, mockSvc.lastFilter.From.Year())
}

func TestLeaveHandlerMarkReturnedWithoutBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &leaveServiceMock{returnResp: leaveFixture(models.LeaveStatusReturned)}
	handler := NewLeaveHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/leaves/leave-1/return", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "leave-1"}}

	handler.MarkReturned(c)
	require.Equal(t, http.StatusOK, w.Code)
}
