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

type allocationServiceMock struct {
	listResp     []models.AllocationDetail
	getResp      *models.AllocationDetail
	allocResp    *models.AllocationDetail
	allocErr     error
	endResp      *models.AllocationDetail
	endErr       error
	transferResp *models.AllocationDetail
	transferErr  error
	lastFilter   models.AllocationFilter
	lastAlloc    service.AllocateRequest
	lastEndDate  *time.Time
	allocCalled  bool
}

func (m *allocationServiceMock) List(ctx context.Context, filter models.AllocationFilter) ([]models.AllocationDetail, *models.Pagination, error) {
	m.lastFilter = filter
	return m.listResp, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(m.listResp)}, nil
}

func (m *allocationServiceMock) Get(ctx context.Context, id string) (*models.AllocationDetail, error) {
	if m.getResp == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation not found")
	}
	return m.getResp, nil
}

func (m *allocationServiceMock) Allocate(ctx context.Context, req service.AllocateRequest) (*models.AllocationDetail, error) {
	m.allocCalled = true
	m.lastAlloc = req
	return m.allocResp, m.allocErr
}

func (m *allocationServiceMock) End(ctx context.Context, id string, vacationDate *time.Time) (*models.AllocationDetail, error) {
	m.lastEndDate = vacationDate
	return m.endResp, m.endErr
}

func (m *allocationServiceMock) Transfer(ctx context.Context, id string, req service.TransferRequest) (*models.AllocationDetail, error) {
	return m.transferResp, m.transferErr
}

func allocationDetailFixture() *models.AllocationDetail {
	return &models.AllocationDetail{
		Allocation: models.Allocation{ID: "alloc-1", StudentID: "student-1", BedID: "bed-1", Status: models.AllocationStatusActive},
	}
}

func TestAllocationHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &allocationServiceMock{listResp: []models.AllocationDetail{*allocationDetailFixture()}}
	handler := NewAllocationHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/allocations?student_id=student-1&status=active", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student-1", mockSvc.lastFilter.StudentID)
	assert.Equal(t, models.AllocationStatusActive, mockSvc.lastFilter.Status)
}

func TestAllocationHandlerAllocate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &allocationServiceMock{allocResp: allocationDetailFixture()}
	handler := NewAllocationHandler(mockSvc, nil)

	payload, _ := json.Marshal(service.AllocateRequest{StudentID: "student-1", BedID: "bed-1"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/allocations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "warden-1", Role: models.RoleWarden})

	handler.Allocate(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.allocCalled)
	require.NotNil(t, mockSvc.lastAlloc.AllocatedBy)
	assert.Equal(t, "warden-1", *mockSvc.lastAlloc.AllocatedBy)
}

func TestAllocationHandlerAllocateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAllocationHandler(&allocationServiceMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/allocations", bytes.NewBufferString(`{"student_id":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Allocate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllocationHandlerAllocateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &allocationServiceMock{allocErr: appErrors.ErrBedUnavailable}
	handler := NewAllocationHandler(mockSvc, nil)

	payload, _ := json.Marshal(service.AllocateRequest{StudentID: "student-1", BedID: "bed-1"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/allocations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Allocate(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAllocationHandlerEndWithoutBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ended := allocationDetailFixture()
	ended.Status = models.AllocationStatusVacated
	mockSvc := &allocationServiceMock{endResp: ended}
	handler := NewAllocationHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/allocations/alloc-1/end", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "alloc-1"}}

	handler.End(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, mockSvc.lastEndDate)
}

func TestAllocationHandlerTransferNotActive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &allocationServiceMock{transferErr: appErrors.ErrAllocationNotActive}
	handler := NewAllocationHandler(mockSvc, nil)

	payload, _ := json.Marshal(service.TransferRequest{BedID: "bed-2"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/allocations/alloc-1/transfer", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "alloc-1"}}

	handler.Transfer(c)
	require.Equal(t, http.StatusConflict, w.Code)
}
