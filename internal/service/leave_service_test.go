package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type mockLeaveRepo struct {
	requests map[string]models.LeaveRequest
	overlap  bool
	created  *models.LeaveRequest
}

func (m *mockLeaveRepo) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, int, error) {
	return nil, 0, nil
}

func (m *mockLeaveRepo) FindByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	if r, ok := m.requests[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLeaveRepo) HasPendingOverlap(ctx context.Context, studentID string, start, end time.Time) (bool, error) {
	return m.overlap, nil
}

func (m *mockLeaveRepo) Create(ctx context.Context, request *models.LeaveRequest) error {
	if m.requests == nil {
		m.requests = make(map[string]models.LeaveRequest)
	}
	if request.ID == "" {
		request.ID = "new-leave"
	}
	m.requests[request.ID] = *request
	m.created = request
	return nil
}

func (m *mockLeaveRepo) UpdateState(ctx context.Context, request *models.LeaveRequest) error {
	m.requests[request.ID] = *request
	return nil
}

func newLeaveService(repo *mockLeaveRepo) *LeaveService {
	dir := activeStudents()
	return NewLeaveService(repo, dir, dir, validator.New(), zap.NewNop())
}

func leaveWindow() (time.Time, time.Time) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 4)
}

func TestLeaveServiceSubmit(t *testing.T) {
	repo := &mockLeaveRepo{}
	svc := newLeaveService(repo)

	start, end := leaveWindow()
	request, err := svc.Submit(context.Background(), SubmitLeaveRequest{
		StudentID: "s1",
		LeaveType: models.LeaveTypeHome,
		StartDate: start,
		EndDate:   end,
		Reason:    "semester break",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusPending, request.Status)
	assert.Equal(t, end, request.ExpectedReturnDate)
	assert.NotNil(t, repo.created)
}

func TestLeaveServiceSubmitOverlap(t *testing.T) {
	repo := &mockLeaveRepo{overlap: true}
	svc := newLeaveService(repo)

	start, end := leaveWindow()
	_, err := svc.Submit(context.Background(), SubmitLeaveRequest{
		StudentID: "s1",
		LeaveType: models.LeaveTypeHome,
		StartDate: start,
		EndDate:   end,
		Reason:    "semester break",
	})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrConflict.Code, typed.Code)
}

func TestLeaveServiceSubmitInvertedDates(t *testing.T) {
	svc := newLeaveService(&mockLeaveRepo{})

	start, end := leaveWindow()
	_, err := svc.Submit(context.Background(), SubmitLeaveRequest{
		StudentID: "s1",
		LeaveType: models.LeaveTypeHome,
		StartDate: end,
		EndDate:   start,
		Reason:    "semester break",
	})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)
}

func TestLeaveServiceApprove(t *testing.T) {
	repo := &mockLeaveRepo{requests: map[string]models.LeaveRequest{
		"l1": {ID: "l1", StudentID: "s1", Status: models.LeaveStatusPending},
	}}
	svc := newLeaveService(repo)

	request, err := svc.Approve(context.Background(), "l1", DecideLeaveRequest{DeciderID: "w1", DecisionNotes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusApproved, request.Status)
	require.NotNil(t, request.DecidedBy)
	assert.Equal(t, "w1", *request.DecidedBy)
	assert.NotNil(t, request.DecisionDate)
}

func TestLeaveServiceRejectAfterDecision(t *testing.T) {
	repo := &mockLeaveRepo{requests: map[string]models.LeaveRequest{
		"l1": {ID: "l1", StudentID: "s1", Status: models.LeaveStatusApproved},
	}}
	svc := newLeaveService(repo)

	_, err := svc.Reject(context.Background(), "l1", DecideLeaveRequest{DeciderID: "w1"})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, typed.Code)
}

func TestLeaveServiceMarkReturned(t *testing.T) {
	repo := &mockLeaveRepo{requests: map[string]models.LeaveRequest{
		"approved": {ID: "approved", StudentID: "s1", Status: models.LeaveStatusApproved},
		"pending":  {ID: "pending", StudentID: "s1", Status: models.LeaveStatusPending},
	}}
	svc := newLeaveService(repo)

	request, err := svc.MarkReturned(context.Background(), "approved", MarkReturnedRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusReturned, request.Status)
	assert.NotNil(t, request.ActualReturnDate)

	_, err = svc.MarkReturned(context.Background(), "pending", MarkReturnedRequest{})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, typed.Code)
}
