package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type leaveRepository interface {
	List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, int, error)
	FindByID(ctx context.Context, id string) (*models.LeaveRequest, error)
	HasPendingOverlap(ctx context.Context, studentID string, start, end time.Time) (bool, error)
	Create(ctx context.Context, request *models.LeaveRequest) error
	UpdateState(ctx context.Context, request *models.LeaveRequest) error
}

// SubmitLeaveRequest describes leave request creation payload.
type SubmitLeaveRequest struct {
	StudentID          string           `json:"student_id" validate:"required"`
	LeaveType          models.LeaveType `json:"leave_type" validate:"required"`
	StartDate          time.Time        `json:"start_date" validate:"required"`
	EndDate            time.Time        `json:"end_date" validate:"required"`
	ExpectedReturnDate *time.Time       `json:"expected_return_date,omitempty"`
	Reason             string           `json:"reason" validate:"required"`
	EmergencyContact   string           `json:"emergency_contact"`
	Destination        string           `json:"destination"`
}

// DecideLeaveRequest records an approval or rejection.
type DecideLeaveRequest struct {
	DeciderID     string `json:"decider_id" validate:"required"`
	DecisionNotes string `json:"decision_notes"`
}

// MarkReturnedRequest records the student's actual return.
type MarkReturnedRequest struct {
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`
}

// LeaveService drives the leave request lifecycle:
// pending -> approved -> returned, or pending -> rejected.
type LeaveService struct {
	repo      leaveRepository
	students  studentReader
	staff     staffReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs LeaveService.
func NewLeaveService(repo leaveRepository, students studentReader, staff staffReader, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{repo: repo, students: students, staff: staff, validator: validate, logger: logger}
}

// List returns leave requests with pagination metadata.
func (s *LeaveService) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, *models.Pagination, error) {
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return requests, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single leave request.
func (s *LeaveService) Get(ctx context.Context, id string) (*models.LeaveRequest, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave request")
	}
	return request, nil
}

// Submit files a new pending leave request. Overlapping pending or approved
// requests for the same student are rejected.
func (s *LeaveService) Submit(ctx context.Context, req SubmitLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	if !req.LeaveType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown leave type")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	student, err := s.students.FindStudent(ctx, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student inactive")
	}
	overlaps, err := s.repo.HasPendingOverlap(ctx, req.StudentID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate leave window")
	}
	if overlaps {
		return nil, appErrors.Clone(appErrors.ErrConflict, "overlapping leave request exists")
	}

	expectedReturn := req.EndDate
	if req.ExpectedReturnDate != nil {
		if req.ExpectedReturnDate.Before(req.EndDate) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "expected_return_date must not precede end_date")
		}
		expectedReturn = *req.ExpectedReturnDate
	}
	request := &models.LeaveRequest{
		StudentID:          req.StudentID,
		LeaveType:          req.LeaveType,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		ExpectedReturnDate: expectedReturn,
		Reason:             req.Reason,
		EmergencyContact:   req.EmergencyContact,
		Destination:        req.Destination,
		Status:             models.LeaveStatusPending,
		SubmittedDate:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}
	return request, nil
}

// Approve grants a pending leave request.
func (s *LeaveService) Approve(ctx context.Context, id string, req DecideLeaveRequest) (*models.LeaveRequest, error) {
	return s.decide(ctx, id, req, models.LeaveStatusApproved)
}

// Reject declines a pending leave request.
func (s *LeaveService) Reject(ctx context.Context, id string, req DecideLeaveRequest) (*models.LeaveRequest, error) {
	return s.decide(ctx, id, req, models.LeaveStatusRejected)
}

// MarkReturned records the student's return from an approved leave.
func (s *LeaveService) MarkReturned(ctx context.Context, id string, req MarkReturnedRequest) (*models.LeaveRequest, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.LeaveStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only approved leaves can be marked returned")
	}
	returned := time.Now().UTC()
	if req.ActualReturnDate != nil {
		returned = *req.ActualReturnDate
	}
	request.Status = models.LeaveStatusReturned
	request.ActualReturnDate = &returned
	if err := s.repo.UpdateState(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leave request")
	}
	return request, nil
}

func (s *LeaveService) decide(ctx context.Context, id string, req DecideLeaveRequest, status models.LeaveStatus) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.LeaveStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only pending leaves can be decided")
	}
	staff, err := s.staff.FindStaff(ctx, req.DeciderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if !staff.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "staff member inactive")
	}
	now := time.Now().UTC()
	request.Status = status
	request.DecidedBy = &req.DeciderID
	request.DecisionNotes = req.DecisionNotes
	request.DecisionDate = &now
	if err := s.repo.UpdateState(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leave request")
	}
	return request, nil
}
