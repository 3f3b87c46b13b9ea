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

type complaintRepository interface {
	List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error)
	FindByID(ctx context.Context, id string) (*models.Complaint, error)
	Create(ctx context.Context, complaint *models.Complaint) error
	UpdateState(ctx context.Context, complaint *models.Complaint) error
}

// FileComplaintRequest describes complaint creation payload.
type FileComplaintRequest struct {
	StudentID   string                   `json:"student_id" validate:"required"`
	RoomID      *string                  `json:"room_id,omitempty"`
	Title       string                   `json:"title" validate:"required,max=200"`
	Description string                   `json:"description" validate:"required"`
	Category    models.ComplaintCategory `json:"category" validate:"required"`
	Priority    models.ComplaintPriority `json:"priority" validate:"required"`
}

// AssignComplaintRequest moves an open complaint into progress.
type AssignComplaintRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required"`
}

// ResolveComplaintRequest closes out the investigation.
type ResolveComplaintRequest struct {
	ResolverID      string `json:"resolver_id" validate:"required"`
	ResolutionNotes string `json:"resolution_notes" validate:"required"`
}

// ComplaintService drives the complaint lifecycle:
// open -> in_progress -> resolved -> closed, with open -> resolved allowed
// for issues fixed on the spot.
type ComplaintService struct {
	repo      complaintRepository
	students  studentReader
	staff     staffReader
	rooms     roomReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewComplaintService constructs ComplaintService.
func NewComplaintService(repo complaintRepository, students studentReader, staff staffReader, rooms roomReader, validate *validator.Validate, logger *zap.Logger) *ComplaintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{repo: repo, students: students, staff: staff, rooms: rooms, validator: validate, logger: logger}
}

// List returns complaints with pagination metadata.
func (s *ComplaintService) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, *models.Pagination, error) {
	complaints, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list complaints")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return complaints, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single complaint.
func (s *ComplaintService) Get(ctx context.Context, id string) (*models.Complaint, error) {
	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaint")
	}
	return complaint, nil
}

// File registers a new complaint in the open state.
func (s *ComplaintService) File(ctx context.Context, req FileComplaintRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid complaint payload")
	}
	if !req.Category.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown category")
	}
	if !req.Priority.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown priority")
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
	if req.RoomID != nil {
		if _, err := s.rooms.FindByID(ctx, *req.RoomID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
		}
	}

	complaint := &models.Complaint{
		StudentID:     req.StudentID,
		RoomID:        req.RoomID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
		Status:        models.ComplaintStatusOpen,
		SubmittedDate: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create complaint")
	}
	return complaint, nil
}

// Assign moves an open complaint to in_progress under the given staff
// member.
func (s *ComplaintService) Assign(ctx context.Context, id string, req AssignComplaintRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if complaint.Status != models.ComplaintStatusOpen {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only open complaints can be assigned")
	}
	if err := s.resolveStaff(ctx, req.AssigneeID); err != nil {
		return nil, err
	}
	complaint.Status = models.ComplaintStatusInProgress
	complaint.AssignedTo = &req.AssigneeID
	if err := s.repo.UpdateState(ctx, complaint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign complaint")
	}
	return complaint, nil
}

// Resolve completes a complaint from open or in_progress.
func (s *ComplaintService) Resolve(ctx context.Context, id string, req ResolveComplaintRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resolution payload")
	}
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if complaint.Status != models.ComplaintStatusOpen && complaint.Status != models.ComplaintStatusInProgress {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only open or in-progress complaints can be resolved")
	}
	if err := s.resolveStaff(ctx, req.ResolverID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	complaint.Status = models.ComplaintStatusResolved
	complaint.ResolvedBy = &req.ResolverID
	complaint.ResolutionNotes = req.ResolutionNotes
	complaint.ResolvedDate = &now
	if err := s.repo.UpdateState(ctx, complaint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve complaint")
	}
	return complaint, nil
}

// Close archives a resolved complaint.
func (s *ComplaintService) Close(ctx context.Context, id string) (*models.Complaint, error) {
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if complaint.Status != models.ComplaintStatusResolved {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only resolved complaints can be closed")
	}
	complaint.Status = models.ComplaintStatusClosed
	if err := s.repo.UpdateState(ctx, complaint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close complaint")
	}
	return complaint, nil
}

func (s *ComplaintService) resolveStaff(ctx context.Context, id string) error {
	staff, err := s.staff.FindStaff(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if !staff.Active {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "staff member inactive")
	}
	return nil
}
