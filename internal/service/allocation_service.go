package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
	"github.com/noah-isme/hostel-core-api/pkg/events"
)

// Domain event names emitted by allocation workflows.
const (
	EventAllocationCreated     = "hostel.allocation.created"
	EventAllocationEnded       = "hostel.allocation.ended"
	EventAllocationTransferred = "hostel.allocation.transferred"
)

type allocationRepository interface {
	Allocate(ctx context.Context, allocation *models.Allocation) error
	Transfer(ctx context.Context, current *models.Allocation, next *models.Allocation, date time.Time) error
	End(ctx context.Context, id string, vacationDate time.Time) error
	FindByID(ctx context.Context, id string) (*models.Allocation, error)
	FindDetailByID(ctx context.Context, id string) (*models.AllocationDetail, error)
	List(ctx context.Context, filter models.AllocationFilter) ([]models.AllocationDetail, int, error)
}

type studentReader interface {
	FindStudent(ctx context.Context, id string) (*models.StudentProfile, error)
}

type bedReader interface {
	FindByID(ctx context.Context, id string) (*models.BedDetail, error)
}

type eventEmitter interface {
	Emit(event events.Event) error
}

// AllocateRequest describes allocation creation payload.
type AllocateRequest struct {
	StudentID      string     `json:"student_id" validate:"required"`
	BedID          string     `json:"bed_id" validate:"required"`
	AllocationDate *time.Time `json:"allocation_date,omitempty"`
	AllocatedBy    *string    `json:"allocated_by,omitempty"`
	PaymentID      *string    `json:"payment_id,omitempty"`
	FeeAmount      *float64   `json:"fee_amount,omitempty" validate:"omitempty,min=0"`
}

// TransferRequest moves an active allocation to a different bed.
type TransferRequest struct {
	BedID string `json:"bed_id" validate:"required"`
}

// AllocationService orchestrates bed allocation workflows. The repository
// serialises conflicting writes; this layer validates references, maps
// outcomes and emits domain events.
type AllocationService struct {
	repo        allocationRepository
	students    studentReader
	beds        bedReader
	emitter     eventEmitter
	invalidator cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAllocationService constructs AllocationService.
func NewAllocationService(repo allocationRepository, students studentReader, beds bedReader, emitter eventEmitter, invalidator cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationService{repo: repo, students: students, beds: beds, emitter: emitter, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns allocations with pagination metadata.
func (s *AllocationService) List(ctx context.Context, filter models.AllocationFilter) ([]models.AllocationDetail, *models.Pagination, error) {
	allocations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list allocations")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return allocations, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single allocation with student and location context.
func (s *AllocationService) Get(ctx context.Context, id string) (*models.AllocationDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocation")
	}
	return detail, nil
}

// Allocate assigns a student to a bed. Fails when the bed holds an active
// allocation or the student already has one.
func (s *AllocationService) Allocate(ctx context.Context, req AllocateRequest) (*models.AllocationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload")
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
	if _, err := s.beds.FindByID(ctx, req.BedID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bed not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bed")
	}

	date := time.Now().UTC()
	if req.AllocationDate != nil {
		date = *req.AllocationDate
	}
	allocation := &models.Allocation{
		StudentID:      req.StudentID,
		BedID:          req.BedID,
		AllocationDate: date,
		AllocatedBy:    req.AllocatedBy,
		PaymentID:      req.PaymentID,
		FeeAmount:      req.FeeAmount,
	}
	if err := s.repo.Allocate(ctx, allocation); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bed not found")
		}
		return nil, appErrors.FromError(err)
	}
	s.invalidate(ctx)
	detail, err := s.Get(ctx, allocation.ID)
	if err != nil {
		return nil, err
	}
	s.emit(EventAllocationCreated, detail)
	return detail, nil
}

// End vacates an active allocation.
func (s *AllocationService) End(ctx context.Context, id string, vacationDate *time.Time) (*models.AllocationDetail, error) {
	date := time.Now().UTC()
	if vacationDate != nil {
		date = *vacationDate
	}
	if err := s.repo.End(ctx, id, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation not found")
		}
		return nil, appErrors.FromError(err)
	}
	s.invalidate(ctx)
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(EventAllocationEnded, detail)
	return detail, nil
}

// Transfer moves an active allocation to another bed. The old allocation is
// closed as transferred and a new active one opens on the target bed.
func (s *AllocationService) Transfer(ctx context.Context, id string, req TransferRequest) (*models.AllocationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transfer payload")
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocation")
	}
	if current.Status != models.AllocationStatusActive {
		return nil, appErrors.Clone(appErrors.ErrAllocationNotActive, "")
	}
	if current.BedID == req.BedID {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "already allocated to target bed")
	}
	if _, err := s.beds.FindByID(ctx, req.BedID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "target bed not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target bed")
	}

	date := time.Now().UTC()
	next := &models.Allocation{
		StudentID:      current.StudentID,
		BedID:          req.BedID,
		AllocationDate: date,
		AllocatedBy:    current.AllocatedBy,
		PaymentID:      current.PaymentID,
		FeeAmount:      current.FeeAmount,
	}
	if err := s.repo.Transfer(ctx, current, next, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation not found")
		}
		return nil, appErrors.FromError(err)
	}
	s.invalidate(ctx)
	detail, err := s.Get(ctx, next.ID)
	if err != nil {
		return nil, err
	}
	s.emit(EventAllocationTransferred, detail)
	return detail, nil
}

func (s *AllocationService) emit(name string, detail *models.AllocationDetail) {
	if s.emitter == nil {
		return
	}
	payload, err := json.Marshal(detail)
	if err != nil {
		s.logger.Sugar().Warnw("failed to encode event payload", "event", name, "error", err)
		return
	}
	event := events.Event{ID: uuid.NewString(), Name: name, Payload: payload, OccurredAt: time.Now().UTC()}
	if err := s.emitter.Emit(event); err != nil {
		s.logger.Sugar().Warnw("failed to emit event", "event", name, "error", err)
	}
}

func (s *AllocationService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateRooms(ctx); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate room cache", "error", err)
	}
}
