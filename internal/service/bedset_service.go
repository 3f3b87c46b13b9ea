package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type bedRepository interface {
	ListByRoom(ctx context.Context, roomID string) ([]models.BedDetail, error)
	FindByID(ctx context.Context, id string) (*models.BedDetail, error)
	ReplaceForRoom(ctx context.Context, roomID string, bedCount int, bedType models.BedType) ([]models.Bed, error)
}

type roomReader interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

// RegenerateBedsRequest replaces a room's bed set.
type RegenerateBedsRequest struct {
	BedCount int            `json:"bed_count" validate:"required,min=1,max=20"`
	BedType  models.BedType `json:"bed_type" validate:"required"`
}

// BedSetService manages the bed collections inside rooms. Regeneration
// preserves beds that hold an active allocation and refuses counts below
// the current occupancy.
type BedSetService struct {
	beds        bedRepository
	rooms       roomReader
	invalidator cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewBedSetService constructs BedSetService.
func NewBedSetService(beds bedRepository, rooms roomReader, invalidator cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *BedSetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BedSetService{beds: beds, rooms: rooms, invalidator: invalidator, validator: validate, logger: logger}
}

// ListByRoom returns the room's beds with derived availability.
func (s *BedSetService) ListByRoom(ctx context.Context, roomID string) ([]models.BedDetail, error) {
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	beds, err := s.beds.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list beds")
	}
	return beds, nil
}

// Regenerate replaces the room's bed set with bedCount beds of bedType.
// Occupied beds survive with their numbers; the room capacity follows the
// new count.
func (s *BedSetService) Regenerate(ctx context.Context, roomID string, req RegenerateBedsRequest) ([]models.Bed, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bed regeneration payload")
	}
	if !req.BedType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown bed type")
	}
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	beds, err := s.beds.ReplaceForRoom(ctx, roomID, req.BedCount, req.BedType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.FromError(err)
	}
	if s.invalidator != nil {
		if err := s.invalidator.InvalidateRooms(ctx); err != nil {
			s.logger.Sugar().Warnw("failed to invalidate room cache", "error", err)
		}
	}
	s.logger.Sugar().Infow("regenerated beds", "room_id", roomID, "bed_count", req.BedCount, "bed_type", req.BedType)
	return beds, nil
}
