package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.RoomDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	FindDetailByID(ctx context.Context, id string) (*models.RoomDetail, error)
	ExistsByNumber(ctx context.Context, blockID, roomNumber, excludeID string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
}

type blockReader interface {
	FindByID(ctx context.Context, id string) (*models.Block, error)
}

type roomOccupancyReader interface {
	CountActiveByRoom(ctx context.Context, roomID string) (int, error)
}

type bedResizer interface {
	ListByRoom(ctx context.Context, roomID string) ([]models.BedDetail, error)
	ReplaceForRoom(ctx context.Context, roomID string, bedCount int, bedType models.BedType) ([]models.Bed, error)
}

// CreateRoomRequest describes room creation payload. Capacity defaults to
// the room type's bed count when omitted.
type CreateRoomRequest struct {
	BlockID     string          `json:"block_id" validate:"required"`
	RoomNumber  string          `json:"room_number" validate:"required"`
	RoomType    models.RoomType `json:"room_type" validate:"required"`
	ACType      models.ACType   `json:"ac_type" validate:"required"`
	Capacity    *int            `json:"capacity,omitempty" validate:"omitempty,min=1"`
	FloorNumber int             `json:"floor_number" validate:"required,min=1"`
	Amenities   string          `json:"amenities"`
}

// UpdateRoomRequest applies a partial update to one room.
type UpdateRoomRequest struct {
	RoomNumber *string          `json:"room_number,omitempty"`
	Patch      models.RoomPatch `json:"patch"`
}

// RoomService orchestrates room CRUD workflows. Occupancy-derived reads
// live in QueryService; bed regeneration in BedSetService.
type RoomService struct {
	repo        roomRepository
	blocks      blockReader
	occupancy   roomOccupancyReader
	beds        bedResizer
	invalidator cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRoomService constructs RoomService.
func NewRoomService(repo roomRepository, blocks blockReader, occupancy roomOccupancyReader, beds bedResizer, invalidator cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, blocks: blocks, occupancy: occupancy, beds: beds, invalidator: invalidator, validator: validate, logger: logger}
}

// Get returns a room with derived occupancy and availability.
func (s *RoomService) Get(ctx context.Context, id string) (*models.RoomDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return detail, nil
}

// Create registers a new room in a block.
func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest) (*models.RoomDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	if !req.RoomType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown room type")
	}
	if !req.ACType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown ac type")
	}
	block, err := s.blocks.FindByID(ctx, req.BlockID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	if !block.IsActive {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "block is inactive")
	}
	if req.FloorNumber > block.TotalFloors {
		return nil, appErrors.Clone(appErrors.ErrValidation, "floor number exceeds block floors")
	}
	exists, err := s.repo.ExistsByNumber(ctx, req.BlockID, req.RoomNumber, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate room number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room number already exists in block")
	}

	capacity := req.RoomType.DefaultCapacity()
	if req.Capacity != nil {
		capacity = *req.Capacity
	}
	room := &models.Room{
		BlockID:     req.BlockID,
		RoomNumber:  req.RoomNumber,
		RoomType:    req.RoomType,
		ACType:      req.ACType,
		Capacity:    capacity,
		FloorNumber: req.FloorNumber,
		Amenities:   req.Amenities,
		IsAvailable: true,
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, room.ID)
}

// Update applies a partial update to a room. Capacity cannot drop below the
// current occupancy; a capacity change regenerates the bed set so the two
// stay in lockstep.
func (s *RoomService) Update(ctx context.Context, id string, req UpdateRoomRequest) (*models.RoomDetail, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if req.RoomNumber != nil && *req.RoomNumber != room.RoomNumber {
		exists, err := s.repo.ExistsByNumber(ctx, room.BlockID, *req.RoomNumber, room.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate room number")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "room number already exists in block")
		}
		room.RoomNumber = *req.RoomNumber
	}
	if err := s.applyPatch(ctx, room, req.Patch); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// applyPatch mutates room in place after validating each carried field.
// Shared with the mass update coordinator.
func (s *RoomService) applyPatch(ctx context.Context, room *models.Room, patch models.RoomPatch) error {
	if patch.RoomType != nil {
		if !patch.RoomType.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, "unknown room type")
		}
		room.RoomType = *patch.RoomType
	}
	if patch.ACType != nil {
		if !patch.ACType.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, "unknown ac type")
		}
		room.ACType = *patch.ACType
	}
	if patch.Capacity != nil {
		if *patch.Capacity < 1 {
			return appErrors.Clone(appErrors.ErrValidation, "capacity must be at least 1")
		}
		occupancy, err := s.occupancy.CountActiveByRoom(ctx, room.ID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count room occupancy")
		}
		if *patch.Capacity < occupancy {
			return appErrors.Clone(appErrors.ErrWouldOrphanResidents, "capacity is below current occupancy")
		}
		if *patch.Capacity != room.Capacity {
			if err := s.resizeBedSet(ctx, room.ID, *patch.Capacity); err != nil {
				return err
			}
		}
		room.Capacity = *patch.Capacity
	}
	if patch.Amenities != nil {
		room.Amenities = *patch.Amenities
	}
	if patch.IsAvailable != nil {
		room.IsAvailable = *patch.IsAvailable
	}
	return nil
}

// resizeBedSet keeps the bed set in lockstep with a capacity change. New
// beds inherit the type of the room's existing beds, defaulting to single.
func (s *RoomService) resizeBedSet(ctx context.Context, roomID string, capacity int) error {
	beds, err := s.beds.ListByRoom(ctx, roomID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load beds")
	}
	bedType := models.BedTypeSingle
	if len(beds) > 0 {
		bedType = beds[0].BedType
	}
	if _, err := s.beds.ReplaceForRoom(ctx, roomID, capacity, bedType); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

func (s *RoomService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateRooms(ctx); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate room cache", "error", err)
	}
}
