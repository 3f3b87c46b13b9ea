package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type blockRepository interface {
	List(ctx context.Context, filter models.BlockFilter) ([]models.BlockDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Block, error)
	FindDetailByID(ctx context.Context, id string) (*models.BlockDetail, error)
	ExistsByName(ctx context.Context, schoolID, name, excludeID string) (bool, error)
	Create(ctx context.Context, block *models.Block) error
	Update(ctx context.Context, block *models.Block) error
	Deactivate(ctx context.Context, id string) error
}

type staffReader interface {
	FindStaff(ctx context.Context, id string) (*models.StaffProfile, error)
}

type blockOccupancyReader interface {
	CountActiveByBlock(ctx context.Context, blockID string) (int, error)
}

type blockRoomGenerator interface {
	ExistingNumbers(ctx context.Context, blockID string) (map[string]struct{}, error)
	Create(ctx context.Context, room *models.Room) error
}

type bedGenerator interface {
	ReplaceForRoom(ctx context.Context, roomID string, bedCount int, bedType models.BedType) ([]models.Bed, error)
}

// CreateBlockRequest describes block creation payload.
type CreateBlockRequest struct {
	SchoolID    string  `json:"school_id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	WardenID    *string `json:"warden_id,omitempty"`
	TotalFloors int     `json:"total_floors" validate:"required,min=1"`
	FloorConfig []int64 `json:"floor_config" validate:"required,min=1,dive,min=0"`
}

// UpdateBlockRequest describes mutable block attributes. The floor
// configuration is fixed at creation.
type UpdateBlockRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	WardenID    *string `json:"warden_id,omitempty"`
}

// GenerateRoomsRequest seeds a block with rooms floor by floor according to
// its floor configuration.
type GenerateRoomsRequest struct {
	RoomType models.RoomType `json:"room_type" validate:"required"`
	ACType   models.ACType   `json:"ac_type" validate:"required"`
	BedType  models.BedType  `json:"bed_type" validate:"required"`
}

// GenerateRoomsResult summarises a room generation run.
type GenerateRoomsResult struct {
	CreatedRooms int `json:"created_rooms"`
	CreatedBeds  int `json:"created_beds"`
	SkippedRooms int `json:"skipped_rooms"`
}

// BlockService orchestrates hostel block workflows.
type BlockService struct {
	repo        blockRepository
	rooms       blockRoomGenerator
	beds        bedGenerator
	occupancy   blockOccupancyReader
	staff       staffReader
	invalidator cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewBlockService constructs BlockService.
func NewBlockService(repo blockRepository, rooms blockRoomGenerator, beds bedGenerator, occupancy blockOccupancyReader, staff staffReader, invalidator cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *BlockService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlockService{repo: repo, rooms: rooms, beds: beds, occupancy: occupancy, staff: staff, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns blocks with pagination metadata.
func (s *BlockService) List(ctx context.Context, filter models.BlockFilter) ([]models.BlockDetail, *models.Pagination, error) {
	blocks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blocks")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return blocks, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single block with derived counters.
func (s *BlockService) Get(ctx context.Context, id string) (*models.BlockDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	return detail, nil
}

// Create registers a new block. The floor configuration length must match
// the declared floor count.
func (s *BlockService) Create(ctx context.Context, req CreateBlockRequest) (*models.BlockDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid block payload")
	}
	if len(req.FloorConfig) != req.TotalFloors {
		return nil, appErrors.Clone(appErrors.ErrValidation, "floor_config length must match total_floors")
	}
	if req.WardenID != nil {
		if err := s.resolveWarden(ctx, *req.WardenID); err != nil {
			return nil, err
		}
	}
	exists, err := s.repo.ExistsByName(ctx, req.SchoolID, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate block name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "block name already exists")
	}

	block := &models.Block{
		SchoolID:    req.SchoolID,
		Name:        req.Name,
		Description: req.Description,
		WardenID:    req.WardenID,
		TotalFloors: req.TotalFloors,
		FloorConfig: pq.Int64Array(req.FloorConfig),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, block); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create block")
	}
	s.invalidate(ctx)
	return s.Get(ctx, block.ID)
}

// Update modifies a block's mutable attributes.
func (s *BlockService) Update(ctx context.Context, id string, req UpdateBlockRequest) (*models.BlockDetail, error) {
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	if req.Name != nil && *req.Name != block.Name {
		exists, err := s.repo.ExistsByName(ctx, block.SchoolID, *req.Name, block.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate block name")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "block name already exists")
		}
		block.Name = *req.Name
	}
	if req.Description != nil {
		block.Description = *req.Description
	}
	if req.WardenID != nil {
		if err := s.resolveWarden(ctx, *req.WardenID); err != nil {
			return nil, err
		}
		block.WardenID = req.WardenID
	}
	if err := s.repo.Update(ctx, block); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update block")
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Deactivate retires a block. Blocks holding active allocations cannot be
// deactivated.
func (s *BlockService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	active, err := s.occupancy.CountActiveByBlock(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active allocations")
	}
	if active > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "block has active allocations")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate block")
	}
	s.invalidate(ctx)
	return nil
}

// GenerateRooms seeds a block with rooms floor by floor following the floor
// configuration, each room receiving a full bed set. Rooms whose number is
// already taken are skipped.
func (s *BlockService) GenerateRooms(ctx context.Context, blockID string, req GenerateRoomsRequest) (*GenerateRoomsResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	if !req.RoomType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown room type")
	}
	if !req.ACType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown ac type")
	}
	if !req.BedType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown bed type")
	}
	block, err := s.repo.FindByID(ctx, blockID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	if !block.IsActive {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "block is inactive")
	}

	taken, err := s.rooms.ExistingNumbers(ctx, blockID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing room numbers")
	}

	capacity := req.RoomType.DefaultCapacity()
	result := &GenerateRoomsResult{}
	for floorIdx, count := range block.FloorConfig {
		floor := floorIdx + 1
		for seq := 1; seq <= int(count); seq++ {
			number := fmt.Sprintf("%d%02d", floor, seq)
			if _, exists := taken[number]; exists {
				result.SkippedRooms++
				continue
			}
			room := &models.Room{
				BlockID:     blockID,
				RoomNumber:  number,
				RoomType:    req.RoomType,
				ACType:      req.ACType,
				Capacity:    capacity,
				FloorNumber: floor,
				IsAvailable: true,
			}
			if err := s.rooms.Create(ctx, room); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
			}
			beds, err := s.beds.ReplaceForRoom(ctx, room.ID, capacity, req.BedType)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate beds")
			}
			taken[number] = struct{}{}
			result.CreatedRooms++
			result.CreatedBeds += len(beds)
		}
	}
	s.invalidate(ctx)
	s.logger.Sugar().Infow("generated rooms for block", "block_id", blockID, "created_rooms", result.CreatedRooms, "created_beds", result.CreatedBeds, "skipped_rooms", result.SkippedRooms)
	return result, nil
}

func (s *BlockService) resolveWarden(ctx context.Context, id string) error {
	staff, err := s.staff.FindStaff(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "warden not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load warden")
	}
	if !staff.Active {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "warden inactive")
	}
	return nil
}

func (s *BlockService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateRooms(ctx); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate room cache", "error", err)
	}
}
