package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type massUpdateRoomRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.RoomDetail, error)
	ListByCriteria(ctx context.Context, criteria models.MassUpdateCriteria) ([]models.RoomDetail, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
}

type roomPatcher interface {
	applyPatch(ctx context.Context, room *models.Room, patch models.RoomPatch) error
}

// MassUpdateRoomsRequest applies one patch to many rooms, selected either
// by explicit ids or by criteria.
type MassUpdateRoomsRequest struct {
	RoomIDs  []string                  `json:"room_ids,omitempty"`
	Criteria models.MassUpdateCriteria `json:"criteria"`
	Patch    models.RoomPatch          `json:"patch"`
}

// MassUpdateBedsRequest regenerates bed sets across many rooms.
type MassUpdateBedsRequest struct {
	RoomIDs  []string                  `json:"room_ids,omitempty"`
	Criteria models.MassUpdateCriteria `json:"criteria"`
	BedCount int                       `json:"bed_count" validate:"required,min=1,max=20"`
	BedType  models.BedType            `json:"bed_type" validate:"required"`
}

// MassUpdateService coordinates bulk room operations. Each room is updated
// independently: one failure is recorded and skipped, the rest proceed.
type MassUpdateService struct {
	repo        massUpdateRoomRepository
	patcher     roomPatcher
	beds        bedGenerator
	invalidator cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewMassUpdateService constructs MassUpdateService.
func NewMassUpdateService(repo massUpdateRoomRepository, patcher roomPatcher, beds bedGenerator, invalidator cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *MassUpdateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MassUpdateService{repo: repo, patcher: patcher, beds: beds, invalidator: invalidator, validator: validate, logger: logger}
}

// UpdateRooms applies the patch to every matched room. The result reports
// how many rooms matched, how many were updated and why the rest failed.
func (s *MassUpdateService) UpdateRooms(ctx context.Context, req MassUpdateRoomsRequest) (*models.MassUpdateResult, error) {
	if req.Patch.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "patch carries no changes")
	}
	rooms, err := s.selectRooms(ctx, req.RoomIDs, req.Criteria)
	if err != nil {
		return nil, err
	}

	result := &models.MassUpdateResult{MatchedCount: len(rooms)}
	for _, detail := range rooms {
		if err := s.updateOne(ctx, detail.ID, req.Patch); err != nil {
			result.Failures = append(result.Failures, models.MassUpdateFailure{
				RoomID:     detail.ID,
				RoomNumber: detail.RoomNumber,
				Reason:     failureReason(err),
			})
			continue
		}
		result.UpdatedCount++
	}
	if result.UpdatedCount > 0 {
		s.invalidate(ctx)
	}
	s.logger.Sugar().Infow("mass room update finished", "matched", result.MatchedCount, "updated", result.UpdatedCount, "failed", len(result.Failures))
	return result, nil
}

// UpdateBeds regenerates the bed set of every matched room. Rooms whose
// occupancy exceeds the requested count are recorded as failures.
func (s *MassUpdateService) UpdateBeds(ctx context.Context, req MassUpdateBedsRequest) (*models.MassUpdateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bed update payload")
	}
	if !req.BedType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown bed type")
	}
	rooms, err := s.selectRooms(ctx, req.RoomIDs, req.Criteria)
	if err != nil {
		return nil, err
	}

	result := &models.MassUpdateResult{MatchedCount: len(rooms)}
	for _, detail := range rooms {
		if _, err := s.beds.ReplaceForRoom(ctx, detail.ID, req.BedCount, req.BedType); err != nil {
			result.Failures = append(result.Failures, models.MassUpdateFailure{
				RoomID:     detail.ID,
				RoomNumber: detail.RoomNumber,
				Reason:     failureReason(err),
			})
			continue
		}
		result.UpdatedCount++
	}
	if result.UpdatedCount > 0 {
		s.invalidate(ctx)
	}
	s.logger.Sugar().Infow("mass bed update finished", "matched", result.MatchedCount, "updated", result.UpdatedCount, "failed", len(result.Failures))
	return result, nil
}

func (s *MassUpdateService) selectRooms(ctx context.Context, ids []string, criteria models.MassUpdateCriteria) ([]models.RoomDetail, error) {
	if len(ids) == 0 && criteria.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "either room_ids or criteria is required")
	}
	if len(ids) > 0 {
		rooms, err := s.repo.ListByIDs(ctx, ids)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
		}
		return rooms, nil
	}
	rooms, err := s.repo.ListByCriteria(ctx, criteria)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to select rooms")
	}
	return rooms, nil
}

func (s *MassUpdateService) updateOne(ctx context.Context, id string, patch models.RoomPatch) error {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.patcher.applyPatch(ctx, room, patch); err != nil {
		return err
	}
	return s.repo.Update(ctx, room)
}

func failureReason(err error) string {
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return err.Error()
}

func (s *MassUpdateService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateRooms(ctx); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate room cache", "error", err)
	}
}
