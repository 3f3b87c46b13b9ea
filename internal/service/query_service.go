package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	"github.com/noah-isme/hostel-core-api/internal/repository"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type roomQueryRepository interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.RoomDetail, int, error)
	ListForBooking(ctx context.Context) ([]repository.BookingRoomRow, error)
	DistinctBlockOptions(ctx context.Context) ([]models.BlockOption, error)
	DistinctFloors(ctx context.Context) ([]int, error)
}

type projectionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{})
}

type roomPage struct {
	Rooms      []models.RoomDetail `json:"rooms"`
	Pagination models.Pagination   `json:"pagination"`
}

// QueryService serves the read-side room projections: filtered listings,
// filter options and the booking availability summary. Results are cached
// until the next mutation invalidates them.
type QueryService struct {
	repo   roomQueryRepository
	cache  projectionCache
	logger *zap.Logger
}

// NewQueryService constructs QueryService.
func NewQueryService(repo roomQueryRepository, cache projectionCache, logger *zap.Logger) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{repo: repo, cache: cache, logger: logger}
}

// Rooms returns rooms matching the filter, with occupancy-derived
// availability on every row.
func (s *QueryService) Rooms(ctx context.Context, filter models.RoomFilter) ([]models.RoomDetail, *models.Pagination, error) {
	key := roomQueryKey(filter)
	if s.cache != nil {
		var page roomPage
		if err := s.cache.Get(ctx, key, &page); err == nil {
			return page.Rooms, &page.Pagination, nil
		}
	}

	rooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query rooms")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := models.Pagination{Page: page, PageSize: size, TotalCount: total}
	if s.cache != nil {
		s.cache.Set(ctx, key, roomPage{Rooms: rooms, Pagination: pagination})
	}
	return rooms, &pagination, nil
}

// FilterOptions enumerates the distinct values available to the query UI.
func (s *QueryService) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	if s.cache != nil {
		var options models.FilterOptions
		if err := s.cache.Get(ctx, cacheKeyFilterOptions, &options); err == nil {
			return &options, nil
		}
	}

	blocks, err := s.repo.DistinctBlockOptions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block options")
	}
	floors, err := s.repo.DistinctFloors(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load floor options")
	}
	options := &models.FilterOptions{
		Blocks:    blocks,
		Floors:    floors,
		RoomTypes: models.RoomTypes(),
		ACTypes:   []models.ACType{models.ACTypeAC, models.ACTypeNonAC},
		Statuses:  []models.Availability{models.AvailabilityEmpty, models.AvailabilityPartial, models.AvailabilityFull},
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKeyFilterOptions, options)
	}
	return options, nil
}

// AvailableForBooking groups available rooms by room and AC type, in
// booking preference order, with per-room free bed counts.
func (s *QueryService) AvailableForBooking(ctx context.Context) ([]models.RoomTypeAvailability, error) {
	if s.cache != nil {
		var summary []models.RoomTypeAvailability
		if err := s.cache.Get(ctx, cacheKeyBookingSummary, &summary); err == nil {
			return summary, nil
		}
	}

	rows, err := s.repo.ListForBooking(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking availability")
	}

	type groupKey struct {
		roomType models.RoomType
		acType   models.ACType
	}
	groups := make(map[groupKey]*models.RoomTypeAvailability)
	for _, row := range rows {
		key := groupKey{roomType: row.RoomType, acType: row.ACType}
		group, ok := groups[key]
		if !ok {
			group = &models.RoomTypeAvailability{RoomType: row.RoomType, ACType: row.ACType}
			groups[key] = group
		}
		group.TotalRooms++
		group.TotalBeds += row.TotalBeds
		group.OccupiedBeds += row.CurrentOccupancy
		free := row.TotalBeds - row.CurrentOccupancy
		if free > 0 {
			group.AvailableRooms = append(group.AvailableRooms, models.RoomAvailability{
				RoomID:           row.RoomID,
				RoomNumber:       row.RoomNumber,
				BlockName:        row.BlockName,
				FloorNumber:      row.FloorNumber,
				Capacity:         row.TotalBeds,
				CurrentOccupancy: row.CurrentOccupancy,
				AvailableBeds:    free,
			})
		}
	}

	summary := make([]models.RoomTypeAvailability, 0, len(groups))
	for _, roomType := range models.RoomTypes() {
		for _, acType := range []models.ACType{models.ACTypeAC, models.ACTypeNonAC} {
			group, ok := groups[groupKey{roomType: roomType, acType: acType}]
			if !ok {
				continue
			}
			group.AvailableBeds = group.TotalBeds - group.OccupiedBeds
			if group.TotalBeds > 0 {
				group.OccupancyRate = float64(group.OccupiedBeds) / float64(group.TotalBeds) * 100
			}
			summary = append(summary, *group)
		}
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKeyBookingSummary, summary)
	}
	return summary, nil
}

func roomQueryKey(filter models.RoomFilter) string {
	floor := ""
	if filter.FloorNumber != nil {
		floor = fmt.Sprintf("%d", *filter.FloorNumber)
	}
	return fmt.Sprintf("%squery:%s:%s:%s:%s:%s:%s:%d:%d",
		cacheKeyRoomQueryPrefix, filter.BlockID, floor, filter.RoomType, filter.ACType, filter.Availability, filter.Search, filter.Page, filter.PageSize)
}
