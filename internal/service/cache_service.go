package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

// Cache keys are namespaced per projection so mutations can invalidate a
// whole family with one pattern.
const (
	cacheKeyRoomQueryPrefix = "hostel:rooms:"
	cacheKeyFilterOptions   = "hostel:rooms:filter-options"
	cacheKeyBookingSummary  = "hostel:rooms:booking-summary"
	cacheRoomPattern        = "hostel:rooms:*"
)

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheInvalidator interface {
	InvalidateRooms(ctx context.Context) error
}

// CacheService wraps the cache store with the key layout used by the room
// query projections.
type CacheService struct {
	store   cacheStore
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

// NewCacheService constructs a CacheService. A zero TTL falls back to five
// minutes. Metrics are optional.
func NewCacheService(store cacheStore, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{store: store, ttl: ttl, metrics: metrics, logger: logger}
}

// Get loads a cached projection into dest. Returns ErrCacheMiss on absence.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	err := s.store.Get(ctx, key, dest)
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(err == nil)
	}
	return err
}

// Set stores a projection under the configured TTL.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) {
	if s.store == nil {
		return
	}
	if err := s.store.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Sugar().Warnw("cache write failed", "key", key, "error", err)
	}
}

// InvalidateRooms drops every cached room projection. Called after any
// mutation that changes rooms, beds or allocations.
func (s *CacheService) InvalidateRooms(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.DeleteByPattern(ctx, cacheRoomPattern)
}
