package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type mockBedRepo struct {
	byRoom   map[string][]models.BedDetail
	orphaned bool
	replaced map[string]int
}

func (m *mockBedRepo) ListByRoom(ctx context.Context, roomID string) ([]models.BedDetail, error) {
	return m.byRoom[roomID], nil
}

func (m *mockBedRepo) FindByID(ctx context.Context, id string) (*models.BedDetail, error) {
	for _, beds := range m.byRoom {
		for _, b := range beds {
			if b.ID == id {
				return &b, nil
			}
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "bed not found")
}

func (m *mockBedRepo) ReplaceForRoom(ctx context.Context, roomID string, bedCount int, bedType models.BedType) ([]models.Bed, error) {
	if m.orphaned {
		return nil, appErrors.Clone(appErrors.ErrWouldOrphanResidents, "room has more residents than requested beds")
	}
	if m.replaced == nil {
		m.replaced = make(map[string]int)
	}
	m.replaced[roomID] = bedCount
	beds := make([]models.Bed, bedCount)
	for i := range beds {
		beds[i] = models.Bed{RoomID: roomID, BedType: bedType}
	}
	return beds, nil
}

func newBedSetService(repo *mockBedRepo, inv *mockInvalidator) *BedSetService {
	rooms := &mockRoomReader{rooms: map[string]*models.Room{
		"r1": {ID: "r1", BlockID: "b1", RoomNumber: "101", Capacity: 2},
	}}
	return NewBedSetService(repo, rooms, inv, validator.New(), zap.NewNop())
}

func TestBedSetServiceRegenerate(t *testing.T) {
	repo := &mockBedRepo{}
	inv := &mockInvalidator{}
	svc := newBedSetService(repo, inv)

	beds, err := svc.Regenerate(context.Background(), "r1", RegenerateBedsRequest{
		BedCount: 3,
		BedType:  models.BedTypeBunkBottom,
	})
	require.NoError(t, err)
	assert.Len(t, beds, 3)
	assert.Equal(t, 3, repo.replaced["r1"])
	assert.Equal(t, 1, inv.calls)
}

func TestBedSetServiceRegenerateValidation(t *testing.T) {
	svc := newBedSetService(&mockBedRepo{}, &mockInvalidator{})

	_, err := svc.Regenerate(context.Background(), "r1", RegenerateBedsRequest{BedCount: 0, BedType: models.BedTypeSingle})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)

	_, err = svc.Regenerate(context.Background(), "r1", RegenerateBedsRequest{BedCount: 2, BedType: "waterbed"})
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)
}

func TestBedSetServiceRegenerateRoomNotFound(t *testing.T) {
	svc := newBedSetService(&mockBedRepo{}, &mockInvalidator{})

	_, err := svc.Regenerate(context.Background(), "missing", RegenerateBedsRequest{BedCount: 2, BedType: models.BedTypeSingle})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

func TestBedSetServiceRegenerateWouldOrphan(t *testing.T) {
	repo := &mockBedRepo{orphaned: true}
	inv := &mockInvalidator{}
	svc := newBedSetService(repo, inv)

	_, err := svc.Regenerate(context.Background(), "r1", RegenerateBedsRequest{BedCount: 1, BedType: models.BedTypeSingle})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrWouldOrphanResidents.Code, typed.Code)
	assert.Zero(t, inv.calls)
}

func TestBedSetServiceListByRoom(t *testing.T) {
	repo := &mockBedRepo{byRoom: map[string][]models.BedDetail{
		"r1": {
			{Bed: models.Bed{ID: "bed-1", RoomID: "r1", BedNumber: "B01"}, IsAvailable: false},
			{Bed: models.Bed{ID: "bed-2", RoomID: "r1", BedNumber: "B02"}, IsAvailable: true},
		},
	}}
	svc := newBedSetService(repo, &mockInvalidator{})

	beds, err := svc.ListByRoom(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, beds, 2)
	assert.False(t, beds[0].IsAvailable)
	assert.True(t, beds[1].IsAvailable)
}
