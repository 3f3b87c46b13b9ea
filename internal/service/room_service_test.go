package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type mockRoomRepo struct {
	rooms   map[string]models.Room
	created *models.Room
	updated []string
}

func (m *mockRoomRepo) List(ctx context.Context, filter models.RoomFilter) ([]models.RoomDetail, int, error) {
	return nil, 0, nil
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRoomRepo) FindDetailByID(ctx context.Context, id string) (*models.RoomDetail, error) {
	if r, ok := m.rooms[id]; ok {
		return &models.RoomDetail{Room: r, BlockName: "Block A"}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRoomRepo) ExistsByNumber(ctx context.Context, blockID, roomNumber, excludeID string) (bool, error) {
	for _, r := range m.rooms {
		if r.BlockID == blockID && r.RoomNumber == roomNumber && r.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRoomRepo) Create(ctx context.Context, room *models.Room) error {
	if m.rooms == nil {
		m.rooms = make(map[string]models.Room)
	}
	if room.ID == "" {
		room.ID = "new-room"
	}
	m.rooms[room.ID] = *room
	m.created = room
	return nil
}

func (m *mockRoomRepo) Update(ctx context.Context, room *models.Room) error {
	m.rooms[room.ID] = *room
	m.updated = append(m.updated, room.ID)
	return nil
}

type mockBlockReader struct {
	blocks map[string]*models.Block
}

func (m *mockBlockReader) FindByID(ctx context.Context, id string) (*models.Block, error) {
	if b, ok := m.blocks[id]; ok {
		return b, nil
	}
	return nil, sql.ErrNoRows
}

func newRoomService(repo *mockRoomRepo, occupancy map[string]int) (*RoomService, *mockBedGen) {
	blocks := &mockBlockReader{blocks: map[string]*models.Block{
		"b1": {ID: "b1", Name: "Block A", TotalFloors: 3, IsActive: true},
	}}
	beds := &mockBedGen{}
	svc := NewRoomService(repo, blocks, &mockOccupancy{counts: occupancy}, beds, &mockInvalidator{}, validator.New(), zap.NewNop())
	return svc, beds
}

func TestRoomServiceCreateDefaultsCapacity(t *testing.T) {
	repo := &mockRoomRepo{}
	svc, _ := newRoomService(repo, nil)

	detail, err := svc.Create(context.Background(), CreateRoomRequest{
		BlockID:     "b1",
		RoomNumber:  "101",
		RoomType:    models.RoomType3Beds,
		ACType:      models.ACTypeNonAC,
		FloorNumber: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, detail.Capacity)
	assert.True(t, detail.IsAvailable)
}

func TestRoomServiceCreateFloorOutOfRange(t *testing.T) {
	svc, _ := newRoomService(&mockRoomRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateRoomRequest{
		BlockID:     "b1",
		RoomNumber:  "401",
		RoomType:    models.RoomType2Beds,
		ACType:      models.ACTypeNonAC,
		FloorNumber: 4,
	})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)
}

func TestRoomServiceCreateDuplicateNumber(t *testing.T) {
	repo := &mockRoomRepo{rooms: map[string]models.Room{
		"r1": {ID: "r1", BlockID: "b1", RoomNumber: "101"},
	}}
	svc, _ := newRoomService(repo, nil)

	_, err := svc.Create(context.Background(), CreateRoomRequest{
		BlockID:     "b1",
		RoomNumber:  "101",
		RoomType:    models.RoomType2Beds,
		ACType:      models.ACTypeNonAC,
		FloorNumber: 1,
	})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrConflict.Code, typed.Code)
}

func TestRoomServiceUpdateCapacityRegeneratesBeds(t *testing.T) {
	repo := &mockRoomRepo{rooms: map[string]models.Room{
		"r1": {ID: "r1", BlockID: "b1", RoomNumber: "101", Capacity: 4},
	}}
	svc, beds := newRoomService(repo, map[string]int{"r1": 1})
	beds.byRoom = map[string][]models.BedDetail{
		"r1": {{Bed: models.Bed{ID: "bed-1", RoomID: "r1", BedNumber: "B01", BedType: models.BedTypeBunkTop}}},
	}

	two := 2
	detail, err := svc.Update(context.Background(), "r1", UpdateRoomRequest{Patch: models.RoomPatch{Capacity: &two}})
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Capacity)
	assert.Equal(t, []string{"r1"}, beds.replaced)
	assert.Equal(t, 2, beds.lastCount)
	assert.Equal(t, models.BedTypeBunkTop, beds.lastType)

	// An unchanged capacity leaves the bed set alone.
	detail, err = svc.Update(context.Background(), "r1", UpdateRoomRequest{Patch: models.RoomPatch{Capacity: &two}})
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Capacity)
	assert.Len(t, beds.replaced, 1)
}

func TestRoomServiceUpdateCapacityBelowOccupancy(t *testing.T) {
	repo := &mockRoomRepo{rooms: map[string]models.Room{
		"r1": {ID: "r1", BlockID: "b1", RoomNumber: "101", Capacity: 4},
	}}
	svc, _ := newRoomService(repo, map[string]int{"r1": 3})

	two := 2
	_, err := svc.Update(context.Background(), "r1", UpdateRoomRequest{Patch: models.RoomPatch{Capacity: &two}})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrWouldOrphanResidents.Code, typed.Code)

	four := 4
	detail, err := svc.Update(context.Background(), "r1", UpdateRoomRequest{Patch: models.RoomPatch{Capacity: &four}})
	require.NoError(t, err)
	assert.Equal(t, 4, detail.Capacity)
}
