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

type mockMassUpdateRepo struct {
	rooms   map[string]models.Room
	updated []string
}

func (m *mockMassUpdateRepo) ListByIDs(ctx context.Context, ids []string) ([]models.RoomDetail, error) {
	var details []models.RoomDetail
	for _, id := range ids {
		if r, ok := m.rooms[id]; ok {
			details = append(details, models.RoomDetail{Room: r})
		}
	}
	return details, nil
}

func (m *mockMassUpdateRepo) ListByCriteria(ctx context.Context, criteria models.MassUpdateCriteria) ([]models.RoomDetail, error) {
	var details []models.RoomDetail
	for _, r := range m.rooms {
		if criteria.ACType != "" && r.ACType != criteria.ACType {
			continue
		}
		if criteria.RoomType != "" && r.RoomType != criteria.RoomType {
			continue
		}
		details = append(details, models.RoomDetail{Room: r})
	}
	return details, nil
}

func (m *mockMassUpdateRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	if r, ok := m.rooms[id]; ok {
		copy := r
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMassUpdateRepo) Update(ctx context.Context, room *models.Room) error {
	m.rooms[room.ID] = *room
	m.updated = append(m.updated, room.ID)
	return nil
}

type mockOccupancy struct {
	counts map[string]int
}

func (m *mockOccupancy) CountActiveByRoom(ctx context.Context, roomID string) (int, error) {
	return m.counts[roomID], nil
}

type mockBedGen struct {
	byRoom    map[string][]models.BedDetail
	orphaned  map[string]bool
	replaced  []string
	lastCount int
	lastType  models.BedType
}

func (m *mockBedGen) ListByRoom(ctx context.Context, roomID string) ([]models.BedDetail, error) {
	return m.byRoom[roomID], nil
}

func (m *mockBedGen) ReplaceForRoom(ctx context.Context, roomID string, bedCount int, bedType models.BedType) ([]models.Bed, error) {
	if m.orphaned[roomID] {
		return nil, appErrors.ErrWouldOrphanResidents
	}
	m.replaced = append(m.replaced, roomID)
	m.lastCount = bedCount
	m.lastType = bedType
	beds := make([]models.Bed, bedCount)
	return beds, nil
}

func newMassUpdateFixture(occupancy map[string]int) (*MassUpdateService, *mockMassUpdateRepo, *mockBedGen, *mockInvalidator) {
	repo := &mockMassUpdateRepo{rooms: map[string]models.Room{
		"r1": {ID: "r1", RoomNumber: "101", RoomType: models.RoomType2Beds, ACType: models.ACTypeNonAC, Capacity: 2},
		"r2": {ID: "r2", RoomNumber: "102", RoomType: models.RoomType2Beds, ACType: models.ACTypeNonAC, Capacity: 2},
		"r3": {ID: "r3", RoomNumber: "103", RoomType: models.RoomType4Beds, ACType: models.ACTypeAC, Capacity: 4},
	}}
	occ := &mockOccupancy{counts: occupancy}
	beds := &mockBedGen{}
	patcher := NewRoomService(nil, nil, occ, beds, nil, validator.New(), zap.NewNop())
	invalidator := &mockInvalidator{}
	svc := NewMassUpdateService(repo, patcher, beds, invalidator, validator.New(), zap.NewNop())
	return svc, repo, beds, invalidator
}

func TestMassUpdateServiceUpdateRoomsByIDs(t *testing.T) {
	svc, repo, _, invalidator := newMassUpdateFixture(nil)

	ac := models.ACTypeAC
	result, err := svc.UpdateRooms(context.Background(), MassUpdateRoomsRequest{
		RoomIDs: []string{"r1", "r2"},
		Patch:   models.RoomPatch{ACType: &ac},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.MatchedCount)
	assert.Equal(t, 2, result.UpdatedCount)
	assert.Empty(t, result.Failures)
	assert.Equal(t, models.ACTypeAC, repo.rooms["r1"].ACType)
	assert.Equal(t, 1, invalidator.calls)
}

func TestMassUpdateServiceUpdateRoomsPartialFailure(t *testing.T) {
	// r2 has two residents; shrinking capacity to 1 must fail only for it.
	svc, repo, _, _ := newMassUpdateFixture(map[string]int{"r2": 2})

	one := 1
	result, err := svc.UpdateRooms(context.Background(), MassUpdateRoomsRequest{
		RoomIDs: []string{"r1", "r2"},
		Patch:   models.RoomPatch{Capacity: &one},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.MatchedCount)
	assert.Equal(t, 1, result.UpdatedCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "r2", result.Failures[0].RoomID)
	assert.Equal(t, 2, repo.rooms["r2"].Capacity)
}

func TestMassUpdateServiceCapacityPatchRegeneratesBeds(t *testing.T) {
	// A capacity patch goes through the bed-set manager so capacity and the
	// bed set never diverge.
	svc, repo, beds, _ := newMassUpdateFixture(nil)
	beds.byRoom = map[string][]models.BedDetail{
		"r1": {{Bed: models.Bed{ID: "bed-1", RoomID: "r1", BedNumber: "B01", BedType: models.BedTypeBunkBottom}}},
	}

	one := 1
	result, err := svc.UpdateRooms(context.Background(), MassUpdateRoomsRequest{
		RoomIDs: []string{"r1"},
		Patch:   models.RoomPatch{Capacity: &one},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, []string{"r1"}, beds.replaced)
	assert.Equal(t, 1, beds.lastCount)
	assert.Equal(t, models.BedTypeBunkBottom, beds.lastType)
	assert.Equal(t, 1, repo.rooms["r1"].Capacity)
}

func TestMassUpdateServiceUpdateRoomsByCriteria(t *testing.T) {
	svc, _, _, _ := newMassUpdateFixture(nil)

	amenities := "fan,desk"
	result, err := svc.UpdateRooms(context.Background(), MassUpdateRoomsRequest{
		Criteria: models.MassUpdateCriteria{ACType: models.ACTypeNonAC},
		Patch:    models.RoomPatch{Amenities: &amenities},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.MatchedCount)
	assert.Equal(t, 2, result.UpdatedCount)
}

func TestMassUpdateServiceRequiresSelection(t *testing.T) {
	svc, _, _, _ := newMassUpdateFixture(nil)

	ac := models.ACTypeAC
	_, err := svc.UpdateRooms(context.Background(), MassUpdateRoomsRequest{Patch: models.RoomPatch{ACType: &ac}})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)
}

func TestMassUpdateServiceEmptyPatchRejected(t *testing.T) {
	svc, _, _, _ := newMassUpdateFixture(nil)

	_, err := svc.UpdateRooms(context.Background(), MassUpdateRoomsRequest{RoomIDs: []string{"r1"}})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)
}

func TestMassUpdateServiceUpdateBeds(t *testing.T) {
	svc, _, beds, _ := newMassUpdateFixture(nil)
	beds.orphaned = map[string]bool{"r2": true}

	result, err := svc.UpdateBeds(context.Background(), MassUpdateBedsRequest{
		RoomIDs:  []string{"r1", "r2"},
		BedCount: 3,
		BedType:  models.BedTypeSingle,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.MatchedCount)
	assert.Equal(t, 1, result.UpdatedCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "r2", result.Failures[0].RoomID)
	assert.Contains(t, beds.replaced, "r1")
}
