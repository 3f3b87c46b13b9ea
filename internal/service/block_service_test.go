package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

type mockBlockRepo struct {
	blocks      map[string]models.Block
	created     *models.Block
	deactivated []string
}

func (m *mockBlockRepo) List(ctx context.Context, filter models.BlockFilter) ([]models.BlockDetail, int, error) {
	return nil, 0, nil
}

func (m *mockBlockRepo) FindByID(ctx context.Context, id string) (*models.Block, error) {
	if b, ok := m.blocks[id]; ok {
		return &b, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBlockRepo) FindDetailByID(ctx context.Context, id string) (*models.BlockDetail, error) {
	if b, ok := m.blocks[id]; ok {
		return &models.BlockDetail{Block: b}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBlockRepo) ExistsByName(ctx context.Context, schoolID, name, excludeID string) (bool, error) {
	for _, b := range m.blocks {
		if b.SchoolID == schoolID && b.Name == name && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBlockRepo) Create(ctx context.Context, block *models.Block) error {
	if m.blocks == nil {
		m.blocks = make(map[string]models.Block)
	}
	if block.ID == "" {
		block.ID = "new-block"
	}
	m.blocks[block.ID] = *block
	m.created = block
	return nil
}

func (m *mockBlockRepo) Update(ctx context.Context, block *models.Block) error {
	m.blocks[block.ID] = *block
	return nil
}

func (m *mockBlockRepo) Deactivate(ctx context.Context, id string) error {
	b := m.blocks[id]
	b.IsActive = false
	m.blocks[id] = b
	m.deactivated = append(m.deactivated, id)
	return nil
}

type mockRoomGen struct {
	existing map[string]struct{}
	created  []models.Room
}

func (m *mockRoomGen) ExistingNumbers(ctx context.Context, blockID string) (map[string]struct{}, error) {
	if m.existing == nil {
		return map[string]struct{}{}, nil
	}
	return m.existing, nil
}

func (m *mockRoomGen) Create(ctx context.Context, room *models.Room) error {
	room.ID = room.RoomNumber
	m.created = append(m.created, *room)
	return nil
}

type mockBlockOccupancy struct {
	counts map[string]int
}

func (m *mockBlockOccupancy) CountActiveByBlock(ctx context.Context, blockID string) (int, error) {
	return m.counts[blockID], nil
}

func newBlockService(repo *mockBlockRepo, rooms *mockRoomGen, occupancy map[string]int) *BlockService {
	dir := activeStudents()
	beds := &mockBedGen{}
	return NewBlockService(repo, rooms, beds, &mockBlockOccupancy{counts: occupancy}, dir, &mockInvalidator{}, validator.New(), zap.NewNop())
}

func TestBlockServiceCreate(t *testing.T) {
	repo := &mockBlockRepo{}
	svc := newBlockService(repo, &mockRoomGen{}, nil)

	detail, err := svc.Create(context.Background(), CreateBlockRequest{
		SchoolID:    "sch-1",
		Name:        "Block A",
		TotalFloors: 2,
		FloorConfig: []int64{10, 8},
	})
	require.NoError(t, err)
	assert.True(t, detail.IsActive)
	assert.NotNil(t, repo.created)
}

func TestBlockServiceCreateFloorConfigMismatch(t *testing.T) {
	svc := newBlockService(&mockBlockRepo{}, &mockRoomGen{}, nil)

	_, err := svc.Create(context.Background(), CreateBlockRequest{
		SchoolID:    "sch-1",
		Name:        "Block A",
		TotalFloors: 3,
		FloorConfig: []int64{10, 8},
	})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)
}

func TestBlockServiceCreateDuplicateName(t *testing.T) {
	repo := &mockBlockRepo{blocks: map[string]models.Block{
		"b1": {ID: "b1", SchoolID: "sch-1", Name: "Block A", IsActive: true},
	}}
	svc := newBlockService(repo, &mockRoomGen{}, nil)

	_, err := svc.Create(context.Background(), CreateBlockRequest{
		SchoolID:    "sch-1",
		Name:        "Block A",
		TotalFloors: 1,
		FloorConfig: []int64{5},
	})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrConflict.Code, typed.Code)
}

func TestBlockServiceDeactivateWithResidents(t *testing.T) {
	repo := &mockBlockRepo{blocks: map[string]models.Block{
		"b1": {ID: "b1", SchoolID: "sch-1", Name: "Block A", IsActive: true},
	}}
	svc := newBlockService(repo, &mockRoomGen{}, map[string]int{"b1": 3})

	err := svc.Deactivate(context.Background(), "b1")
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, typed.Code)
	assert.Empty(t, repo.deactivated)
}

func TestBlockServiceGenerateRooms(t *testing.T) {
	repo := &mockBlockRepo{blocks: map[string]models.Block{
		"b1": {ID: "b1", SchoolID: "sch-1", Name: "Block A", TotalFloors: 2, FloorConfig: pq.Int64Array{2, 1}, IsActive: true},
	}}
	rooms := &mockRoomGen{existing: map[string]struct{}{"101": {}}}
	svc := newBlockService(repo, rooms, nil)

	result, err := svc.GenerateRooms(context.Background(), "b1", GenerateRoomsRequest{
		RoomType: models.RoomType2Beds,
		ACType:   models.ACTypeNonAC,
		BedType:  models.BedTypeSingle,
	})
	require.NoError(t, err)

	// Floor 1 wants rooms 101 and 102, floor 2 wants 201; 101 already exists.
	assert.Equal(t, 2, result.CreatedRooms)
	assert.Equal(t, 1, result.SkippedRooms)
	assert.Equal(t, 4, result.CreatedBeds)
	require.Len(t, rooms.created, 2)
	assert.Equal(t, "102", rooms.created[0].RoomNumber)
	assert.Equal(t, "201", rooms.created[1].RoomNumber)
}
