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

type mockComplaintRepo struct {
	complaints map[string]models.Complaint
	created    *models.Complaint
}

func (m *mockComplaintRepo) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	return nil, 0, nil
}

func (m *mockComplaintRepo) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	if c, ok := m.complaints[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockComplaintRepo) Create(ctx context.Context, complaint *models.Complaint) error {
	if m.complaints == nil {
		m.complaints = make(map[string]models.Complaint)
	}
	if complaint.ID == "" {
		complaint.ID = "new-complaint"
	}
	m.complaints[complaint.ID] = *complaint
	m.created = complaint
	return nil
}

func (m *mockComplaintRepo) UpdateState(ctx context.Context, complaint *models.Complaint) error {
	m.complaints[complaint.ID] = *complaint
	return nil
}

func newComplaintService(repo *mockComplaintRepo) *ComplaintService {
	rooms := &mockRoomReader{rooms: map[string]*models.Room{"r1": {ID: "r1", RoomNumber: "101"}}}
	dir := activeStudents()
	return NewComplaintService(repo, dir, dir, rooms, validator.New(), zap.NewNop())
}

func TestComplaintServiceFile(t *testing.T) {
	repo := &mockComplaintRepo{}
	svc := newComplaintService(repo)

	roomID := "r1"
	complaint, err := svc.File(context.Background(), FileComplaintRequest{
		StudentID:   "s1",
		RoomID:      &roomID,
		Title:       "Leaking tap",
		Description: "Bathroom tap leaks all night",
		Category:    models.ComplaintCategoryMaintenance,
		Priority:    models.ComplaintPriorityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusOpen, complaint.Status)
	assert.NotNil(t, repo.created)
	assert.False(t, complaint.SubmittedDate.IsZero())
}

func TestComplaintServiceAssign(t *testing.T) {
	repo := &mockComplaintRepo{complaints: map[string]models.Complaint{
		"c1": {ID: "c1", StudentID: "s1", Status: models.ComplaintStatusOpen},
	}}
	svc := newComplaintService(repo)

	complaint, err := svc.Assign(context.Background(), "c1", AssignComplaintRequest{AssigneeID: "w1"})
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusInProgress, complaint.Status)
	require.NotNil(t, complaint.AssignedTo)
	assert.Equal(t, "w1", *complaint.AssignedTo)
}

func TestComplaintServiceResolveDirectFromOpen(t *testing.T) {
	repo := &mockComplaintRepo{complaints: map[string]models.Complaint{
		"c1": {ID: "c1", StudentID: "s1", Status: models.ComplaintStatusOpen},
	}}
	svc := newComplaintService(repo)

	complaint, err := svc.Resolve(context.Background(), "c1", ResolveComplaintRequest{ResolverID: "w1", ResolutionNotes: "fixed on the spot"})
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusResolved, complaint.Status)
	assert.NotNil(t, complaint.ResolvedDate)
}

func TestComplaintServiceResolveClosedRejected(t *testing.T) {
	repo := &mockComplaintRepo{complaints: map[string]models.Complaint{
		"c1": {ID: "c1", StudentID: "s1", Status: models.ComplaintStatusClosed},
	}}
	svc := newComplaintService(repo)

	_, err := svc.Resolve(context.Background(), "c1", ResolveComplaintRequest{ResolverID: "w1", ResolutionNotes: "late"})
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, typed.Code)
}

func TestComplaintServiceCloseRequiresResolved(t *testing.T) {
	repo := &mockComplaintRepo{complaints: map[string]models.Complaint{
		"open":     {ID: "open", StudentID: "s1", Status: models.ComplaintStatusOpen},
		"resolved": {ID: "resolved", StudentID: "s1", Status: models.ComplaintStatusResolved},
	}}
	svc := newComplaintService(repo)

	_, err := svc.Close(context.Background(), "open")
	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, typed.Code)

	complaint, err := svc.Close(context.Background(), "resolved")
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusClosed, complaint.Status)
}
