package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hostel-core-api/internal/models"
)

func TestComplaintRepositoryCreateAssignsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectExec("INSERT INTO complaints").
		WillReturnResult(sqlmock.NewResult(1, 1))

	complaint := &models.Complaint{
		StudentID:   "stu-1",
		Title:       "Broken fan",
		Description: "Ceiling fan not working",
		Category:    models.ComplaintCategoryMaintenance,
		Priority:    models.ComplaintPriorityHigh,
		Status:      models.ComplaintStatusOpen,
	}
	err := repo.Create(context.Background(), complaint)
	require.NoError(t, err)
	require.NotEmpty(t, complaint.ID)
	require.False(t, complaint.SubmittedDate.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryListFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "room_id", "title", "description", "category", "priority", "status", "assigned_to", "resolved_by", "resolution_notes", "submitted_date", "resolved_date"}).
		AddRow("cmp-1", "stu-1", nil, "Broken fan", "Ceiling fan not working", models.ComplaintCategoryMaintenance, models.ComplaintPriorityHigh, models.ComplaintStatusOpen, nil, nil, "", now, nil)
	mock.ExpectQuery("SELECT id, student_id, room_id, title").
		WithArgs(models.ComplaintStatusOpen).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(models.ComplaintStatusOpen).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	complaints, total, err := repo.List(context.Background(), models.ComplaintFilter{Status: models.ComplaintStatusOpen})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, complaints, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
