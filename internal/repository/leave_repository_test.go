package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hostel-core-api/internal/models"
)

func TestLeaveRepositoryHasPendingOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("stu-1", models.LeaveStatusPending, models.LeaveStatusApproved, end, start).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	overlaps, err := repo.HasPendingOverlap(context.Background(), "stu-1", start, end)
	require.NoError(t, err)
	require.True(t, overlaps)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryUpdateState(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	mock.ExpectExec("UPDATE leave_requests SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))

	decidedBy := "staff-1"
	now := time.Now()
	request := &models.LeaveRequest{
		ID:           "leave-1",
		Status:       models.LeaveStatusApproved,
		DecidedBy:    &decidedBy,
		DecisionDate: &now,
	}
	require.NoError(t, repo.UpdateState(context.Background(), request))
	require.NoError(t, mock.ExpectationsWereMet())
}
