package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

func TestBedRepositoryListByRoom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBedRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "room_id", "bed_number", "bed_type", "created_at", "is_available"}).
		AddRow("bed-1", "room-1", "B01", models.BedTypeSingle, now, true).
		AddRow("bed-2", "room-1", "B02", models.BedTypeSingle, now, false)
	mock.ExpectQuery("SELECT bd.id, bd.room_id, bd.bed_number").
		WithArgs("room-1").
		WillReturnRows(rows)

	beds, err := repo.ListByRoom(context.Background(), "room-1")
	require.NoError(t, err)
	require.Len(t, beds, 2)
	require.True(t, beds[0].IsAvailable)
	require.False(t, beds[1].IsAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBedRepositoryReplaceForRoom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBedRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM rooms WHERE id = $1 FOR UPDATE")).
		WithArgs("room-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("room-1"))
	occupied := sqlmock.NewRows([]string{"id", "room_id", "bed_number", "bed_type", "created_at"}).
		AddRow("bed-1", "room-1", "B01", models.BedTypeSingle, now)
	mock.ExpectQuery("SELECT bd.id, bd.room_id, bd.bed_number, bd.bed_type, bd.created_at").
		WithArgs("room-1").
		WillReturnRows(occupied)
	mock.ExpectExec("UPDATE beds bd SET is_retired = TRUE").
		WithArgs("room-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO beds").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO beds").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE rooms SET capacity").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	beds, err := repo.ReplaceForRoom(context.Background(), "room-1", 3, models.BedTypeBunkBottom)
	require.NoError(t, err)
	require.Len(t, beds, 3)

	// The occupied bed keeps its number; new beds skip it when numbering.
	require.Equal(t, "B01", beds[0].BedNumber)
	require.Equal(t, "B02", beds[1].BedNumber)
	require.Equal(t, "B03", beds[2].BedNumber)
	require.Equal(t, models.BedTypeBunkBottom, beds[1].BedType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBedRepositoryReplaceForRoomRetiresInsteadOfDeleting(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBedRepository(db)

	// The room's only bed holds a vacated allocation. Regeneration must
	// retire it, never issue a DELETE, so the allocation row keeps its
	// bed reference.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM rooms WHERE id = $1 FOR UPDATE")).
		WithArgs("room-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("room-1"))
	mock.ExpectQuery("SELECT bd.id, bd.room_id, bd.bed_number, bd.bed_type, bd.created_at").
		WithArgs("room-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "bed_number", "bed_type", "created_at"}))
	mock.ExpectExec("UPDATE beds bd SET is_retired = TRUE").
		WithArgs("room-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO beds").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE rooms SET capacity").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	beds, err := repo.ReplaceForRoom(context.Background(), "room-1", 1, models.BedTypeSingle)
	require.NoError(t, err)
	require.Len(t, beds, 1)
	require.Equal(t, "B01", beds[0].BedNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBedRepositoryReplaceForRoomWouldOrphan(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBedRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM rooms WHERE id = $1 FOR UPDATE")).
		WithArgs("room-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("room-1"))
	occupied := sqlmock.NewRows([]string{"id", "room_id", "bed_number", "bed_type", "created_at"}).
		AddRow("bed-1", "room-1", "B01", models.BedTypeSingle, now).
		AddRow("bed-2", "room-1", "B02", models.BedTypeSingle, now).
		AddRow("bed-3", "room-1", "B03", models.BedTypeSingle, now)
	mock.ExpectQuery("SELECT bd.id, bd.room_id, bd.bed_number, bd.bed_type, bd.created_at").
		WithArgs("room-1").
		WillReturnRows(occupied)
	mock.ExpectRollback()

	_, err := repo.ReplaceForRoom(context.Background(), "room-1", 2, models.BedTypeSingle)
	require.ErrorIs(t, err, appErrors.ErrWouldOrphanResidents)
	require.NoError(t, mock.ExpectationsWereMet())
}
