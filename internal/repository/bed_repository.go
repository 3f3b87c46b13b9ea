package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

const bedDetailQuery = `SELECT bd.id, bd.room_id, bd.bed_number, bd.bed_type, bd.created_at,
    NOT EXISTS (SELECT 1 FROM allocations a WHERE a.bed_id = bd.id AND a.status = 'active') AS is_available
    FROM beds bd`

// BedRepository manages persistence for beds. Availability is never stored;
// it is derived from active allocations on every read. Beds are never
// deleted: regeneration retires them so historical allocations keep a valid
// bed reference. Retired beds are invisible to every read path.
type BedRepository struct {
	db *sqlx.DB
}

// NewBedRepository constructs a BedRepository.
func NewBedRepository(db *sqlx.DB) *BedRepository {
	return &BedRepository{db: db}
}

// ListByRoom returns the room's beds with derived availability, ordered by
// bed number.
func (r *BedRepository) ListByRoom(ctx context.Context, roomID string) ([]models.BedDetail, error) {
	query := bedDetailQuery + " WHERE bd.room_id = $1 AND NOT bd.is_retired ORDER BY bd.bed_number"
	var beds []models.BedDetail
	if err := r.db.SelectContext(ctx, &beds, query, roomID); err != nil {
		return nil, fmt.Errorf("list beds by room: %w", err)
	}
	return beds, nil
}

// FindByID fetches a single bed with derived availability.
func (r *BedRepository) FindByID(ctx context.Context, id string) (*models.BedDetail, error) {
	var bed models.BedDetail
	if err := r.db.GetContext(ctx, &bed, bedDetailQuery+" WHERE bd.id = $1 AND NOT bd.is_retired", id); err != nil {
		return nil, err
	}
	return &bed, nil
}

// ReplaceForRoom regenerates the room's bed set to bedCount beds of bedType
// inside one transaction. The room row is locked first so regeneration
// serialises against allocation. Beds holding an active allocation are
// preserved; when more residents are present than the requested count the
// whole operation fails with ErrWouldOrphanResidents. Vacant beds are
// retired rather than deleted, keeping vacated and transferred allocations
// attached to their bed rows. The room capacity is updated to match the new
// bed count.
func (r *BedRepository) ReplaceForRoom(ctx context.Context, roomID string, bedCount int, bedType models.BedType) ([]models.Bed, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bed regeneration: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var roomExists string
	if err := tx.GetContext(ctx, &roomExists, "SELECT id FROM rooms WHERE id = $1 FOR UPDATE", roomID); err != nil {
		return nil, err
	}

	const occupiedQuery = `SELECT bd.id, bd.room_id, bd.bed_number, bd.bed_type, bd.created_at
        FROM beds bd
        WHERE bd.room_id = $1 AND NOT bd.is_retired
            AND EXISTS (SELECT 1 FROM allocations a WHERE a.bed_id = bd.id AND a.status = 'active')
        ORDER BY bd.bed_number`
	var occupied []models.Bed
	if err := tx.SelectContext(ctx, &occupied, occupiedQuery, roomID); err != nil {
		return nil, fmt.Errorf("load occupied beds: %w", err)
	}
	if len(occupied) > bedCount {
		return nil, appErrors.ErrWouldOrphanResidents
	}

	const retireQuery = `UPDATE beds bd SET is_retired = TRUE
        WHERE bd.room_id = $1 AND NOT bd.is_retired
            AND NOT EXISTS (SELECT 1 FROM allocations a WHERE a.bed_id = bd.id AND a.status = 'active')`
	if _, err := tx.ExecContext(ctx, retireQuery, roomID); err != nil {
		return nil, fmt.Errorf("retire vacant beds: %w", err)
	}

	taken := make(map[string]struct{}, len(occupied))
	for _, bed := range occupied {
		taken[bed.BedNumber] = struct{}{}
	}

	now := time.Now().UTC()
	beds := append([]models.Bed(nil), occupied...)
	next := 1
	for len(beds) < bedCount {
		number := fmt.Sprintf("B%02d", next)
		next++
		if _, exists := taken[number]; exists {
			continue
		}
		bed := models.Bed{
			ID:        uuid.NewString(),
			RoomID:    roomID,
			BedNumber: number,
			BedType:   bedType,
			CreatedAt: now,
		}
		const insertQuery = `INSERT INTO beds (id, room_id, bed_number, bed_type, created_at)
            VALUES (:id, :room_id, :bed_number, :bed_type, :created_at)`
		if _, err := tx.NamedExecContext(ctx, insertQuery, bed); err != nil {
			return nil, mapUniqueViolation(err, "bed number already exists in room")
		}
		beds = append(beds, bed)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE rooms SET capacity = $2, updated_at = $3 WHERE id = $1", roomID, bedCount, now); err != nil {
		return nil, fmt.Errorf("update room capacity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bed regeneration: %w", err)
	}
	return beds, nil
}
