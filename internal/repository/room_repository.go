package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/hostel-core-api/internal/models"
)

// roomDetailBase joins rooms with their block and the per-room active
// allocation count so occupancy is always derived, never stored.
const roomDetailBase = `FROM rooms r
    JOIN blocks b ON b.id = r.block_id
    LEFT JOIN (
        SELECT bd.room_id, COUNT(*) AS cnt
        FROM allocations a
        JOIN beds bd ON bd.id = a.bed_id
        WHERE a.status = 'active'
        GROUP BY bd.room_id
    ) o ON o.room_id = r.id`

const roomDetailColumns = `r.id, r.block_id, r.room_number, r.room_type, r.ac_type, r.capacity, r.floor_number, r.amenities, r.is_available, r.created_at, r.updated_at,
    b.name AS block_name, COALESCE(o.cnt, 0) AS current_occupancy`

// RoomRepository manages persistence for hostel rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns rooms matching the provided filters with derived occupancy.
func (r *RoomRepository) List(ctx context.Context, filter models.RoomFilter) ([]models.RoomDetail, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.BlockID != "" {
		conditions = append(conditions, fmt.Sprintf("r.block_id = $%d", len(args)+1))
		args = append(args, filter.BlockID)
	}
	if filter.FloorNumber != nil {
		conditions = append(conditions, fmt.Sprintf("r.floor_number = $%d", len(args)+1))
		args = append(args, *filter.FloorNumber)
	}
	if filter.RoomType != "" {
		conditions = append(conditions, fmt.Sprintf("r.room_type = $%d", len(args)+1))
		args = append(args, filter.RoomType)
	}
	if filter.ACType != "" {
		conditions = append(conditions, fmt.Sprintf("r.ac_type = $%d", len(args)+1))
		args = append(args, filter.ACType)
	}
	if filter.Search != "" {
		idx := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(r.room_number) LIKE $%d OR LOWER(b.name) LIKE $%d OR LOWER(r.amenities) LIKE $%d)", idx, idx, idx))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	switch filter.Availability {
	case models.AvailabilityEmpty:
		conditions = append(conditions, "COALESCE(o.cnt, 0) = 0")
	case models.AvailabilityPartial:
		conditions = append(conditions, "COALESCE(o.cnt, 0) > 0 AND COALESCE(o.cnt, 0) < r.capacity")
	case models.AvailabilityFull:
		conditions = append(conditions, "COALESCE(o.cnt, 0) >= r.capacity")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY b.name, r.floor_number, r.room_number LIMIT %d OFFSET %d",
		roomDetailColumns, roomDetailBase, where, size, offset)

	var rooms []models.RoomDetail
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}
	for i := range rooms {
		rooms[i].Availability = models.ClassifyAvailability(rooms[i].CurrentOccupancy, rooms[i].Capacity)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", roomDetailBase, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count rooms: %w", err)
	}
	return rooms, total, nil
}

// ListByIDs fetches room details for an explicit id list.
func (r *RoomRepository) ListByIDs(ctx context.Context, ids []string) ([]models.RoomDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s %s WHERE r.id = ANY($1) ORDER BY b.name, r.floor_number, r.room_number", roomDetailColumns, roomDetailBase)
	var rooms []models.RoomDetail
	if err := r.db.SelectContext(ctx, &rooms, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list rooms by ids: %w", err)
	}
	for i := range rooms {
		rooms[i].Availability = models.ClassifyAvailability(rooms[i].CurrentOccupancy, rooms[i].Capacity)
	}
	return rooms, nil
}

// ListByCriteria fetches room details matching mass-update criteria.
func (r *RoomRepository) ListByCriteria(ctx context.Context, criteria models.MassUpdateCriteria) ([]models.RoomDetail, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if len(criteria.BlockIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("r.block_id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(criteria.BlockIDs))
	}
	if len(criteria.FloorNumbers) > 0 {
		floors := make([]int64, len(criteria.FloorNumbers))
		for i, f := range criteria.FloorNumbers {
			floors[i] = int64(f)
		}
		conditions = append(conditions, fmt.Sprintf("r.floor_number = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(floors))
	}
	if criteria.RoomType != "" {
		conditions = append(conditions, fmt.Sprintf("r.room_type = $%d", len(args)+1))
		args = append(args, criteria.RoomType)
	}
	if criteria.ACType != "" {
		conditions = append(conditions, fmt.Sprintf("r.ac_type = $%d", len(args)+1))
		args = append(args, criteria.ACType)
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY b.name, r.floor_number, r.room_number",
		roomDetailColumns, roomDetailBase, strings.Join(conditions, " AND "))
	var rooms []models.RoomDetail
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, fmt.Errorf("list rooms by criteria: %w", err)
	}
	for i := range rooms {
		rooms[i].Availability = models.ClassifyAvailability(rooms[i].CurrentOccupancy, rooms[i].Capacity)
	}
	return rooms, nil
}

// FindByID fetches a room by ID.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	const query = `SELECT id, block_id, room_number, room_type, ac_type, capacity, floor_number, amenities, is_available, created_at, updated_at FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// FindDetailByID fetches a room with derived occupancy.
func (r *RoomRepository) FindDetailByID(ctx context.Context, id string) (*models.RoomDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE r.id = $1", roomDetailColumns, roomDetailBase)
	var detail models.RoomDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	detail.Availability = models.ClassifyAvailability(detail.CurrentOccupancy, detail.Capacity)
	return &detail, nil
}

// ExistsByNumber checks whether a room number is taken within a block.
func (r *RoomRepository) ExistsByNumber(ctx context.Context, blockID, roomNumber, excludeID string) (bool, error) {
	query := "SELECT 1 FROM rooms WHERE block_id = $1 AND room_number = $2"
	args := []interface{}{blockID, roomNumber}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check room number: %w", err)
	}
	return true, nil
}

// Create inserts a new room record.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now
	const query = `INSERT INTO rooms (id, block_id, room_number, room_type, ac_type, capacity, floor_number, amenities, is_available, created_at, updated_at)
        VALUES (:id, :block_id, :room_number, :room_type, :ac_type, :capacity, :floor_number, :amenities, :is_available, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", mapUniqueViolation(err, "room number already exists in block"))
	}
	return nil
}

// Update modifies an existing room.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET room_number = :room_number, room_type = :room_type, ac_type = :ac_type, capacity = :capacity, floor_number = :floor_number, amenities = :amenities, is_available = :is_available, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("update room: %w", mapUniqueViolation(err, "room number already exists in block"))
	}
	return nil
}

// ExistingNumbers returns the set of room numbers already used in a block.
func (r *RoomRepository) ExistingNumbers(ctx context.Context, blockID string) (map[string]struct{}, error) {
	var numbers []string
	if err := r.db.SelectContext(ctx, &numbers, "SELECT room_number FROM rooms WHERE block_id = $1", blockID); err != nil {
		return nil, fmt.Errorf("list room numbers: %w", err)
	}
	set := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return set, nil
}

// BookingRoomRow is a room with its derived bed and occupancy counts, used
// to build the booking availability summary.
type BookingRoomRow struct {
	RoomID           string          `db:"room_id"`
	RoomNumber       string          `db:"room_number"`
	BlockName        string          `db:"block_name"`
	FloorNumber      int             `db:"floor_number"`
	RoomType         models.RoomType `db:"room_type"`
	ACType           models.ACType   `db:"ac_type"`
	TotalBeds        int             `db:"total_beds"`
	CurrentOccupancy int             `db:"current_occupancy"`
}

// ListForBooking returns every available room with derived bed and
// occupancy counts, for grouping into the booking summary.
func (r *RoomRepository) ListForBooking(ctx context.Context) ([]BookingRoomRow, error) {
	const query = `SELECT r.id AS room_id, r.room_number, b.name AS block_name, r.floor_number, r.room_type, r.ac_type,
        (SELECT COUNT(*) FROM beds bd WHERE bd.room_id = r.id AND NOT bd.is_retired) AS total_beds,
        COALESCE(o.cnt, 0) AS current_occupancy
        FROM rooms r
        JOIN blocks b ON b.id = r.block_id
        LEFT JOIN (
            SELECT bd.room_id, COUNT(*) AS cnt
            FROM allocations a
            JOIN beds bd ON bd.id = a.bed_id
            WHERE a.status = 'active'
            GROUP BY bd.room_id
        ) o ON o.room_id = r.id
        WHERE r.is_available = TRUE AND b.is_active = TRUE
        ORDER BY b.name, r.floor_number, r.room_number`
	var rows []BookingRoomRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list rooms for booking: %w", err)
	}
	return rows, nil
}

// DistinctBlockOptions lists blocks that currently hold rooms.
func (r *RoomRepository) DistinctBlockOptions(ctx context.Context) ([]models.BlockOption, error) {
	const query = `SELECT DISTINCT b.id, b.name FROM rooms r JOIN blocks b ON b.id = r.block_id ORDER BY b.name`
	var blocks []models.BlockOption
	if err := r.db.SelectContext(ctx, &blocks, query); err != nil {
		return nil, fmt.Errorf("list block options: %w", err)
	}
	return blocks, nil
}

// DistinctFloors lists floor numbers that currently hold rooms.
func (r *RoomRepository) DistinctFloors(ctx context.Context) ([]int, error) {
	var floors []int
	if err := r.db.SelectContext(ctx, &floors, "SELECT DISTINCT floor_number FROM rooms ORDER BY floor_number"); err != nil {
		return nil, fmt.Errorf("list floors: %w", err)
	}
	return floors, nil
}
