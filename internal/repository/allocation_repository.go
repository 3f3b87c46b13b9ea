package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

const allocationColumns = `id, student_id, bed_id, allocation_date, vacation_date, status, allocated_by, payment_id, fee_amount, created_at, updated_at`

const allocationDetailQuery = `SELECT a.id, a.student_id, a.bed_id, a.allocation_date, a.vacation_date, a.status, a.allocated_by, a.payment_id, a.fee_amount, a.created_at, a.updated_at,
    s.full_name AS student_name, bd.bed_number, r.id AS room_id, r.room_number, b.id AS block_id, b.name AS block_name
    FROM allocations a
    JOIN students s ON s.id = a.student_id
    JOIN beds bd ON bd.id = a.bed_id
    JOIN rooms r ON r.id = bd.room_id
    JOIN blocks b ON b.id = r.block_id`

// AllocationRepository manages persistence for bed allocations. The
// allocating transaction serialises writes per bed with a row lock so two
// racing calls cannot both succeed.
type AllocationRepository struct {
	db *sqlx.DB
}

// NewAllocationRepository constructs an AllocationRepository.
func NewAllocationRepository(db *sqlx.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// Allocate creates an active allocation for the bed inside one transaction.
// The bed row is locked first; the bed and student uniqueness checks then
// read a stable snapshot. Returns ErrBedUnavailable or ErrStudentAllocated
// on conflict and sql.ErrNoRows when the bed does not exist.
func (r *AllocationRepository) Allocate(ctx context.Context, allocation *models.Allocation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin allocate: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := lockBed(ctx, tx, allocation.BedID); err != nil {
		return err
	}

	var occupied int
	err = tx.GetContext(ctx, &occupied, "SELECT 1 FROM allocations WHERE bed_id = $1 AND status = $2 LIMIT 1", allocation.BedID, models.AllocationStatusActive)
	if err == nil {
		return appErrors.ErrBedUnavailable
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check bed occupancy: %w", err)
	}

	var held int
	err = tx.GetContext(ctx, &held, "SELECT 1 FROM allocations WHERE student_id = $1 AND status = $2 LIMIT 1", allocation.StudentID, models.AllocationStatusActive)
	if err == nil {
		return appErrors.ErrStudentAllocated
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check student allocation: %w", err)
	}

	if err := insertAllocation(ctx, tx, allocation); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit allocate: %w", err)
	}
	return nil
}

// Transfer ends the active allocation as transferred and opens a new active
// allocation on the target bed, atomically.
func (r *AllocationRepository) Transfer(ctx context.Context, current *models.Allocation, next *models.Allocation, date time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Lock the current allocation row; its status may have changed since
	// the caller loaded it.
	var status models.AllocationStatus
	if err := tx.GetContext(ctx, &status, "SELECT status FROM allocations WHERE id = $1 FOR UPDATE", current.ID); err != nil {
		return err
	}
	if status != models.AllocationStatusActive {
		return appErrors.ErrAllocationNotActive
	}

	if err := lockBed(ctx, tx, next.BedID); err != nil {
		return err
	}
	var occupied int
	err = tx.GetContext(ctx, &occupied, "SELECT 1 FROM allocations WHERE bed_id = $1 AND status = $2 LIMIT 1", next.BedID, models.AllocationStatusActive)
	if err == nil {
		return appErrors.ErrBedUnavailable
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check target bed: %w", err)
	}

	const endQuery = `UPDATE allocations SET status = $2, vacation_date = $3, updated_at = $4 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, endQuery, current.ID, models.AllocationStatusTransferred, date, time.Now().UTC()); err != nil {
		return fmt.Errorf("close transferred allocation: %w", err)
	}

	if err := insertAllocation(ctx, tx, next); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}
	return nil
}

// End marks an active allocation as vacated. Returns ErrAllocationNotActive
// when the allocation exists but is not active, and sql.ErrNoRows when it
// does not exist.
func (r *AllocationRepository) End(ctx context.Context, id string, vacationDate time.Time) error {
	const query = `UPDATE allocations SET status = $2, vacation_date = $3, updated_at = $4 WHERE id = $1 AND status = $5`
	res, err := r.db.ExecContext(ctx, query, id, models.AllocationStatusVacated, vacationDate, time.Now().UTC(), models.AllocationStatusActive)
	if err != nil {
		return fmt.Errorf("end allocation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("end allocation result: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM allocations WHERE id = $1", id); err != nil {
			return err
		}
		return appErrors.ErrAllocationNotActive
	}
	return nil
}

// FindByID fetches an allocation by ID.
func (r *AllocationRepository) FindByID(ctx context.Context, id string) (*models.Allocation, error) {
	query := fmt.Sprintf("SELECT %s FROM allocations WHERE id = $1", allocationColumns)
	var allocation models.Allocation
	if err := r.db.GetContext(ctx, &allocation, query, id); err != nil {
		return nil, err
	}
	return &allocation, nil
}

// FindDetailByID fetches an allocation with student and location context.
func (r *AllocationRepository) FindDetailByID(ctx context.Context, id string) (*models.AllocationDetail, error) {
	var detail models.AllocationDetail
	if err := r.db.GetContext(ctx, &detail, allocationDetailQuery+" WHERE a.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindActiveByStudent returns the student's active allocation, if any.
func (r *AllocationRepository) FindActiveByStudent(ctx context.Context, studentID string) (*models.Allocation, error) {
	query := fmt.Sprintf("SELECT %s FROM allocations WHERE student_id = $1 AND status = $2", allocationColumns)
	var allocation models.Allocation
	if err := r.db.GetContext(ctx, &allocation, query, studentID, models.AllocationStatusActive); err != nil {
		return nil, err
	}
	return &allocation, nil
}

// List returns allocations matching the provided filters.
func (r *AllocationRepository) List(ctx context.Context, filter models.AllocationFilter) ([]models.AllocationDetail, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.BlockID != "" {
		conditions = append(conditions, fmt.Sprintf("b.id = $%d", len(args)+1))
		args = append(args, filter.BlockID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("r.id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.BedID != "" {
		conditions = append(conditions, fmt.Sprintf("a.bed_id = $%d", len(args)+1))
		args = append(args, filter.BedID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)+1))
		args = append(args, filter.Status)
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

	query := fmt.Sprintf("%s WHERE %s ORDER BY a.allocation_date DESC, a.created_at DESC LIMIT %d OFFSET %d", allocationDetailQuery, where, size, offset)

	var allocations []models.AllocationDetail
	if err := r.db.SelectContext(ctx, &allocations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list allocations: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM allocations a
        JOIN beds bd ON bd.id = a.bed_id
        JOIN rooms r ON r.id = bd.room_id
        JOIN blocks b ON b.id = r.block_id WHERE %s`, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count allocations: %w", err)
	}
	return allocations, total, nil
}

// CountActiveByRoom counts active allocations over a room's current beds.
func (r *AllocationRepository) CountActiveByRoom(ctx context.Context, roomID string) (int, error) {
	const query = `SELECT COUNT(*) FROM allocations a JOIN beds bd ON bd.id = a.bed_id WHERE bd.room_id = $1 AND a.status = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, roomID, models.AllocationStatusActive); err != nil {
		return 0, fmt.Errorf("count active allocations by room: %w", err)
	}
	return count, nil
}

// CountActiveByBlock counts active allocations across all of a block's beds.
func (r *AllocationRepository) CountActiveByBlock(ctx context.Context, blockID string) (int, error) {
	const query = `SELECT COUNT(*) FROM allocations a
        JOIN beds bd ON bd.id = a.bed_id
        JOIN rooms r ON r.id = bd.room_id
        WHERE r.block_id = $1 AND a.status = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, blockID, models.AllocationStatusActive); err != nil {
		return 0, fmt.Errorf("count active allocations by block: %w", err)
	}
	return count, nil
}

func lockBed(ctx context.Context, tx *sqlx.Tx, bedID string) error {
	var locked string
	if err := tx.GetContext(ctx, &locked, "SELECT id FROM beds WHERE id = $1 FOR UPDATE", bedID); err != nil {
		return err
	}
	return nil
}

func insertAllocation(ctx context.Context, tx *sqlx.Tx, allocation *models.Allocation) error {
	if allocation.ID == "" {
		allocation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if allocation.CreatedAt.IsZero() {
		allocation.CreatedAt = now
	}
	allocation.UpdatedAt = now
	allocation.Status = models.AllocationStatusActive
	const query = `INSERT INTO allocations (id, student_id, bed_id, allocation_date, vacation_date, status, allocated_by, payment_id, fee_amount, created_at, updated_at)
        VALUES (:id, :student_id, :bed_id, :allocation_date, :vacation_date, :status, :allocated_by, :payment_id, :fee_amount, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, allocation); err != nil {
		return mapAllocationViolation(err)
	}
	return nil
}
