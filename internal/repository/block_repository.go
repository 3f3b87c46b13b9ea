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
)

// blockDetailColumns selects a block with its derived counters. Room, bed
// and occupancy totals are computed from authoritative rows on every read.
const blockDetailColumns = `b.id, b.school_id, b.name, b.description, b.warden_id, b.total_floors, b.floor_config, b.is_active, b.created_at, b.updated_at,
    (SELECT COUNT(*) FROM rooms r WHERE r.block_id = b.id) AS total_rooms,
    (SELECT COUNT(*) FROM beds bd JOIN rooms r ON r.id = bd.room_id WHERE r.block_id = b.id AND NOT bd.is_retired) AS total_beds,
    (SELECT COUNT(*) FROM allocations a JOIN beds bd ON bd.id = a.bed_id JOIN rooms r ON r.id = bd.room_id WHERE r.block_id = b.id AND a.status = 'active') AS occupied_beds`

// BlockRepository manages persistence for hostel blocks.
type BlockRepository struct {
	db *sqlx.DB
}

// NewBlockRepository constructs a BlockRepository.
func NewBlockRepository(db *sqlx.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// List returns blocks matching the provided filters.
func (r *BlockRepository) List(ctx context.Context, filter models.BlockFilter) ([]models.BlockDetail, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.SchoolID != "" {
		conditions = append(conditions, fmt.Sprintf("b.school_id = $%d", len(args)+1))
		args = append(args, filter.SchoolID)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("b.is_active = $%d", len(args)+1))
		args = append(args, *filter.IsActive)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(b.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
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

	query := fmt.Sprintf("SELECT %s FROM blocks b WHERE %s ORDER BY b.name LIMIT %d OFFSET %d", blockDetailColumns, where, size, offset)

	var blocks []models.BlockDetail
	if err := r.db.SelectContext(ctx, &blocks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list blocks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM blocks b WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count blocks: %w", err)
	}
	return blocks, total, nil
}

// FindByID fetches a block by ID.
func (r *BlockRepository) FindByID(ctx context.Context, id string) (*models.Block, error) {
	const query = `SELECT id, school_id, name, description, warden_id, total_floors, floor_config, is_active, created_at, updated_at FROM blocks WHERE id = $1`
	var block models.Block
	if err := r.db.GetContext(ctx, &block, query, id); err != nil {
		return nil, err
	}
	return &block, nil
}

// FindDetailByID fetches a block with derived counters.
func (r *BlockRepository) FindDetailByID(ctx context.Context, id string) (*models.BlockDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM blocks b WHERE b.id = $1", blockDetailColumns)
	var detail models.BlockDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByName checks whether a block name is taken within a school.
func (r *BlockRepository) ExistsByName(ctx context.Context, schoolID, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM blocks WHERE school_id = $1 AND name = $2"
	args := []interface{}{schoolID, name}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check block name: %w", err)
	}
	return true, nil
}

// Create inserts a new block record.
func (r *BlockRepository) Create(ctx context.Context, block *models.Block) error {
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if block.CreatedAt.IsZero() {
		block.CreatedAt = now
	}
	block.UpdatedAt = now
	const query = `INSERT INTO blocks (id, school_id, name, description, warden_id, total_floors, floor_config, is_active, created_at, updated_at)
        VALUES (:id, :school_id, :name, :description, :warden_id, :total_floors, :floor_config, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, block); err != nil {
		return fmt.Errorf("create block: %w", err)
	}
	return nil
}

// Update modifies a block's mutable attributes. The floor configuration is
// fixed at creation and deliberately excluded here.
func (r *BlockRepository) Update(ctx context.Context, block *models.Block) error {
	block.UpdatedAt = time.Now().UTC()
	const query = `UPDATE blocks SET name = :name, description = :description, warden_id = :warden_id, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, block); err != nil {
		return fmt.Errorf("update block: %w", err)
	}
	return nil
}

// Deactivate marks a block inactive.
func (r *BlockRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE blocks SET is_active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate block: %w", err)
	}
	return nil
}
