package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hostel-core-api/internal/models"
)

const complaintColumns = `id, student_id, room_id, title, description, category, priority, status, assigned_to, resolved_by, resolution_notes, submitted_date, resolved_date`

// ComplaintRepository manages persistence for complaints.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository constructs a ComplaintRepository.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// List returns complaints matching the provided filters, most recent first.
func (r *ComplaintRepository) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)+1))
		args = append(args, filter.Priority)
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

	query := fmt.Sprintf("SELECT %s FROM complaints WHERE %s ORDER BY submitted_date DESC LIMIT %d OFFSET %d", complaintColumns, where, size, offset)

	var complaints []models.Complaint
	if err := r.db.SelectContext(ctx, &complaints, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list complaints: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM complaints WHERE %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count complaints: %w", err)
	}
	return complaints, total, nil
}

// FindByID fetches a complaint by ID.
func (r *ComplaintRepository) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	query := fmt.Sprintf("SELECT %s FROM complaints WHERE id = $1", complaintColumns)
	var complaint models.Complaint
	if err := r.db.GetContext(ctx, &complaint, query, id); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// Create inserts a new complaint.
func (r *ComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	if complaint.SubmittedDate.IsZero() {
		complaint.SubmittedDate = time.Now().UTC()
	}
	const query = `INSERT INTO complaints (id, student_id, room_id, title, description, category, priority, status, assigned_to, resolved_by, resolution_notes, submitted_date, resolved_date)
        VALUES (:id, :student_id, :room_id, :title, :description, :category, :priority, :status, :assigned_to, :resolved_by, :resolution_notes, :submitted_date, :resolved_date)`
	if _, err := r.db.NamedExecContext(ctx, query, complaint); err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

// UpdateState persists a complaint's mutable lifecycle fields.
func (r *ComplaintRepository) UpdateState(ctx context.Context, complaint *models.Complaint) error {
	const query = `UPDATE complaints SET status = :status, assigned_to = :assigned_to, resolved_by = :resolved_by, resolution_notes = :resolution_notes, resolved_date = :resolved_date WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, complaint)
	if err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update complaint result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update complaint: no rows affected")
	}
	return nil
}
