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

const leaveColumns = `id, student_id, leave_type, start_date, end_date, expected_return_date, actual_return_date, reason, emergency_contact, destination, status, decided_by, decision_notes, submitted_date, decision_date`

// LeaveRepository manages persistence for leave requests.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs a LeaveRepository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// List returns leave requests matching the provided filters, most recent
// first. From and To bound the requested leave window.
func (r *LeaveRepository) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.LeaveType != "" {
		conditions = append(conditions, fmt.Sprintf("leave_type = $%d", len(args)+1))
		args = append(args, filter.LeaveType)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("end_date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", len(args)+1))
		args = append(args, *filter.To)
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

	query := fmt.Sprintf("SELECT %s FROM leave_requests WHERE %s ORDER BY submitted_date DESC LIMIT %d OFFSET %d", leaveColumns, where, size, offset)

	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list leave requests: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leave_requests WHERE %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}
	return requests, total, nil
}

// FindByID fetches a leave request by ID.
func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM leave_requests WHERE id = $1", leaveColumns)
	var request models.LeaveRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// HasPendingOverlap reports whether the student already has a pending or
// approved leave overlapping the given window.
func (r *LeaveRepository) HasPendingOverlap(ctx context.Context, studentID string, start, end time.Time) (bool, error) {
	const query = `SELECT COUNT(*) FROM leave_requests
        WHERE student_id = $1 AND status IN ($2, $3) AND start_date <= $4 AND end_date >= $5`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID, models.LeaveStatusPending, models.LeaveStatusApproved, end, start); err != nil {
		return false, fmt.Errorf("check leave overlap: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new leave request.
func (r *LeaveRepository) Create(ctx context.Context, request *models.LeaveRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.SubmittedDate.IsZero() {
		request.SubmittedDate = time.Now().UTC()
	}
	const query = `INSERT INTO leave_requests (id, student_id, leave_type, start_date, end_date, expected_return_date, actual_return_date, reason, emergency_contact, destination, status, decided_by, decision_notes, submitted_date, decision_date)
        VALUES (:id, :student_id, :leave_type, :start_date, :end_date, :expected_return_date, :actual_return_date, :reason, :emergency_contact, :destination, :status, :decided_by, :decision_notes, :submitted_date, :decision_date)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	return nil
}

// UpdateState persists a leave request's mutable lifecycle fields.
func (r *LeaveRepository) UpdateState(ctx context.Context, request *models.LeaveRequest) error {
	const query = `UPDATE leave_requests SET status = :status, actual_return_date = :actual_return_date, decided_by = :decided_by, decision_notes = :decision_notes, decision_date = :decision_date WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, request)
	if err != nil {
		return fmt.Errorf("update leave request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update leave request result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update leave request: no rows affected")
	}
	return nil
}
