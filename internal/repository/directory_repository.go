package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hostel-core-api/internal/models"
)

// DirectoryRepository reads the student and staff mirror tables. These rows
// are synced from the identity service and are never written here.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs a DirectoryRepository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// FindStudent fetches a student profile by ID.
func (r *DirectoryRepository) FindStudent(ctx context.Context, id string) (*models.StudentProfile, error) {
	var student models.StudentProfile
	if err := r.db.GetContext(ctx, &student, "SELECT id, full_name, active FROM students WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindStaff fetches a staff profile by ID.
func (r *DirectoryRepository) FindStaff(ctx context.Context, id string) (*models.StaffProfile, error) {
	var staff models.StaffProfile
	if err := r.db.GetContext(ctx, &staff, "SELECT id, full_name, active FROM staff WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &staff, nil
}
