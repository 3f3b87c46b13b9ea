package models

import "time"

// ComplaintStatus represents the complaint lifecycle.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "open"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusClosed     ComplaintStatus = "closed"
)

// ComplaintCategory classifies the complaint subject.
type ComplaintCategory string

const (
	ComplaintCategoryMaintenance ComplaintCategory = "maintenance"
	ComplaintCategoryCleanliness ComplaintCategory = "cleanliness"
	ComplaintCategoryFood        ComplaintCategory = "food"
	ComplaintCategorySecurity    ComplaintCategory = "security"
	ComplaintCategoryOther       ComplaintCategory = "other"
)

// Valid reports whether c is a known category.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case ComplaintCategoryMaintenance, ComplaintCategoryCleanliness, ComplaintCategoryFood, ComplaintCategorySecurity, ComplaintCategoryOther:
		return true
	}
	return false
}

// ComplaintPriority orders complaints for staff triage.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "low"
	ComplaintPriorityMedium ComplaintPriority = "medium"
	ComplaintPriorityHigh   ComplaintPriority = "high"
	ComplaintPriorityUrgent ComplaintPriority = "urgent"
)

// Valid reports whether p is a known priority.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh, ComplaintPriorityUrgent:
		return true
	}
	return false
}

// Complaint is a maintenance or service complaint filed by a student,
// optionally tied to a room. Category and priority are fixed at creation.
type Complaint struct {
	ID              string            `db:"id" json:"id"`
	StudentID       string            `db:"student_id" json:"student_id"`
	RoomID          *string           `db:"room_id" json:"room_id,omitempty"`
	Title           string            `db:"title" json:"title"`
	Description     string            `db:"description" json:"description"`
	Category        ComplaintCategory `db:"category" json:"category"`
	Priority        ComplaintPriority `db:"priority" json:"priority"`
	Status          ComplaintStatus   `db:"status" json:"status"`
	AssignedTo      *string           `db:"assigned_to" json:"assigned_to,omitempty"`
	ResolvedBy      *string           `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolutionNotes string            `db:"resolution_notes" json:"resolution_notes,omitempty"`
	SubmittedDate   time.Time         `db:"submitted_date" json:"submitted_date"`
	ResolvedDate    *time.Time        `db:"resolved_date" json:"resolved_date,omitempty"`
}

// ComplaintFilter captures filtering criteria for listing complaints.
type ComplaintFilter struct {
	StudentID string
	RoomID    string
	Status    ComplaintStatus
	Category  ComplaintCategory
	Priority  ComplaintPriority
	Page      int
	PageSize  int
}
