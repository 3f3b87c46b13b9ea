package models

import "time"

// LeaveStatus represents the leave request lifecycle.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
	LeaveStatusReturned LeaveStatus = "returned"
)

// LeaveType categorises the reason for a leave request.
type LeaveType string

const (
	LeaveTypeHome      LeaveType = "home"
	LeaveTypeMedical   LeaveType = "medical"
	LeaveTypeEmergency LeaveType = "emergency"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeAcademic  LeaveType = "academic"
	LeaveTypeOther     LeaveType = "other"
)

// Valid reports whether t is a known leave type.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeHome, LeaveTypeMedical, LeaveTypeEmergency, LeaveTypePersonal, LeaveTypeAcademic, LeaveTypeOther:
		return true
	}
	return false
}

// LeaveRequest is a student's request to be away from the hostel.
type LeaveRequest struct {
	ID                 string      `db:"id" json:"id"`
	StudentID          string      `db:"student_id" json:"student_id"`
	LeaveType          LeaveType   `db:"leave_type" json:"leave_type"`
	StartDate          time.Time   `db:"start_date" json:"start_date"`
	EndDate            time.Time   `db:"end_date" json:"end_date"`
	ExpectedReturnDate time.Time   `db:"expected_return_date" json:"expected_return_date"`
	ActualReturnDate   *time.Time  `db:"actual_return_date" json:"actual_return_date,omitempty"`
	Reason             string      `db:"reason" json:"reason"`
	EmergencyContact   string      `db:"emergency_contact" json:"emergency_contact,omitempty"`
	Destination        string      `db:"destination" json:"destination,omitempty"`
	Status             LeaveStatus `db:"status" json:"status"`
	DecidedBy          *string     `db:"decided_by" json:"decided_by,omitempty"`
	DecisionNotes      string      `db:"decision_notes" json:"decision_notes,omitempty"`
	SubmittedDate      time.Time   `db:"submitted_date" json:"submitted_date"`
	DecisionDate       *time.Time  `db:"decision_date" json:"decision_date,omitempty"`
}

// DurationDays returns the inclusive leave duration in days.
func (r LeaveRequest) DurationDays() int {
	if r.EndDate.Before(r.StartDate) {
		return 0
	}
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// LeaveFilter captures filtering criteria for listing leave requests.
type LeaveFilter struct {
	StudentID string
	Status    LeaveStatus
	LeaveType LeaveType
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}
