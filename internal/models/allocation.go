package models

import "time"

// AllocationStatus represents the lifecycle of a bed allocation.
type AllocationStatus string

const (
	AllocationStatusActive      AllocationStatus = "active"
	AllocationStatusVacated     AllocationStatus = "vacated"
	AllocationStatusTransferred AllocationStatus = "transferred"
)

// Allocation is a time-bounded assignment of one student to one bed.
type Allocation struct {
	ID             string           `db:"id" json:"id"`
	StudentID      string           `db:"student_id" json:"student_id"`
	BedID          string           `db:"bed_id" json:"bed_id"`
	AllocationDate time.Time        `db:"allocation_date" json:"allocation_date"`
	VacationDate   *time.Time       `db:"vacation_date" json:"vacation_date,omitempty"`
	Status         AllocationStatus `db:"status" json:"status"`
	AllocatedBy    *string          `db:"allocated_by" json:"allocated_by,omitempty"`
	PaymentID      *string          `db:"payment_id" json:"payment_id,omitempty"`
	FeeAmount      *float64         `db:"fee_amount" json:"fee_amount,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// AllocationDetail enriches Allocation with student and location context.
type AllocationDetail struct {
	Allocation
	StudentName string `db:"student_name" json:"student_name"`
	BedNumber   string `db:"bed_number" json:"bed_number"`
	RoomID      string `db:"room_id" json:"room_id"`
	RoomNumber  string `db:"room_number" json:"room_number"`
	BlockID     string `db:"block_id" json:"block_id"`
	BlockName   string `db:"block_name" json:"block_name"`
}

// AllocationFilter captures filtering criteria for listing allocations.
type AllocationFilter struct {
	BlockID   string
	RoomID    string
	BedID     string
	StudentID string
	Status    AllocationStatus
	Page      int
	PageSize  int
}
