package repository

import (
	"errors"

	"github.com/lib/pq"

	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
)

const pgUniqueViolation = "23505"

// mapUniqueViolation converts a Postgres unique violation into the shared
// conflict error so callers can surface it without inspecting driver types.
func mapUniqueViolation(err error, message string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return appErrors.Clone(appErrors.ErrConflict, message)
	}
	return err
}

// mapAllocationViolation converts violations of the partial unique indexes
// backing the allocation invariants into their typed errors. These indexes
// are the last line of defence behind the in-transaction checks.
func mapAllocationViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pgUniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case "uniq_active_allocation_per_bed":
		return appErrors.ErrBedUnavailable
	case "uniq_active_allocation_per_student":
		return appErrors.ErrStudentAllocated
	}
	return appErrors.Clone(appErrors.ErrConflict, "allocation conflict")
}
