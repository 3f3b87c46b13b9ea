package models

import "time"

// BedType distinguishes physical bed configurations.
type BedType string

const (
	BedTypeSingle     BedType = "single"
	BedTypeBunkTop    BedType = "bunk_top"
	BedTypeBunkBottom BedType = "bunk_bottom"
)

// Valid reports whether t is a known bed type.
func (t BedType) Valid() bool {
	return t == BedTypeSingle || t == BedTypeBunkTop || t == BedTypeBunkBottom
}

// Bed is the smallest allocable unit within a room. Availability is derived
// from active allocations, never stored.
type Bed struct {
	ID        string    `db:"id" json:"id"`
	RoomID    string    `db:"room_id" json:"room_id"`
	BedNumber string    `db:"bed_number" json:"bed_number"`
	BedType   BedType   `db:"bed_type" json:"bed_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BedDetail enriches Bed with its derived availability.
type BedDetail struct {
	Bed
	IsAvailable bool `db:"is_available" json:"is_available"`
}
