package models

import (
	"time"

	"github.com/lib/pq"
)

// Block is a hostel wing or building owning a fixed floor configuration.
type Block struct {
	ID          string        `db:"id" json:"id"`
	SchoolID    string        `db:"school_id" json:"school_id"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description"`
	WardenID    *string       `db:"warden_id" json:"warden_id,omitempty"`
	TotalFloors int           `db:"total_floors" json:"total_floors"`
	FloorConfig pq.Int64Array `db:"floor_config" json:"floor_config"`
	IsActive    bool          `db:"is_active" json:"is_active"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// BlockDetail enriches Block with counters derived from rooms, beds and
// active allocations at read time.
type BlockDetail struct {
	Block
	TotalRooms   int `db:"total_rooms" json:"total_rooms"`
	TotalBeds    int `db:"total_beds" json:"total_beds"`
	OccupiedBeds int `db:"occupied_beds" json:"occupied_beds"`
}

// OccupancyRate returns the occupancy percentage over all beds in the block.
func (d BlockDetail) OccupancyRate() float64 {
	if d.TotalBeds == 0 {
		return 0
	}
	return float64(d.OccupiedBeds) / float64(d.TotalBeds) * 100
}

// BlockFilter captures filtering criteria for listing blocks.
type BlockFilter struct {
	SchoolID string
	IsActive *bool
	Search   string
	Page     int
	PageSize int
}
