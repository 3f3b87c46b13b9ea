package models

import "time"

// RoomType is the bed-count class of a room.
type RoomType string

// Supported room types, ordered by booking preference.
const (
	RoomType1Bed      RoomType = "1_bed"
	RoomType2Beds     RoomType = "2_beds"
	RoomType3Beds     RoomType = "3_beds"
	RoomType4Beds     RoomType = "4_beds"
	RoomType5Beds     RoomType = "5_beds"
	RoomType6Beds     RoomType = "6_beds"
	RoomTypeDormitory RoomType = "dormitory"
)

// DefaultCapacity returns the bed count implied by the room type.
// Dormitories default to 10; the actual capacity always follows the bed set.
func (t RoomType) DefaultCapacity() int {
	switch t {
	case RoomType1Bed:
		return 1
	case RoomType2Beds:
		return 2
	case RoomType3Beds:
		return 3
	case RoomType4Beds:
		return 4
	case RoomType5Beds:
		return 5
	case RoomType6Beds:
		return 6
	case RoomTypeDormitory:
		return 10
	}
	return 0
}

// Valid reports whether t is a known room type.
func (t RoomType) Valid() bool {
	return t.DefaultCapacity() > 0
}

// RoomTypes lists all room types in booking preference order.
func RoomTypes() []RoomType {
	return []RoomType{RoomType2Beds, RoomType3Beds, RoomType4Beds, RoomType1Bed, RoomType5Beds, RoomType6Beds, RoomTypeDormitory}
}

// ACType distinguishes air-conditioned rooms.
type ACType string

const (
	ACTypeAC    ACType = "ac"
	ACTypeNonAC ACType = "non_ac"
)

// Valid reports whether t is a known AC type.
func (t ACType) Valid() bool {
	return t == ACTypeAC || t == ACTypeNonAC
}

// Availability classifies a room's occupancy relative to its capacity.
type Availability string

const (
	AvailabilityEmpty   Availability = "empty"
	AvailabilityPartial Availability = "partial"
	AvailabilityFull    Availability = "full"
)

// ClassifyAvailability derives the availability label from occupancy and capacity.
func ClassifyAvailability(occupancy, capacity int) Availability {
	switch {
	case occupancy <= 0:
		return AvailabilityEmpty
	case occupancy >= capacity:
		return AvailabilityFull
	default:
		return AvailabilityPartial
	}
}

// Room is a unit within a block holding a set of beds.
type Room struct {
	ID          string    `db:"id" json:"id"`
	BlockID     string    `db:"block_id" json:"block_id"`
	RoomNumber  string    `db:"room_number" json:"room_number"`
	RoomType    RoomType  `db:"room_type" json:"room_type"`
	ACType      ACType    `db:"ac_type" json:"ac_type"`
	Capacity    int       `db:"capacity" json:"capacity"`
	FloorNumber int       `db:"floor_number" json:"floor_number"`
	Amenities   string    `db:"amenities" json:"amenities"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RoomDetail enriches Room with the block name and occupancy derived from
// active allocations at read time.
type RoomDetail struct {
	Room
	BlockName        string       `db:"block_name" json:"block_name"`
	CurrentOccupancy int          `db:"current_occupancy" json:"current_occupancy"`
	Availability     Availability `db:"-" json:"availability"`
}

// RoomFilter captures the query surface for room listings.
type RoomFilter struct {
	BlockID      string
	FloorNumber  *int
	RoomType     RoomType
	ACType       ACType
	Availability Availability
	Search       string
	Page         int
	PageSize     int
}

// RoomPatch carries the optional attribute changes applied by updates and
// mass updates. Nil fields are left untouched.
type RoomPatch struct {
	RoomType    *RoomType `json:"room_type,omitempty"`
	ACType      *ACType   `json:"ac_type,omitempty"`
	Capacity    *int      `json:"capacity,omitempty"`
	Amenities   *string   `json:"amenities,omitempty"`
	IsAvailable *bool     `json:"is_available,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p RoomPatch) Empty() bool {
	return p.RoomType == nil && p.ACType == nil && p.Capacity == nil && p.Amenities == nil && p.IsAvailable == nil
}

// MassUpdateCriteria selects rooms for a bulk patch when no explicit id
// list is given.
type MassUpdateCriteria struct {
	BlockIDs     []string `json:"block_ids,omitempty"`
	FloorNumbers []int    `json:"floor_numbers,omitempty"`
	RoomType     RoomType `json:"room_type,omitempty"`
	ACType       ACType   `json:"ac_type,omitempty"`
}

// Empty reports whether no criteria are set.
func (c MassUpdateCriteria) Empty() bool {
	return len(c.BlockIDs) == 0 && len(c.FloorNumbers) == 0 && c.RoomType == "" && c.ACType == ""
}

// MassUpdateFailure records a room skipped during a bulk operation.
type MassUpdateFailure struct {
	RoomID     string `json:"room_id"`
	RoomNumber string `json:"room_number"`
	Reason     string `json:"reason"`
}

// MassUpdateResult summarises a partially applied bulk operation.
type MassUpdateResult struct {
	MatchedCount int                 `json:"matched_count"`
	UpdatedCount int                 `json:"updated_count"`
	Failures     []MassUpdateFailure `json:"failures,omitempty"`
}

// RoomTypeAvailability aggregates booking availability for one
// (room type, AC type) combination.
type RoomTypeAvailability struct {
	RoomType       RoomType           `json:"room_type"`
	ACType         ACType             `json:"ac_type"`
	TotalRooms     int                `json:"total_rooms"`
	TotalBeds      int                `json:"total_beds"`
	OccupiedBeds   int                `json:"occupied_beds"`
	AvailableBeds  int                `json:"available_beds"`
	OccupancyRate  float64            `json:"occupancy_rate"`
	AvailableRooms []RoomAvailability `json:"available_rooms"`
}

// RoomAvailability is the per-room slice of a booking summary.
type RoomAvailability struct {
	RoomID           string `json:"room_id"`
	RoomNumber       string `json:"room_number"`
	BlockName        string `json:"block_name"`
	FloorNumber      int    `json:"floor_number"`
	Capacity         int    `json:"capacity"`
	CurrentOccupancy int    `json:"current_occupancy"`
	AvailableBeds    int    `json:"available_beds"`
}

// FilterOptions enumerates the distinct values the query UI can filter on.
type FilterOptions struct {
	Blocks    []BlockOption  `json:"blocks"`
	Floors    []int          `json:"floors"`
	RoomTypes []RoomType     `json:"room_types"`
	ACTypes   []ACType       `json:"ac_types"`
	Statuses  []Availability `json:"availability"`
}

// BlockOption is a block reference in filter options.
type BlockOption struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
