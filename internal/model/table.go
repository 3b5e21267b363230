package model

import "time"

// TableStatus is the canonical occupancy vocabulary for a physical table.
// It describes the table's current physical state independently of which
// reservation caused it.  This is the only spelling used inside the
// service; handlers translate at the JSON boundary if a client needs a
// different rendering.
type TableStatus string

const (
	TableAvailable TableStatus = "available" // free to seat a party
	TableReserved  TableStatus = "reserved"  // bound to an upcoming reservation
	TableOccupied  TableStatus = "occupied"  // a party is seated right now
	TableBlocked   TableStatus = "blocked"   // taken out of service by staff
)

// ValidTableStatus reports whether s is one of the defined occupancy states.
func ValidTableStatus(s TableStatus) bool {
	switch s {
	case TableAvailable, TableReserved, TableOccupied, TableBlocked:
		return true
	}
	return false
}

// Table describes a physical table in a restaurant.  Shape and position
// exist only for floor-map rendering and never influence allocation.
// A table is never deleted while an active reservation references it.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant.
//  Label        – human label printed on the floor map (e.g. "T4").
//  Capacity     – number of seats; always >= 1.
//  Shape        – display-only shape hint (nullable).
//  PosX, PosY   – display-only floor-map coordinates (nullable).
//  Status       – current occupancy status.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Table struct {
	ID           uint64      `json:"id"`            // tables.id
	RestaurantID uint64      `json:"restaurant_id"` // tables.restaurant_id
	Label        string      `json:"label"`         // tables.label
	Capacity     int         `json:"capacity"`      // tables.capacity
	Shape        *string     `json:"shape"`         // tables.shape (nullable)
	PosX         *int        `json:"pos_x"`         // tables.pos_x (nullable)
	PosY         *int        `json:"pos_y"`         // tables.pos_y (nullable)
	Status       TableStatus `json:"status"`        // tables.status
	CreatedAt    time.Time   `json:"created_at"`    // tables.created_at
	UpdatedAt    time.Time   `json:"updated_at"`    // tables.updated_at
}
