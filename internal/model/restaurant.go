package model

import "time"

// Restaurant represents a venue that accepts reservations.  Operating
// hours are stored as minutes from midnight in the venue's local day;
// all timestamps are stored in UTC.  A restaurant owns its tables, its
// reservations, its waitlist and exactly one policy row.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name of the restaurant.
//  OpenMinute     – opening time as minutes from midnight (e.g. 660 = 11:00).
//  CloseMinute    – closing time as minutes from midnight; must exceed OpenMinute.
//  SlotMinutes    – granularity of bookable slots in minutes (e.g. 30).
//  ServiceMinutes – how long a party occupies a table once seated.
//  MaxPartySize   – largest party size accepted for a single booking.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Restaurant struct {
	ID             uint64    // restaurants.id
	Name           string    // restaurants.name
	OpenMinute     int       // restaurants.open_minute
	CloseMinute    int       // restaurants.close_minute
	SlotMinutes    int       // restaurants.slot_minutes
	ServiceMinutes int       // restaurants.service_minutes
	MaxPartySize   int       // restaurants.max_party_size
	CreatedAt      time.Time // restaurants.created_at
	UpdatedAt      time.Time // restaurants.updated_at
}
