package model

import "time"

// WaitlistStatus tracks a walk-in party's place in the queue lifecycle.
type WaitlistStatus string

const (
	WaitlistWaiting  WaitlistStatus = "waiting"  // in the queue, eligible for offers
	WaitlistAssigned WaitlistStatus = "assigned" // proposed a freed table, pending staff confirmation
	WaitlistRemoved  WaitlistStatus = "removed"  // left the queue (seated, gave up or struck by staff)
)

// WaitlistEntry is one walk-in party waiting for a table.  Priority is a
// monotonic rank unique per restaurant; lower means earlier.  Staff may
// swap adjacent ranks to reorder the queue.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant.
//  Name         – contact name taken at the counter.
//  Phone        – contact phone for the notification dispatcher.
//  PartySize    – number of guests.
//  Priority     – queue rank; total order within a restaurant.
//  Status       – queue lifecycle state.
//  CreatedAt    – when the party was enqueued.
//  UpdatedAt    – last update timestamp.
type WaitlistEntry struct {
	ID           uint64         `json:"id"`            // waitlist_entries.id
	RestaurantID uint64         `json:"restaurant_id"` // waitlist_entries.restaurant_id
	Name         string         `json:"name"`          // waitlist_entries.name
	Phone        string         `json:"phone"`         // waitlist_entries.phone
	PartySize    int            `json:"party_size"`    // waitlist_entries.party_size
	Priority     int            `json:"priority"`      // waitlist_entries.priority
	Status       WaitlistStatus `json:"status"`        // waitlist_entries.status
	CreatedAt    time.Time      `json:"created_at"`    // waitlist_entries.created_at
	UpdatedAt    time.Time      `json:"updated_at"`    // waitlist_entries.updated_at
}
