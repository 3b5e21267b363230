// Package queue defines message payloads exchanged over the message
// broker and the background consumer that drains them.
package queue

// Queue names used on the broker.  Both are declared durable.
const (
	ReservationQueueName = "reservation.events"
	WaitlistQueueName    = "waitlist.offers"
)

// ReservationEvent is published on reservation lifecycle changes.  It
// carries enough for downstream consumers (notification dispatcher,
// audit log) to act without querying the primary database.
type ReservationEvent struct {
	Kind            string `json:"kind"` // booked, confirmed, cancelled
	ReservationID   uint64 `json:"reservation_id"`
	RestaurantID    uint64 `json:"restaurant_id"`
	TableID         uint64 `json:"table_id,omitempty"`
	UserID          uint64 `json:"user_id"`
	PartySize       int    `json:"party_size"`
	StartsAt        string `json:"starts_at"`
	Status          string `json:"status"`
	DepositRequired bool   `json:"deposit_required"`
	DepositAmount   string `json:"deposit_amount,omitempty"`
	OccurredAt      string `json:"occurred_at"`
}

// WaitlistOfferEvent is published when a freed table is proposed to a
// waiting party.  The downstream dispatcher turns it into an SMS/email;
// the offer stays pending until staff confirm it at the podium.
type WaitlistOfferEvent struct {
	EntryID      uint64 `json:"entry_id"`
	RestaurantID uint64 `json:"restaurant_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	PartySize    int    `json:"party_size"`
	TableID      uint64 `json:"table_id"`
	TableLabel   string `json:"table_label"`
	Capacity     int    `json:"capacity"`
	OccurredAt   string `json:"occurred_at"`
}
