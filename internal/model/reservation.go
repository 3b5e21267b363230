package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus is the canonical lifecycle vocabulary for a
// reservation.  Completed, cancelled and no_show are terminal; once a
// reservation reaches one of them it never transitions again.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"   // created, possibly awaiting a deposit
	ReservationConfirmed ReservationStatus = "confirmed" // booking honored, table bound
	ReservationArrived   ReservationStatus = "arrived"   // party checked in by staff
	ReservationCompleted ReservationStatus = "completed" // visit closed, table freed
	ReservationCancelled ReservationStatus = "cancelled" // withdrawn before arrival
	ReservationNoShow    ReservationStatus = "no_show"   // confirmed party never arrived in tolerance
)

// ValidReservationStatus reports whether s is one of the six defined states.
func ValidReservationStatus(s ReservationStatus) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationArrived,
		ReservationCompleted, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled || s == ReservationNoShow
}

// Active reports whether s counts toward table occupancy.  While a
// reservation is active its (table, time window) pair must not overlap any
// other active reservation on the same table.
func (s ReservationStatus) Active() bool {
	return s == ReservationPending || s == ReservationConfirmed || s == ReservationArrived
}

// Reservation records one party's claim on one table for one time window.
// Rows are never physically deleted; they are only moved to a terminal
// status.  StartsAt/EndsAt are UTC and derive from the requested slot plus
// the restaurant's service duration.
//
// Fields:
//  ID              – primary key identifier.
//  RestaurantID    – owning restaurant.
//  TableID         – bound table (nil until assignment).
//  UserID          – diner who booked (from the identity provider).
//  PartySize       – number of guests.
//  StartsAt        – start of the occupied window.
//  EndsAt          – end of the occupied window.
//  Status          – lifecycle state.
//  Occasion        – opaque diner-supplied string (nullable).
//  SpecialRequest  – opaque diner-supplied string (nullable).
//  DepositRequired – true when the slot fell in a peak window.
//  DepositAmount   – amount owed when DepositRequired.
//  DepositPaid     – set by the payment-confirmation callback.
//  ArrivedAt       – staff check-in time (nullable).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64            `json:"id"`                // reservations.id
	RestaurantID    uint64            `json:"restaurant_id"`     // reservations.restaurant_id
	TableID         *uint64           `json:"table_id"`          // reservations.table_id (nullable)
	UserID          uint64            `json:"user_id"`           // reservations.user_id
	PartySize       int               `json:"party_size"`        // reservations.party_size
	StartsAt        time.Time         `json:"starts_at"`         // reservations.starts_at
	EndsAt          time.Time         `json:"ends_at"`           // reservations.ends_at
	Status          ReservationStatus `json:"status"`            // reservations.status
	Occasion        *string           `json:"occasion"`          // reservations.occasion (nullable)
	SpecialRequest  *string           `json:"special_request"`   // reservations.special_request (nullable)
	DepositRequired bool              `json:"deposit_required"`  // reservations.deposit_required
	DepositAmount   decimal.Decimal   `json:"deposit_amount"`    // reservations.deposit_amount
	DepositPaid     bool              `json:"deposit_paid"`      // reservations.deposit_paid
	ArrivedAt       *time.Time        `json:"arrived_at"`        // reservations.arrived_at (nullable)
	CreatedAt       time.Time         `json:"created_at"`        // reservations.created_at
	UpdatedAt       time.Time         `json:"updated_at"`        // reservations.updated_at
}
