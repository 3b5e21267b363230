package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeakWindow marks a recurring high-demand time range that requires a
// deposit.  Minutes are from midnight; Weekdays is a bitmask with bit n
// set when the window applies on time.Weekday(n) (bit 0 = Sunday).
// A window covers minutes in [StartMinute, EndMinute).
type PeakWindow struct {
	StartMinute int             `json:"start_minute"`
	EndMinute   int             `json:"end_minute"`
	Weekdays    uint8           `json:"weekdays"`
	Deposit     decimal.Decimal `json:"deposit"`
}

// Covers reports whether the window applies on the given weekday at the
// given minute of day.
func (w PeakWindow) Covers(day time.Weekday, minute int) bool {
	if w.Weekdays&(1<<uint(day)) == 0 {
		return false
	}
	return minute >= w.StartMinute && minute < w.EndMinute
}

// Policy holds a restaurant's booking rules.  Read-mostly: it is loaded
// once per request and only changed through restaurant administration.
//
// Fields:
//  RestaurantID         – owning restaurant (one policy per restaurant).
//  PeakWindows          – deposit-bearing time ranges.
//  GraceMinutes         – how early before the slot a party may check in.
//  ToleranceMinutes     – how late after the slot a party may check in
//                         before the reservation auto-transitions to no_show.
//  DepositExpiryMinutes – how long a pending peak reservation may wait for
//                         its deposit before it is auto-cancelled.
//  MaxLeadDays          – furthest day in the future a booking may target.
//  AutoConfirm          – when true, non-deposit bookings are confirmed on
//                         creation instead of waiting for staff.
type Policy struct {
	RestaurantID         uint64       // policies.restaurant_id
	PeakWindows          []PeakWindow // policies.peak_windows (JSON column)
	GraceMinutes         int          // policies.grace_minutes
	ToleranceMinutes     int          // policies.tolerance_minutes
	DepositExpiryMinutes int          // policies.deposit_expiry_minutes
	MaxLeadDays          int          // policies.max_lead_days
	AutoConfirm          bool         // policies.auto_confirm
	UpdatedAt            time.Time    // policies.updated_at
}

// PeakAt returns the peak window covering the weekday/minute pair, if any.
// When windows overlap the first configured match wins.
func (p *Policy) PeakAt(day time.Weekday, minute int) (PeakWindow, bool) {
	for _, w := range p.PeakWindows {
		if w.Covers(day, minute) {
			return w, true
		}
	}
	return PeakWindow{}, false
}
