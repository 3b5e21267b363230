// Package availability computes bookable slots and selects tables for
// reservations.  Everything here is a pure function over rows the caller
// has already loaded, so the allocation engine can re-run the exact same
// selection inside the transaction that commits a booking.
package availability

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/timeslot"
)

// Slot describes one candidate booking time for a given party size.
type Slot struct {
	Minute          int             `json:"-"`
	Time            string          `json:"time"`
	Available       bool            `json:"available"`
	IsPeak          bool            `json:"is_peak"`
	RequiresDeposit bool            `json:"requires_deposit"`
	DepositAmount   decimal.Decimal `json:"deposit_amount"`
}

// candidate reports whether a table can in principle seat the party.
// Blocked tables are out of rotation entirely; reserved/occupied tables
// stay candidates for non-overlapping future windows because occupancy
// status describes the present, not the calendar.
func candidate(t model.Table, partySize int) bool {
	return t.Status != model.TableBlocked && t.Capacity >= partySize
}

// freeFor reports whether the table has no active reservation overlapping
// the window.
func freeFor(tableID uint64, active []model.Reservation, win timeslot.Window) bool {
	for _, r := range active {
		if r.TableID == nil || *r.TableID != tableID {
			continue
		}
		if win.Overlaps(timeslot.Window{Start: r.StartsAt, End: r.EndsAt}) {
			return false
		}
	}
	return true
}

// Compute produces the ordered slot list for one restaurant and day.
// tables must belong to the restaurant; active must hold its reservations
// in an active status for that day (a wider set is harmless).  The result
// carries one entry per operating-hours slot at the restaurant's
// granularity, flagged with availability and peak/deposit policy.
func Compute(r *model.Restaurant, pol *model.Policy, tables []model.Table, active []model.Reservation, day time.Time, partySize int) []Slot {
	minutes := timeslot.Slots(r.OpenMinute, r.CloseMinute, r.SlotMinutes, r.ServiceMinutes)
	out := make([]Slot, 0, len(minutes))
	weekday := timeslot.DayStart(day).Weekday()
	for _, m := range minutes {
		win := timeslot.NewWindow(timeslot.At(day, m), r.ServiceMinutes)
		s := Slot{Minute: m, Time: timeslot.Clock(m)}
		for _, t := range tables {
			if candidate(t, partySize) && freeFor(t.ID, active, win) {
				s.Available = true
				break
			}
		}
		if w, ok := pol.PeakAt(weekday, m); ok {
			s.IsPeak = true
			s.RequiresDeposit = true
			s.DepositAmount = w.Deposit
		}
		out = append(out, s)
	}
	return out
}

// SelectTable picks the table that should serve a booking window.
// Preference order: smallest capacity that still fits the party (least
// wasted seats), then the table whose next reservation after the window
// starts soonest (keeps flexible tables free), then lowest ID for
// determinism.  Returns false when no candidate table is free.
func SelectTable(tables []model.Table, active []model.Reservation, win timeslot.Window, partySize int) (model.Table, bool) {
	free := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		if candidate(t, partySize) && freeFor(t.ID, active, win) {
			free = append(free, t)
		}
	}
	if len(free) == 0 {
		return model.Table{}, false
	}
	sort.Slice(free, func(i, j int) bool {
		a, b := free[i], free[j]
		if a.Capacity != b.Capacity {
			return a.Capacity < b.Capacity
		}
		na, nb := nextConflict(a.ID, active, win.End), nextConflict(b.ID, active, win.End)
		if !na.Equal(nb) {
			return na.Before(nb)
		}
		return a.ID < b.ID
	})
	return free[0], true
}

// nextConflict returns the start of the table's earliest active
// reservation at or after the given instant.  Tables with nothing ahead
// sort last among capacity ties, so far-future infinity is modelled with
// a distant sentinel.
func nextConflict(tableID uint64, active []model.Reservation, after time.Time) time.Time {
	next := after.AddDate(100, 0, 0)
	for _, r := range active {
		if r.TableID == nil || *r.TableID != tableID {
			continue
		}
		if !r.StartsAt.Before(after) && r.StartsAt.Before(next) {
			next = r.StartsAt
		}
	}
	return next
}
