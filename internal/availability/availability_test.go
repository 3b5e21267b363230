package availability

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/timeslot"
)

var day = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC) // a Monday

func testRestaurant() *model.Restaurant {
	return &model.Restaurant{
		ID:             1,
		OpenMinute:     10 * 60,
		CloseMinute:    22 * 60,
		SlotMinutes:    30,
		ServiceMinutes: 120,
		MaxPartySize:   12,
	}
}

func table(id uint64, capacity int, status model.TableStatus) model.Table {
	return model.Table{ID: id, RestaurantID: 1, Capacity: capacity, Status: status}
}

func reserved(tableID uint64, startMinute, serviceMinutes int) model.Reservation {
	win := timeslot.NewWindow(timeslot.At(day, startMinute), serviceMinutes)
	return model.Reservation{
		RestaurantID: 1,
		TableID:      &tableID,
		StartsAt:     win.Start,
		EndsAt:       win.End,
		Status:       model.ReservationConfirmed,
	}
}

func slotAt(t *testing.T, slots []Slot, clock string) Slot {
	t.Helper()
	for _, s := range slots {
		if s.Time == clock {
			return s
		}
	}
	t.Fatalf("no slot at %s", clock)
	return Slot{}
}

func TestComputeMarksConflicts(t *testing.T) {
	rest := testRestaurant()
	pol := &model.Policy{RestaurantID: 1}
	tables := []model.Table{table(1, 4, model.TableAvailable)}
	active := []model.Reservation{reserved(1, 18*60, 120)} // 18:00–20:00

	slots := Compute(rest, pol, tables, active, day, 2)
	require.Len(t, slots, 21)

	// The booked window blocks every start overlapping 18:00–20:00.
	assert.False(t, slotAt(t, slots, "17:00").Available)
	assert.False(t, slotAt(t, slots, "18:00").Available)
	assert.False(t, slotAt(t, slots, "19:30").Available)

	// Half-open windows: service ending 18:00 and starting 20:00 are fine.
	assert.True(t, slotAt(t, slots, "16:00").Available)
	assert.True(t, slotAt(t, slots, "20:00").Available)
}

func TestComputeCapacityAndBlocked(t *testing.T) {
	rest := testRestaurant()
	pol := &model.Policy{RestaurantID: 1}

	// Too small, and blocked: the party of 4 has nowhere to sit.
	tables := []model.Table{
		table(1, 2, model.TableAvailable),
		table(2, 6, model.TableBlocked),
	}
	slots := Compute(rest, pol, tables, nil, day, 4)
	for _, s := range slots {
		assert.False(t, s.Available, "slot %s", s.Time)
	}

	// An occupied table still counts for future windows.
	tables = []model.Table{table(3, 4, model.TableOccupied)}
	slots = Compute(rest, pol, tables, nil, day, 4)
	assert.True(t, slotAt(t, slots, "20:00").Available)
}

func TestComputePeakFlags(t *testing.T) {
	rest := testRestaurant()
	deposit := decimal.NewFromInt(25)
	pol := &model.Policy{
		RestaurantID: 1,
		PeakWindows: []model.PeakWindow{{
			StartMinute: 18 * 60,
			EndMinute:   21 * 60,
			Weekdays:    1 << uint(time.Monday),
			Deposit:     deposit,
		}},
	}
	tables := []model.Table{table(1, 4, model.TableAvailable)}

	slots := Compute(rest, pol, tables, nil, day, 2)

	peak := slotAt(t, slots, "19:00")
	assert.True(t, peak.IsPeak)
	assert.True(t, peak.RequiresDeposit)
	assert.True(t, deposit.Equal(peak.DepositAmount))

	offPeak := slotAt(t, slots, "12:00")
	assert.False(t, offPeak.IsPeak)
	assert.False(t, offPeak.RequiresDeposit)

	// Same clock time on a Tuesday is off-peak: the weekday mask gates it.
	tuesday := day.AddDate(0, 0, 1)
	slots = Compute(rest, pol, tables, nil, tuesday, 2)
	assert.False(t, slotAt(t, slots, "19:00").IsPeak)
}

func TestSelectTablePrefersTightestFit(t *testing.T) {
	tables := []model.Table{
		table(1, 8, model.TableAvailable),
		table(2, 4, model.TableAvailable),
		table(3, 2, model.TableAvailable),
	}
	win := timeslot.NewWindow(timeslot.At(day, 18*60), 120)

	got, ok := SelectTable(tables, nil, win, 3)
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.ID) // capacity 4 wastes the least

	got, ok = SelectTable(tables, nil, win, 2)
	require.True(t, ok)
	assert.Equal(t, uint64(3), got.ID)

	_, ok = SelectTable(tables, nil, win, 10)
	assert.False(t, ok)
}

func TestSelectTableBreaksCapacityTieByNextReservation(t *testing.T) {
	tables := []model.Table{
		table(1, 4, model.TableAvailable),
		table(2, 4, model.TableAvailable),
	}
	// Table 2 has a booking later tonight; table 1 is free all evening.
	// Booking the early window onto table 2 keeps table 1 flexible.
	active := []model.Reservation{reserved(2, 20*60+30, 90)}
	win := timeslot.NewWindow(timeslot.At(day, 18*60), 120)

	got, ok := SelectTable(tables, active, win, 4)
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.ID)
}

func TestSelectTableTieBreaksByID(t *testing.T) {
	tables := []model.Table{
		table(7, 4, model.TableAvailable),
		table(3, 4, model.TableAvailable),
	}
	win := timeslot.NewWindow(timeslot.At(day, 18*60), 120)
	got, ok := SelectTable(tables, nil, win, 4)
	require.True(t, ok)
	assert.Equal(t, uint64(3), got.ID)
}

func TestSelectTableSkipsConflicts(t *testing.T) {
	tables := []model.Table{
		table(1, 2, model.TableAvailable),
		table(2, 4, model.TableAvailable),
	}
	active := []model.Reservation{reserved(1, 18*60, 120)}
	win := timeslot.NewWindow(timeslot.At(day, 19*60), 120)

	got, ok := SelectTable(tables, active, win, 2)
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.ID)

	// With the only fitting table booked, nothing is returned.
	_, ok = SelectTable(tables[:1], active, win, 2)
	assert.False(t, ok)
}
