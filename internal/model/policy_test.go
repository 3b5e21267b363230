package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPeakWindowCovers(t *testing.T) {
	w := PeakWindow{
		StartMinute: 18 * 60,
		EndMinute:   21 * 60,
		Weekdays:    1<<uint(time.Friday) | 1<<uint(time.Saturday),
	}

	assert.True(t, w.Covers(time.Friday, 18*60))
	assert.True(t, w.Covers(time.Saturday, 20*60+59))
	assert.False(t, w.Covers(time.Friday, 21*60)) // exclusive end
	assert.False(t, w.Covers(time.Friday, 17*60+59))
	assert.False(t, w.Covers(time.Sunday, 19*60))
}

func TestPolicyPeakAtFirstMatchWins(t *testing.T) {
	first := decimal.NewFromInt(25)
	second := decimal.NewFromInt(50)
	p := &Policy{PeakWindows: []PeakWindow{
		{StartMinute: 18 * 60, EndMinute: 21 * 60, Weekdays: 1 << uint(time.Friday), Deposit: first},
		{StartMinute: 17 * 60, EndMinute: 22 * 60, Weekdays: 1 << uint(time.Friday), Deposit: second},
	}}

	w, ok := p.PeakAt(time.Friday, 19*60)
	assert.True(t, ok)
	assert.True(t, first.Equal(w.Deposit))

	w, ok = p.PeakAt(time.Friday, 17*60)
	assert.True(t, ok)
	assert.True(t, second.Equal(w.Deposit))

	_, ok = p.PeakAt(time.Monday, 19*60)
	assert.False(t, ok)
}

func TestReservationStatusHelpers(t *testing.T) {
	assert.True(t, ReservationCompleted.Terminal())
	assert.True(t, ReservationCancelled.Terminal())
	assert.True(t, ReservationNoShow.Terminal())
	assert.False(t, ReservationPending.Terminal())
	assert.False(t, ReservationArrived.Terminal())

	assert.True(t, ReservationPending.Active())
	assert.True(t, ReservationConfirmed.Active())
	assert.True(t, ReservationArrived.Active())
	assert.False(t, ReservationCancelled.Active())

	assert.True(t, ValidReservationStatus(ReservationConfirmed))
	assert.False(t, ValidReservationStatus(ReservationStatus("seated")))
}

func TestValidTableStatus(t *testing.T) {
	for _, s := range []TableStatus{TableAvailable, TableReserved, TableOccupied, TableBlocked} {
		assert.True(t, ValidTableStatus(s))
	}
	assert.False(t, ValidTableStatus(TableStatus("broken")))
}
