package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	m, err := ParseClock("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18*60+30, m)

	m, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23*60+59, m)

	for _, bad := range []string{"", "24:00", "7pm", "19:5", "19:60", "190:00"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrBadClock, "input %q", bad)
	}
}

func TestClockRoundTrip(t *testing.T) {
	for _, m := range []int{0, 1, 59, 60, 18*60 + 30, 23*60 + 59} {
		parsed, err := ParseClock(Clock(m))
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "14-03-2026", "2026/03/14", "2026-13-01"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrBadDate, "input %q", bad)
	}
}

func TestAtTruncatesToDay(t *testing.T) {
	noon := time.Date(2026, 3, 14, 12, 45, 7, 0, time.UTC)
	got := At(noon, 18*60+30)
	assert.Equal(t, time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC), got)
}

func TestMinuteOfDay(t *testing.T) {
	assert.Equal(t, 18*60+30, MinuteOfDay(time.Date(2026, 3, 14, 18, 30, 59, 0, time.UTC)))
	assert.Equal(t, 0, MinuteOfDay(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)))
}

func TestWindowOverlaps(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	a := NewWindow(At(day, 18*60), 120) // 18:00–20:00

	// Touching endpoints do not overlap: half-open semantics mean a party
	// seated until 20:00 does not collide with one arriving at 20:00.
	before := NewWindow(At(day, 16*60), 120) // 16:00–18:00
	after := NewWindow(At(day, 20*60), 120)  // 20:00–22:00
	assert.False(t, a.Overlaps(before))
	assert.False(t, before.Overlaps(a))
	assert.False(t, a.Overlaps(after))

	overlapping := NewWindow(At(day, 19*60), 120) // 19:00–21:00
	assert.True(t, a.Overlaps(overlapping))
	assert.True(t, overlapping.Overlaps(a))

	contained := NewWindow(At(day, 18*60+30), 30)
	assert.True(t, a.Overlaps(contained))
}

func TestWindowContains(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	w := NewWindow(At(day, 18*60), 120)
	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(At(day, 19*60)))
	assert.False(t, w.Contains(w.End)) // exclusive end
	assert.False(t, w.Contains(At(day, 17*60)))
}

func TestSlots(t *testing.T) {
	// 10:00–22:00, 30-minute granularity, 120-minute service: last
	// bookable start is 20:00.
	got := Slots(10*60, 22*60, 30, 120)
	require.NotEmpty(t, got)
	assert.Equal(t, 10*60, got[0])
	assert.Equal(t, 20*60, got[len(got)-1])
	assert.Len(t, got, 21)

	// Service longer than the whole day yields nothing.
	assert.Empty(t, Slots(10*60, 12*60, 30, 180))

	// Degenerate inputs yield an empty, non-nil slice.
	assert.Empty(t, Slots(10*60, 22*60, 0, 120))
	assert.Empty(t, Slots(22*60, 10*60, 30, 120))
}
