// Package timeslot provides pure date/time-window arithmetic for the
// allocation engine: clock parsing, slot generation from operating hours
// and interval overlap tests.  All functions operate on UTC and keep no
// state.
package timeslot

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadClock is returned when a clock string is not HH:MM within a day.
var ErrBadClock = errors.New("invalid clock value")

// ErrBadDate is returned when a date string is not YYYY-MM-DD.
var ErrBadDate = errors.New("invalid date value")

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrBadClock
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Clock renders minutes from midnight as "HH:MM".
func Clock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ParseDate converts "YYYY-MM-DD" to the UTC midnight of that day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t.UTC(), nil
}

// At returns the UTC instant on the given day at the given minute from
// midnight.  day is truncated to its UTC midnight first.
func At(day time.Time, minute int) time.Time {
	d := DayStart(day)
	return d.Add(time.Duration(minute) * time.Minute)
}

// DayStart returns the UTC midnight of the day containing t.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// MinuteOfDay returns the minutes elapsed since the UTC midnight of t's day.
func MinuteOfDay(t time.Time) int {
	u := t.UTC()
	return u.Hour()*60 + u.Minute()
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds the window starting at the given instant and lasting
// the given number of minutes.
func NewWindow(start time.Time, minutes int) Window {
	return Window{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

// Overlaps reports whether two half-open windows share any instant.
// Touching endpoints (a.End == b.Start) do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// Contains reports whether t falls inside the half-open window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Slots generates the candidate booking minutes for one operating day.
// It walks from openMinute to closeMinute at the given granularity and
// keeps only starts whose full service window still ends by closing time.
// An empty slice is returned for degenerate inputs.
func Slots(openMinute, closeMinute, granularity, serviceMinutes int) []int {
	if granularity <= 0 || closeMinute <= openMinute {
		return []int{}
	}
	out := []int{}
	for m := openMinute; m+serviceMinutes <= closeMinute; m += granularity {
		out = append(out, m)
	}
	return out
}
