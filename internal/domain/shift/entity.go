package shift

import (
	"fmt"
	"time"
)

// Clock is a time of day with second precision.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// ParseClock parses "HH:MM:SS" or "HH:MM".
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return Clock{}, fmt.Errorf("invalid time of day %q: expected HH:MM[:SS]", s)
		}
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Seconds returns the offset of c from midnight.
func (c Clock) Seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// On combines c with the calendar date of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, c.Second, 0, day.Location())
}

type Shift struct {
	ID        string
	Name      string
	StartTime Clock
	EndTime   Clock
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overnight reports whether the shift ends on the day after it starts.
func (s Shift) Overnight() bool {
	return s.EndTime.Seconds() < s.StartTime.Seconds()
}
