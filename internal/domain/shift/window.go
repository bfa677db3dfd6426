package shift

import "time"

// Window holds the grace periods around shift boundaries. Check-in is allowed
// from Early before the start up to the start; check-out from the end up to
// Late after it.
type Window struct {
	Early time.Duration
	Late  time.Duration
}

func NewWindow(earlyMinutes, lateMinutes int) Window {
	return Window{
		Early: time.Duration(earlyMinutes) * time.Minute,
		Late:  time.Duration(lateMinutes) * time.Minute,
	}
}

// Bounds returns the start and end of the occurrence of s that is relevant at
// now. For overnight shifts the occurrence that began the previous evening is
// used while now still falls inside its grace window.
func (w Window) Bounds(s Shift, now time.Time) (start, end time.Time) {
	start = s.StartTime.On(now)
	end = s.EndTime.On(now)
	if !s.Overnight() {
		return start, end
	}

	end = end.AddDate(0, 0, 1)
	if now.Before(start.Add(-w.Early)) {
		prevStart, prevEnd := start.AddDate(0, 0, -1), end.AddDate(0, 0, -1)
		if !now.After(prevEnd.Add(w.Late)) {
			return prevStart, prevEnd
		}
	}
	return start, end
}

// Contains reports whether now lies in [start-Early, end+Late] for s.
func (w Window) Contains(s Shift, now time.Time) bool {
	start, end := w.Bounds(s, now)
	return !now.Before(start.Add(-w.Early)) && !now.After(end.Add(w.Late))
}

// FindActive returns the first shift, in the given order, whose extended
// window contains now. Overlapping windows are not disambiguated.
func (w Window) FindActive(now time.Time, shifts []Shift) *Shift {
	for i := range shifts {
		if w.Contains(shifts[i], now) {
			s := shifts[i]
			return &s
		}
	}
	return nil
}

// CanCheckIn reports whether now is within the pre-start grace period of s.
func (w Window) CanCheckIn(s Shift, now time.Time) bool {
	start, _ := w.Bounds(s, now)
	return !now.Before(start.Add(-w.Early)) && !now.After(start)
}

// CanCheckOut reports whether now is within the post-end grace period of s and
// the user has not already closed a record for this shift.
func (w Window) CanCheckOut(s Shift, now time.Time, alreadyCheckedOut bool) bool {
	if alreadyCheckedOut {
		return false
	}
	_, end := w.Bounds(s, now)
	return !now.Before(end) && !now.After(end.Add(w.Late))
}
