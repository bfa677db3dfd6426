package attendance

import (
	"time"
)

// Kehadiran is the attendance category attached to a record.
type Kehadiran string

const (
	KehadiranHadir     Kehadiran = "hadir"
	KehadiranTerlambat Kehadiran = "terlambat"
	KehadiranAlpa      Kehadiran = "alpa"
	KehadiranCuti      Kehadiran = "cuti"
)

var ValidKehadiran = []string{
	string(KehadiranHadir),
	string(KehadiranTerlambat),
	string(KehadiranAlpa),
	string(KehadiranCuti),
}

// ForcedCloseNote is written on records closed because they stayed open past
// their calendar day.
const ForcedCloseNote = "Absen lebih dari sehari"

type Attendance struct {
	ID               string
	UserID           string
	ShiftID          *string
	Kehadiran        *Kehadiran
	Date             time.Time
	ClockIn          time.Time
	ClockOut         *time.Time
	CheckInLocation  string
	CheckOutLocation *string
	Note             *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	UserName  *string
	ShiftName *string
}

// IsOpen reports whether the record is still waiting for a check-out.
func (a Attendance) IsOpen() bool {
	return a.ClockOut == nil
}

// IsStale reports whether the record is open and dated before today.
func (a Attendance) IsStale(today time.Time) bool {
	return a.IsOpen() && DateKey(a.Date) < DateKey(today)
}

// DateKey formats the calendar date of t as YYYY-MM-DD without converting zones.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
