package attendance

import "errors"

// Attendance domain errors
var (
	ErrNotAuthenticated           = errors.New("Invalid/Expired Credentials")
	ErrConflictOpenAttendance     = errors.New("Anda belum melakukan Check-Out!")
	ErrStaleAttendanceForceClosed = errors.New("Maaf, Absensi anda lebih dari sehari. Harap ulang check-in anda lagi!")
	ErrRecordNotFound             = errors.New("attendance record not found")
	ErrOutsideGeofence            = errors.New("location is outside the allowed radius")
)
