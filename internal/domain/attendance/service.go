package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens a record for today. A stale record from an earlier day is
	// force-closed first and the call fails with ErrStaleAttendanceForceClosed;
	// that closure is committed even though the check-in itself is rejected.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes an open record.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// Eligibility reports whether the user may check in or out right now.
	Eligibility(ctx context.Context, userID string) (EligibilityResponse, error)

	// CheckLocation measures the distance from the configured center.
	CheckLocation(ctx context.Context, req CheckLocationRequest) (CheckLocationResponse, error)

	GetAttendance(ctx context.Context, id string, userID string) (AttendanceResponse, error)

	// ListAttendance lists records of all users (manager view).
	ListAttendance(ctx context.Context, filter ListAttendanceFilter) (ListAttendanceResponse, error)

	// GetMyAttendance lists the records of one user.
	GetMyAttendance(ctx context.Context, userID string, filter ListAttendanceFilter) (ListAttendanceResponse, error)

	DeleteAttendance(ctx context.Context, id string) error

	// CloseStaleAttendances force-closes every open record dated before today.
	CloseStaleAttendances(ctx context.Context) (int, error)
}
