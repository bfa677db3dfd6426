package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID returns ErrRecordNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetOpenByID returns the record only while it has no check-out. A non-nil
	// ownerID additionally restricts the lookup to that user's records.
	GetOpenByID(ctx context.Context, id string, ownerID *string) (Attendance, error)

	// ListStaleOpen returns open records of the user dated before today.
	ListStaleOpen(ctx context.Context, userID string, today time.Time) ([]Attendance, error)

	// GetOpenOnDate returns the user's open record for the given date, or nil.
	GetOpenOnDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// LatestForShift returns the user's most recent record for a shift on a date, or nil.
	LatestForShift(ctx context.Context, userID, shiftID string, date time.Time) (*Attendance, error)

	// Close sets check-out fields on an open record. It returns ErrRecordNotFound
	// when the record is missing or already closed.
	Close(ctx context.Context, id string, clockOut time.Time, location string, note *string) (Attendance, error)

	List(ctx context.Context, filter ListAttendanceFilter) ([]Attendance, int64, error)

	// ListAllStaleOpen returns every open record dated before today.
	ListAllStaleOpen(ctx context.Context, today time.Time) ([]Attendance, error)

	Delete(ctx context.Context, id string) error

	// LockUser serializes attendance mutations of one user for the current transaction.
	LockUser(ctx context.Context, userID string) error
}
