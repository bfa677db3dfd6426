package dashboard

import (
	"context"
	"time"
)

// DayVolume is the number of attendance records dated on one day.
type DayVolume struct {
	Date  time.Time
	Count int64
}

// DashboardRepository defines the interface for dashboard data access.
// A nil userID aggregates over every user.
type DashboardRepository interface {
	// CountInRange counts records with start <= date <= end.
	CountInRange(ctx context.Context, userID *string, start, end time.Time) (int64, error)

	// VolumeByDay groups records in the range by date, ascending.
	VolumeByDay(ctx context.Context, userID *string, start, end time.Time) ([]DayVolume, error)

	// CountOpen counts records still waiting for a check-out.
	CountOpen(ctx context.Context, userID *string) (int64, error)
}
