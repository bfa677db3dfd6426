package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// Count returns the number of records in a date range
	Count(ctx context.Context, req RangeRequest) (*CountResponse, error)

	// Volume returns per-day record counts in a date range
	Volume(ctx context.Context, req RangeRequest) (*VolumeResponse, error)

	// Summary combines count, volume and open records using goroutines
	Summary(ctx context.Context, req RangeRequest) (*SummaryResponse, error)
}
