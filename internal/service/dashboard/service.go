package dashboard

import (
	"context"
	"fmt"

	"github.com/absensi-app/attendance-backend-go/internal/domain/dashboard"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
}

func NewDashboardService(repo dashboard.DashboardRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
	}
}

// Count implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Count(ctx context.Context, req dashboard.RangeRequest) (*dashboard.CountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, end := req.Range()

	count, err := s.CountInRange(ctx, req.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendances: %w", err)
	}

	return &dashboard.CountResponse{
		Count:     count,
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
	}, nil
}

// Volume implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Volume(ctx context.Context, req dashboard.RangeRequest) (*dashboard.VolumeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, end := req.Range()

	days, err := s.VolumeByDay(ctx, req.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance volume: %w", err)
	}

	return &dashboard.VolumeResponse{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Days:      toDayResponses(days),
	}, nil
}

// Summary runs the three aggregates concurrently.
func (s *DashboardServiceImpl) Summary(ctx context.Context, req dashboard.RangeRequest) (*dashboard.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, end := req.Range()

	var (
		count   int64
		openNow int64
		days    []dashboard.DayVolume
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		count, err = s.CountInRange(gctx, req.UserID, start, end)
		if err != nil {
			return fmt.Errorf("failed to count attendances: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		days, err = s.VolumeByDay(gctx, req.UserID, start, end)
		if err != nil {
			return fmt.Errorf("failed to load attendance volume: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		openNow, err = s.CountOpen(gctx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to count open attendances: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.SummaryResponse{
		Count:     count,
		OpenNow:   openNow,
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Days:      toDayResponses(days),
	}, nil
}

func toDayResponses(days []dashboard.DayVolume) []dashboard.DayVolumeResponse {
	out := make([]dashboard.DayVolumeResponse, 0, len(days))
	for _, d := range days {
		out = append(out, dashboard.DayVolumeResponse{
			Date:  d.Date.Format(dateLayout),
			Count: d.Count,
		})
	}
	return out
}
