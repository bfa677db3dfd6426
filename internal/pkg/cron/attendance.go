package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// StaleCloser force-closes attendance records left open past their date.
type StaleCloser interface {
	CloseStaleAttendances(ctx context.Context) (int, error)
}

type AttendanceJobs struct {
	closer StaleCloser
}

func NewAttendanceJobs(closer StaleCloser) *AttendanceJobs {
	return &AttendanceJobs{closer: closer}
}

// RegisterJobs adds the stale sweep. A non-positive interval disables it.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, every time.Duration) {
	if every <= 0 {
		return
	}
	scheduler.AddJob("close_stale_attendances", every, j.CloseStaleAttendances)
}

func (j *AttendanceJobs) CloseStaleAttendances(ctx context.Context) error {
	n, err := j.closer.CloseStaleAttendances(ctx)
	if err != nil {
		return fmt.Errorf("failed to close stale attendances: %w", err)
	}
	if n > 0 {
		slog.Info("Cron: closed stale attendances", "count", n)
	}
	return nil
}
