package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCloser struct {
	calls atomic.Int32
	n     int
	err   error
}

func (c *countingCloser) CloseStaleAttendances(ctx context.Context) (int, error) {
	c.calls.Add(1)
	return c.n, c.err
}

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	closer := &countingCloser{n: 2}
	s := NewScheduler()
	NewAttendanceJobs(closer).RegisterJobs(s, time.Hour)

	s.Start(context.Background())
	require.Eventually(t, func() bool { return closer.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	// Stop is idempotent.
	s.Stop()
	assert.Equal(t, int32(1), closer.calls.Load())
}

func TestRegisterJobs_DisabledInterval(t *testing.T) {
	closer := &countingCloser{}
	s := NewScheduler()
	NewAttendanceJobs(closer).RegisterJobs(s, 0)

	s.RunOnce(context.Background())
	assert.Equal(t, int32(0), closer.calls.Load())
}

func TestCloseStaleAttendances_WrapsError(t *testing.T) {
	closer := &countingCloser{err: errors.New("db down")}
	err := NewAttendanceJobs(closer).CloseStaleAttendances(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
