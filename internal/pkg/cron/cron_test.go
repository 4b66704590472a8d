package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStartRunsJobsUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	s := New(nil)
	s.Register(Job{
		Name:     "tick",
		Interval: 5 * time.Millisecond,
		Fn: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	s.Wait()

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, StatusFulfill, list[0].Status)
	assert.NotNil(t, list[0].LastRunAt)
}

func TestRunRecordsFailure(t *testing.T) {
	s := New(nil)
	s.Register(Job{Name: "b", Interval: time.Hour, Fn: func(context.Context) error { return errors.New("boom") }})
	s.Register(Job{Name: "a", Interval: time.Hour, Fn: func(context.Context) error { return nil }})

	require.NoError(t, s.Run(context.Background(), "b"))
	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, StatusIdle, list[0].Status)
	assert.Equal(t, StatusReject, list[1].Status)
	assert.Equal(t, "boom", list[1].Message)

	assert.Error(t, s.Run(context.Background(), "missing"))
}
