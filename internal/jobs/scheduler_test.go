package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type warmFunc func(ctx context.Context) (int, error)

func (f warmFunc) WarmCache(ctx context.Context) (int, error) { return f(ctx) }

type countingSweeper struct{ calls atomic.Int32 }

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 0
}

func TestAddCacheWarm_InvalidSchedule(t *testing.T) {
	s := NewScheduler(nil)
	err := s.AddCacheWarm("every now and then", warmFunc(func(context.Context) (int, error) { return 0, nil }))
	require.Error(t, err)
}

func TestAddCacheWarm_EmptyScheduleDisables(t *testing.T) {
	s := NewScheduler(nil)
	require.NoError(t, s.AddCacheWarm("", warmFunc(func(context.Context) (int, error) { return 0, nil })))
	assert.Empty(t, s.cron.Entries())
}

func TestWarm_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewScheduler(zap.New(core))

	s.warm(warmFunc(func(ctx context.Context) (int, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return 3, nil
	}))
	s.warm(warmFunc(func(context.Context) (int, error) { return 0, errors.New("db down") }))

	ok := logs.FilterMessage("cache warmed").All()
	require.Len(t, ok, 1)
	assert.Equal(t, int64(3), ok[0].ContextMap()["projects"])
	assert.Equal(t, 1, logs.FilterMessage("cache warm failed").Len())
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := NewScheduler(nil)

	var warmed atomic.Int32
	require.NoError(t, s.AddCacheWarm("@every 1s", warmFunc(func(context.Context) (int, error) {
		warmed.Add(1)
		return 0, nil
	})))
	sw := &countingSweeper{}
	require.NoError(t, s.AddSweep("@every 1s", sw))

	s.Start()
	assert.Eventually(t, func() bool {
		return warmed.Load() > 0 && sw.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
	<-s.Stop().Done()
}
