package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestStartSettingsRefresh_RunsPeriodically(t *testing.T) {
	r := &countingRefresher{}
	sched, err := StartSettingsRefresh(20*time.Millisecond, r)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Shutdown() })

	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestStartSettingsRefresh_KeepsRunningAfterFailure(t *testing.T) {
	r := &countingRefresher{err: errors.New("store down")}
	sched, err := StartSettingsRefresh(20*time.Millisecond, r)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Shutdown() })

	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}
