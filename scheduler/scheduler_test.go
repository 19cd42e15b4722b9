package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestScheduler(t *testing.T) *Scheduler {
	s := New(zap.NewNop())
	t.Cleanup(s.Stop)
	return s
}

func counter(n *int32) TaskFn {
	return func(context.Context) error {
		atomic.AddInt32(n, 1)
		return nil
	}
}

func noop(context.Context) error { return nil }

func TestTicker_Fires(t *testing.T) {
	s := newTestScheduler(t)
	var count int32
	s.AddTicker("content_prewarm", 20*time.Millisecond, counter(&count))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) >= 3 }, time.Second, 10*time.Millisecond)
}

func TestTicker_ReplaceStopsOld(t *testing.T) {
	s := newTestScheduler(t)
	var old, cur int32
	s.AddTicker("task", 10*time.Millisecond, counter(&old))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&old) > 0 }, time.Second, 5*time.Millisecond)

	s.AddTicker("task", 10*time.Millisecond, counter(&cur))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&cur) >= 2 }, time.Second, 5*time.Millisecond)
	snap := atomic.LoadInt32(&old)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, snap, atomic.LoadInt32(&old))
	assert.Equal(t, []string{"task"}, s.ListTickers())
}

func TestRemove(t *testing.T) {
	s := newTestScheduler(t)
	var count int32
	s.AddTicker("x", 10*time.Millisecond, counter(&count))
	s.AddTicker("y", time.Hour, noop)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&count) > 0 }, time.Second, 5*time.Millisecond)

	s.Remove("x")
	s.Remove("never-registered")
	snap := atomic.LoadInt32(&count)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, snap, atomic.LoadInt32(&count))
	assert.Equal(t, []string{"y"}, s.ListTickers())
	assert.ErrorIs(t, s.Trigger("x"), ErrUnknownTask)
}

func TestStop_CancelsRunningTask(t *testing.T) {
	s := New(zap.NewNop())
	s.AddTicker("slow", time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	done := make(chan error, 1)
	go func() { done <- s.Trigger("slow") }()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	s.Stop()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("task context was not cancelled")
	}
}

func TestTrigger(t *testing.T) {
	s := newTestScheduler(t)
	var count int32
	s.AddTicker("leaderboard_rebuild", time.Hour, counter(&count))
	require.NoError(t, s.Trigger("leaderboard_rebuild"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&count))

	assert.ErrorIs(t, s.Trigger("session_gc"), ErrUnknownTask)

	boom := errors.New("boom")
	s.AddTicker("failing", time.Hour, func(context.Context) error { return boom })
	assert.ErrorIs(t, s.Trigger("failing"), boom)
}

func TestTrigger_NoOverlap(t *testing.T) {
	s := newTestScheduler(t)
	release := make(chan struct{})
	started := make(chan struct{})
	s.AddTicker("content_prewarm", time.Hour, func(context.Context) error {
		close(started)
		<-release
		return nil
	})

	first := make(chan error, 1)
	go func() { first <- s.Trigger("content_prewarm") }()
	<-started
	assert.ErrorIs(t, s.Trigger("content_prewarm"), ErrTaskBusy)

	close(release)
	require.NoError(t, <-first)
	assert.Equal(t, 1, s.Status()[0].Runs)
}

func TestStatus(t *testing.T) {
	s := newTestScheduler(t)
	s.AddTicker("b", time.Hour, func(context.Context) error { return errors.New("db down") })
	s.AddTicker("a", 2*time.Hour, noop)

	require.NoError(t, s.Trigger("a"))
	require.Error(t, s.Trigger("b"))
	require.Error(t, s.Trigger("b"))

	st := s.Status()
	require.Len(t, st, 2)
	assert.Equal(t, "a", st[0].Name)
	assert.Equal(t, 2*time.Hour, st[0].Interval)
	assert.Equal(t, 1, st[0].Runs)
	assert.Zero(t, st[0].Failures)
	assert.False(t, st[0].LastRun.IsZero())

	assert.Equal(t, 2, st[1].Runs)
	assert.Equal(t, 2, st[1].Failures)
	assert.Equal(t, "db down", st[1].LastError)
	assert.False(t, st[1].Running)
}

func TestTicker_PanicRecovery(t *testing.T) {
	s := newTestScheduler(t)
	var calls int32
	s.AddTicker("panic", 20*time.Millisecond, func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		panic("oops")
	})
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, time.Second, 10*time.Millisecond,
		"ticker keeps running after a panic")
	err := s.Trigger("panic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}
