package scheduler

import (
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := NewScheduler(logger)
	s.Start()
	t.Cleanup(s.Stop)
	return s
}

func TestOnceSchedule_FiresOnce(t *testing.T) {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	o := &onceSchedule{at: at}

	assert.Equal(t, at, o.Next(at.Add(-time.Minute)))
	assert.True(t, o.Next(at).IsZero())
	assert.True(t, o.Next(at.Add(time.Hour)).IsZero())
}

func TestAfter_RunsOnce(t *testing.T) {
	s := newTestScheduler(t)
	var calls atomic.Int32

	s.After(20*time.Millisecond, func() { calls.Add(1) })

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, s.cronEngine.Entries(), "fired one-shot entries are removed")
}

func TestAfter_ZeroDelayStillRuns(t *testing.T) {
	s := newTestScheduler(t)
	var calls atomic.Int32

	s.After(0, func() { calls.Add(1) })

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestAfter_CancelPreventsRun(t *testing.T) {
	s := newTestScheduler(t)
	var calls atomic.Int32

	cancel := s.After(200*time.Millisecond, func() { calls.Add(1) })
	cancel()

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.Empty(t, s.cronEngine.Entries())
}

func TestEvery_RepeatsUntilCanceled(t *testing.T) {
	s := newTestScheduler(t)
	var calls atomic.Int32

	cancel := s.Every(time.Second, func() { calls.Add(1) })
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 4*time.Second, 50*time.Millisecond)

	cancel()
	stoppedAt := calls.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), stoppedAt+1, "at most one in-flight run after cancel")
}

func TestScheduler_RecoversPanickingJob(t *testing.T) {
	s := newTestScheduler(t)
	var calls atomic.Int32

	s.After(10*time.Millisecond, func() { panic("render failed") })
	s.After(50*time.Millisecond, func() { calls.Add(1) })

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}
