package timer

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/study-buddy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTicker lets tests decide when a tick happens.
type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop() { m.stopped.Store(true) }

// manualClock hands out manual tickers and remembers the latest one.
type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (c *manualClock) factory(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	tk := &manualTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, tk)
	return tk
}

func (c *manualClock) latest(t *testing.T) *manualTicker {
	t.Helper()
	var tk *manualTicker
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if len(c.tickers) == 0 {
			return false
		}
		tk = c.tickers[len(c.tickers)-1]
		return true
	}, time.Second, time.Millisecond)
	return tk
}

func (c *manualClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatusDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remaining time.Duration
		want      string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{25 * time.Minute, "25:00"},
		{24*time.Minute + 59*time.Second, "24:59"},
		{60 * time.Minute, "60:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status{Remaining: tt.remaining}.Display())
	}
}

func TestStart_Validation(t *testing.T) {
	t.Parallel()
	clock := &manualClock{}
	tm := New(quietLogger(), nil, WithTickerFactory(clock.factory))

	for _, minutes := range []int{0, -1, 61} {
		err := tm.Start(minutes)
		assert.ErrorIs(t, err, domain.ErrInvalidTimerMinutes)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.False(t, tm.Status().Running)
	assert.Equal(t, 0, clock.count())
}

func TestTimer_CountsDownAndExpires(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	expired := make(chan struct{}, 1)
	tm := New(quietLogger(), func() { expired <- struct{}{} }, WithTickerFactory(clock.factory))

	require.NoError(t, tm.Start(1))
	status := tm.Status()
	assert.True(t, status.Running)
	assert.Equal(t, time.Minute, status.Total)
	assert.Equal(t, "01:00", status.Display())

	tk := clock.latest(t)
	tk.ch <- time.Now()
	require.Eventually(t, func() bool { return tm.Status().Display() == "00:59" }, time.Second, time.Millisecond)

	for i := 0; i < 59; i++ {
		tk.ch <- time.Now()
	}

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("expiry callback was not called")
	}

	status = tm.Status()
	assert.False(t, status.Running)
	assert.Equal(t, time.Duration(0), status.Remaining)
	assert.Eventually(t, tk.stopped.Load, time.Second, time.Millisecond)
}

func TestTimer_ManualTick(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	var calls atomic.Int32
	tm := New(quietLogger(), func() { calls.Add(1) }, WithTickerFactory(clock.factory))

	assert.False(t, tm.Tick(), "idle timer ignores ticks")

	require.NoError(t, tm.Start(1))
	for i := 0; i < 59; i++ {
		assert.False(t, tm.Tick())
	}
	assert.Equal(t, "00:01", tm.Status().Display())
	assert.True(t, tm.Tick())
	assert.False(t, tm.Tick(), "expired timer ignores ticks")
	assert.Equal(t, int32(1), calls.Load())
}

func TestTimer_Cancel(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	var calls atomic.Int32
	tm := New(quietLogger(), func() { calls.Add(1) }, WithTickerFactory(clock.factory))

	assert.False(t, tm.Cancel(), "nothing to cancel")

	require.NoError(t, tm.Start(5))
	tk := clock.latest(t)

	assert.True(t, tm.Cancel())
	assert.False(t, tm.Status().Running)
	assert.Eventually(t, tk.stopped.Load, time.Second, time.Millisecond)

	for i := 0; i < 5*60; i++ {
		tm.Tick()
	}
	assert.Equal(t, int32(0), calls.Load(), "cancelled run never expires")
}

func TestTimer_RestartReplacesRun(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	var calls atomic.Int32
	tm := New(quietLogger(), func() { calls.Add(1) }, WithTickerFactory(clock.factory))

	require.NoError(t, tm.Start(1))
	first := clock.latest(t)
	first.ch <- time.Now()
	require.Eventually(t, func() bool { return tm.Status().Display() == "00:59" }, time.Second, time.Millisecond)

	require.NoError(t, tm.Start(2))
	assert.Eventually(t, first.stopped.Load, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return clock.count() == 2 }, time.Second, time.Millisecond)

	status := tm.Status()
	assert.True(t, status.Running)
	assert.Equal(t, 2*time.Minute, status.Total)
	assert.Equal(t, "02:00", status.Display())
	assert.Equal(t, int32(0), calls.Load())
}

func TestTimer_RealTicker(t *testing.T) {
	t.Parallel()

	tm := New(quietLogger(), nil)
	require.NoError(t, tm.Start(1))
	defer tm.Cancel()

	assert.Eventually(t, func() bool {
		return tm.Status().Remaining < time.Minute
	}, 3*time.Second, 50*time.Millisecond)
}
