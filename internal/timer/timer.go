package timer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/study-buddy/internal/domain"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Status is a snapshot of a Timer.
type Status struct {
	Running   bool
	Total     time.Duration
	Remaining time.Duration
}

// Display renders the remaining time as MM:SS.
func (s Status) Display() string {
	secs := int(s.Remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Timer is a countdown that can be started, restarted and cancelled.
type Timer struct {
	logger    *slog.Logger
	newTicker TickerFactory
	onExpire  func()

	mu        sync.Mutex
	running   bool
	total     time.Duration
	remaining time.Duration
	run       uint64
	stop      chan struct{}
}

// Option configures a Timer.
type Option func(*Timer)

// WithTickerFactory replaces the wall-clock ticker, typically in tests.
func WithTickerFactory(f TickerFactory) Option {
	return func(t *Timer) {
		if f != nil {
			t.newTicker = f
		}
	}
}

// New creates an idle Timer. onExpire, if non-nil, is called once each time
// a run reaches zero; it is never called for a cancelled or restarted run.
func New(logger *slog.Logger, onExpire func(), opts ...Option) *Timer {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Timer{
		logger:    logger.With("component", "study_timer"),
		newTicker: NewRealTicker,
		onExpire:  onExpire,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a countdown of the given minutes, replacing any run in progress.
func (t *Timer) Start(minutes int) error {
	if err := domain.ValidateTimerMinutes(minutes); err != nil {
		return err
	}

	t.mu.Lock()
	restarted := t.running
	t.stopLocked()
	t.run++
	t.running = true
	t.total = time.Duration(minutes) * time.Minute
	t.remaining = t.total
	t.stop = make(chan struct{})
	run, stop := t.run, t.stop
	t.mu.Unlock()

	go t.loop(run, stop)

	t.logger.Debug("timer started", "minutes", minutes, "restarted", restarted)
	return nil
}

// Cancel stops a running countdown. It reports whether a run was in progress.
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return false
	}
	t.stopLocked()
	t.remaining = 0
	t.logger.Debug("timer cancelled")
	return true
}

// Tick advances the current run by one interval and reports whether it expired.
// It is a no-op on an idle timer.
func (t *Timer) Tick() bool {
	t.mu.Lock()
	run := t.run
	t.mu.Unlock()
	return t.tick(run)
}

// Status returns a snapshot of the countdown.
func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{
		Running:   t.running,
		Total:     t.total,
		Remaining: t.remaining,
	}
}

func (t *Timer) loop(run uint64, stop <-chan struct{}) {
	ticker := t.newTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if t.tick(run) {
				return
			}
		}
	}
}

// tick advances run if it is still current. Stale runs are ignored.
func (t *Timer) tick(run uint64) bool {
	t.mu.Lock()
	if !t.running || run != t.run {
		t.mu.Unlock()
		return false
	}

	t.remaining -= TickInterval
	if t.remaining > 0 {
		t.mu.Unlock()
		return false
	}

	t.remaining = 0
	t.stopLocked()
	onExpire := t.onExpire
	t.mu.Unlock()

	t.logger.Info("timer expired", "total_minutes", int(t.Status().Total/time.Minute))
	if onExpire != nil {
		onExpire()
	}
	return true
}

func (t *Timer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.running = false
}
