package render

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultFrameInterval is the minimum time between two flushes.
const DefaultFrameInterval = 16 * time.Millisecond

// Scheduler coalesces redraw requests. Any number of RequestRender calls
// made before the next flush collapse into one flush, and flushes are at
// least one frame interval apart.
type Scheduler struct {
	flush    func()
	interval time.Duration
	log      *zap.Logger
	updateCh chan struct{}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithFrameInterval sets the minimum time between flushes.
func WithFrameInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSchedulerLogger sets the logger.
func WithSchedulerLogger(l *zap.Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = l }
}

// NewScheduler creates a scheduler that calls flush from Run's goroutine.
func NewScheduler(flush func(), opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		flush:    flush,
		interval: DefaultFrameInterval,
		log:      zap.NewNop(),
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RequestRender marks the surface dirty. It never blocks.
func (s *Scheduler) RequestRender() {
	select {
	case s.updateCh <- struct{}{}:
	default:
	}
}

// Pending reports whether a flush is queued.
func (s *Scheduler) Pending() bool {
	return len(s.updateCh) > 0
}

// Run flushes queued requests until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.updateCh:
		}
		s.flush()

		timer.Reset(s.interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}
