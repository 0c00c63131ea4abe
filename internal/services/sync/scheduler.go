package sync

import (
	"context"
	"sync"
	"time"

	"github.com/joelwehr/ppclog/internal/events"
)

// Cycle is the job the scheduler fires. *Engine satisfies it.
type Cycle interface {
	Run(ctx context.Context) error
}

// Scheduler runs sync cycles in the background: once after a short
// initial delay, then on a fixed interval until stopped.
type Scheduler struct {
	cycle        Cycle
	initialDelay time.Duration
	interval     time.Duration
	logger       *events.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler around the given cycle.
func NewScheduler(cycle Cycle, initialDelay, interval time.Duration, logger *events.Logger) *Scheduler {
	return &Scheduler{
		cycle:        cycle,
		initialDelay: initialDelay,
		interval:     interval,
		logger:       logger.WithField("service", "scheduler"),
	}
}

// Start launches the background loop. A running loop is stopped and
// replaced, so repeated sign-ins never stack timers.
func (s *Scheduler) Start() {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	s.logger.WithFields(map[string]interface{}{
		"initial_delay": s.initialDelay,
		"interval":      s.interval,
	}).Debug("Starting background sync")

	go s.loop(ctx, done)
}

// Stop halts the background loop and waits for any in-flight cycle
// to finish. Safe to call when not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Debug("Background sync stopped")
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	initial := time.NewTimer(s.initialDelay)
	defer initial.Stop()

	select {
	case <-initial.C:
		s.runOnce(ctx)
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.cycle.Run(ctx); err != nil {
		// Run logs the details; the loop keeps ticking regardless.
		s.logger.Debug("Scheduled sync reported an error")
	}
}
