package deck

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepInterval is how often expired snoozes are cleared.
const DefaultSweepInterval = time.Minute

// Sweeper periodically wakes tasks whose snooze deadline has passed.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper returns a stopped sweeper for engine.
func NewSweeper(engine *Engine, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{engine: engine, interval: interval, logger: logger}
}

// Start sweeps once and then on every tick until ctx is cancelled or Stop is
// called. Starting a running sweeper does nothing.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
}

// Stop halts the sweeper and waits for its goroutine to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Sweeper) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug("sweeper started", zap.Duration("interval", s.interval))
	s.sweep()
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	if n := s.engine.Sweep(); n > 0 {
		s.logger.Info("woke snoozed tasks", zap.Int("count", n))
	}
}
