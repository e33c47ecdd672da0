package notifications

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"foodtracker/internal/logger"
)

// Runner performs one reminder run.
type Runner interface {
	Run(ctx context.Context) (RunResult, error)
}

// Scheduler runs the expiration check periodically and on demand.
type Scheduler struct {
	CheckInterval time.Duration
	Enabled       bool

	runner  Runner
	timeout time.Duration
	log     *zap.SugaredLogger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	runMu  sync.Mutex
}

// NewScheduler creates a scheduler. Each run is bounded by timeout.
func NewScheduler(runner Runner, interval, timeout time.Duration, enabled bool) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		CheckInterval: interval,
		Enabled:       enabled,
		runner:        runner,
		timeout:       timeout,
		log:           logger.Named("scheduler"),
	}
}

// Start begins periodic checks. The first check runs immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.log.Infow("expiration reminders disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	s.log.Infow("starting expiration reminders", "interval", s.CheckInterval.String())
	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})

	s.wg.Add(1)
	go s.run(s.ticker, s.stop)
}

// Stop halts periodic checks and waits for running checks to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.ticker = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Trigger starts a check in the background and returns at once. A trigger
// that arrives while a check is running is dropped.
func (s *Scheduler) Trigger() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.check("manual")
	}()
}

func (s *Scheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	s.check("startup")

	for {
		select {
		case <-ticker.C:
			s.check("interval")
		case <-stop:
			s.log.Infow("expiration reminders stopped")
			return
		}
	}
}

func (s *Scheduler) check(reason string) {
	if !s.runMu.TryLock() {
		s.log.Infow("expiration check already running, skipping", "reason", reason)
		return
	}
	defer s.runMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.runner.Run(ctx); err != nil {
		s.log.Errorw("expiration check failed", "reason", reason, "error", err)
	}
}
