package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DuePostProcessor defines the interface for running one due post check
type DuePostProcessor interface {
	ProcessDuePost(ctx context.Context) error
}

// Scheduler polls for due posts. The fire time itself lives in the store;
// the poll interval only bounds how late a due post can run.
type Scheduler struct {
	processor DuePostProcessor
	interval  time.Duration
	logger    *slog.Logger
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// New creates a new scheduler
func New(processor DuePostProcessor, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		processor: processor,
		interval:  interval,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("auto-post scheduler started", "interval", s.interval)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("auto-post scheduler stopped")
}

// run is the main scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.process(ctx)

	for {
		select {
		case <-ticker.C:
			s.process(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) process(ctx context.Context) {
	if err := s.processor.ProcessDuePost(ctx); err != nil {
		s.logger.Error("processing due post", "error", err)
	}
}

// DailyCountResetter defines the interface for zeroing the per-day counts
type DailyCountResetter interface {
	ResetDailyCounts(ctx context.Context) error
}

// DailyReset zeroes fb_posts_today and th_posts_today at midnight
type DailyReset struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewDailyReset creates the midnight reset job
func NewDailyReset(resetter DailyCountResetter, logger *slog.Logger) (*DailyReset, error) {
	c := cron.New()
	_, err := c.AddFunc("0 0 * * *", func() {
		if err := resetter.ResetDailyCounts(context.Background()); err != nil {
			logger.Error("resetting daily post counts", "error", err)
			return
		}
		logger.Info("daily post counts reset")
	})
	if err != nil {
		return nil, err
	}

	return &DailyReset{cron: c, logger: logger}, nil
}

// Start starts the cron schedule
func (d *DailyReset) Start() {
	d.cron.Start()
	d.logger.Info("daily reset job scheduled")
}

// Stop stops the cron schedule and waits for a running job to finish
func (d *DailyReset) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
	d.logger.Info("daily reset job stopped")
}
