package mahfaza

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Quote is one observed market price.
type Quote struct {
	Symbol    string
	Price     Money
	Timestamp time.Time
}

// PriceSource supplies market quotes. The ledger ships no scraper or
// market-data client; callers plug in whatever feed they have.
type PriceSource interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// Job is a named unit of scheduled background work.
type Job interface {
	Run() error
	Name() string
}

// Refresher is the Job that sweeps fresh quotes into the store.
type Refresher struct {
	store   *Store
	source  PriceSource
	timeout time.Duration
}

// NewRefresher creates a price refresh job. The timeout bounds one
// full sweep across all symbols.
func NewRefresher(store *Store, source PriceSource, timeout time.Duration) *Refresher {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Refresher{store: store, source: source, timeout: timeout}
}

func (r *Refresher) Name() string { return "price-refresh" }

func (r *Refresher) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.store.RefreshPrices(ctx, r.source)
}

// Scheduler manages background jobs over a cron runner.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins running registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

// AddJob registers a job with a cron schedule such as "@every 5m".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Run(); err != nil {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("job failed")
			return
		}
		s.log.Debug().Str("job", job.Name()).Msg("job completed")
	})
	if err != nil {
		return fmt.Errorf("registering %s: %w", job.Name(), err)
	}
	s.log.Info().Str("schedule", schedule).Str("job", job.Name()).Msg("job registered")
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("running job immediately")
	return job.Run()
}
