package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper removes sessions idle since before cutoff.
type Sweeper interface {
	SweepIdle(ctx context.Context, cutoff time.Time) int
}

// Janitor evicts idle sessions on a cron schedule.
type Janitor struct {
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	sweeper  Sweeper
	schedule string
	ttl      time.Duration
	now      func() time.Time
}

// NewJanitor builds a janitor. schedule accepts standard cron expressions
// and descriptors such as "@every 10m".
func NewJanitor(sweeper Sweeper, schedule string, ttl time.Duration) (*Janitor, error) {
	if sweeper == nil {
		return nil, errors.New("sweeper is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("idle ttl must be positive, got %s", ttl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Janitor{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		ctx:      ctx,
		cancel:   cancel,
		sweeper:  sweeper,
		schedule: schedule,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Start registers the sweep job and starts the cron loop.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Sweep() }); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	log.Printf("[janitor] started schedule=%q ttl=%s", j.schedule, j.ttl)
	return nil
}

// Sweep runs one eviction pass and returns the number of removed sessions.
func (j *Janitor) Sweep() int {
	removed := j.sweeper.SweepIdle(j.ctx, j.now().UTC().Add(-j.ttl))
	if removed > 0 {
		log.Printf("[janitor] evicted %d idle sessions", removed)
	}
	return removed
}

// Stop waits for a running sweep to finish.
func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
	if j.cancel != nil {
		j.cancel()
	}
	log.Println("[janitor] stopped")
}
