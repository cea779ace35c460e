package alert

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/laneyard/internal/capacity"
	"github.com/zulandar/laneyard/internal/interval"
	"github.com/zulandar/laneyard/internal/models"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// RunnerOpts configures a Runner.
type RunnerOpts struct {
	DB          *gorm.DB
	Scope       models.Scope
	Ledger      capacity.Ledger
	Schedule    string // 5-field cron expression
	HorizonDays int
	Notifiers   []Notifier
	Now         func() time.Time // for testing; defaults to time.Now
}

// Runner sends the overbooking digest on a cron schedule.
type Runner struct {
	db        *gorm.DB
	scope     models.Scope
	ledger    capacity.Ledger
	sched     cron.Schedule
	horizon   int
	notifiers []Notifier
	now       func() time.Time
}

// NewRunner validates opts and returns a Runner.
func NewRunner(opts RunnerOpts) (*Runner, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("alert: db is required")
	}
	sched, err := cronParser.Parse(opts.Schedule)
	if err != nil {
		return nil, fmt.Errorf("alert: schedule %q: %w", opts.Schedule, err)
	}
	if opts.HorizonDays < 1 {
		opts.HorizonDays = 14
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Ledger.Thresholds.Overbooked.IsZero() {
		opts.Ledger = capacity.New(capacity.DefaultThresholds)
	}
	return &Runner{
		db:        opts.DB,
		scope:     opts.Scope,
		ledger:    opts.Ledger,
		sched:     sched,
		horizon:   opts.HorizonDays,
		notifiers: opts.Notifiers,
		now:       opts.Now,
	}, nil
}

// Next returns the next fire time after t.
func (r *Runner) Next(t time.Time) time.Time {
	return r.sched.Next(t)
}

// Run fires the digest at every scheduled time until ctx is cancelled.
// Failures are logged and do not stop the loop.
func (r *Runner) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Until(r.Next(r.now())))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			if _, err := r.RunOnce(ctx); err != nil {
				log.Printf("alert: digest: %v", err)
			}
			timer.Reset(time.Until(r.Next(r.now())))
		}
	}
}

// RunOnce builds today's digest and sends it to every notifier. It reports
// whether a digest was produced; nothing is sent when no lane is overbooked.
// A failing notifier is logged and the others are still tried; the first
// delivery error is returned.
func (r *Runner) RunOnce(ctx context.Context) (bool, error) {
	d, err := r.Preview()
	if err != nil {
		return false, err
	}
	if d == nil {
		return false, nil
	}

	msg := FormatDigest(d)
	var firstErr error
	for _, n := range r.notifiers {
		if err := n.Send(ctx, msg); err != nil {
			log.Printf("alert: send via %s: %v", n.Name(), err)
			if firstErr == nil {
				firstErr = fmt.Errorf("alert: %s: %w", n.Name(), err)
			}
		}
	}
	return true, firstErr
}

// Preview builds the digest for the horizon starting today without sending
// it.
func (r *Runner) Preview() (*Digest, error) {
	return BuildDigest(r.db, r.scope, r.ledger, interval.Format(r.now()), r.horizon)
}
