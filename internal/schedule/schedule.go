// Package schedule runs the background jobs of a server: flushing pending
// writes and sending the daily digest.
package schedule

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/launchpad/internal/app"
	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/notify"
)

// parser accepts standard 5-field cron expressions (minute, hour, dom, month, dow).
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Validate reports whether expr is a 5-field cron expression.
func Validate(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("schedule: %w: %q: %w", models.ErrValidation, expr, err)
	}
	return nil
}

// Next returns the first fire time of expr after from.
func Next(expr string, from time.Time) (time.Time, error) {
	sched, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule: %w: %q: %w", models.ErrValidation, expr, err)
	}
	return sched.Next(from), nil
}

// Opts configures a Scheduler.
type Opts struct {
	Registry *app.Registry
	Notifier notify.Notifier
	// SyncSchedule and DigestSchedule are cron expressions. An empty
	// expression disables the job.
	SyncSchedule   string
	DigestSchedule string
}

// Scheduler owns a cron runner.
type Scheduler struct {
	cron     *cron.Cron
	registry *app.Registry
	notifier notify.Notifier
}

// New builds a Scheduler with its jobs registered but not started.
func New(opts Opts) (*Scheduler, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("schedule: registry is required")
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithParser(parser)),
		registry: opts.Registry,
		notifier: opts.Notifier,
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if opts.SyncSchedule != "" {
		if _, err := s.cron.AddFunc(opts.SyncSchedule, func() { s.FlushPending(context.Background()) }); err != nil {
			return nil, fmt.Errorf("schedule: sync job: %w", err)
		}
	}
	if opts.DigestSchedule != "" {
		if _, err := s.cron.AddFunc(opts.DigestSchedule, func() { s.SendDigests(context.Background()) }); err != nil {
			return nil, fmt.Errorf("schedule: digest job: %w", err)
		}
	}
	return s, nil
}

// Jobs returns how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Run starts the cron runner and blocks until ctx is cancelled, then waits
// for running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

// FlushPending retries pending writes for every loaded session and returns
// how many are still pending.
func (s *Scheduler) FlushPending(ctx context.Context) int {
	remaining := s.registry.SyncAll(ctx)
	if remaining > 0 {
		log.Printf("schedule: sync: %d writes still pending", remaining)
	}
	return remaining
}

// SendDigests sends a digest for every loaded session with something due
// or overdue. It returns how many were sent.
func (s *Scheduler) SendDigests(ctx context.Context) int {
	sent := 0
	for _, a := range s.registry.Apps() {
		snap := a.Snapshot()
		if !needsDigest(snap) {
			continue
		}
		evt := notify.Digest(snap.UserID, snap.RepeatedTasks(), snap.OfficeTasks(), snap.Today)
		if err := s.notifier.Notify(ctx, evt); err != nil {
			log.Printf("schedule: digest for %s: %v", snap.UserID, err)
			continue
		}
		sent++
	}
	return sent
}

func needsDigest(snap app.Snapshot) bool {
	for _, t := range snap.Repeated {
		if t.Due {
			return true
		}
	}
	for _, t := range snap.Office {
		if t.DisplayStatus == models.StatusOverdue {
			return true
		}
	}
	return false
}
