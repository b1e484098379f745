// Package scheduler runs the periodic jobs of the tracker: refreshing the
// rendered view and sending due-date reminders.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher re-renders the current view.
type Refresher interface {
	Refresh()
}

// Reminder queues (and possibly mails) reminders for loans due within days.
type Reminder interface {
	Remind(days int) error
}

// ReminderFunc adapts a function to Reminder.
type ReminderFunc func(days int) error

func (f ReminderFunc) Remind(days int) error { return f(days) }

// Config selects the job schedules, in standard cron syntax or descriptors
// such as "@every 1m". An empty ReminderSpec disables reminders.
type Config struct {
	RefreshSpec  string
	ReminderSpec string
	ReminderDays int
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

// New registers the jobs without starting them.
func New(cfg Config, refresher Refresher, reminder Reminder, log *logrus.Logger) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, log: log}

	if _, err := c.AddFunc(cfg.RefreshSpec, func() {
		refresher.Refresh()
		log.Debug("View refreshed")
	}); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.RefreshSpec, err)
	}

	if cfg.ReminderSpec != "" && reminder != nil {
		days := cfg.ReminderDays
		if _, err := c.AddFunc(cfg.ReminderSpec, func() {
			if err := reminder.Remind(days); err != nil {
				log.Errorf("Reminder run failed: %v", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("invalid reminder schedule %q: %w", cfg.ReminderSpec, err)
		}
	}
	return s, nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int { return len(s.cron.Entries()) }

// Start runs the jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Scheduler started with %d jobs", s.Jobs())
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
