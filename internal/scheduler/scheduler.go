// Package scheduler runs import passes on a fixed cadence that begins at a
// configured hour of day.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rcliao/moodlog/internal/importer"
)

// State is the scheduler's position in its loop.
type State int32

const (
	// StateWaiting polls the wall clock until the start hour.
	StateWaiting State = iota
	// StateRunning executes one import pass.
	StateRunning
	// StateSleeping waits out the interval between passes.
	StateSleeping
	// StateStopped is reached only when the context is cancelled.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateRunning:
		return "running"
	case StateSleeping:
		return "sleeping"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Runner performs one import pass.
type Runner interface {
	Run(ctx context.Context) (*importer.Report, error)
}

// Clock abstracts wall time so tests can drive the loop.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Config configures the scheduler.
type Config struct {
	// StartHour is the local hour (0-23) at which the first scheduled pass may run.
	StartHour int
	// Interval separates the end of one pass from the start of the next. Default: 24h.
	Interval time.Duration
	// PollPeriod is how often the start hour is re-checked. Default: 1 hour.
	PollPeriod time.Duration
}

func (c *Config) defaults() {
	if c.Interval <= 0 {
		c.Interval = 24 * time.Hour
	}
	if c.PollPeriod <= 0 {
		c.PollPeriod = time.Hour
	}
}

// Scheduler drives import passes. A single Scheduler never overlaps passes.
type Scheduler struct {
	runner Runner
	config Config
	every  cron.Schedule
	clock  Clock
	logger *slog.Logger
	state  atomic.Int32
}

// New creates a Scheduler. A nil clock uses wall time.
func New(runner Runner, cfg Config, clock Clock, logger *slog.Logger) *Scheduler {
	cfg.defaults()
	if clock == nil {
		clock = realClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		runner: runner,
		config: cfg,
		every:  cron.Every(cfg.Interval),
		clock:  clock,
		logger: logger,
	}
}

// State reports the current loop state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

func (s *Scheduler) setState(st State) {
	s.state.Store(int32(st))
}

// Run blocks until ctx is cancelled. It waits for the start hour, then alternates
// between one pass and one interval of sleep. Cancellation is observed only at
// the sleep points; a pass in flight runs to completion.
func (s *Scheduler) Run(ctx context.Context) {
	defer s.setState(StateStopped)

	s.setState(StateWaiting)
	for {
		switch s.State() {
		case StateWaiting:
			now := s.clock.Now()
			if now.Hour() == s.config.StartHour {
				s.setState(StateRunning)
				continue
			}
			s.logger.Info("scheduler: waiting for start hour",
				"start_hour", s.config.StartHour, "current_hour", now.Hour())
			if err := s.clock.Sleep(ctx, s.config.PollPeriod); err != nil {
				return
			}

		case StateRunning:
			s.runPass(context.WithoutCancel(ctx))
			s.setState(StateSleeping)

		case StateSleeping:
			now := s.clock.Now()
			next := s.every.Next(now)
			s.logger.Info("scheduler: next pass", "at", next, "interval", s.config.Interval)
			if err := s.clock.Sleep(ctx, next.Sub(now)); err != nil {
				return
			}
			s.setState(StateRunning)

		default:
			return
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) {
	s.logger.Info("scheduler: running scheduled import")
	if _, err := s.runner.Run(ctx); err != nil {
		s.logger.Error("scheduler: import pass", "error", err)
	}
}
