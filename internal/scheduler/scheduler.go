package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/logger"
	"github.com/julianstephens/worktrack/internal/models"
	"github.com/julianstephens/worktrack/internal/notifier"
	"github.com/julianstephens/worktrack/internal/ui"
)

var (
	minute       = time.Minute
	startupDelay = constants.StartupPromptDelay
	nowFunc      = time.Now
)

// ConfigStore is the part of the store the scheduler reads and updates.
type ConfigStore interface {
	ReadConfig() models.Config
	WriteConfig(patch models.ConfigPatch) (models.Config, error)
}

// Availability reports whether a native notification may be attempted.
type Availability interface {
	Available() bool
}

// Scheduler fires the "what are you working on" prompt on a fixed interval.
// Exactly one ticker goroutine runs at a time.
type Scheduler struct {
	cfg      ConfigStore
	surface  ui.Surface
	notifier notifier.Notifier
	check    Availability
	focus    ui.RetryPolicy

	lifeMu sync.Mutex // serializes Start/Stop
	fireMu sync.Mutex // serializes fire

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	interval time.Duration
	nextFire time.Time
}

// New creates a stopped Scheduler. A nil surface is treated as headless.
func New(cfg ConfigStore, surface ui.Surface, n notifier.Notifier, check Availability) *Scheduler {
	if surface == nil {
		surface = ui.Headless{}
	}
	return &Scheduler{
		cfg:      cfg,
		surface:  surface,
		notifier: n,
		check:    check,
		focus:    ui.DefaultRetryPolicy(),
	}
}

// SetSurface swaps the UI surface, e.g. once the TUI program exists.
func (s *Scheduler) SetSurface(surface ui.Surface) {
	if surface == nil {
		surface = ui.Headless{}
	}
	s.fireMu.Lock()
	defer s.fireMu.Unlock()
	s.surface = surface
}

// SetRetryPolicy overrides how hard fire tries to focus the surface.
func (s *Scheduler) SetRetryPolicy(p ui.RetryPolicy) {
	s.fireMu.Lock()
	defer s.fireMu.Unlock()
	s.focus = p
}

// Start cancels any running timer, then arms a new one every intervalMinutes
// (clamped to at least 1) and fires once shortly after.
func (s *Scheduler) Start(intervalMinutes int) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	s.stopLocked()

	if intervalMinutes < constants.MinIntervalMinutes {
		intervalMinutes = constants.MinIntervalMinutes
	}
	interval := time.Duration(intervalMinutes) * minute

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.interval = interval
	s.nextFire = nowFunc().Add(interval)
	s.mu.Unlock()

	logger.Debug("Scheduler started", "interval", interval)
	go s.run(ctx, interval, done)
}

// Restart is Stop followed by Start.
func (s *Scheduler) Restart(intervalMinutes int) {
	s.Start(intervalMinutes)
}

// Stop cancels the timer and waits for an in-flight fire to finish. Safe to call
// repeatedly.
func (s *Scheduler) Stop() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.nextFire = time.Time{}
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	logger.Debug("Scheduler stopped")
}

// Running reports whether a timer is armed.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Interval returns the active period, or 0 when stopped.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return 0
	}
	return s.interval
}

// NextFire returns when the next periodic fire is due; zero when stopped.
func (s *Scheduler) NextFire() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextFire
}

// Remaining returns the time until NextFire, never negative.
func (s *Scheduler) Remaining() time.Duration {
	next := s.NextFire()
	if next.IsZero() {
		return 0
	}
	if d := next.Sub(nowFunc()); d > 0 {
		return d
	}
	return 0
}

// SkipNext sets the persisted skip flag; the next fire clears it and does nothing else.
func (s *Scheduler) SkipNext() error {
	skip := true
	_, err := s.cfg.WriteConfig(models.ConfigPatch{SkipNext: &skip})
	return err
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	startup := time.NewTimer(startupDelay)
	defer startup.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-startup.C:
			s.fire(ctx)
		case <-ticker.C:
			s.mu.Lock()
			s.nextFire = nowFunc().Add(interval)
			s.mu.Unlock()
			s.fire(ctx)
		}
	}
}

// fire runs one prompt cycle. Nothing in here returns an error to the ticker.
func (s *Scheduler) fire(ctx context.Context) {
	s.fireMu.Lock()
	defer s.fireMu.Unlock()

	cfg := s.cfg.ReadConfig()
	if !cfg.AskEnabled {
		logger.Debug("Prompt skipped, asking disabled")
		return
	}
	if cfg.SkipNext {
		off := false
		if _, err := s.cfg.WriteConfig(models.ConfigPatch{SkipNext: &off}); err != nil {
			logger.Warn("Failed to clear skip_next", "error", err)
		}
		logger.Info("Prompt skipped once")
		return
	}

	if err := ui.BringToFront(ctx, s.surface, s.focus); err != nil {
		logger.Debug("Could not bring UI to front", "error", err)
	}
	if ctx.Err() != nil {
		// Stopped mid-fire
		return
	}

	if cfg.NotificationsEnabled && s.notifier != nil && (s.check == nil || s.check.Available()) {
		err := s.notifier.Notify(constants.PromptTitle, constants.PromptBody)
		if err == nil {
			return
		}
		logger.Warn("Prompt notification failed, opening prompt directly", "error", err)
	}
	s.surface.OpenPrompt()
}
