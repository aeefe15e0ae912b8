package ui

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/logger"
)

// ErrNotFocused is returned by BringToFront when every attempt left the surface unfocused.
var ErrNotFocused = errors.New("surface did not take focus")

// Surface is whatever the user sees: the TUI, or nothing in headless mode.
type Surface interface {
	// Focus asks the surface to come to the foreground.
	Focus() error
	// Focused reports whether the last Focus took effect.
	Focused() bool
	// OpenPrompt shows the "what are you working on" input directly.
	OpenPrompt()
}

// RetryPolicy bounds BringToFront.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy returns 3 attempts starting at 500ms, doubling each time.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: constants.FocusMaxAttempts,
		Backoff:  constants.FocusRetryDelay,
	}
}

// BringToFront calls Focus until the surface reports focus or the attempts run out.
// It returns immediately when the surface is already focused.
func BringToFront(ctx context.Context, s Surface, policy RetryPolicy) error {
	if s == nil {
		return ErrNotFocused
	}
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}

	delay := policy.Backoff
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if s.Focused() {
			return nil
		}
		if err := s.Focus(); err != nil {
			logger.Debug("Focus attempt failed", "attempt", attempt, "error", err)
		} else if s.Focused() {
			return nil
		}
		if attempt == policy.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return ErrNotFocused
}

// Headless is the Surface used when no UI is attached (serve, one-shot commands).
type Headless struct{}

func (Headless) Focus() error  { return ErrNotFocused }
func (Headless) Focused() bool { return false }
func (Headless) OpenPrompt()   { logger.Info("Prompt requested with no UI attached") }
