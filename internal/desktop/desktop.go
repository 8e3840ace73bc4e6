// Package desktop implements the fyne rate converter and stock watchlist
// windows. Controllers own the application state and must only be called on
// the UI goroutine; fetch outcomes reach them through a refresh.Poller whose
// dispatch is fyne.Do.
package desktop

import (
	"time"

	"go.uber.org/zap"

	"RateScope/internal/metrics"
)

// Options are shared by both controllers.
type Options struct {
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	PollInterval time.Duration
	// Dispatch runs a closure on the UI goroutine. Nil calls it directly.
	Dispatch func(func())
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Dispatch == nil {
		o.Dispatch = func(fn func()) { fn() }
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Notifier shows modal feedback.
type Notifier interface {
	// Notify shows an informational message.
	Notify(title, message string)
	// Fail shows an error message.
	Fail(message string)
}
