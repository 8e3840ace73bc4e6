// Package board holds the application state a presentation layer renders and
// the reconciler that applies fetch outcomes to it.
package board

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"RateScope/internal/refresh"
)

// State is the latest successful snapshot plus the status of the refresh loop.
type State[T any] struct {
	Items     []T
	UpdatedAt time.Time
	Banner    string
	Busy      bool
}

// Empty reports whether no fetch has succeeded yet.
func (s *State[T]) Empty() bool { return len(s.Items) == 0 }

// MarkBusy records that a refresh was launched.
func (s *State[T]) MarkBusy() { s.Busy = true }

// Snapshot returns a copy that is safe to hand to a renderer.
func (s *State[T]) Snapshot() State[T] {
	out := *s
	out.Items = append([]T(nil), s.Items...)
	return out
}

// Status is a one-line description of the data's freshness.
func (s *State[T]) Status(now time.Time) string {
	switch {
	case s.Busy:
		return "loading..."
	case s.Banner != "" && s.Empty():
		return s.Banner
	case s.Empty():
		return "no data yet"
	default:
		return "updated " + humanize.RelTime(s.UpdatedAt, now, "ago", "from now")
	}
}

// Stale reports whether the data is missing or older than maxAge.
func (s *State[T]) Stale(now time.Time, maxAge time.Duration) bool {
	return s.Empty() || now.Sub(s.UpdatedAt) >= maxAge
}

// Apply reconciles one outcome into the state. A success with at least one
// item replaces the snapshot wholesale; anything else keeps the previous
// snapshot and only sets the banner.
func Apply[T any](s *State[T], o refresh.Outcome[[]T], now time.Time) {
	s.Busy = false

	if o.OK() && len(o.Value) > 0 {
		s.Items = append([]T(nil), o.Value...)
		s.UpdatedAt = now
		s.Banner = ""
		return
	}

	err := o.Err
	if err == nil {
		err = refresh.ErrEmptyResult
	}
	s.Banner = BannerFor(err)
}

// BannerFor turns a fetch error into the message shown to the user.
func BannerFor(err error) string {
	if errors.Is(err, refresh.ErrEmptyResult) {
		return "could not get data, please try again later"
	}
	return fmt.Sprintf("update failed: %v", err)
}

// Store guards a State for presentation layers that render from several
// goroutines, such as the web dashboard.
type Store[T any] struct {
	mu    sync.RWMutex
	state State[T]
	now   func() time.Time
}

// NewStore creates an empty Store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{now: time.Now}
}

// Apply reconciles an outcome under the lock.
func (st *Store[T]) Apply(o refresh.Outcome[[]T]) {
	st.mu.Lock()
	defer st.mu.Unlock()
	Apply(&st.state, o, st.now())
}

// MarkBusy records a launched refresh.
func (st *Store[T]) MarkBusy() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state.MarkBusy()
}

// Snapshot returns a copy of the current state.
func (st *Store[T]) Snapshot() State[T] {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.Snapshot()
}
