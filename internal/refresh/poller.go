package refresh

import (
	"context"
	"time"
)

// DefaultPollInterval is how often the UI context drains the queue.
const DefaultPollInterval = 100 * time.Millisecond

// Poller drains a Queue on the UI context and applies each item in FIFO order.
type Poller[T any] struct {
	queue    *Queue[T]
	interval time.Duration
	apply    func(T)
	dispatch func(func())
}

// NewPoller creates a Poller. dispatch hands a closure to the UI context
// (fyne.Do for the desktop apps); nil runs it on the polling goroutine.
func NewPoller[T any](queue *Queue[T], interval time.Duration, apply func(T), dispatch func(func())) *Poller[T] {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Poller[T]{queue: queue, interval: interval, apply: apply, dispatch: dispatch}
}

// Tick drains everything currently queued and applies it. Returns the number
// of items handed to dispatch.
func (p *Poller[T]) Tick() int {
	items := p.queue.Drain()
	if len(items) == 0 {
		return 0
	}
	p.dispatch(func() {
		for _, it := range items {
			p.apply(it)
		}
	})
	return len(items)
}

// Run ticks every interval until ctx is done.
func (p *Poller[T]) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Watch drains whenever the queue signals readiness instead of on a timer.
func (p *Poller[T]) Watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.queue.Ready():
			p.Tick()
		}
	}
}
