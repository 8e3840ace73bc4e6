package refresh

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Op is the fetch a Runner drives to completion.
type Op[T any] func(ctx context.Context) (T, error)

// Runner executes at most one Op at a time on its own goroutine and delivers
// each Outcome to a Queue.
type Runner[T any] struct {
	name    string
	queue   *Queue[Outcome[T]]
	busy    atomic.Bool
	empty   func(T) bool
	observe func(Outcome[T])
	logger  *zap.Logger
	now     func() time.Time
	wg      sync.WaitGroup
}

// Option configures a Runner.
type Option[T any] func(*Runner[T])

// WithName labels log lines and metrics.
func WithName[T any](name string) Option[T] {
	return func(r *Runner[T]) { r.name = name }
}

// WithLogger sets the logger.
func WithLogger[T any](l *zap.Logger) Option[T] {
	return func(r *Runner[T]) { r.logger = l }
}

// WithEmpty turns successful but empty values into ErrEmptyResult outcomes.
func WithEmpty[T any](empty func(T) bool) Option[T] {
	return func(r *Runner[T]) { r.empty = empty }
}

// WithObserver is called with every outcome before it is queued.
func WithObserver[T any](fn func(Outcome[T])) Option[T] {
	return func(r *Runner[T]) { r.observe = fn }
}

// WithClock overrides time.Now.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(r *Runner[T]) { r.now = now }
}

// NewRunner creates a Runner delivering to queue.
func NewRunner[T any](queue *Queue[Outcome[T]], opts ...Option[T]) *Runner[T] {
	r := &Runner[T]{
		name:   "refresh",
		queue:  queue,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EmptySlice reports whether a slice result is nil or has no elements.
func EmptySlice[E any](v []E) bool { return len(v) == 0 }

// Busy reports whether a run is in flight.
func (r *Runner[T]) Busy() bool { return r.busy.Load() }

// Launch starts op on a new goroutine and returns the run ID. If a run is
// already in flight nothing is started and ErrBusy is returned. The run is
// detached from ctx cancellation; only op's own timeouts stop it.
func (r *Runner[T]) Launch(ctx context.Context, op Op[T]) (string, error) {
	if !r.busy.CompareAndSwap(false, true) {
		r.logger.Debug("launch rejected, run in flight", zap.String("runner", r.name))
		return "", ErrBusy
	}

	id := uuid.NewString()
	r.logger.Info("refresh started", zap.String("runner", r.name), zap.String("id", id))

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		// Busy is released after the outcome is queued.
		defer r.busy.Store(false)
		var o Outcome[T]
		defer func() {
			r.report(o)
			r.queue.Push(o)
		}()
		o = r.execute(context.WithoutCancel(ctx), id, op)
	}()
	return id, nil
}

// Wait blocks until every launched run has delivered its outcome.
func (r *Runner[T]) Wait() { r.wg.Wait() }

func (r *Runner[T]) execute(ctx context.Context, id string, op Op[T]) (o Outcome[T]) {
	o = Outcome[T]{ID: id, Started: r.now()}
	defer func() {
		if v := recover(); v != nil {
			o.Err = &FaultError{Value: v, Stack: debug.Stack()}
		}
		o.Finished = r.now()
	}()

	o.Value, o.Err = op(ctx)
	if o.Err == nil && r.empty != nil && r.empty(o.Value) {
		o.Err = ErrEmptyResult
	}
	return o
}

func (r *Runner[T]) report(o Outcome[T]) {
	if o.OK() {
		r.logger.Info("refresh finished",
			zap.String("runner", r.name),
			zap.String("id", o.ID),
			zap.Duration("took", o.Duration()))
	} else {
		r.logger.Warn("refresh failed",
			zap.String("runner", r.name),
			zap.String("id", o.ID),
			zap.Error(o.Err))
	}
	if r.observe != nil {
		r.observe(o)
	}
}
