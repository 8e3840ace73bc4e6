package refresh

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBusy is returned by Launch while a previous run is still in flight.
	ErrBusy = errors.New("refresh already in flight")
	// ErrEmptyResult marks a fetch that succeeded but returned nothing.
	ErrEmptyResult = errors.New("no data returned")
)

// FaultError wraps a panic recovered from a fetch.
type FaultError struct {
	Value any
	Stack []byte
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("unexpected fault: %v", e.Value)
}

// Outcome is the result of one fetch attempt.
type Outcome[T any] struct {
	ID       string
	Value    T
	Err      error
	Started  time.Time
	Finished time.Time
}

// OK reports whether the fetch succeeded.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// Message is the user-visible error text, empty on success.
func (o Outcome[T]) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Duration is how long the fetch ran.
func (o Outcome[T]) Duration() time.Duration {
	return o.Finished.Sub(o.Started)
}
