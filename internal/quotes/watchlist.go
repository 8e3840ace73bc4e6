// Package quotes models the stock watchlist, its quotes and the listing
// search used by the stocks app.
package quotes

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	ErrEmptyCode      = errors.New("stock code is empty")
	ErrAlreadyWatched = errors.New("stock is already in the watchlist")
)

// Watchlist is the set of codes the user tracks. It is safe for concurrent
// use and never persisted.
type Watchlist struct {
	mu    sync.Mutex
	codes map[string]struct{}
}

// NewWatchlist creates a watchlist holding codes.
func NewWatchlist(codes ...string) *Watchlist {
	w := &Watchlist{codes: make(map[string]struct{})}
	for _, c := range codes {
		_ = w.Add(c)
	}
	return w
}

// Add inserts code.
func (w *Watchlist) Add(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCode
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.codes[code]; ok {
		return ErrAlreadyWatched
	}
	w.codes[code] = struct{}{}
	return nil
}

// Remove deletes code and reports whether it was present.
func (w *Watchlist) Remove(code string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.codes[code]; !ok {
		return false
	}
	delete(w.codes, code)
	return true
}

// Contains reports whether code is watched.
func (w *Watchlist) Contains(code string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.codes[code]
	return ok
}

// Codes returns a sorted copy of the watched codes.
func (w *Watchlist) Codes() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.codes))
	for c := range w.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (w *Watchlist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.codes)
}
