package board

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RateScope/internal/refresh"
)

var t0 = time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC)

func ok[T any](items ...T) refresh.Outcome[[]T] {
	return refresh.Outcome[[]T]{ID: "ok", Value: items}
}

func failed[T any](err error) refresh.Outcome[[]T] {
	return refresh.Outcome[[]T]{ID: "err", Err: err}
}

func TestApply_SuccessReplacesInOrder(t *testing.T) {
	var s State[string]
	s.MarkBusy()

	Apply(&s, ok("USD", "JPY", "EUR"), t0)
	assert.Equal(t, []string{"USD", "JPY", "EUR"}, s.Items)
	assert.Equal(t, t0, s.UpdatedAt)
	assert.False(t, s.Busy)
	assert.Empty(t, s.Banner)

	Apply(&s, ok("GBP"), t0.Add(time.Minute))
	assert.Equal(t, []string{"GBP"}, s.Items, "snapshot replaced, not merged")
}

func TestApply_ErrorKeepsCache(t *testing.T) {
	var s State[string]
	Apply(&s, ok("USD"), t0)

	s.MarkBusy()
	Apply(&s, failed[string](errors.New("dial tcp: connection refused")), t0.Add(time.Hour))

	assert.Equal(t, []string{"USD"}, s.Items)
	assert.Equal(t, t0, s.UpdatedAt)
	assert.Contains(t, s.Banner, "connection refused")
	assert.False(t, s.Busy, "busy cleared so the user can retry")
}

func TestApply_ErrorWithoutCacheShowsExplicitState(t *testing.T) {
	var s State[string]
	Apply(&s, failed[string](errors.New("timeout")), t0)

	assert.True(t, s.Empty())
	assert.NotEmpty(t, s.Banner)
	assert.Equal(t, s.Banner, s.Status(t0))
}

func TestApply_EmptyResultIsFailure(t *testing.T) {
	var s State[string]
	Apply(&s, ok("USD"), t0)

	Apply(&s, ok[string](), t0.Add(time.Minute))
	assert.Equal(t, []string{"USD"}, s.Items)
	assert.Equal(t, "could not get data, please try again later", s.Banner)

	Apply(&s, refresh.Outcome[[]string]{Value: nil}, t0.Add(time.Minute))
	assert.Equal(t, []string{"USD"}, s.Items)
}

func TestApply_SameOutcomeTwiceIsIdempotent(t *testing.T) {
	var a, b State[string]
	o := ok("USD", "JPY")
	Apply(&a, o, t0)
	Apply(&b, o, t0)
	Apply(&b, o, t0)
	assert.Equal(t, a, b)
}

func TestApply_DoesNotAliasOutcome(t *testing.T) {
	var s State[string]
	o := ok("USD")
	Apply(&s, o, t0)
	o.Value[0] = "XXX"
	assert.Equal(t, "USD", s.Items[0])
}

func TestState_Status(t *testing.T) {
	var s State[string]
	assert.Equal(t, "no data yet", s.Status(t0))

	s.MarkBusy()
	assert.Equal(t, "loading...", s.Status(t0))

	Apply(&s, ok("USD"), t0)
	assert.Equal(t, "updated 3 minutes ago", s.Status(t0.Add(3*time.Minute)))
}

func TestState_Stale(t *testing.T) {
	var s State[string]
	assert.True(t, s.Stale(t0, 10*time.Minute))

	Apply(&s, ok("USD"), t0)
	assert.False(t, s.Stale(t0.Add(9*time.Minute), 10*time.Minute))
	assert.True(t, s.Stale(t0.Add(10*time.Minute), 10*time.Minute))
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	st := NewStore[string]()
	st.now = func() time.Time { return t0 }

	st.MarkBusy()
	require.True(t, st.Snapshot().Busy)

	st.Apply(ok("USD"))
	snap := st.Snapshot()
	snap.Items[0] = "changed"
	assert.Equal(t, "USD", st.Snapshot().Items[0])
	assert.Equal(t, t0, st.Snapshot().UpdatedAt)
}
