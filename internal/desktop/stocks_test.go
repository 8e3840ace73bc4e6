package desktop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RateScope/internal/board"
	"RateScope/internal/collector"
	"RateScope/internal/quotes"
	"RateScope/internal/scheduler"
)

type fakeStocksView struct {
	mu       sync.Mutex
	cards    []quotes.Card
	state    board.State[quotes.Quote]
	listings []collector.Listing
	status   string
	notices  []string
	failures []string
}

func (v *fakeStocksView) RenderCards(cards []quotes.Card, st board.State[quotes.Quote]) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards, v.state = cards, st
}

func (v *fakeStocksView) RenderListings(ls []collector.Listing, status string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listings, v.status = ls, status
}

func (v *fakeStocksView) Notify(title, _ string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, title)
}

func (v *fakeStocksView) Fail(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failures = append(v.failures, msg)
}

var listings = []collector.Listing{
	{Code: "1101", Name: "台泥"},
	{Code: "2330", Name: "台積電"},
}

func quotesFor(w *quotes.Watchlist) func(context.Context) ([]quotes.Quote, error) {
	return func(context.Context) ([]quotes.Quote, error) {
		var out []quotes.Quote
		for _, c := range w.Codes() {
			out = append(out, quotes.Quote{Code: c, Price: "100", Change: "+1"})
		}
		return out, nil
	}
}

func newStocks(t *testing.T, fetch func(context.Context) ([]quotes.Quote, error), w *quotes.Watchlist) (*StocksController, *fakeStocksView) {
	t.Helper()
	view := &fakeStocksView{}
	c := NewStocksController(StocksDeps{
		Watchlist: w,
		Quotes:    fetch,
		Directory: func(context.Context) ([]collector.Listing, error) { return listings, nil },
	}, view, Options{})
	return c, view
}

func settleStocks(c *StocksController) {
	c.quoteRunner.Wait()
	c.listRunner.Wait()
	c.quotePoller.Tick()
	c.listPoller.Tick()
}

func TestStocksController_DirectoryAndSearch(t *testing.T) {
	c, view := newStocks(t, nil, quotes.NewWatchlist())
	c.LoadDirectory(context.Background())
	assert.Equal(t, "loading...", view.status)
	settleStocks(c)

	assert.Equal(t, listings, view.listings)
	assert.Empty(t, view.status)

	c.Search("積")
	assert.Equal(t, []collector.Listing{listings[1]}, view.listings)
}

func TestStocksController_UpdateEmptyWatchlist(t *testing.T) {
	c, view := newStocks(t, nil, quotes.NewWatchlist())
	c.Update(context.Background())
	assert.Equal(t, []string{"Watchlist is empty"}, view.notices)
}

func TestStocksController_AddFetchesAndRemoveDropsCard(t *testing.T) {
	w := quotes.NewWatchlist()
	c, view := newStocks(t, quotesFor(w), w)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "2330"))
	settleStocks(c)
	require.Len(t, view.cards, 1)
	assert.False(t, view.cards[0].Waiting())
	assert.Equal(t, "100", view.cards[0].Quote.Price)

	assert.ErrorIs(t, c.Add(ctx, "2330"), quotes.ErrAlreadyWatched)

	require.NoError(t, c.Add(ctx, "1101"))
	settleStocks(c)
	require.Len(t, view.cards, 2)
	assert.Equal(t, "1101", view.cards[0].Code)

	c.Remove("2330")
	require.Len(t, view.cards, 1)
	assert.Equal(t, "1101", view.cards[0].Code)
	assert.Len(t, c.State().Items, 1)
}

func TestStocksController_FailedUpdateKeepsCards(t *testing.T) {
	w := quotes.NewWatchlist("2330")
	var fail atomic.Bool
	good := quotesFor(w)
	c, view := newStocks(t, func(ctx context.Context) ([]quotes.Quote, error) {
		if fail.Load() {
			return nil, errors.New("2330: timeout error: request timed out")
		}
		return good(ctx)
	}, w)

	c.Update(context.Background())
	settleStocks(c)
	fail.Store(true)
	c.Update(context.Background())
	settleStocks(c)

	require.Len(t, view.cards, 1)
	assert.False(t, view.cards[0].Waiting())
	assert.Len(t, view.failures, 1)
	assert.False(t, view.state.Busy)
}

func TestStocksController_BusyNotice(t *testing.T) {
	w := quotes.NewWatchlist("2330")
	release := make(chan struct{})
	c, view := newStocks(t, func(context.Context) ([]quotes.Quote, error) {
		<-release
		return []quotes.Quote{{Code: "2330"}}, nil
	}, w)

	c.Update(context.Background())
	c.Update(context.Background())
	assert.Equal(t, []string{"Please wait"}, view.notices)
	close(release)
	settleStocks(c)
}

func TestStocksController_AutoUpdate(t *testing.T) {
	w := quotes.NewWatchlist("2330")
	var calls atomic.Int32
	view := &fakeStocksView{}
	sched := scheduler.New(nil)
	c := NewStocksController(StocksDeps{
		Watchlist: w,
		Quotes: func(context.Context) ([]quotes.Quote, error) {
			calls.Add(1)
			return []quotes.Quote{{Code: "2330"}}, nil
		},
		Directory:          func(context.Context) ([]collector.Listing, error) { return nil, nil },
		Scheduler:          sched,
		AutoUpdateInterval: time.Second,
	}, view, Options{})

	require.NoError(t, c.SetAutoUpdate(context.Background(), true))
	assert.True(t, c.AutoUpdating())
	sched.Start()
	defer sched.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, c.SetAutoUpdate(context.Background(), false))
	assert.False(t, c.AutoUpdating())
	assert.Empty(t, view.notices, "scheduled updates never prompt")
}
