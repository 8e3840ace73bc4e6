package desktop

import (
	"context"
	"time"

	"go.uber.org/zap"

	"RateScope/internal/board"
	"RateScope/internal/collector"
	"RateScope/internal/metrics"
	"RateScope/internal/quotes"
	"RateScope/internal/refresh"
	"RateScope/internal/scheduler"
)

const autoUpdateJob = "stocks-auto-update"

// StocksView renders the watchlist window.
type StocksView interface {
	Notifier
	RenderCards(cards []quotes.Card, st board.State[quotes.Quote])
	RenderListings(listings []collector.Listing, status string)
}

type (
	quoteOutcome   = refresh.Outcome[[]quotes.Quote]
	listingOutcome = refresh.Outcome[[]collector.Listing]
)

// StocksController drives the watchlist window.
type StocksController struct {
	opts      Options
	view      StocksView
	watchlist *quotes.Watchlist
	quotes    refresh.Op[[]quotes.Quote]
	directory refresh.Op[[]collector.Listing]
	sched     *scheduler.Scheduler
	interval  time.Duration

	state       board.State[quotes.Quote]
	listings    board.State[collector.Listing]
	query       string
	quoteRunner *refresh.Runner[[]quotes.Quote]
	quotePoller *refresh.Poller[quoteOutcome]
	listRunner  *refresh.Runner[[]collector.Listing]
	listPoller  *refresh.Poller[listingOutcome]
}

// StocksDeps are the collaborators of a StocksController.
type StocksDeps struct {
	Watchlist *quotes.Watchlist
	// Quotes fetches the current watchlist.
	Quotes refresh.Op[[]quotes.Quote]
	// Directory lists the securities offered in the search panel.
	Directory          refresh.Op[[]collector.Listing]
	Scheduler          *scheduler.Scheduler
	AutoUpdateInterval time.Duration
}

// NewStocksController wires the collaborators to view.
func NewStocksController(deps StocksDeps, view StocksView, opts Options) *StocksController {
	opts = opts.withDefaults()
	if deps.Watchlist == nil {
		deps.Watchlist = quotes.NewWatchlist()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = scheduler.New(opts.Logger)
	}
	if deps.AutoUpdateInterval <= 0 {
		deps.AutoUpdateInterval = time.Minute
	}
	c := &StocksController{
		opts:      opts,
		view:      view,
		watchlist: deps.Watchlist,
		quotes:    deps.Quotes,
		directory: deps.Directory,
		sched:     deps.Scheduler,
		interval:  deps.AutoUpdateInterval,
	}

	qq := refresh.NewQueue[quoteOutcome]()
	c.quoteRunner = refresh.NewRunner(qq,
		refresh.WithName[[]quotes.Quote]("stock-quotes"),
		refresh.WithLogger[[]quotes.Quote](opts.Logger),
		refresh.WithEmpty(refresh.EmptySlice[quotes.Quote]),
		refresh.WithObserver(metrics.Observer[quotes.Quote](opts.Metrics, "stock-quotes")),
	)
	c.quotePoller = refresh.NewPoller(qq, opts.PollInterval, c.applyQuotes, opts.Dispatch)

	lq := refresh.NewQueue[listingOutcome]()
	c.listRunner = refresh.NewRunner(lq,
		refresh.WithName[[]collector.Listing]("stock-directory"),
		refresh.WithLogger[[]collector.Listing](opts.Logger),
		refresh.WithEmpty(refresh.EmptySlice[collector.Listing]),
		refresh.WithObserver(metrics.Observer[collector.Listing](opts.Metrics, "stock-directory")),
	)
	c.listPoller = refresh.NewPoller(lq, opts.PollInterval, c.applyListings, opts.Dispatch)
	return c
}

// Start begins polling, loads the directory and fetches any preloaded
// watchlist.
func (c *StocksController) Start(ctx context.Context) {
	go c.quotePoller.Run(ctx)
	go c.listPoller.Run(ctx)
	c.sched.Start()
	go func() {
		<-ctx.Done()
		c.sched.Stop()
	}()

	c.LoadDirectory(ctx)
	c.renderCards()
	if c.watchlist.Len() > 0 {
		c.launchQuotes(ctx)
	}
}

// LoadDirectory (re)loads the security list.
func (c *StocksController) LoadDirectory(ctx context.Context) {
	if _, err := c.listRunner.Launch(ctx, c.directory); err != nil {
		return
	}
	c.listings.MarkBusy()
	c.renderListings()
}

func (c *StocksController) applyListings(o listingOutcome) {
	board.Apply(&c.listings, o, c.opts.Now())
	c.renderListings()
}

// Search filters the listing panel.
func (c *StocksController) Search(query string) {
	c.query = query
	c.renderListings()
}

func (c *StocksController) renderListings() {
	status := c.listings.Status(c.opts.Now())
	if !c.listings.Empty() && !c.listings.Busy && c.listings.Banner == "" {
		status = ""
	}
	c.view.RenderListings(quotes.Search(c.listings.Items, c.query), status)
}

// Update fetches quotes for the watchlist on user request.
func (c *StocksController) Update(ctx context.Context) {
	if c.watchlist.Len() == 0 {
		c.view.Notify("Watchlist is empty", "Add a stock first.")
		return
	}
	if c.quoteRunner.Busy() {
		c.view.Notify("Please wait", "Quotes are being updated.")
		return
	}
	c.launchQuotes(ctx)
}

// autoUpdate is the scheduled variant of Update and never prompts.
func (c *StocksController) autoUpdate(ctx context.Context) {
	if c.watchlist.Len() == 0 || c.quoteRunner.Busy() {
		return
	}
	c.launchQuotes(ctx)
}

func (c *StocksController) launchQuotes(ctx context.Context) {
	if _, err := c.quoteRunner.Launch(ctx, c.quotes); err != nil {
		return
	}
	c.state.MarkBusy()
	c.renderCards()
}

func (c *StocksController) applyQuotes(o quoteOutcome) {
	board.Apply(&c.state, o, c.opts.Now())
	c.renderCards()
	if c.state.Banner != "" {
		c.view.Fail(c.state.Banner)
	}
}

// SetAutoUpdate turns the periodic update on or off.
func (c *StocksController) SetAutoUpdate(ctx context.Context, on bool) error {
	if !on {
		c.sched.Cancel(autoUpdateJob)
		return nil
	}
	return c.sched.Every(autoUpdateJob, c.interval, func() {
		c.opts.Dispatch(func() { c.autoUpdate(ctx) })
	})
}

// AutoUpdating reports whether the periodic update is on.
func (c *StocksController) AutoUpdating() bool { return c.sched.Active(autoUpdateJob) }

// Add puts code on the watchlist and fetches it straight away.
func (c *StocksController) Add(ctx context.Context, code string) error {
	if err := c.watchlist.Add(code); err != nil {
		return err
	}
	c.opts.Logger.Info("stock added", zap.String("code", code))
	c.renderCards()
	if !c.quoteRunner.Busy() {
		c.launchQuotes(ctx)
	}
	return nil
}

// Remove drops code and its card.
func (c *StocksController) Remove(code string) {
	if !c.watchlist.Remove(code) {
		return
	}
	kept := c.state.Items[:0:0]
	for _, q := range c.state.Items {
		if q.Code != code {
			kept = append(kept, q)
		}
	}
	c.state.Items = kept
	c.opts.Logger.Info("stock removed", zap.String("code", code))
	c.renderCards()
}

func (c *StocksController) renderCards() {
	c.view.RenderCards(quotes.Cards(c.watchlist.Codes(), c.state.Items), c.state.Snapshot())
}

// State returns a copy of the quote board.
func (c *StocksController) State() board.State[quotes.Quote] { return c.state.Snapshot() }
