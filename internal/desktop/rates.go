package desktop

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"RateScope/internal/board"
	"RateScope/internal/calculator"
	"RateScope/internal/metrics"
	"RateScope/internal/rates"
	"RateScope/internal/refresh"
)

// ErrNoCurrency is returned by Convert when no currency is selected.
var ErrNoCurrency = errors.New("please choose a currency")

// RatesView renders the rate window.
type RatesView interface {
	Notifier
	Render(st board.State[rates.Rate], selectable []string)
	// Updated flashes a short success status.
	Updated()
}

type rateOutcome = refresh.Outcome[[]rates.Rate]

// RatesController drives the rate converter window.
type RatesController struct {
	opts   Options
	view   RatesView
	fetch  refresh.Op[[]rates.Rate]
	state  board.State[rates.Rate]
	runner *refresh.Runner[[]rates.Rate]
	poller *refresh.Poller[rateOutcome]
}

// NewRatesController wires fetch to view.
func NewRatesController(fetch refresh.Op[[]rates.Rate], view RatesView, opts Options) *RatesController {
	opts = opts.withDefaults()
	c := &RatesController{opts: opts, view: view, fetch: fetch}
	queue := refresh.NewQueue[rateOutcome]()
	c.runner = refresh.NewRunner(queue,
		refresh.WithName[[]rates.Rate]("bank-rates"),
		refresh.WithLogger[[]rates.Rate](opts.Logger),
		refresh.WithEmpty(refresh.EmptySlice[rates.Rate]),
		refresh.WithObserver(metrics.Observer[rates.Rate](opts.Metrics, "bank-rates")),
	)
	c.poller = refresh.NewPoller(queue, opts.PollInterval, c.apply, opts.Dispatch)
	return c
}

// Start begins polling for outcomes and launches the first fetch.
func (c *RatesController) Start(ctx context.Context) {
	go c.poller.Run(ctx)
	c.Refresh(ctx)
}

// Refresh launches a fetch, or tells the user one is already running.
func (c *RatesController) Refresh(ctx context.Context) {
	if c.runner.Busy() {
		c.view.Notify("Please wait", "Rates are being updated.")
		return
	}
	if _, err := c.runner.Launch(ctx, c.fetch); err != nil {
		c.opts.Logger.Debug("refresh not started", zap.Error(err))
		c.view.Notify("Please wait", "Rates are being updated.")
		return
	}
	c.state.MarkBusy()
	c.render()
}

func (c *RatesController) apply(o rateOutcome) {
	board.Apply(&c.state, o, c.opts.Now())
	c.render()
	if c.state.Banner != "" {
		c.view.Fail(c.state.Banner)
		return
	}
	c.view.Updated()
}

func (c *RatesController) render() {
	c.view.Render(c.state.Snapshot(), rates.Selectable(c.state.Items))
}

// Convert converts the entered amount into code at both sides.
func (c *RatesController) Convert(amountText, code string) (string, error) {
	if code == "" {
		return "", ErrNoCurrency
	}
	amount, err := calculator.ParseAmount(amountText)
	if err != nil {
		return "", err
	}
	conv, err := rates.Convert(c.state.Items, code, amount)
	if err != nil {
		return "", err
	}
	return conv.Summary(), nil
}

// State returns a copy of the board.
func (c *RatesController) State() board.State[rates.Rate] { return c.state.Snapshot() }
