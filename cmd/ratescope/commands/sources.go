package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"RateScope/internal/board"
	"RateScope/internal/collector"
	"RateScope/internal/metrics"
	"RateScope/internal/quotes"
	"RateScope/internal/rates"
	"RateScope/internal/refresh"
)

func bankRates() refresh.Op[[]rates.Rate] {
	f := collector.NewBankRateFetcher(collector.NewHTTPRenderer(renderOptions()), env.cfg.Sources.BankRatesURL)
	return collector.NewCollector(f, rates.Clean, env.logger).Collect
}

// stockQuotes returns the quote op and the renderer that must be closed once
// the op is no longer used.
func stockQuotes(src collector.CodeSource) (refresh.Op[[]quotes.Quote], io.Closer) {
	r := collector.NewBrowserRenderer(renderOptions(), env.cfg.Headless())
	f := collector.NewQuoteFetcher(r, src, collector.QuoteOptions{
		URLTemplate:       env.cfg.Sources.StockQuoteURL,
		Concurrency:       env.cfg.Scrape.Concurrency,
		RequestsPerSecond: env.cfg.Scrape.RequestsPerSecond,
		Logger:            env.logger,
	})
	return collector.NewCollector(f, quotes.FromRecords, env.logger).Collect, r
}

func stockDirectory() refresh.Op[[]collector.Listing] {
	return collector.NewStockDirectory(env.cfg.Sources.StockDirectoryURL, renderOptions()).List
}

// fetchOnce runs op through the same runner, queue and reconciler the
// interactive frontends use and returns the resulting board.
func fetchOnce[E any](ctx context.Context, name string, op refresh.Op[[]E]) (board.State[E], error) {
	var (
		st      board.State[E]
		lastErr error
	)
	queue := refresh.NewQueue[refresh.Outcome[[]E]]()
	runner := refresh.NewRunner(queue,
		refresh.WithName[[]E](name),
		refresh.WithLogger[[]E](env.logger),
		refresh.WithEmpty(refresh.EmptySlice[E]),
		refresh.WithObserver(metrics.Observer[E](env.metrics, name)),
	)
	poller := refresh.NewPoller(queue, 0, func(o refresh.Outcome[[]E]) {
		board.Apply(&st, o, time.Now())
		lastErr = o.Err
	}, nil)

	if _, err := runner.Launch(ctx, op); err != nil {
		return st, err
	}
	st.MarkBusy()
	runner.Wait()
	poller.Tick()

	if lastErr != nil {
		return st, fmt.Errorf("%s: %w", name, lastErr)
	}
	return st, nil
}
