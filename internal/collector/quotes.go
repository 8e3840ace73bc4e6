package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"RateScope/internal/extract"
	"RateScope/internal/model"
)

// QuoteOptions tune a QuoteFetcher.
type QuoteOptions struct {
	// URLTemplate holds one %s for the stock code.
	URLTemplate string
	// Concurrency bounds pages loaded at once. Values below 1 mean 1.
	Concurrency int
	// RequestsPerSecond paces page loads. Zero disables pacing.
	RequestsPerSecond float64
	Logger            *zap.Logger
	Now               func() time.Time
}

// QuoteFetcher loads one quote page per watched code. Codes that fail are
// logged and skipped; the fetch fails only when every code fails.
type QuoteFetcher struct {
	renderer Renderer
	codes    CodeSource
	schema   extract.Schema
	urlTmpl  string
	limit    int
	limiter  *rate.Limiter
	logger   *zap.Logger
	now      func() time.Time
}

// NewQuoteFetcher creates a QuoteFetcher reading codes from src on every Fetch.
func NewQuoteFetcher(renderer Renderer, src CodeSource, opts QuoteOptions) *QuoteFetcher {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &QuoteFetcher{
		renderer: renderer,
		codes:    src,
		schema:   StockQuoteSchema,
		urlTmpl:  opts.URLTemplate,
		limit:    opts.Concurrency,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

func (f *QuoteFetcher) Name() string { return "stock-quotes" }

// Fetch returns records in the order codes were listed.
func (f *QuoteFetcher) Fetch(ctx context.Context) ([]model.Record, error) {
	codes := f.codes.Codes()
	if len(codes) == 0 {
		return nil, nil
	}

	results := make([]*model.Record, len(codes))
	errs := make([]error, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)
	for i, code := range codes {
		g.Go(func() error {
			if err := f.limiter.Wait(gctx); err != nil {
				errs[i] = err
				return nil
			}
			rec, err := f.fetchOne(gctx, code)
			if err != nil {
				f.logger.Warn("quote fetch failed", zap.String("code", code), zap.Error(err))
				errs[i] = fmt.Errorf("%s: %w", code, err)
				return nil
			}
			results[i] = &rec
			return nil
		})
	}
	_ = g.Wait()

	records := make([]model.Record, 0, len(codes))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	if len(records) == 0 {
		return nil, errors.Join(errs...)
	}
	return records, nil
}

func (f *QuoteFetcher) fetchOne(ctx context.Context, code string) (model.Record, error) {
	url := f.URL(code)
	body, err := f.renderer.Render(ctx, url, QuoteReadySelector)
	if err != nil {
		return model.Record{}, err
	}
	records, err := f.schema.Extract(bytes.NewReader(body))
	if err != nil {
		return model.Record{}, NewParseError(url, "extract quote", err)
	}
	if len(records) == 0 {
		return model.Record{}, NewParseError(url, "quote panel not found", nil)
	}
	rec := records[0]
	rec.Set(FieldStockCode, code)
	rec.Set(FieldUpdateTime, f.now().Format(time.DateTime))
	return rec, nil
}

// URL returns the quote page for code.
func (f *QuoteFetcher) URL(code string) string {
	return fmt.Sprintf(f.urlTmpl, strings.TrimSpace(code))
}
