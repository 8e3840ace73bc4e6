package collector

import (
	"bytes"
	"context"

	"RateScope/internal/extract"
	"RateScope/internal/model"
)

// BankRateFetcher scrapes the bank's board rate page.
type BankRateFetcher struct {
	renderer Renderer
	url      string
	schema   extract.Schema
}

// NewBankRateFetcher creates a fetcher for the rate page at url.
func NewBankRateFetcher(renderer Renderer, url string) *BankRateFetcher {
	return &BankRateFetcher{renderer: renderer, url: url, schema: BankRateSchema}
}

func (f *BankRateFetcher) Name() string { return "bank-rates" }

// Fetch returns one record per table row. A page without any matching rows
// yields an empty slice and no error.
func (f *BankRateFetcher) Fetch(ctx context.Context) ([]model.Record, error) {
	body, err := f.renderer.Render(ctx, f.url, "")
	if err != nil {
		return nil, err
	}
	records, err := f.schema.Extract(bytes.NewReader(body))
	if err != nil {
		return nil, NewParseError(f.url, "extract rates", err)
	}
	return records, nil
}
