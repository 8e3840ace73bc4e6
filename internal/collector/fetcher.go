package collector

import (
	"context"

	"RateScope/internal/model"
)

// Fetcher retrieves and parses one remote source into records.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.Record, error)
	Name() string
}

// CodeSource supplies the codes a QuoteFetcher should look up on each run.
type CodeSource interface {
	Codes() []string
}

// StaticCodes is a fixed CodeSource.
type StaticCodes []string

func (s StaticCodes) Codes() []string { return append([]string(nil), s...) }
