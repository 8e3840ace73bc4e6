package collector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"RateScope/internal/model"
)

// MockFetcher returns controllable data for development and testing.
type MockFetcher struct {
	NameValue string
	Records   []model.Record
	Err       error
	FetchFunc func(ctx context.Context) ([]model.Record, error)
}

func (m *MockFetcher) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

func (m *MockFetcher) Fetch(ctx context.Context) ([]model.Record, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.Record, len(m.Records))
	for i, r := range m.Records {
		out[i] = r.Clone()
	}
	return out, nil
}

// Collector fetches records and converts them to domain items.
type Collector[T any] struct {
	Fetcher Fetcher
	Convert func([]model.Record) []T
	Logger  *zap.Logger
}

// NewCollector creates a Collector. A nil logger disables logging.
func NewCollector[T any](f Fetcher, convert func([]model.Record) []T, logger *zap.Logger) *Collector[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector[T]{Fetcher: f, Convert: convert, Logger: logger}
}

// Collect runs one fetch and conversion. Records dropped by Convert are
// logged but not treated as an error; an empty result is left to the caller.
func (c *Collector[T]) Collect(ctx context.Context) ([]T, error) {
	records, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c.Fetcher.Name(), err)
	}
	items := c.Convert(records)
	if dropped := len(records) - len(items); dropped > 0 {
		c.Logger.Debug("records dropped during conversion",
			zap.String("source", c.Fetcher.Name()),
			zap.Int("records", len(records)),
			zap.Int("dropped", dropped))
	}
	return items, nil
}
