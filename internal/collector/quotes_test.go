package collector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	mu       sync.Mutex
	pages    map[string]string
	waitFor  []string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (r *fakeRenderer) Render(_ context.Context, url, waitFor string) ([]byte, error) {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(r.delay)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.waitFor = append(r.waitFor, waitFor)
	page, ok := r.pages[url]
	if !ok {
		return nil, ClassifyHTTPError(url, 404)
	}
	return []byte(page), nil
}

func (r *fakeRenderer) Close() error { return nil }

func quotePage(code, name, price, change string) string {
	return fmt.Sprintf(`<html><body><main class="main">
<time class="last-time" id="lastQuoteTime">13:30</time>
<span class="astock-code" c-model="id">%s</span>
<h3 class="astock-name" c-model="name">%s</h3>
<div class="quotes-info">
  <div class="deal">%s</div>
  <span class="chg" c-model="change">%s</span>
  <span class="chg-rate" c-model="changeRate">0.5%%</span>
  <div class="info-row">
    <span c-model-dazzle="text:open,class:openUpDn">580</span>
    <span c-model-dazzle="text:high,class:highUpDn">590</span>
    <span c-model-dazzle="text:low,class:lowUpDn">578</span>
    <span c-model="volume">25,000</span>
    <span c-model="previousClose">582</span>
  </div>
</div>
</main></body></html>`, code, name, price, change)
}

const quoteURL = "https://quotes.test/stock/%s"

func TestQuoteFetcher_FetchOrderAndFields(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{
		"https://quotes.test/stock/2330": quotePage("2330", "台積電", "585", "+3"),
		"https://quotes.test/stock/2317": quotePage("2317", "鴻海", "105", "-1"),
	}}
	now := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	f := NewQuoteFetcher(r, StaticCodes{"2330", "2317"}, QuoteOptions{
		URLTemplate: quoteURL,
		Concurrency: 2,
		Now:         func() time.Time { return now },
	})

	recs, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "2330", recs[0].Get(FieldStockCode))
	assert.Equal(t, "台積電", recs[0].Get(FieldName))
	assert.Equal(t, "585", recs[0].Get(FieldPrice))
	assert.Equal(t, "25,000", recs[0].Get(FieldVolume))
	assert.Equal(t, "2024-05-02 09:30:00", recs[0].Get(FieldUpdateTime))
	assert.Equal(t, "2317", recs[1].Get(FieldStockCode))
	for _, w := range r.waitFor {
		assert.Equal(t, QuoteReadySelector, w)
	}
}

func TestQuoteFetcher_SkipsFailedCodes(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{
		"https://quotes.test/stock/2330": quotePage("2330", "台積電", "585", "+3"),
		"https://quotes.test/stock/9999": "<html><body>not found</body></html>",
	}}
	f := NewQuoteFetcher(r, StaticCodes{"0000", "2330", "9999"}, QuoteOptions{URLTemplate: quoteURL})

	recs, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2330", recs[0].Get(FieldStockCode))
}

func TestQuoteFetcher_AllFail(t *testing.T) {
	f := NewQuoteFetcher(&fakeRenderer{}, StaticCodes{"0000", "1111"}, QuoteOptions{URLTemplate: quoteURL})

	recs, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, recs)
	assert.True(t, strings.Contains(err.Error(), "0000") && strings.Contains(err.Error(), "1111"))
	assert.True(t, IsType(err, ErrorTypeClient))
}

func TestQuoteFetcher_NoCodes(t *testing.T) {
	f := NewQuoteFetcher(&fakeRenderer{}, StaticCodes{}, QuoteOptions{URLTemplate: quoteURL})
	recs, err := f.Fetch(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, recs)
}

func TestQuoteFetcher_ConcurrencyBound(t *testing.T) {
	pages := map[string]string{}
	var codes StaticCodes
	for i := 0; i < 8; i++ {
		code := fmt.Sprintf("%04d", 1000+i)
		codes = append(codes, code)
		pages[fmt.Sprintf(quoteURL, code)] = quotePage(code, "x", "1", "0")
	}
	r := &fakeRenderer{pages: pages, delay: 20 * time.Millisecond}
	f := NewQuoteFetcher(r, codes, QuoteOptions{URLTemplate: quoteURL, Concurrency: 3})

	recs, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 8)
	assert.LessOrEqual(t, r.peak.Load(), int32(3))
}

func TestQuoteFetcher_URL(t *testing.T) {
	f := NewQuoteFetcher(&fakeRenderer{}, StaticCodes{}, QuoteOptions{URLTemplate: "https://www.wantgoo.com/stock/%s/technical-chart"})
	assert.Equal(t, "https://www.wantgoo.com/stock/2330/technical-chart", f.URL(" 2330 "))
}
