package collector

import (
	"context"
	"sort"
	"strings"

	"github.com/gocolly/colly/v2"

	"RateScope/internal/extract"
)

// StockSection is the directory section holding ordinary shares.
const StockSection = "股票"

// Listing is one security from the exchange's ISIN directory.
type Listing struct {
	Code     string
	Name     string
	Industry string
}

// Label is the text shown in search results.
func (l Listing) Label() string { return l.Code + " " + l.Name }

// StockDirectory scrapes the exchange's listing directory.
type StockDirectory struct {
	url  string
	opts RenderOptions
}

// NewStockDirectory creates a directory reader for url.
func NewStockDirectory(url string, opts RenderOptions) *StockDirectory {
	return &StockDirectory{url: url, opts: opts.withDefaults()}
}

// List returns every listing in the ordinary share section, sorted by code.
// The directory table has section header rows spanning all columns; the
// first cell of a data row holds the code and name separated by a full-width
// space.
func (d *StockDirectory) List(ctx context.Context) ([]Listing, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(d.opts.UserAgent),
		colly.DetectCharset(),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(d.opts.Timeout)
	if d.opts.Proxy != "" {
		if err := c.SetProxy(d.opts.Proxy); err != nil {
			return nil, NewNetworkError(d.url, err)
		}
	}

	var (
		section  string
		listings []Listing
		fetchErr error
	)
	c.OnHTML("table tr", func(e *colly.HTMLElement) {
		cells := e.DOM.Find("td")
		switch cells.Length() {
		case 0:
			return
		case 1:
			section = extract.CleanText(cells.Text())
			return
		}
		if section != StockSection {
			return
		}
		code, name, ok := strings.Cut(strings.TrimSpace(cells.First().Text()), "\u3000")
		if !ok {
			return
		}
		l := Listing{Code: strings.TrimSpace(code), Name: strings.TrimSpace(name)}
		if cells.Length() > 4 {
			l.Industry = extract.CleanText(cells.Eq(4).Text())
		}
		if l.Code != "" {
			listings = append(listings, l)
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode >= 400 {
			fetchErr = ClassifyHTTPError(d.url, r.StatusCode)
			return
		}
		fetchErr = NewNetworkError(d.url, err)
	})

	if err := c.Visit(d.url); err != nil && fetchErr == nil {
		fetchErr = NewNetworkError(d.url, err)
	}
	c.Wait()
	if fetchErr != nil {
		return nil, fetchErr
	}

	sort.Slice(listings, func(i, j int) bool { return listings[i].Code < listings[j].Code })
	return listings, nil
}
