// Package rates cleans scraped board rates and derives the views shown by
// the dashboard and the desktop converter.
package rates

import (
	"regexp"
	"sort"
	"strings"

	"RateScope/internal/calculator"
	"RateScope/internal/collector"
	"RateScope/internal/model"
)

// SuspendedText is shown for a side that is not quoted.
const SuspendedText = "暫停交易"

// Rate is one currency row from the board.
type Rate struct {
	Code string `json:"code"`
	Name string `json:"name"`
	// Buy and Sell are display strings; SuspendedText when not quoted.
	Buy       string   `json:"buy"`
	Sell      string   `json:"sell"`
	BuyValue  *float64 `json:"buy_value"`
	SellValue *float64 `json:"sell_value"`
}

// HasBuy reports whether the bank buys this currency.
func (r Rate) HasBuy() bool { return r.BuyValue != nil }

// HasSell reports whether the bank sells this currency.
func (r Rate) HasSell() bool { return r.SellValue != nil }

// Tradable reports whether both sides are quoted.
func (r Rate) Tradable() bool { return r.HasBuy() && r.HasSell() }

var codePattern = regexp.MustCompile(`\(([A-Z]{3})\)`)

// CurrencyCode splits a label such as "美金 (USD)" into code and name. A label
// without a parenthesised code is returned whole as the code.
func CurrencyCode(label string) (code, name string) {
	label = strings.TrimSpace(label)
	m := codePattern.FindStringSubmatchIndex(label)
	if m == nil {
		return label, label
	}
	code = label[m[2]:m[3]]
	name = strings.TrimSpace(label[:m[0]])
	if name == "" {
		name = code
	}
	return code, name
}

func parseSide(s string) (string, *float64) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "-", SuspendedText:
		return SuspendedText, nil
	}
	v, err := calculator.ParseRate(s)
	if err != nil {
		return SuspendedText, nil
	}
	return s, &v
}

// FromRecord converts one scraped row. ok is false for rows without a
// currency or without any quoted side.
func FromRecord(rec model.Record) (Rate, bool) {
	label := rec.Get(collector.FieldCurrency)
	if strings.TrimSpace(label) == "" {
		return Rate{}, false
	}
	r := Rate{}
	r.Code, r.Name = CurrencyCode(label)
	r.Buy, r.BuyValue = parseSide(rec.Get(collector.FieldSpotBuy))
	r.Sell, r.SellValue = parseSide(rec.Get(collector.FieldSpotSell))
	if !r.HasBuy() && !r.HasSell() {
		return Rate{}, false
	}
	return r, true
}

// Clean converts scraped rows to rates, keeping page order.
func Clean(records []model.Record) []Rate {
	out := make([]Rate, 0, len(records))
	for _, rec := range records {
		if r, ok := FromRecord(rec); ok {
			out = append(out, r)
		}
	}
	return out
}

// Selectable returns the codes offered by the desktop converter: currencies
// quoted on both sides, sorted.
func Selectable(rs []Rate) []string {
	return codes(rs, Rate.Tradable)
}

// WithBuy returns the codes offered by the dashboard selector, sorted.
func WithBuy(rs []Rate) []string {
	return codes(rs, Rate.HasBuy)
}

func codes(rs []Rate, keep func(Rate) bool) []string {
	var out []string
	for _, r := range rs {
		if keep(r) {
			out = append(out, r.Code)
		}
	}
	sort.Strings(out)
	return out
}

// Find returns the rate for code.
func Find(rs []Rate, code string) (Rate, bool) {
	for _, r := range rs {
		if r.Code == code {
			return r, true
		}
	}
	return Rate{}, false
}

// Stats summarises the board.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Suspended int `json:"suspended"`
}

// Summarize counts rows. A currency is active when the bank buys it.
func Summarize(rs []Rate) Stats {
	s := Stats{Total: len(rs)}
	for _, r := range rs {
		if r.HasBuy() {
			s.Active++
		}
	}
	s.Suspended = s.Total - s.Active
	return s
}
