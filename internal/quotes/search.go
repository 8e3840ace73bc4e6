package quotes

import (
	"strings"

	"RateScope/internal/collector"
)

// Search returns listings whose code or name contains query, ignoring case.
// An empty query returns every listing.
func Search(listings []collector.Listing, query string) []collector.Listing {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return listings
	}
	var out []collector.Listing
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Code), query) || strings.Contains(strings.ToLower(l.Name), query) {
			out = append(out, l)
		}
	}
	return out
}

// Card is what the stocks app shows for one watched code.
type Card struct {
	Code  string
	Quote *Quote
}

// Waiting reports whether no quote has arrived for the code yet.
func (c Card) Waiting() bool { return c.Quote == nil }

// Cards pairs each watched code with its quote from the latest snapshot.
func Cards(codes []string, snapshot []Quote) []Card {
	idx := ByCode(snapshot)
	cards := make([]Card, len(codes))
	for i, code := range codes {
		cards[i] = Card{Code: code}
		if q, ok := idx[code]; ok {
			cards[i].Quote = &q
		}
	}
	return cards
}
