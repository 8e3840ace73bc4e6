package quotes

import (
	"strconv"
	"strings"

	"RateScope/internal/collector"
	"RateScope/internal/model"
)

// Direction is the sign of a price change.
type Direction int

const (
	Flat Direction = iota
	Up
	Down
)

// Marker is the arrow drawn next to a change.
func (d Direction) Marker() string {
	switch d {
	case Up:
		return "▲"
	case Down:
		return "▼"
	default:
		return "–"
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "flat"
	}
}

// Quote is one scraped stock quote. Values are kept as displayed.
type Quote struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Change     string `json:"change"`
	ChangeRate string `json:"change_rate"`
	Open       string `json:"open"`
	High       string `json:"high"`
	Low        string `json:"low"`
	Volume     string `json:"volume"`
	PrevClose  string `json:"prev_close"`
	QuoteTime  string `json:"quote_time"`
	UpdateTime string `json:"update_time"`
}

// FromRecord maps a quote record. The watched code wins over the code shown
// on the page.
func FromRecord(r model.Record) Quote {
	q := Quote{
		Code:       r.Get(collector.FieldStockCode),
		Name:       r.Get(collector.FieldName),
		Price:      r.Get(collector.FieldPrice),
		Change:     r.Get(collector.FieldChange),
		ChangeRate: r.Get(collector.FieldChangeRate),
		Open:       r.Get(collector.FieldOpen),
		High:       r.Get(collector.FieldHigh),
		Low:        r.Get(collector.FieldLow),
		Volume:     r.Get(collector.FieldVolume),
		PrevClose:  r.Get(collector.FieldPrevClose),
		QuoteTime:  r.Get(collector.FieldQuoteTime),
		UpdateTime: r.Get(collector.FieldUpdateTime),
	}
	if q.Code == "" {
		q.Code = r.Get(collector.FieldCode)
	}
	return q
}

// FromRecords maps records, dropping those without a code.
func FromRecords(rs []model.Record) []Quote {
	out := make([]Quote, 0, len(rs))
	for _, r := range rs {
		if q := FromRecord(r); q.Code != "" {
			out = append(out, q)
		}
	}
	return out
}

// Direction parses Change. Unparseable or zero changes are flat.
func (q Quote) Direction() Direction {
	s := strings.TrimSpace(strings.ReplaceAll(q.Change, ",", ""))
	v, err := strconv.ParseFloat(s, 64)
	switch {
	case err != nil || v == 0:
		return Flat
	case v > 0:
		return Up
	default:
		return Down
	}
}

// Title is the card heading.
func (q Quote) Title() string {
	if q.Name == "" {
		return q.Code
	}
	return q.Name + " (" + q.Code + ")"
}

// ByCode indexes quotes by code.
func ByCode(qs []Quote) map[string]Quote {
	m := make(map[string]Quote, len(qs))
	for _, q := range qs {
		m[q.Code] = q
	}
	return m
}
