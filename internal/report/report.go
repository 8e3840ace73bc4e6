// Package report renders board snapshots as console tables.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"RateScope/internal/board"
	"RateScope/internal/quotes"
	"RateScope/internal/rates"
)

// Rates writes the rate table followed by the board summary.
func Rates(w io.Writer, st board.State[rates.Rate], now time.Time) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Bank of Taiwan spot rates")
	t.AppendHeader(table.Row{"Code", "Currency", "Buy", "Sell"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, r := range st.Items {
		t.AppendRow(table.Row{r.Code, r.Name, r.Buy, r.Sell})
	}
	s := rates.Summarize(st.Items)
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d currencies", s.Total), fmt.Sprintf("%d active", s.Active), fmt.Sprintf("%d suspended", s.Suspended)})

	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(), st.Status(now))
	return err
}

// Quotes writes one row per watched code, in watchlist order. Codes without a
// quote in the snapshot are listed as waiting.
func Quotes(w io.Writer, codes []string, st board.State[quotes.Quote], now time.Time) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Watchlist")
	t.AppendHeader(table.Row{"Code", "Name", "Price", "Change", "Change %", "Open", "High", "Low", "Volume", "Prev close", "Quote time"})
	for _, c := range quotes.Cards(codes, st.Items) {
		if c.Waiting() {
			t.AppendRow(table.Row{c.Code, "waiting for data"})
			continue
		}
		q := c.Quote
		t.AppendRow(table.Row{
			q.Code, q.Name, q.Price,
			q.Direction().Marker() + " " + q.Change, q.ChangeRate,
			q.Open, q.High, q.Low, q.Volume, q.PrevClose, q.QuoteTime,
		})
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(), st.Status(now))
	return err
}
