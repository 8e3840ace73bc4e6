package dashboard

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"RateScope/internal/calculator"
	"RateScope/internal/rates"
)

const (
	defaultAmount   = "1000"
	defaultCurrency = "USD"
)

type indexPage struct {
	Status     string
	UpdatedAt  string
	Banner     string
	Busy       bool
	Interval   string
	Amount     string
	Currency   string
	Currencies []string
	Result     string
	InputError string
	Rates      []rates.Rate
	Stats      rates.Stats
	SourceURL  string
}

func (s *Server) handleIndex(c *gin.Context) {
	s.refreshIfStale(c.Request.Context())

	now := s.now()
	st := s.store.Snapshot()
	page := indexPage{
		Status:    st.Status(now),
		Banner:    st.Banner,
		Busy:      st.Busy,
		Interval:  s.opts.RefreshInterval.String(),
		Amount:    c.DefaultQuery("amount", defaultAmount),
		Currency:  c.Query("currency"),
		Rates:     st.Items,
		Stats:     rates.Summarize(st.Items),
		SourceURL: s.opts.SourceURL,
	}
	if !st.UpdatedAt.IsZero() {
		page.UpdatedAt = st.UpdatedAt.Format(time.DateTime)
	}

	page.Currencies = rates.WithBuy(st.Items)
	if page.Currency == "" || !slices.Contains(page.Currencies, page.Currency) {
		page.Currency = pickDefault(page.Currencies)
	}
	if page.Currency != "" {
		page.Result, page.InputError = convertAtSell(st.Items, page.Currency, page.Amount)
	}

	c.HTML(http.StatusOK, "index.html", page)
}

func pickDefault(codes []string) string {
	if slices.Contains(codes, defaultCurrency) {
		return defaultCurrency
	}
	if len(codes) > 0 {
		return codes[0]
	}
	return ""
}

// convertAtSell returns the formatted sell-side conversion or an inline
// input error.
func convertAtSell(rs []rates.Rate, code, rawAmount string) (string, string) {
	amount, err := calculator.ParseAmount(rawAmount)
	if err != nil {
		return "", err.Error()
	}
	conv, err := rates.Convert(rs, code, amount)
	if err != nil {
		return "", err.Error()
	}
	if conv.AtSell == nil {
		return "", "no sell rate for " + code + " right now"
	}
	return calculator.FormatAmount(*conv.AtSell) + " " + code, ""
}

func (s *Server) handleRefresh(c *gin.Context) {
	if err := s.Refresh(c.Request.Context()); err != nil {
		s.logger.Debug("manual refresh skipped", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleRates(c *gin.Context) {
	now := s.now()
	st := s.store.Snapshot()
	resp := gin.H{
		"status": st.Status(now),
		"banner": st.Banner,
		"busy":   st.Busy,
		"stats":  rates.Summarize(st.Items),
		"rates":  st.Items,
	}
	if st.UpdatedAt.IsZero() {
		resp["updated_at"] = nil
	} else {
		resp["updated_at"] = st.UpdatedAt
	}
	if len(st.Items) == 0 {
		resp["rates"] = []rates.Rate{}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleConvert(c *gin.Context) {
	st := s.store.Snapshot()
	if st.Empty() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no rate data yet"})
		return
	}
	amount, err := calculator.ParseAmount(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conv, err := rates.Convert(st.Items, c.Query("currency"), amount)
	switch {
	case errors.Is(err, rates.ErrUnknownCurrency), errors.Is(err, rates.ErrNotQuoted):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, conv)
}
