package rates

import (
	"errors"
	"fmt"

	"RateScope/internal/calculator"
)

var (
	// ErrUnknownCurrency means the code is not in the current rate table.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrNotQuoted means neither side of the currency is quoted.
	ErrNotQuoted = errors.New("currency is not traded right now")
)

// Conversion is the result of converting a local amount into a currency.
// AtBuy and AtSell are nil when the side is not quoted.
type Conversion struct {
	Amount   float64  `json:"amount"`
	Currency string   `json:"currency"`
	AtBuy    *float64 `json:"at_buy,omitempty"`
	AtSell   *float64 `json:"at_sell,omitempty"`
}

// Convert converts amount into code at both quoted sides.
func Convert(rs []Rate, code string, amount float64) (Conversion, error) {
	r, ok := Find(rs, code)
	if !ok {
		return Conversion{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	c := Conversion{Amount: amount, Currency: code}
	if r.HasBuy() {
		v, err := calculator.Convert(amount, *r.BuyValue)
		if err != nil {
			return Conversion{}, err
		}
		c.AtBuy = &v
	}
	if r.HasSell() {
		v, err := calculator.Convert(amount, *r.SellValue)
		if err != nil {
			return Conversion{}, err
		}
		c.AtSell = &v
	}
	if c.AtBuy == nil && c.AtSell == nil {
		return Conversion{}, fmt.Errorf("%w: %s", ErrNotQuoted, code)
	}
	return c, nil
}

// Summary renders the conversion the way the desktop converter shows it.
func (c Conversion) Summary() string {
	s := fmt.Sprintf("%s TWD", calculator.FormatAmount(c.Amount))
	if c.AtBuy != nil {
		s += fmt.Sprintf("\nat buy rate: %s %s", calculator.FormatAmount(*c.AtBuy), c.Currency)
	}
	if c.AtSell != nil {
		s += fmt.Sprintf("\nat sell rate: %s %s", calculator.FormatAmount(*c.AtSell), c.Currency)
	}
	return s
}
