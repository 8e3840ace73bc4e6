package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Input errors are worded for display to the user.
var (
	// ErrEmptyAmount means the amount field was left blank.
	ErrEmptyAmount = errors.New("please enter an amount")
	// ErrInvalidAmount means the amount is not a finite number.
	ErrInvalidAmount = errors.New("please enter a valid number")
	// ErrNonPositiveAmount means the amount is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be greater than 0")
	// ErrInvalidRate means a rate is missing, zero or negative.
	ErrInvalidRate = errors.New("rate must be positive")
)

// ParseAmount reads a user-entered amount. Thousands separators are allowed.
func ParseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, ErrEmptyAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	if v <= 0 {
		return 0, ErrNonPositiveAmount
	}
	return v, nil
}

// ParseRate reads a quoted rate such as "30.125".
func ParseRate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrInvalidRate
	}
	return v, nil
}

// Convert returns how much foreign currency amount local units buy at rate,
// rounded to two decimals.
func Convert(amount, rate float64) (float64, error) {
	if rate <= 0 {
		return 0, ErrInvalidRate
	}
	return Round2(amount / rate), nil
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders v with thousands separators and two decimals.
func FormatAmount(v float64) string {
	s := humanize.CommafWithDigits(Round2(v), 2)
	if i := strings.IndexByte(s, '.'); i < 0 {
		return s + ".00"
	} else if len(s)-i == 2 {
		return s + "0"
	}
	return s
}
