// Package guess is a console number-guessing game.
package guess

import (
	"errors"
	"math/rand/v2"
)

// Verdict is the result of one guess.
type Verdict int

const (
	OutOfRange Verdict = iota
	TooHigh
	TooLow
	Correct
)

// ErrBadRange is returned when min is not below max.
var ErrBadRange = errors.New("min must be less than max")

// Game is one round. The open range narrows after every wrong guess.
type Game struct {
	target   int
	min, max int
	attempts int
}

// NewGame picks a target in [min, max].
func NewGame(min, max int, rng *rand.Rand) (*Game, error) {
	if min >= max {
		return nil, ErrBadRange
	}
	return &Game{
		target: min + rng.IntN(max-min+1),
		min:    min,
		max:    max,
	}, nil
}

// Guess scores n. Every numeric guess counts as an attempt, including ones
// outside the current range.
func (g *Game) Guess(n int) Verdict {
	g.attempts++
	switch {
	case n < g.min || n > g.max:
		return OutOfRange
	case n == g.target:
		return Correct
	case n > g.target:
		g.max = n - 1
		return TooHigh
	default:
		g.min = n + 1
		return TooLow
	}
}

// Range returns the bounds the target is still known to lie within.
func (g *Game) Range() (int, int) { return g.min, g.max }

func (g *Game) Attempts() int { return g.attempts }

func (g *Game) Target() int { return g.target }
