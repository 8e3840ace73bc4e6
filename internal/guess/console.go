package guess

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Console plays rounds over a line-oriented reader and writer until the
// player declines another round or input ends.
type Console struct {
	In     io.Reader
	Out    io.Writer
	Min    int
	Max    int
	Rand   *rand.Rand
	Reveal bool
}

// Run plays until the player answers "n" or input ends. It returns the
// number of rounds won.
func (c *Console) Run() (int, error) {
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	in := bufio.NewScanner(c.In)
	won := 0
	defer fmt.Fprintln(c.Out, "game over")

	for {
		ok, err := c.round(in)
		if err != nil {
			return won, err
		}
		if !ok {
			return won, nil
		}
		won++

		fmt.Fprint(c.Out, "play again? (y/n) ")
		if !in.Scan() {
			fmt.Fprintln(c.Out)
			return won, in.Err()
		}
		if strings.TrimSpace(in.Text()) == "n" {
			return won, nil
		}
	}
}

// round plays one game. It reports false when input ended before a win.
func (c *Console) round(in *bufio.Scanner) (bool, error) {
	g, err := NewGame(c.Min, c.Max, c.Rand)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(c.Out, "=== guess the number ===")
	if c.Reveal {
		fmt.Fprintf(c.Out, "(target is %d)\n", g.Target())
	}

	for {
		lo, hi := g.Range()
		fmt.Fprintf(c.Out, "guess a number between %d and %d:\n", lo, hi)
		if !in.Scan() {
			return false, in.Err()
		}
		n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err != nil {
			fmt.Fprintln(c.Out, "please enter a whole number")
			continue
		}

		switch g.Guess(n) {
		case Correct:
			fmt.Fprintln(c.Out, "correct!")
			fmt.Fprintf(c.Out, "you took %d attempts\n", g.Attempts())
			return true, nil
		case OutOfRange:
			fmt.Fprintln(c.Out, "enter a number within the range")
			continue
		case TooHigh:
			fmt.Fprintln(c.Out, "lower")
		case TooLow:
			fmt.Fprintln(c.Out, "higher")
		}
		fmt.Fprintf(c.Out, "attempts so far: %d\n", g.Attempts())
	}
}
