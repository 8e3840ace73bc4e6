package commands

import (
	"math/rand/v2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"RateScope/internal/guess"
)

var guessFlags struct {
	min, max int
	seed     uint64
	reveal   bool
}

var guessCmd = &cobra.Command{
	Use:   "guess [--min 1] [--max 100]",
	Short: "Play the number guessing game in the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := &guess.Console{
			In:     cmd.InOrStdin(),
			Out:    cmd.OutOrStdout(),
			Min:    guessFlags.min,
			Max:    guessFlags.max,
			Reveal: guessFlags.reveal,
		}
		if guessFlags.seed != 0 {
			c.Rand = rand.New(rand.NewPCG(guessFlags.seed, guessFlags.seed))
		}
		won, err := c.Run()
		env.logger.Debug("game finished", zap.Int("won", won))
		return err
	},
}

func init() {
	guessCmd.Flags().IntVar(&guessFlags.min, "min", 1, "smallest number that can be drawn")
	guessCmd.Flags().IntVar(&guessFlags.max, "max", 100, "largest number that can be drawn")
	guessCmd.Flags().Uint64Var(&guessFlags.seed, "seed", 0, "fixed seed for repeatable games")
	guessCmd.Flags().BoolVar(&guessFlags.reveal, "reveal", false, "print the target before each round")
	rootCmd.AddCommand(guessCmd)
}
