package commands

import (
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"RateScope/internal/desktop"
	"RateScope/internal/report"
)

const appID = "tw.ratescope"

var ratesPrint bool

var ratesCmd = &cobra.Command{
	Use:   "rates [--print]",
	Short: "Open the currency converter, or print the current rate table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ratesPrint {
			st, err := fetchOnce(cmd.Context(), "bank-rates", bankRates())
			if rerr := report.Rates(cmd.OutOrStdout(), st, time.Now()); rerr != nil {
				return rerr
			}
			return err
		}

		a := app.NewWithID(appID)
		w := desktop.NewRatesWindow(a, bankRates(), desktop.Options{
			Logger:       env.logger,
			Metrics:      env.metrics,
			PollInterval: env.cfg.PollInterval,
		})
		w.ShowAndRun(cmd.Context())
		return nil
	},
}

func init() {
	ratesCmd.Flags().BoolVar(&ratesPrint, "print", false, "fetch once and print a table instead of opening a window")
	rootCmd.AddCommand(ratesCmd)
}
