package commands

import (
	"errors"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"RateScope/internal/collector"
	"RateScope/internal/desktop"
	"RateScope/internal/quotes"
	"RateScope/internal/report"
	"RateScope/internal/scheduler"
)

var stocksPrint bool

var stocksCmd = &cobra.Command{
	Use:   "stocks [--print] [CODE...]",
	Short: "Open the stock watchlist, or print quotes for the given codes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		codes := append(append([]string(nil), env.cfg.Stocks.Watchlist...), args...)
		watchlist := quotes.NewWatchlist(codes...)

		if stocksPrint {
			if watchlist.Len() == 0 {
				return errors.New("no stock codes given; pass codes or set stocks.watchlist")
			}
			op, closer := stockQuotes(collector.StaticCodes(watchlist.Codes()))
			defer closer.Close()
			st, err := fetchOnce(cmd.Context(), "stock-quotes", op)
			if rerr := report.Quotes(cmd.OutOrStdout(), watchlist.Codes(), st, time.Now()); rerr != nil {
				return rerr
			}
			return err
		}

		op, closer := stockQuotes(watchlist)
		defer func() {
			if err := closer.Close(); err != nil {
				env.logger.Warn("close renderer", zap.Error(err))
			}
		}()
		a := app.NewWithID(appID)
		w := desktop.NewStocksWindow(a, desktop.StocksDeps{
			Watchlist:          watchlist,
			Quotes:             op,
			Directory:          stockDirectory(),
			Scheduler:          scheduler.New(env.logger),
			AutoUpdateInterval: env.cfg.Stocks.AutoUpdateInterval,
		}, desktop.Options{
			Logger:       env.logger,
			Metrics:      env.metrics,
			PollInterval: env.cfg.PollInterval,
		})
		w.ShowAndRun(cmd.Context())
		return nil
	},
}

func init() {
	stocksCmd.Flags().BoolVar(&stocksPrint, "print", false, "fetch once and print a table instead of opening a window")
	rootCmd.AddCommand(stocksCmd)
}
