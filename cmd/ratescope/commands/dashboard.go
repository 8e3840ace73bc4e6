package commands

import (
	"github.com/spf13/cobra"

	"RateScope/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [--addr :8501]",
	Short: "Serve the currency rate dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			env.cfg.Dashboard.Addr = addr
		}
		srv := dashboard.New(bankRates(), dashboard.Options{
			Addr:            env.cfg.Dashboard.Addr,
			RefreshInterval: env.cfg.Dashboard.RefreshInterval,
			SourceURL:       env.cfg.Sources.BankRatesURL,
			Logger:          env.logger,
			Metrics:         env.metrics,
		})
		return srv.Run(cmd.Context())
	},
}

func init() {
	dashboardCmd.Flags().String("addr", "", "listen address (overrides dashboard.addr)")
	rootCmd.AddCommand(dashboardCmd)
}
