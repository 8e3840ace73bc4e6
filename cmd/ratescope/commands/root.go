package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"RateScope/internal/collector"
	"RateScope/internal/config"
	"RateScope/internal/logging"
	"RateScope/internal/metrics"
)

// env is filled in before any subcommand runs.
var env struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

var configPath string

var rootCmd = &cobra.Command{
	Use:           "ratescope",
	Short:         "ratescope fetches bank rates and stock quotes without blocking the UI.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
		if err != nil {
			return err
		}
		env.cfg, env.logger, env.metrics = cfg, logger, metrics.New()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = env.logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
}

// ExecuteContext runs the command tree and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func renderOptions() collector.RenderOptions {
	return collector.RenderOptions{
		Timeout:   env.cfg.Scrape.Timeout,
		UserAgent: env.cfg.Scrape.UserAgent,
		Proxy:     env.cfg.Scrape.Proxy,
	}
}
