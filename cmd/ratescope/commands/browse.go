package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"RateScope/internal/browser"
)

var browseFlags struct {
	wait     time.Duration
	slowMo   time.Duration
	headless bool
}

var browseCmd = &cobra.Command{
	Use:   "browse <url|" + strings.Join(browser.PresetNames(), "|") + ">",
	Short: "Open a page in Chrome, print its title and close it again.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, ok := browser.Preset(args[0])
		if !ok {
			o = browser.Options{URL: args[0]}
		}
		flags := cmd.Flags()
		if !ok || flags.Changed("wait") {
			o.Hold = browseFlags.wait
		}
		if flags.Changed("slow-mo") {
			o.SlowMo = browseFlags.slowMo
		}
		o.Headless = browseFlags.headless
		o.Timeout = env.cfg.Scrape.Timeout
		o.UserAgent = env.cfg.Scrape.UserAgent
		o.Proxy = env.cfg.Scrape.Proxy

		res, err := browser.Visit(cmd.Context(), o, env.logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "title: %s\nurl:   %s\n", res.Title, res.URL)
		return nil
	},
}

func init() {
	browseCmd.Flags().DurationVar(&browseFlags.wait, "wait", 3*time.Second, "keep the page open this long after loading")
	browseCmd.Flags().DurationVar(&browseFlags.slowMo, "slow-mo", 0, "pause between steps")
	browseCmd.Flags().BoolVar(&browseFlags.headless, "headless", false, "run without a visible window")
	rootCmd.AddCommand(browseCmd)
}
