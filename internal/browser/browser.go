// Package browser drives a real Chrome window for the page-automation demos.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Options describe one visit.
type Options struct {
	URL      string
	Headless bool
	// SlowMo pauses between steps so they can be followed on screen.
	SlowMo time.Duration
	// Hold keeps the page open after it has loaded.
	Hold      time.Duration
	Timeout   time.Duration
	UserAgent string
	Proxy     string
}

// Result is what a visit observed.
type Result struct {
	Title string
	URL   string
}

var presets = map[string]Options{
	"google": {URL: "https://www.google.com", Hold: 20 * time.Second},
	"thsrc":  {URL: "https://www.thsrc.com.tw/", Hold: 3 * time.Second, SlowMo: 500 * time.Millisecond},
}

// Preset returns a named demo visit.
func Preset(name string) (Options, bool) {
	o, ok := presets[name]
	return o, ok
}

// PresetNames lists the demo names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (o Options) validate() error {
	if o.URL == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(o.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url %q", o.URL)
	}
	return nil
}

func (o Options) steps(res *Result) []chromedp.Action {
	pause := func(actions []chromedp.Action) []chromedp.Action {
		if o.SlowMo > 0 {
			actions = append(actions, chromedp.Sleep(o.SlowMo))
		}
		return actions
	}
	var actions []chromedp.Action
	actions = append(actions, chromedp.Navigate(o.URL))
	actions = pause(actions)
	actions = append(actions, chromedp.WaitReady("body", chromedp.ByQuery))
	actions = pause(actions)
	actions = append(actions, chromedp.Title(&res.Title), chromedp.Location(&res.URL))
	if o.Hold > 0 {
		actions = append(actions, chromedp.Sleep(o.Hold))
	}
	return actions
}

// Visit launches Chrome, loads the page, reads its title, keeps the page
// open for Hold and closes the browser.
func Visit(ctx context.Context, o Options, logger *zap.Logger) (Result, error) {
	if err := o.validate(); err != nil {
		return Result{}, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", o.Headless))
	if o.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(o.UserAgent))
	}
	if o.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(o.Proxy))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancel := context.WithTimeout(browserCtx, o.Timeout+o.Hold+4*o.SlowMo)
	defer cancel()

	logger.Info("browser launched", zap.String("url", o.URL), zap.Bool("headless", o.Headless))
	var res Result
	if err := chromedp.Run(runCtx, o.steps(&res)...); err != nil {
		return Result{}, fmt.Errorf("visit %s: %w", o.URL, err)
	}
	logger.Info("browser closed", zap.String("title", res.Title))
	return res, nil
}
