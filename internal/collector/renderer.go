package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// ErrRendererClosed is returned by Render after Close.
var ErrRendererClosed = errors.New("renderer closed")

// Renderer loads a page and returns its HTML as UTF-8. waitFor is a CSS
// selector that must be visible before the page is read; renderers that do
// not execute scripts ignore it.
type Renderer interface {
	Render(ctx context.Context, url, waitFor string) ([]byte, error)
	Close() error
}

// RenderOptions configure both renderer kinds.
type RenderOptions struct {
	Timeout   time.Duration
	UserAgent string
	Proxy     string
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}

// HTTPRenderer fetches static pages with a plain HTTP client. Requests are
// never retried.
type HTTPRenderer struct {
	client *resty.Client
}

// NewHTTPRenderer creates an HTTPRenderer.
func NewHTTPRenderer(opts RenderOptions) *HTTPRenderer {
	opts = opts.withDefaults()
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetRetryCount(0)
	if opts.Proxy != "" {
		client.SetProxy(opts.Proxy)
	}
	return &HTTPRenderer{client: client}
}

func (r *HTTPRenderer) Render(ctx context.Context, url, _ string) ([]byte, error) {
	resp, err := r.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, NewNetworkError(url, err)
	}
	if resp.IsError() {
		return nil, ClassifyHTTPError(url, resp.StatusCode())
	}
	return decodeBody(url, resp.Body(), resp.Header().Get("Content-Type"))
}

func (r *HTTPRenderer) Close() error { return nil }

// decodeBody converts a response body to UTF-8 using the declared or sniffed
// charset. Big5 pages are common on Taiwanese sites.
func decodeBody(url string, body []byte, contentType string) ([]byte, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, NewParseError(url, "unsupported charset", err)
	}
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, NewParseError(url, "decode body", err)
	}
	return out, nil
}

// BrowserRenderer loads pages in a headless Chrome so script-rendered content
// is present. One browser is started lazily and shared; each Render uses its
// own tab.
type BrowserRenderer struct {
	opts     RenderOptions
	headless bool

	mu            sync.Mutex
	started       bool
	closed        bool
	startErr      error
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewBrowserRenderer creates a BrowserRenderer. The browser starts on first use.
func NewBrowserRenderer(opts RenderOptions, headless bool) *BrowserRenderer {
	return &BrowserRenderer{opts: opts.withDefaults(), headless: headless}
}

func (r *BrowserRenderer) start() (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRendererClosed
	}
	if !r.started {
		r.started = true
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", r.headless),
			chromedp.UserAgent(r.opts.UserAgent),
		)
		if r.opts.Proxy != "" {
			allocOpts = append(allocOpts, chromedp.ProxyServer(r.opts.Proxy))
		}
		allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
		browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
		if err := chromedp.Run(browserCtx); err != nil {
			cancelBrowser()
			cancelAlloc()
			r.startErr = fmt.Errorf("start browser: %w", err)
		} else {
			r.browserCtx = browserCtx
			r.cancelAlloc = cancelAlloc
			r.cancelBrowser = cancelBrowser
		}
	}
	return r.browserCtx, r.startErr
}

func (r *BrowserRenderer) Render(ctx context.Context, url, waitFor string) ([]byte, error) {
	browserCtx, err := r.start()
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.opts.Timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	actions := []chromedp.Action{chromedp.Navigate(url)}
	if waitFor != "" {
		actions = append(actions, chromedp.WaitVisible(waitFor, chromedp.ByQuery))
	}
	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return nil, NewNetworkError(url, err)
	}
	return []byte(html), nil
}

// Close shuts the browser down if it was started. Later Renders fail with
// ErrRendererClosed.
func (r *BrowserRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.cancelBrowser != nil {
		r.cancelBrowser()
		r.cancelAlloc()
		r.cancelBrowser, r.cancelAlloc = nil, nil
	}
	return nil
}
