package railway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type BrowserOptions struct {
	// path to a chrome or chromium binary, chromedp searches the usual
	// locations when empty
	ExecPath string
	// how long to wait for the results to render, defaults to 20 seconds
	WaitTimeout time.Duration
	// extra time given to the page after the results appear, defaults to 2
	// seconds, a negative value skips it
	SettleDelay time.Duration
}

// BrowserFetcher renders the search page in a headless chrome session.
// Every call to Fetch starts its own browser and tears it down on return.
type BrowserFetcher struct {
	opts BrowserOptions
}

func NewBrowserFetcher(opts BrowserOptions) BrowserFetcher {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 20 * time.Second
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	} else if opts.SettleDelay == 0 {
		opts.SettleDelay = 2 * time.Second
	}
	return BrowserFetcher{opts: opts}
}

func (f BrowserFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	if f.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.opts.ExecPath))
	}
	return opts
}

func (f BrowserFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "BrowserFetcher:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			slog.DebugContext(ctx, fmt.Sprintf(format, args...))
		}),
	)
	defer cancelBrowser()

	// starts the browser
	err := chromedp.Run(browserCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to start browser")
		return nil, fmt.Errorf("start browser: %w", err)
	}

	slog.DebugContext(ctx, "navigating", "url", url)
	err = chromedp.Run(browserCtx, chromedp.Navigate(url))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to navigate")
		return nil, fmt.Errorf("navigate: %w", err)
	}

	// the render wait only starts once the page has loaded
	waitCtx, cancelWait := context.WithTimeout(browserCtx, f.opts.WaitTimeout)
	defer cancelWait()
	err = chromedp.Run(
		waitCtx,
		chromedp.WaitReady(".single-trip-wrapper", chromedp.ByQuery),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search results never appeared")
		return nil, fmt.Errorf("wait for search results: %w", err)
	}

	var html string
	err = chromedp.Run(
		browserCtx,
		chromedp.Sleep(f.opts.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read rendered page")
		return nil, fmt.Errorf("read rendered page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}
