package render

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// Chrome renders pages in a headless browser. Each Render gets a fresh
// browser context so a wedged tab from one cycle cannot leak into the next.
type Chrome struct {
	headless bool
	timeout  time.Duration
	limiter  *hostLimiter
}

func NewChrome(headless bool, timeout time.Duration) *Chrome {
	return &Chrome{
		headless: headless,
		timeout:  timeout,
		limiter:  newHostLimiter(0.5, 2),
	}
}

func (c *Chrome) Render(ctx context.Context, url, waitSelector string) (*goquery.Document, error) {
	if err := c.limiter.wait(ctx, url); err != nil {
		return nil, fmt.Errorf("render limiter: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	// One deadline covers navigation and the container wait.
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
	defer cancelTimeout()

	log.Printf("[render] navigating url=%s wait=%q timeout=%s", url, waitSelector, c.timeout)

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}
	return doc, nil
}
