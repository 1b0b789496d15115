package chromedp

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-shiori/go-readability"
	"github.com/mohammad-safakhou/grocer/internal/helpers"
	"github.com/mohammad-safakhou/grocer/tools/web_fetch/models"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) grocer/1.0"

// Fetch renders pages in headless Chrome and extracts the main text with
// readability. It needs no credentials but a local Chrome install.
type Fetch struct {
	Timeout  time.Duration
	MaxChars int
}

func (f Fetch) Exec(ctx context.Context, target string) (models.Result, error) {
	u, err := parseTarget(target)
	if err != nil {
		return models.Result{URL: target}, err
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	t0 := time.Now()
	elapsed := func() int { return int(time.Since(t0) / time.Millisecond) }

	html, err := fetchHTML(ctx, target)
	if err != nil {
		return models.Result{URL: target, ElapsedMS: elapsed()}, fmt.Errorf("chromedp: render %s: %w", target, err)
	}

	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return models.Result{URL: target, Status: 200, ElapsedMS: elapsed()}, fmt.Errorf("chromedp: extract %s: %w", target, err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return models.Result{URL: target, Status: 200, ElapsedMS: elapsed()}, fmt.Errorf("chromedp: no readable text in %s", target)
	}

	return models.Result{
		URL:       target,
		Title:     strings.TrimSpace(article.Title),
		Text:      helpers.TruncateRunes(text, f.MaxChars),
		Status:    200,
		ElapsedMS: elapsed(),
	}, nil
}

func fetchHTML(ctx context.Context, target string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(userAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

func parseTarget(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if raw == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("chromedp: %q: %w", raw, models.ErrInvalidURL)
	}
	return u, nil
}
