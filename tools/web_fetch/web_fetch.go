package web_fetch

import (
	"context"
	"strings"
	"time"

	"github.com/mohammad-safakhou/grocer/config"
	"github.com/mohammad-safakhou/grocer/tools/web_fetch/chromedp"
	"github.com/mohammad-safakhou/grocer/tools/web_fetch/jina"
	"github.com/mohammad-safakhou/grocer/tools/web_fetch/models"
)

const (
	DefaultTimeout  = 20 * time.Second
	MaxCharsDefault = 20000
)

// WebFetcher renders a page as plain text. A non-nil error means the page
// yielded nothing usable; the returned Result still carries URL and Status.
type WebFetcher interface {
	Exec(ctx context.Context, url string) (models.Result, error)
}

type FetcherType string

const (
	JinaFetcherType     FetcherType = "jina"
	ChromedpFetcherType FetcherType = "chromedp"
)

func NewWebFetcher(cfg config.ScrapeConfig) (WebFetcher, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxChars := cfg.MaxChars
	if maxChars < 0 {
		maxChars = MaxCharsDefault
	}

	switch FetcherType(cfg.Fetcher) {
	case JinaFetcherType, "":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, ErrMissingAPIKey
		}
		return jina.New(cfg.APIKey, cfg.Endpoint, timeout, maxChars), nil
	case ChromedpFetcherType:
		return &chromedp.Fetch{Timeout: timeout, MaxChars: maxChars}, nil
	default:
		return nil, ErrUnsupportedFetcher
	}
}
