package web_search

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/grocer/config"
	"github.com/mohammad-safakhou/grocer/tools/web_search/brave"
	"github.com/mohammad-safakhou/grocer/tools/web_search/models"
	"github.com/mohammad-safakhou/grocer/tools/web_search/serper"
	"github.com/mohammad-safakhou/grocer/tools/web_search/tavily"
)

// WebSearcher returns up to k hits for q. Site restriction travels inside q
// as a "site:" token, which every supported provider understands.
type WebSearcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	TavilyProvider Provider = "tavily"
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

const defaultTimeout = 15 * time.Second

var ErrUnsupportedProvider = &Error{"unsupported provider"}

func NewWebSearcher(cfg config.SearchConfig) (WebSearcher, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := &http.Client{Timeout: timeout}
	switch Provider(cfg.Provider) {
	case TavilyProvider, "":
		return tavily.Search{ApiKey: cfg.APIKey, Endpoint: cfg.Endpoint, Depth: cfg.Depth, Client: hc}, nil
	case SerperProvider:
		return serper.Search{ApiKey: cfg.APIKey, Endpoint: cfg.Endpoint, Client: hc}, nil
	case BraveProvider:
		return brave.Search{ApiKey: cfg.APIKey, Endpoint: cfg.Endpoint, Client: hc}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
