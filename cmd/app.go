package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mohammad-safakhou/grocer/config"
	"github.com/mohammad-safakhou/grocer/internal/assistant"
	"github.com/mohammad-safakhou/grocer/internal/telemetry"
	"github.com/mohammad-safakhou/grocer/provider"
	"github.com/mohammad-safakhou/grocer/session"
	"github.com/mohammad-safakhou/grocer/session/inmemory"
	"github.com/mohammad-safakhou/grocer/session/redis_store"
	"github.com/mohammad-safakhou/grocer/tools/web_fetch"
	"github.com/mohammad-safakhou/grocer/tools/web_search"
	"go.uber.org/zap"
)

// app is the wired process: config, clients, store and assistant
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *telemetry.Metrics
	store     session.Store
	assistant *assistant.Assistant
	disabled  []string
	closers   []func() error
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.LoadConfig(opts.cfgPath)
	if err != nil {
		return nil, err
	}
	if opts.debug {
		cfg.General.Debug = true
		cfg.General.LogLevel = "debug"
	}
	logger, err := telemetry.NewLogger(cfg.General.LogLevel, cfg.General.Debug)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() error { _ = logger.Sync(); return nil })
	if cfg.Telemetry.Enabled {
		a.metrics = telemetry.NewMetrics()
	}

	deps := assistant.Deps{Logger: logger, Metrics: a.metrics, Gate: web_fetch.NewGate(cfg.Scrape.Interval)}

	// a missing key disables its component, never the whole process
	llm, err := provider.NewProvider(cfg.LLM)
	switch {
	case errors.Is(err, provider.ErrMissingAPIKey):
		a.disabled = append(a.disabled, "language model (set GROCER_LLM_API_KEY or OPENAI_API_KEY)")
	case err != nil:
		return nil, err
	default:
		deps.LLM = llm
	}

	searcher, err := web_search.NewWebSearcher(cfg.Search)
	switch {
	case errors.Is(err, web_search.ErrMissingAPIKey):
		a.disabled = append(a.disabled, "web search (set GROCER_SEARCH_API_KEY or TAVILY_API_KEY)")
	case err != nil:
		return nil, err
	default:
		deps.Searcher = searcher
	}

	fetcher, err := web_fetch.NewWebFetcher(cfg.Scrape)
	switch {
	case errors.Is(err, web_fetch.ErrMissingAPIKey):
		a.disabled = append(a.disabled, "page scraping (set GROCER_SCRAPE_API_KEY or JINA_API_KEY)")
	case err != nil:
		return nil, err
	default:
		deps.Fetcher = fetcher
	}

	store, closeStore, err := newStore(ctx, cfg.Session)
	if err != nil {
		return nil, err
	}
	a.store = store
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	a.assistant = assistant.New(cfg, deps)
	for _, d := range a.disabled {
		logger.Warn("component disabled", zap.String("component", d))
	}
	return a, nil
}

func newStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func() error, error) {
	switch session.StoreType(cfg.Store) {
	case session.InMemoryStore, "":
		return inmemory.NewInMemorySessionStore(), nil, nil
	case session.RedisStore:
		client, err := redis_store.Conn(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redis_store.NewRedisSessionStore(client, cfg.TTL), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session store %q", cfg.Store)
	}
}

// printDisabled writes the startup banner listing disabled components
func (a *app) printDisabled(w io.Writer) {
	if len(a.disabled) == 0 {
		return
	}
	fmt.Fprintln(w, "Running with reduced functionality:")
	for _, d := range a.disabled {
		fmt.Fprintf(w, "  - %s is disabled\n", d)
	}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
