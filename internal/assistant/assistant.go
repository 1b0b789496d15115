package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/grocer/config"
	"github.com/mohammad-safakhou/grocer/internal/telemetry"
	"github.com/mohammad-safakhou/grocer/models"
	"github.com/mohammad-safakhou/grocer/provider"
	"github.com/mohammad-safakhou/grocer/session"
	"github.com/mohammad-safakhou/grocer/tools/web_fetch"
	"github.com/mohammad-safakhou/grocer/tools/web_search"
	"go.uber.org/zap"
)

// Deps are the external clients a turn talks to. A nil client disables the
// component that needs it.
type Deps struct {
	LLM      provider.Provider
	Searcher web_search.WebSearcher
	Fetcher  web_fetch.WebFetcher
	Gate     *web_fetch.Gate
	Logger   *zap.Logger
	Metrics  *telemetry.Metrics
}

// Assistant runs rewrite, search, scrape and compose for one turn at a time
type Assistant struct {
	retailers []Retailer
	rewriter  *Rewriter
	searcher  *Searcher
	scraper   *Scraper
	composer  *Composer
	logger    *zap.Logger
	metrics   *telemetry.Metrics
}

func New(cfg *config.Config, deps Deps) *Assistant {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gate := deps.Gate
	if gate == nil {
		gate = web_fetch.NewGate(cfg.Scrape.Interval)
	}
	retailers := RetailersFromConfig(cfg.Retailers)
	return &Assistant{
		retailers: retailers,
		rewriter:  NewRewriter(deps.LLM, cfg.LLM.Rewrite, logger),
		searcher:  NewSearcher(deps.Searcher, cfg.Search.MaxResults, cfg.Search.MaxTotalResults, logger, deps.Metrics),
		scraper:   NewScraper(deps.Fetcher, gate, logger, deps.Metrics),
		composer:  NewComposer(deps.LLM, cfg.LLM.Answer, retailers, logger),
		logger:    logger.Named("assistant"),
		metrics:   deps.Metrics,
	}
}

func (a *Assistant) Retailers() []Retailer { return a.retailers }

// Turn is everything one question produced. Answer.Stream is still unread.
type Turn struct {
	ID         string
	Question   string
	Query      string
	Results    models.ResultSet
	Presence   Presence
	Rewrite    Rewrite
	Search     Search
	Enrichment Enrichment
	Answer     Answer
}

// Turn runs the pipeline for question against the prior history. It never
// fails: every stage degrades to a default value and reports why.
func (a *Assistant) Turn(ctx context.Context, question string, history session.History, progress Progress) *Turn {
	progress = progressOrNop(progress)
	a.metrics.TurnStarted()
	t := &Turn{ID: uuid.NewString(), Question: question}
	log := a.logger.With(zap.String("turn", t.ID))

	start := time.Now()
	t.Rewrite = a.rewriter.Rewrite(ctx, question, history)
	a.observe("rewrite", start, t.Rewrite.Outcome)
	t.Query = t.Rewrite.Query
	if t.Rewrite.Reason == ReasonUpstreamError {
		progress.Warning("rewriter", fmt.Sprintf("Could not enhance search query: %v", t.Rewrite.Err))
	}
	progress.QueryRewritten(t.Query)

	start = time.Now()
	t.Search = a.searcher.Search(ctx, t.Query, a.retailers)
	a.observe("search", start, t.Search.Outcome)
	for _, f := range t.Search.Failures {
		progress.Warning("searcher", fmt.Sprintf("Error searching %s: %v", f.Retailer.URL, f.Err))
	}
	if t.Search.Reason == ReasonMissingCredential {
		progress.Warning("searcher", "Search API key not set, searching is disabled")
	}
	t.Results = t.Search.Results

	start = time.Now()
	t.Enrichment = a.scraper.Enrich(ctx, &t.Results, progress)
	a.observe("scrape", start, t.Enrichment.Outcome)
	if t.Enrichment.Failed > 0 && t.Enrichment.Reason != ReasonMissingCredential {
		progress.Warning("scraper", fmt.Sprintf("Could not scrape %d of %d pages", t.Enrichment.Failed, t.Results.Len()))
	}

	start = time.Now()
	t.Answer = a.composer.Answer(ctx, question, t.Results, history)
	a.observe("compose", start, t.Answer.Outcome)
	t.Presence = t.Answer.Presence

	log.Info("turn prepared",
		zap.String("query", t.Query),
		zap.Int("results", t.Results.Len()),
		zap.Int("scraped", t.Enrichment.Scraped),
		zap.Strings("retailers_with_data", t.Presence.Names()),
		zap.String("rewrite", string(t.Rewrite.Status)),
		zap.String("search", string(t.Search.Status)),
		zap.String("scrape", string(t.Enrichment.Status)),
		zap.String("answer", string(t.Answer.Status)),
	)
	return t
}

func (a *Assistant) observe(stage string, start time.Time, o Outcome) {
	a.metrics.ObserveStage(stage, time.Since(start))
	if o.Degraded() {
		a.metrics.Degraded(stage, string(o.Reason))
	}
}

// Reply drains the answer stream in arrival order, calling onChunk for every
// non-empty chunk, and returns the full text. On a mid-stream error the text
// received so far is returned with the error. The stream is closed.
func (a *Assistant) Reply(ctx context.Context, t *Turn, onChunk func(string)) (string, error) {
	stream := t.Answer.Stream
	if stream == nil {
		stream = ApologyStream()
	}
	defer stream.Close()

	start := time.Now()
	var sb strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return sb.String(), err
		}
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			a.logger.Warn("answer stream broke", zap.String("turn", t.ID), zap.Int("received", sb.Len()), zap.Error(err))
			a.metrics.Degraded("answer_stream", string(ReasonUpstreamError))
			return sb.String(), fmt.Errorf("answer stream: %w", err)
		}
		if chunk == "" {
			continue
		}
		sb.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	a.metrics.ObserveStage("stream", time.Since(start))
	return sb.String(), nil
}

// Exchange is the pair of messages a finished turn adds to the history
func Exchange(question, answer string) []models.Message {
	return []models.Message{
		{Role: models.RoleUser, Content: question},
		{Role: models.RoleAssistant, Content: answer},
	}
}
