package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/grocer/internal/telemetry"
	"github.com/mohammad-safakhou/grocer/models"
	"github.com/mohammad-safakhou/grocer/tools/web_fetch"
	wfmodels "github.com/mohammad-safakhou/grocer/tools/web_fetch/models"
	"go.uber.org/zap"
)

// Enrichment is the Scraper result
type Enrichment struct {
	Scraped int
	Failed  int
	Outcome
}

// Scraper fills ScrapedContent for each result, one page at a time
type Scraper struct {
	fetcher web_fetch.WebFetcher
	gate    *web_fetch.Gate
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewScraper accepts a nil fetcher, in which case nothing is fetched. The gate
// should be shared by every Scraper talking to the same service.
func NewScraper(fetcher web_fetch.WebFetcher, gate *web_fetch.Gate, logger *zap.Logger, metrics *telemetry.Metrics) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{fetcher: fetcher, gate: gate, logger: logger.Named("scraper"), metrics: metrics}
}

// Enrich mutates rs in place. Results are never dropped; a failed page keeps
// an empty ScrapedContent.
func (s *Scraper) Enrich(ctx context.Context, rs *models.ResultSet, progress Progress) Enrichment {
	progress = progressOrNop(progress)
	if rs == nil || rs.Len() == 0 {
		if s.fetcher == nil {
			return Enrichment{Outcome: degraded(ReasonMissingCredential, web_fetch.ErrMissingAPIKey)}
		}
		return Enrichment{Outcome: succeeded()}
	}
	for i := range rs.Results {
		rs.Results[i].ScrapedContent = ""
	}
	if s.fetcher == nil {
		return Enrichment{Failed: rs.Len(), Outcome: degraded(ReasonMissingCredential, web_fetch.ErrMissingAPIKey)}
	}

	n := rs.Len()
	var out Enrichment
	var lastErr error
	for i := range rs.Results {
		r := &rs.Results[i]
		if err := s.gate.Wait(ctx); err != nil {
			lastErr = err
			out.Failed += n - i
			s.logger.Warn("scraping interrupted", zap.Int("remaining", n-i), zap.Error(err))
			break
		}

		progress.ScrapeStarted(i+1, n, r.URL)
		res, err := s.fetch(ctx, r.URL)
		if err == nil && strings.TrimSpace(res.Text) == "" {
			err = fmt.Errorf("no content for %s", r.URL)
		}
		ok := err == nil
		s.metrics.ScrapeRequest(ok)
		if ok {
			r.ScrapedContent = res.Text
			out.Scraped++
		} else {
			out.Failed++
			lastErr = err
			s.logger.Warn("scrape failed", zap.String("url", r.URL), zap.Int("status", res.Status), zap.Error(err))
		}
		progress.ScrapeFinished(i+1, n, r.URL, ok)
	}

	switch {
	case out.Failed == 0:
		out.Outcome = succeeded()
	case out.Scraped == 0:
		out.Outcome = degraded(ReasonUpstreamError, lastErr)
	default:
		out.Outcome = degraded(ReasonPartialFailure, fmt.Errorf("%d of %d pages failed: %w", out.Failed, n, lastErr))
	}
	return out
}

func (s *Scraper) fetch(ctx context.Context, url string) (res wfmodels.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res, err = wfmodels.Result{URL: url}, fmt.Errorf("fetcher panic: %v", rec)
		}
	}()
	return s.fetcher.Exec(ctx, url)
}
