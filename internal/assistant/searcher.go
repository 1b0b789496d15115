package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/grocer/internal/telemetry"
	"github.com/mohammad-safakhou/grocer/models"
	"github.com/mohammad-safakhou/grocer/tools/web_search"
	wsmodels "github.com/mohammad-safakhou/grocer/tools/web_search/models"
	"go.uber.org/zap"
)

// DomainFailure is a retailer whose search call failed
type DomainFailure struct {
	Retailer Retailer
	Err      error
}

// Search is the Searcher result
type Search struct {
	Results  models.ResultSet
	Failures []DomainFailure
	Outcome
}

// Searcher runs one site-restricted search per retailer and merges the hits
// into a single url-unique result set.
type Searcher struct {
	web        web_search.WebSearcher
	maxResults int
	maxTotal   int
	logger     *zap.Logger
	metrics    *telemetry.Metrics
}

// NewSearcher accepts a nil web searcher, in which case every search returns
// an empty set. maxTotal <= 0 leaves the merged set uncapped.
func NewSearcher(web web_search.WebSearcher, maxResults, maxTotal int, logger *zap.Logger, metrics *telemetry.Metrics) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Searcher{web: web, maxResults: maxResults, maxTotal: maxTotal, logger: logger.Named("searcher"), metrics: metrics}
}

// SiteQuery appends the site restriction for one retailer
func SiteQuery(query string, r Retailer) string {
	return query + " site:" + r.URL
}

func (s *Searcher) Search(ctx context.Context, query string, retailers []Retailer) Search {
	if s.web == nil {
		return Search{Outcome: degraded(ReasonMissingCredential, web_search.ErrMissingAPIKey)}
	}
	if strings.TrimSpace(query) == "" {
		return Search{Outcome: degraded(ReasonEmptyInput, errors.New("empty search query"))}
	}

	var out Search
	for _, r := range retailers {
		if s.capped(out.Results) {
			s.logger.Debug("result cap reached, skipping retailer", zap.String("retailer", r.Name), zap.Int("cap", s.maxTotal))
			continue
		}
		hits, err := s.discover(ctx, SiteQuery(query, r))
		s.metrics.SearchRequest(r.Host(), err == nil)
		if err != nil {
			s.logger.Warn("search failed for retailer", zap.String("retailer", r.Name), zap.String("url", r.URL), zap.Error(err))
			out.Failures = append(out.Failures, DomainFailure{Retailer: r, Err: err})
			continue
		}
		added := 0
		for _, h := range hits {
			if s.capped(out.Results) {
				break
			}
			if h.URL == "" {
				continue
			}
			if out.Results.Add(models.SearchResult{URL: h.URL, Title: h.Title, Content: h.Snippet}) {
				added++
			}
		}
		s.logger.Debug("retailer searched", zap.String("retailer", r.Name), zap.Int("hits", len(hits)), zap.Int("added", added))
	}

	switch {
	case len(out.Failures) == 0:
		out.Outcome = succeeded()
	case len(out.Failures) == len(retailers):
		out.Outcome = degraded(ReasonUpstreamError, joinFailures(out.Failures))
	default:
		out.Outcome = degraded(ReasonPartialFailure, joinFailures(out.Failures))
	}
	return out
}

func (s *Searcher) capped(rs models.ResultSet) bool {
	return s.maxTotal > 0 && rs.Len() >= s.maxTotal
}

// discover converts a provider panic into that domain's error
func (s *Searcher) discover(ctx context.Context, q string) (hits []wsmodels.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			hits, err = nil, fmt.Errorf("search provider panic: %v", rec)
		}
	}()
	return s.web.Discover(ctx, q, s.maxResults)
}

func joinFailures(fs []DomainFailure) error {
	errs := make([]error, 0, len(fs))
	for _, f := range fs {
		errs = append(errs, fmt.Errorf("%s: %w", f.Retailer.Name, f.Err))
	}
	return errors.Join(errs...)
}
