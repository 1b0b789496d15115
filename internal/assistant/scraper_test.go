package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/grocer/models"
	"github.com/mohammad-safakhou/grocer/tools/web_fetch"
	"github.com/mohammad-safakhou/grocer/tools/web_fetch/jina"
)

func resultSet(urls ...string) *models.ResultSet {
	rs := &models.ResultSet{}
	for _, u := range urls {
		rs.Add(models.SearchResult{URL: u, Title: "t " + u, Content: "s " + u})
	}
	return rs
}

func TestEnrichRetainsResultOnNotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "Sữa tươi 32.000đ")
	}))
	defer srv.Close()

	rs := resultSet("https://winmart.vn/sua", "https://winmart.vn/missing")
	s := NewScraper(jina.New("k", srv.URL, time.Second, 0), web_fetch.NewGate(0), nil, nil)
	got := s.Enrich(context.Background(), rs, nil)

	if rs.Len() != 2 {
		t.Fatalf("results dropped: %v", rs.URLs())
	}
	if rs.Results[0].ScrapedContent != "Sữa tươi 32.000đ" {
		t.Fatalf("unexpected scraped content %q", rs.Results[0].ScrapedContent)
	}
	missing := rs.Results[1]
	if missing.ScrapedContent != "" || missing.Title != "t https://winmart.vn/missing" || missing.Content != "s https://winmart.vn/missing" {
		t.Fatalf("404 result not retained intact: %+v", missing)
	}
	if got.Scraped != 1 || got.Failed != 1 || got.Reason != ReasonPartialFailure {
		t.Fatalf("unexpected enrichment %+v", got)
	}
}

func TestEnrichWithoutFetcher(t *testing.T) {
	t.Parallel()
	rs := resultSet("https://a/1", "https://a/2")
	rs.Results[0].ScrapedContent = "stale"
	got := NewScraper(nil, web_fetch.NewGate(time.Hour), nil, nil).Enrich(context.Background(), rs, nil)
	if got.Reason != ReasonMissingCredential || rs.Results[0].ScrapedContent != "" || rs.Len() != 2 {
		t.Fatalf("unexpected enrichment %+v %+v", got, rs.Results)
	}
}

func TestEnrichIsSerialAndGated(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{}
	rs := resultSet("https://a/1", "https://a/2", "https://a/3")
	p := &recordingProgress{}
	interval := 40 * time.Millisecond
	got := NewScraper(f, web_fetch.NewGate(interval), nil, nil).Enrich(context.Background(), rs, p)
	if !got.OK() || got.Scraped != 3 {
		t.Fatalf("unexpected enrichment %+v", got)
	}
	if strings.Join(f.calls, ",") != "https://a/1,https://a/2,https://a/3" {
		t.Fatalf("fetches out of order: %v", f.calls)
	}
	for i := 1; i < len(f.times); i++ {
		if gap := f.times[i].Sub(f.times[i-1]); gap < interval-5*time.Millisecond {
			t.Fatalf("fetch %d started %v after the previous one", i, gap)
		}
	}
	if p.count("start") != 3 || p.count("finish") != 3 {
		t.Fatalf("unexpected progress %+v", p.events)
	}
	if e := p.events[2]; e.kind != "start" || e.i != 2 || e.n != 3 || e.url != "https://a/2" {
		t.Fatalf("unexpected progress event %+v", e)
	}
}

func TestEnrichAllFailed(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{replies: map[string]fetchReply{
		"https://a/1": {err: errors.New("timeout")},
		"https://a/2": {text: "   "},
	}}
	rs := resultSet("https://a/1", "https://a/2")
	got := NewScraper(f, nil, nil, nil).Enrich(context.Background(), rs, nil)
	if got.Failed != 2 || got.Reason != ReasonUpstreamError {
		t.Fatalf("unexpected enrichment %+v", got)
	}
	for _, r := range rs.Results {
		if r.ScrapedContent != "" {
			t.Fatalf("failed page kept content %q", r.ScrapedContent)
		}
	}
}

func TestEnrichStopsOnCancel(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{}
	rs := resultSet("https://a/1", "https://a/2", "https://a/3")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := NewScraper(f, web_fetch.NewGate(time.Hour), nil, nil).Enrich(ctx, rs, nil)
	if len(f.calls) != 0 || got.Failed != 3 || got.Degraded() == false || rs.Len() != 3 {
		t.Fatalf("unexpected enrichment %+v calls %v", got, f.calls)
	}
}

func TestEnrichEmptySet(t *testing.T) {
	t.Parallel()
	got := NewScraper(&fakeFetcher{}, nil, nil, nil).Enrich(context.Background(), &models.ResultSet{}, nil)
	if !got.OK() {
		t.Fatalf("unexpected enrichment %+v", got)
	}
}
