package assistant

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/mohammad-safakhou/grocer/config"
	"github.com/mohammad-safakhou/grocer/provider"
	wfmodels "github.com/mohammad-safakhou/grocer/tools/web_fetch/models"
	wsmodels "github.com/mohammad-safakhou/grocer/tools/web_search/models"
)

type fakeLLM struct {
	mu          sync.Mutex
	completeOut string
	completeErr error
	chunks      []string
	streamErr   error
	midErr      error
	completes   []provider.Request
	streams     []provider.Request
}

func (f *fakeLLM) Complete(_ context.Context, req provider.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completes = append(f.completes, req)
	return f.completeOut, f.completeErr
}

func (f *fakeLLM) Stream(_ context.Context, req provider.Request) (provider.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streams = append(f.streams, req)
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return &sliceStream{chunks: append([]string(nil), f.chunks...), err: f.midErr}, nil
}

type sliceStream struct {
	chunks []string
	err    error
	closed bool
}

func (s *sliceStream) Recv() (string, error) {
	if len(s.chunks) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

type searchReply struct {
	results []wsmodels.Result
	err     error
	panics  bool
}

// fakeSearcher answers by exact query string
type fakeSearcher struct {
	mu      sync.Mutex
	replies map[string]searchReply
	queries []string
	ks      []int
}

func (f *fakeSearcher) Discover(_ context.Context, q string, k int) ([]wsmodels.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.ks = append(f.ks, k)
	r := f.replies[q]
	f.mu.Unlock()
	if r.panics {
		panic("provider exploded")
	}
	return r.results, r.err
}

type fetchReply struct {
	text string
	err  error
}

type fakeFetcher struct {
	mu      sync.Mutex
	replies map[string]fetchReply
	calls   []string
	times   []time.Time
}

func (f *fakeFetcher) Exec(_ context.Context, url string) (wfmodels.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	f.times = append(f.times, time.Now())
	r, ok := f.replies[url]
	if !ok {
		return wfmodels.Result{URL: url, Status: 200, Text: "page " + url}, nil
	}
	return wfmodels.Result{URL: url, Status: 200, Text: r.text}, r.err
}

type progressEvent struct {
	kind string
	i, n int
	url  string
	ok   bool
	msg  string
}

type recordingProgress struct {
	events []progressEvent
}

func (p *recordingProgress) QueryRewritten(q string) {
	p.events = append(p.events, progressEvent{kind: "query", msg: q})
}

func (p *recordingProgress) ScrapeStarted(i, n int, url string) {
	p.events = append(p.events, progressEvent{kind: "start", i: i, n: n, url: url})
}

func (p *recordingProgress) ScrapeFinished(i, n int, url string, ok bool) {
	p.events = append(p.events, progressEvent{kind: "finish", i: i, n: n, url: url, ok: ok})
}

func (p *recordingProgress) Warning(component, msg string) {
	p.events = append(p.events, progressEvent{kind: "warning", url: component, msg: msg})
}

func (p *recordingProgress) count(kind string) int {
	n := 0
	for _, e := range p.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func testRetailers() []Retailer {
	return RetailersFromConfig(config.DefaultRetailers())
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Rewrite: config.LLMModel{Model: "gpt-4o-mini", Temperature: 0.3, MaxTokens: 100},
			Answer:  config.LLMModel{Model: "gpt-4o", Temperature: 0.7, MaxTokens: 800},
		},
		Search:    config.SearchConfig{Provider: "tavily", MaxResults: 3},
		Scrape:    config.ScrapeConfig{Fetcher: "jina", Interval: 0},
		Retailers: config.DefaultRetailers(),
	}
}
