package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()
	for _, tt := range []struct {
		level string
		debug bool
	}{{"info", false}, {"", false}, {"DEBUG", true}, {"warn", false}} {
		if l, err := NewLogger(tt.level, tt.debug); err != nil || l == nil {
			t.Fatalf("NewLogger(%q, %v) = %v, %v", tt.level, tt.debug, l, err)
		}
	}
	if _, err := NewLogger("loud", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestMetricsRecordAndServe(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.TurnStarted()
	m.SearchRequest("winmart.vn", true)
	m.SearchRequest("winmart.vn", false)
	m.ScrapeRequest(false)
	m.Degraded("scraper", "missing_credential")
	m.ObserveStage("search", 120*time.Millisecond)

	if got := testutil.ToFloat64(m.turns); got != 1 {
		t.Fatalf("turns = %v", got)
	}
	if got := testutil.ToFloat64(m.searches.WithLabelValues("winmart.vn", "error")); got != 1 {
		t.Fatalf("search errors = %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"grocer_turns_total 1",
		`grocer_degradations_total{component="scraper",reason="missing_credential"} 1`,
		`grocer_scrape_requests_total{status="error"} 1`,
		"grocer_stage_duration_seconds_bucket",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()
	var m *Metrics
	m.TurnStarted()
	m.SearchRequest("x", true)
	m.ScrapeRequest(true)
	m.Degraded("a", "b")
	m.ObserveStage("s", time.Second)
	if m.Registry() != nil {
		t.Fatalf("nil metrics should have no registry")
	}
}
