package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `{}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.Rewrite.Temperature != 0.3 || cfg.LLM.Rewrite.MaxTokens != 100 {
		t.Fatalf("unexpected rewrite defaults: %+v", cfg.LLM.Rewrite)
	}
	if cfg.LLM.Answer.Model != "gpt-4o" || cfg.LLM.Answer.Temperature != 0.7 || cfg.LLM.Answer.MaxTokens != 800 {
		t.Fatalf("unexpected answer defaults: %+v", cfg.LLM.Answer)
	}
	if cfg.Search.MaxResults != 3 || cfg.Search.MaxTotalResults != 0 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Scrape.Interval != 3*time.Second || cfg.Scrape.Timeout != 20*time.Second {
		t.Fatalf("unexpected scrape defaults: %+v", cfg.Scrape)
	}
	if cfg.Session.Store != "inmemory" {
		t.Fatalf("expected inmemory session store, got %q", cfg.Session.Store)
	}
	if len(cfg.Retailers) != 3 || cfg.Retailers[1].Name != "Bách Hóa Xanh" {
		t.Fatalf("unexpected default retailers: %+v", cfg.Retailers)
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"search": {"provider": "serper", "max_results": 5},
		"scrape": {"interval": "500ms"},
		"retailers": [{"name": "Coop", "url": "https://cooponline.vn/"}]
	}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Search.Provider != "serper" || cfg.Search.MaxResults != 5 {
		t.Fatalf("search overrides not applied: %+v", cfg.Search)
	}
	if cfg.Scrape.Interval != 500*time.Millisecond {
		t.Fatalf("scrape.interval = %v, want 500ms", cfg.Scrape.Interval)
	}
	if len(cfg.Retailers) != 1 || cfg.Retailers[0].URL != "https://cooponline.vn" {
		t.Fatalf("unexpected retailers: %+v", cfg.Retailers)
	}
}

func TestLoadConfigSecretsFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-legacy")
	t.Setenv("GROCER_SEARCH_API_KEY", "tvly-new")
	t.Setenv("TAVILY_API_KEY", "tvly-legacy")
	t.Setenv("GROCER_SCRAPE_INTERVAL", "1s")

	cfg, err := LoadConfig(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.APIKey != "sk-legacy" {
		t.Fatalf("llm.api_key = %q, want legacy env value", cfg.LLM.APIKey)
	}
	if cfg.Search.APIKey != "tvly-new" {
		t.Fatalf("search.api_key = %q, prefixed env should win", cfg.Search.APIKey)
	}
	if cfg.Scrape.APIKey != "" {
		t.Fatalf("scrape.api_key = %q, want empty", cfg.Scrape.APIKey)
	}
	if cfg.Scrape.Interval != time.Second {
		t.Fatalf("scrape.interval = %v, want 1s", cfg.Scrape.Interval)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown search provider", body: `{"search": {"provider": "bing"}}`},
		{name: "unknown fetcher", body: `{"scrape": {"fetcher": "curl"}}`},
		{name: "zero answer tokens", body: `{"llm": {"answer": {"max_tokens": 0}}}`},
		{name: "redis without host", body: `{"session": {"store": "redis", "redis": {"host": ""}}}`},
		{name: "negative cap", body: `{"search": {"max_total_results": -1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
