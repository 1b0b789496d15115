package web_search

import (
	"errors"
	"testing"

	"github.com/mohammad-safakhou/grocer/config"
	"github.com/mohammad-safakhou/grocer/tools/web_search/brave"
	"github.com/mohammad-safakhou/grocer/tools/web_search/serper"
	"github.com/mohammad-safakhou/grocer/tools/web_search/tavily"
)

func TestNewWebSearcher(t *testing.T) {
	t.Parallel()
	if _, err := NewWebSearcher(config.SearchConfig{Provider: "tavily"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := NewWebSearcher(config.SearchConfig{Provider: "bing", APIKey: "k"}); err != ErrUnsupportedProvider {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}

	tests := []struct {
		provider string
		check    func(WebSearcher) bool
	}{
		{"tavily", func(s WebSearcher) bool { _, ok := s.(tavily.Search); return ok }},
		{"", func(s WebSearcher) bool { _, ok := s.(tavily.Search); return ok }},
		{"serper", func(s WebSearcher) bool { _, ok := s.(serper.Search); return ok }},
		{"brave", func(s WebSearcher) bool { _, ok := s.(brave.Search); return ok }},
	}
	for _, tt := range tests {
		s, err := NewWebSearcher(config.SearchConfig{Provider: tt.provider, APIKey: "k"})
		if err != nil {
			t.Fatalf("NewWebSearcher(%q): %v", tt.provider, err)
		}
		if !tt.check(s) {
			t.Fatalf("NewWebSearcher(%q) returned %T", tt.provider, s)
		}
	}
}
