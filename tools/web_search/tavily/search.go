package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mohammad-safakhou/grocer/internal/helpers"
	"github.com/mohammad-safakhou/grocer/tools/web_search/models"
)

const DefaultEndpoint = "https://api.tavily.com/search"

type Search struct {
	ApiKey   string
	Endpoint string
	Depth    string
	Client   *http.Client
}

type request struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth,omitempty"`
}

type response struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://docs.tavily.com/documentation/api-reference/endpoint/search
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	body, err := json.Marshal(request{Query: q, MaxResults: k, SearchDepth: s.Depth})
	if err != nil {
		return nil, fmt.Errorf("tavily: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tavily: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: %w", err)
	}
	defer resp.Body.Close()
	if err := helpers.CheckStatus("tavily", resp); err != nil {
		return nil, err
	}

	var raw response
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}
	out := make([]models.Result, 0, len(raw.Results))
	for i, r := range raw.Results {
		if k > 0 && i >= k {
			break
		}
		if r.URL == "" {
			continue
		}
		out = append(out, models.Result{
			Title:   helpers.SanitizeHTMLStrict(r.Title),
			URL:     r.URL,
			Snippet: helpers.SanitizeHTMLStrict(r.Content),
		})
	}
	return out, nil
}
