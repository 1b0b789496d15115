package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mohammad-safakhou/grocer/internal/helpers"
	"github.com/mohammad-safakhou/grocer/tools/web_search/models"
)

const DefaultEndpoint = "https://api.search.brave.com/res/v1/web/search"

type Search struct {
	ApiKey   string
	Endpoint string
	Client   *http.Client
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://api.search.brave.com/app/documentation/web-search
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	params := url.Values{}
	params.Set("q", q)
	if k > 0 {
		params.Set("count", strconv.Itoa(k))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("brave: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.ApiKey)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave: %w", err)
	}
	defer resp.Body.Close()
	if err := helpers.CheckStatus("brave", resp); err != nil {
		return nil, err
	}

	var raw struct {
		Web struct {
			Results []struct {
				Title   string `json:"title"`
				URL     string `json:"url"`
				Snippet string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("brave: decode response: %w", err)
	}
	var out []models.Result
	for i, r := range raw.Web.Results {
		if k > 0 && i >= k {
			break
		}
		out = append(out, models.Result{
			Title:   helpers.SanitizeHTMLStrict(r.Title),
			URL:     r.URL,
			Snippet: helpers.SanitizeHTMLStrict(r.Snippet),
		})
	}
	return out, nil
}
