package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mohammad-safakhou/grocer/internal/helpers"
	"github.com/mohammad-safakhou/grocer/tools/web_search/models"
)

const DefaultEndpoint = "https://google.serper.dev/search"

type Search struct {
	ApiKey   string
	Endpoint string
	Client   *http.Client
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://serper.dev/ docs
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	body, err := json.Marshal(map[string]any{"q": q, "num": k})
	if err != nil {
		return nil, fmt.Errorf("serper: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("serper: build request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper: %w", err)
	}
	defer resp.Body.Close()
	if err := helpers.CheckStatus("serper", resp); err != nil {
		return nil, err
	}

	var raw struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("serper: decode response: %w", err)
	}
	var out []models.Result
	for i, it := range raw.Organic {
		if k > 0 && i >= k {
			break
		}
		out = append(out, models.Result{
			Title:   helpers.SanitizeHTMLStrict(it.Title),
			URL:     it.Link,
			Snippet: helpers.SanitizeHTMLStrict(it.Snippet),
		})
	}
	return out, nil
}
