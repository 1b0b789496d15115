package jina

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/grocer/internal/helpers"
	"github.com/mohammad-safakhou/grocer/tools/web_fetch/models"
)

const DefaultEndpoint = "https://r.jina.ai"

// Fetch reads pages through the Jina reader proxy, which returns the page
// already rendered as text.
type Fetch struct {
	apiKey   string
	endpoint string
	maxChars int
	client   *http.Client
}

func New(apiKey, endpoint string, timeout time.Duration, maxChars int) *Fetch {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	return &Fetch{
		apiKey:   apiKey,
		endpoint: strings.TrimRight(endpoint, "/"),
		maxChars: maxChars,
		client:   &http.Client{Timeout: timeout},
	}
}

func (f *Fetch) Exec(ctx context.Context, target string) (res models.Result, err error) {
	res.URL = target
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return res, fmt.Errorf("jina: %q: %w", target, models.ErrInvalidURL)
	}
	t0 := time.Now()
	defer func() { res.ElapsedMS = int(time.Since(t0) / time.Millisecond) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"/"+target, nil)
	if err != nil {
		return res, fmt.Errorf("jina: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("X-Retain-Images", "none")
	req.Header.Set("X-Return-Format", "text")

	resp, err := f.client.Do(req)
	if err != nil {
		return res, fmt.Errorf("jina: %w", err)
	}
	defer resp.Body.Close()
	res.Status = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		if err := helpers.CheckStatus("jina", resp); err != nil {
			return res, err
		}
		return res, &helpers.StatusError{Service: "jina", Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("jina: read body: %w", err)
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return res, fmt.Errorf("jina: empty body for %s", target)
	}
	res.Text = helpers.TruncateRunes(text, f.maxChars)
	return res, nil
}
