package web_fetch

import (
	"errors"

	"github.com/mohammad-safakhou/grocer/tools/web_fetch/models"
)

var (
	ErrMissingAPIKey      = errors.New("scrape api key not set")
	ErrUnsupportedFetcher = errors.New("unsupported fetcher type")
	ErrInvalidURL         = models.ErrInvalidURL
)
