package models

import "errors"

// Result is the plain-text rendering of one page
type Result struct {
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Text      string `json:"text"`
	Status    int    `json:"status"`
	ElapsedMS int    `json:"elapsed_ms"`
}

// ErrInvalidURL is returned for targets that are not absolute http(s) urls
var ErrInvalidURL = errors.New("invalid url")
