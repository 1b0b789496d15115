package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/grocer/config"
	"github.com/mohammad-safakhou/grocer/models"
	openai_provider "github.com/mohammad-safakhou/grocer/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI Client = "openai"
	// Groq speaks the OpenAI wire format from a different base url
	Groq Client = "groq"
)

var ErrMissingAPIKey = errors.New("llm api key not set")

// Request is a single chat completion call
type Request struct {
	Model       string
	Messages    []models.Message
	Temperature float64
	MaxTokens   int
}

// Stream yields completion text in arrival order. Recv returns io.EOF once the
// provider signals the end of the completion.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Provider is the interface that all LLM implementations must satisfy
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request) (Stream, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	switch Client(cfg.Provider) {
	case OpenAI, "":
		return &openAIAdapter{c: openai_provider.NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout)}, nil
	case Groq:
		base := cfg.BaseURL
		if base == "" || strings.Contains(base, "api.openai.com") {
			base = "https://api.groq.com/openai/v1"
		}
		return &openAIAdapter{c: openai_provider.NewOpenAIClient(cfg.APIKey, base, cfg.Timeout)}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

type openAIAdapter struct {
	c *openai_provider.Client
}

func (a *openAIAdapter) Complete(ctx context.Context, req Request) (string, error) {
	return a.c.Complete(ctx, toOpenAI(req))
}

func (a *openAIAdapter) Stream(ctx context.Context, req Request) (Stream, error) {
	s, err := a.c.Stream(ctx, toOpenAI(req))
	if err != nil {
		return nil, err
	}
	return s, nil
}

func toOpenAI(req Request) openai_provider.ChatRequest {
	msgs := make([]openai_provider.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai_provider.Message{Role: string(m.Role), Content: m.Content})
	}
	return openai_provider.ChatRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
}
