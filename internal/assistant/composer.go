package assistant

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mohammad-safakhou/grocer/config"
	"github.com/mohammad-safakhou/grocer/internal/prompts"
	"github.com/mohammad-safakhou/grocer/models"
	"github.com/mohammad-safakhou/grocer/provider"
	"github.com/mohammad-safakhou/grocer/session"
	"go.uber.org/zap"
)

// Apology replaces the answer when no completion could be requested
const Apology = "Sorry, I encountered an error while processing your request."

// historyWindow is the number of prior messages injected into the prompt
const historyWindow = 8

// Answer is the Composer result. Stream is never nil; the caller must Close it.
type Answer struct {
	Stream   provider.Stream
	Presence Presence
	Outcome
}

// Composer builds the answer prompt and requests the streamed completion
type Composer struct {
	llm       provider.Provider
	model     config.LLMModel
	retailers []Retailer
	logger    *zap.Logger
}

func NewComposer(llm provider.Provider, model config.LLMModel, retailers []Retailer, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{llm: llm, model: model, retailers: retailers, logger: logger.Named("composer")}
}

// BuildContext renders one block per result, separated by a blank line.
// The snippet stands in for pages that could not be scraped.
func BuildContext(results models.ResultSet) string {
	blocks := make([]string, 0, results.Len())
	for _, r := range results.Results {
		content := r.ScrapedContent
		if content == "" {
			content = r.Content
		}
		blocks = append(blocks, fmt.Sprintf("Source: %s\nTitle: %s\nDetailed Scraped Content: %s", r.URL, r.Title, content))
	}
	return strings.Join(blocks, "\n\n")
}

// HistoryWindow returns the last eight messages of history, dropping user
// messages that repeat the current question.
func HistoryWindow(history session.History, question string) []models.Message {
	var out []models.Message
	for _, m := range history.Last(historyWindow) {
		if m.Role == models.RoleUser && m.Content == question {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Compose assembles the full message list for the answer request
func (c *Composer) Compose(question string, results models.ResultSet, history session.History) ([]models.Message, Presence, error) {
	presence := DetectPresence(c.retailers, results)
	systemPrompt, err := prompts.RenderAnswerSystem(promptRetailers(c.retailers))
	if err != nil {
		return nil, presence, fmt.Errorf("render answer system prompt: %w", err)
	}
	userPrompt, err := prompts.RenderAnswerUser(question, BuildContext(results), presence.String())
	if err != nil {
		return nil, presence, fmt.Errorf("render answer user prompt: %w", err)
	}

	window := HistoryWindow(history, question)
	msgs := make([]models.Message, 0, len(window)+2)
	msgs = append(msgs, models.Message{Role: models.RoleSystem, Content: systemPrompt})
	msgs = append(msgs, window...)
	msgs = append(msgs, models.Message{Role: models.RoleUser, Content: userPrompt})
	return msgs, presence, nil
}

// Answer requests the streamed completion. The stream is returned unread.
func (c *Composer) Answer(ctx context.Context, question string, results models.ResultSet, history session.History) Answer {
	msgs, presence, err := c.Compose(question, results, history)
	if err != nil {
		c.logger.Error("compose failed", zap.Error(err))
		return Answer{Stream: ApologyStream(), Presence: presence, Outcome: degraded(ReasonUpstreamError, err)}
	}
	if c.llm == nil {
		return Answer{Stream: ApologyStream(), Presence: presence, Outcome: degraded(ReasonMissingCredential, provider.ErrMissingAPIKey)}
	}

	stream, err := c.llm.Stream(ctx, provider.Request{
		Model:       c.model.Model,
		Messages:    msgs,
		Temperature: c.model.Temperature,
		MaxTokens:   c.model.MaxTokens,
	})
	if err != nil {
		c.logger.Error("answer request failed", zap.Error(err))
		return Answer{Stream: ApologyStream(), Presence: presence, Outcome: degraded(ReasonUpstreamError, err)}
	}
	c.logger.Debug("answer stream opened",
		zap.Int("messages", len(msgs)),
		zap.Int("results", results.Len()),
		zap.Strings("retailers_with_data", presence.Names()),
	)
	return Answer{Stream: stream, Presence: presence, Outcome: succeeded()}
}

// staticStream replays fixed chunks
type staticStream struct {
	chunks []string
}

// ApologyStream yields the fixed apology as a single chunk
func ApologyStream() provider.Stream {
	return &staticStream{chunks: []string{Apology}}
}

func (s *staticStream) Recv() (string, error) {
	if len(s.chunks) == 0 {
		return "", io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *staticStream) Close() error {
	s.chunks = nil
	return nil
}
