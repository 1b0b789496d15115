package assistant

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mohammad-safakhou/grocer/config"
	"github.com/mohammad-safakhou/grocer/internal/prompts"
	"github.com/mohammad-safakhou/grocer/models"
	"github.com/mohammad-safakhou/grocer/provider"
	"github.com/mohammad-safakhou/grocer/session"
	"go.uber.org/zap"
)

// previousQuestionLimit bounds how many earlier questions feed the rewrite
const previousQuestionLimit = 3

// Rewrite is the Rewriter result. Query is always usable: on any degrade it
// is the question unchanged.
type Rewrite struct {
	Query string
	Outcome
}

// Rewriter turns a user question into a search query with a small model
type Rewriter struct {
	llm    provider.Provider
	model  config.LLMModel
	logger *zap.Logger
}

// NewRewriter accepts a nil llm, in which case every rewrite returns the
// question unchanged.
func NewRewriter(llm provider.Provider, model config.LLMModel, logger *zap.Logger) *Rewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rewriter{llm: llm, model: model, logger: logger.Named("rewriter")}
}

func (r *Rewriter) Rewrite(ctx context.Context, question string, history session.History) Rewrite {
	if r.llm == nil {
		return Rewrite{Query: question, Outcome: degraded(ReasonMissingCredential, provider.ErrMissingAPIKey)}
	}

	previous := PreviousQuestions(history, question, previousQuestionLimit)
	systemPrompt, userPrompt, err := prompts.RenderRewrite(question, previous)
	if err != nil {
		return Rewrite{Query: question, Outcome: degraded(ReasonUpstreamError, fmt.Errorf("render rewrite prompt: %w", err))}
	}

	out, err := r.llm.Complete(ctx, provider.Request{
		Model: r.model.Model,
		Messages: []models.Message{
			{Role: models.RoleSystem, Content: systemPrompt},
			{Role: models.RoleUser, Content: userPrompt},
		},
		Temperature: r.model.Temperature,
		MaxTokens:   r.model.MaxTokens,
	})
	if err != nil {
		r.logger.Warn("query rewrite failed, using question as query", zap.Error(err))
		return Rewrite{Query: question, Outcome: degraded(ReasonUpstreamError, err)}
	}

	query := strings.TrimSpace(out)
	r.logger.Debug("query rewritten",
		zap.String("question", question),
		zap.String("query", query),
		zap.Int("previous", len(previous)),
	)
	return Rewrite{Query: query, Outcome: succeeded()}
}

// PreviousQuestions returns up to limit of the most recent user questions in
// history other than current, oldest first.
func PreviousQuestions(history session.History, current string, limit int) []string {
	var picked []string
	questions := history.UserQuestions()
	for i := len(questions) - 1; i >= 0 && len(picked) < limit; i-- {
		if questions[i] != current {
			picked = append(picked, questions[i])
		}
	}
	slices.Reverse(picked)
	return picked
}
