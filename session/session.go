package session

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/grocer/models"
)

var ErrNotFound = errors.New("session not found")

// History is the ordered, append-only message log of one conversation. It is
// passed by value into the components that read it.
type History []models.Message

// UserQuestions returns the content of every user message, oldest first
func (h History) UserQuestions() []string {
	var out []string
	for _, m := range h {
		if m.Role == models.RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}

// Last returns the trailing n messages, or all of them when n exceeds the length
func (h History) Last(n int) History {
	if n <= 0 {
		return nil
	}
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// Append returns a new History with msgs added at the end. The receiver is
// left untouched.
func (h History) Append(msgs ...models.Message) History {
	out := make(History, 0, len(h)+len(msgs))
	out = append(out, h...)
	return append(out, msgs...)
}

// Store persists conversation histories. Implementations must be safe for
// concurrent use across sessions.
type Store interface {
	Create(ctx context.Context) (string, error)
	History(ctx context.Context, id string) (History, error)
	Append(ctx context.Context, id string, msgs ...models.Message) error
}

type StoreType string

const (
	InMemoryStore StoreType = "inmemory"
	RedisStore    StoreType = "redis"
)
