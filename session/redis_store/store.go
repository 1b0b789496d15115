package redis_store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/grocer/models"
	"github.com/mohammad-safakhou/grocer/session"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "grocer:session:"

// Store keeps each history as a redis list of JSON messages. Both keys of a
// session expire ttl after the last append; a zero ttl keeps them forever.
type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisSessionStore(client redis.UniversalClient, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func metaKey(id string) string     { return keyPrefix + id }
func messagesKey(id string) string { return keyPrefix + id + ":messages" }

func (s *Store) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := s.client.Set(ctx, metaKey(id), time.Now().UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

func (s *Store) exists(ctx context.Context, id string) error {
	n, err := s.client.Exists(ctx, metaKey(id)).Result()
	if err != nil {
		return fmt.Errorf("lookup session %s: %w", id, err)
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *Store) History(ctx context.Context, id string) (session.History, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	raw, err := s.client.LRange(ctx, messagesKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", id, err)
	}
	h := make(session.History, 0, len(raw))
	for _, item := range raw {
		var m models.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decode message in %s: %w", id, err)
		}
		h = append(h, m)
	}
	return h, nil
}

func (s *Store) Append(ctx context.Context, id string, msgs ...models.Message) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
		values = append(values, b)
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, messagesKey(id), values...)
		if s.ttl > 0 {
			pipe.Expire(ctx, messagesKey(id), s.ttl)
			pipe.Expire(ctx, metaKey(id), s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append to %s: %w", id, err)
	}
	return nil
}
