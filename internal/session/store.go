package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps sessions in Redis, one JSON value per username, with a
// sliding TTL. A missing key yields a fresh session rather than an
// error.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

func sessionKey(username string) string {
	return "session:" + username
}

// Get loads the user's session, or a fresh one if none is stored.
func (s *Store) Get(ctx context.Context, username string) (*Session, error) {
	val, err := s.client.Get(ctx, sessionKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", username, err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", username, err)
	}
	return &sess, nil
}

// Save writes the session back and refreshes its TTL.
func (s *Store) Save(ctx context.Context, username string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(username), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", username, err)
	}
	return nil
}

// Delete drops the user's session. Deleting a missing session is fine.
func (s *Store) Delete(ctx context.Context, username string) error {
	if err := s.client.Del(ctx, sessionKey(username)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session %s: %w", username, err)
	}
	return nil
}
