// Package redis implements ports.HistoryStore on Redis, for operators who
// share command history across machines.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Store keeps the history as one JSON blob under a prefixed key.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets an expiration on the history key.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "cozmo:",
		ttl:    0,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key() string {
	return s.prefix + "history"
}

// Save replaces the stored history.
func (s *Store) Save(ctx context.Context, lines []string) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving history to redis: %w", err)
	}
	return nil
}

// Load retrieves the history; a missing key is an empty history.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	val, err := s.client.Get(ctx, s.key()).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("loading history from redis: %w", err)
	}
	var lines []string
	if err := json.Unmarshal([]byte(val), &lines); err != nil {
		return nil, fmt.Errorf("unmarshaling history: %w", err)
	}
	return lines, nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}
