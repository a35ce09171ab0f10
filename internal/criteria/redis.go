package criteria

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Hash of name -> explanation
	explanationsKey = "criteria:explanations"

	// List of names in display order
	orderKey = "criteria:order"
)

// RedisStore keeps criteria in Redis so edits survive restarts and are shared
// between gateway replicas.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and seeds the defaults when no criteria exist yet.
func NewRedisStore(addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	s := &RedisStore{client: client}
	n, err := client.LLen(ctx, orderKey).Result()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if err := s.seed(ctx); err != nil {
			return nil, fmt.Errorf("seed criteria: %w", err)
		}
	}
	return s, nil
}

func (s *RedisStore) List(ctx context.Context) ([]Entry, error) {
	names, err := s.client.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	explanations, err := s.client.HGetAll(ctx, explanationsKey).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if explanation, ok := explanations[name]; ok {
			entries = append(entries, Entry{Name: name, Explanation: explanation})
		}
	}
	return entries, nil
}

func (s *RedisStore) Get(ctx context.Context, name string) (Entry, error) {
	explanation, err := s.client.HGet(ctx, explanationsKey, name).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownCriterion, name)
	}
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Explanation: explanation}, nil
}

func (s *RedisStore) Put(ctx context.Context, entry Entry) error {
	if err := validate(entry); err != nil {
		return err
	}
	// HSet reports how many fields were created; a new name joins the order list
	added, err := s.client.HSet(ctx, explanationsKey, entry.Name, entry.Explanation).Result()
	if err != nil {
		return err
	}
	if added > 0 {
		return s.client.RPush(ctx, orderKey, entry.Name).Err()
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	return s.seed(ctx)
}

func (s *RedisStore) seed(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, explanationsKey, orderKey)
		for _, e := range defaults {
			pipe.HSet(ctx, explanationsKey, e.Name, e.Explanation)
		}
		names := defaultNames()
		values := make([]any, len(names))
		for i, n := range names {
			values[i] = n
		}
		pipe.RPush(ctx, orderKey, values...)
		return nil
	})
	return err
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
