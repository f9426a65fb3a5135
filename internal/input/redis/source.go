package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	// ModeKey reads the latest snapshot stored under a key.
	ModeKey = "key"
	// ModeList pops snapshots pushed onto a list.
	ModeList = "list"
)

// Config configures the Redis snapshot source.
type Config struct {
	Addr         string
	Password     string
	DB           int
	Key          string
	Mode         string
	BlockTimeout time.Duration
}

// Source reads backend snapshots from Redis.
type Source struct {
	client       *redis.Client
	key          string
	mode         string
	blockTimeout time.Duration
}

// NewSource creates a Redis snapshot source.
func NewSource(cfg Config) (*Source, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("redis key is required")
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeKey
	}
	if cfg.Mode != ModeKey && cfg.Mode != ModeList {
		return nil, fmt.Errorf("unsupported redis mode: %s", cfg.Mode)
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Source{
		client:       client,
		key:          cfg.Key,
		mode:         cfg.Mode,
		blockTimeout: cfg.BlockTimeout,
	}, nil
}

// Fetch returns the next snapshot, or nil when none is available.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if s.mode == ModeList {
		return s.pop(ctx)
	}
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return raw, nil
}

func (s *Source) pop(ctx context.Context) ([]byte, error) {
	res, err := s.client.BLPop(ctx, s.blockTimeout, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis blpop %s: %w", s.key, err)
	}
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}

// Close closes the Redis client.
func (s *Source) Close() error {
	return s.client.Close()
}
