package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries in Redis, shared between processes. Keys expire
// after Expiry so stale retrievals do not pile up.
type RedisStore struct {
	client *redis.Client
	prefix string
	expiry time.Duration
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" default:"localhost:6379"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	Prefix   string `json:"prefix" yaml:"prefix" default:"globalfire"`
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig, expiry time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisStoreWithClient(client, cfg.Prefix, expiry), nil
}

func NewRedisStoreWithClient(client *redis.Client, prefix string, expiry time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, expiry: expiry}
}

func (s *RedisStore) key(k string) string {
	if s.prefix == "" {
		return "series:" + k
	}
	return s.prefix + ":series:" + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	e, err := decodeEntry(b)
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, e Entry) error {
	b, err := encodeEntry(e)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), b, s.expiry).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
