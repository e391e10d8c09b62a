package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"text2phenotype.com/morph/redis"
	"text2phenotype.com/morph/utils"
)

const CacheDB redis.DB = 3

// LemmaCache stores lemma sets computed for one resource fingerprint.
type LemmaCache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, lemmas []string) error
}

type Config struct {
	Enabled    bool `envconfig:"LEM_CACHE_ENABLED" default:"false"`
	TTLSeconds int  `envconfig:"LEM_CACHE_TTL_SECONDS" default:"86400"`
}

// Key builds the cache key of word lemmatized as cat with the resources identified by fingerprint.
func Key(fingerprint uint64, cat string, word string) string {
	return fmt.Sprintf("lemmas:%s:%s:%s", utils.FormatHash(fingerprint), cat, utils.FormatHash(utils.HashString(word)))
}

// Store is the part of redis.Client the cache needs.
type Store interface {
	GetJSON(ctx context.Context, key string, v interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

type RedisCache struct {
	store Store
	ttl   time.Duration
}

func NewRedisCache(store Store, ttl time.Duration) *RedisCache {
	return &RedisCache{store: store, ttl: ttl}
}

// New returns the redis cache when it is enabled in the environment, nil otherwise.
func New() (LemmaCache, func(), error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, nil, err
	}
	if !cfg.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(CacheDB)
	if err != nil {
		return nil, nil, err
	}
	closeFunc := func() {
		_ = client.Close()
	}
	return NewRedisCache(&client, time.Duration(cfg.TTLSeconds)*time.Second), closeFunc, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	var lemmas []string
	err := c.store.GetJSON(ctx, key, &lemmas)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return lemmas, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, lemmas []string) error {
	if err := c.store.SetJSON(ctx, key, lemmas, c.ttl); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
