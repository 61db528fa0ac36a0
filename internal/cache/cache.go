// Package cache provides the TTL cache injected beneath remote record sources.
package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL matches how often evaluation runs append new rows upstream.
const DefaultTTL = time.Hour

type Cache interface {
	// Get returns the cached value and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores a value. Failures are swallowed: a cache can only cost a refetch.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

type Type string

const (
	TypeMemory Type = "memory"
	TypeRedis  Type = "redis"
	TypeNone   Type = "none"
)

type Config struct {
	Type     Type          `envconfig:"CACHE_TYPE" default:"memory"`
	TTL      time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	RedisURL string        `envconfig:"REDIS_URL"`
}

func New(cfg Config) (Cache, error) {
	switch cfg.Type {
	case TypeMemory, "":
		return NewMemory(), nil
	case TypeRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL must be set when CACHE_TYPE=redis")
		}
		return NewRedis(cfg.RedisURL)
	case TypeNone:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unsupported cache type %q, expected one of %v",
			cfg.Type, []Type{TypeMemory, TypeRedis, TypeNone})
	}
}

type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte, time.Duration) {}
