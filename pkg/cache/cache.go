// Package cache stores lookup results behind a small get/set-with-TTL
// contract. A missing or failing store only disables caching.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Backend names accepted by New.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a key-value store with a store-wide TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Backend() string
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Addr     string
	Password string
	DB       int
	// TTL applies to every entry; zero means entries never expire.
	TTL time.Duration
}

// New builds the store named by opts.Backend.
func New(opts Options, logger *zap.Logger) (Store, error) {
	switch opts.Backend {
	case BackendRedis:
		if opts.Addr == "" {
			return nil, errors.New("redis cache backend requires an address")
		}
		return NewRedis(opts, logger), nil
	case BackendMemory:
		return NewMemory(opts.TTL), nil
	case BackendNone, "":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", opts.Backend)
	}
}

// GetJSON decodes the value under key into out. Store errors and corrupt
// entries are logged and reported as a miss.
func GetJSON(ctx context.Context, s Store, key string, out any, logger *zap.Logger) bool {
	data, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Error("failed to parse cached JSON", zap.String("key", key), zap.Error(err))
		return false
	}
	logger.Debug("cache hit", zap.String("key", key), zap.Int("length", len(data)))
	return true
}

// SetJSON encodes v and stores it under key. Failures are logged only.
func SetJSON(ctx context.Context, s Store, key string, v any, logger *zap.Logger) bool {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode value for cache", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.Set(ctx, key, data); err != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	logger.Debug("cache set", zap.String("key", key), zap.Int("length", len(data)), zap.String("backend", s.Backend()))
	return true
}

// None is the disabled store: every Get misses and every Set is dropped.
type None struct{}

func (None) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (None) Set(context.Context, string, []byte) error { return nil }
func (None) Ping(context.Context) error { return nil }
func (None) Backend() string { return BackendNone }
func (None) Close() error { return nil }
