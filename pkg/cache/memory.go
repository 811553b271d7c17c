package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process store for single-instance deployments and tests.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates a store whose entries live for ttl (zero: forever).
func NewMemory(ttl time.Duration) *Memory {
	exp := gocache.NoExpiration
	if ttl > 0 {
		exp = ttl
	}
	return &Memory{c: gocache.New(exp, 10*time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	data, _ := v.([]byte)
	return append([]byte(nil), data...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.c.SetDefault(key, append([]byte(nil), value...))
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Backend() string { return BackendMemory }

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
