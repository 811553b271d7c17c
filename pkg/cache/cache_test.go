package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestNew(t *testing.T) {
	s, err := New(Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, BackendNone, s.Backend())

	s, err = New(Options{Backend: BackendMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, s.Backend())

	_, err = New(Options{Backend: BackendRedis}, zap.NewNop())
	assert.Error(t, err)

	_, err = New(Options{Backend: "memcached"}, zap.NewNop())
	assert.Error(t, err)
}

func TestRedis_RoundTripAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := New(Options{Backend: BackendRedis, Addr: mr.Addr(), TTL: time.Hour}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, err = s.Get(ctx, "whois:example.com")
	assert.ErrorIs(t, err, ErrMiss)

	require.True(t, SetJSON(ctx, s, "whois:example.com", entry{Name: "example.com", Count: 2}, zap.NewNop()))
	assert.Equal(t, time.Hour, mr.TTL("whois:example.com"))

	var got entry
	require.True(t, GetJSON(ctx, s, "whois:example.com", &got, zap.NewNop()))
	assert.Equal(t, entry{Name: "example.com", Count: 2}, got)

	mr.FastForward(2 * time.Hour)
	assert.False(t, GetJSON(ctx, s, "whois:example.com", &got, zap.NewNop()))
}

func TestRedis_ZeroTTLNeverExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedis(Options{Addr: mr.Addr()}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	assert.Equal(t, time.Duration(0), mr.TTL("k"))
}

func TestRedis_CorruptEntryIsAMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("whois:bad", "{not json"))
	s := NewRedis(Options{Addr: mr.Addr()}, zap.NewNop())

	var got entry
	assert.False(t, GetJSON(context.Background(), s, "whois:bad", &got, zap.NewNop()))
}

func TestRedis_UnreachableDoesNotPanic(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	s := NewRedis(Options{Addr: addr}, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, s.Ping(ctx))
	assert.False(t, SetJSON(ctx, s, "whois:example.com", entry{}, zap.NewNop()))
	var got entry
	assert.False(t, GetJSON(ctx, s, "whois:example.com", &got, zap.NewNop()))
}

func TestMemory(t *testing.T) {
	s := NewMemory(50 * time.Millisecond)
	ctx := context.Background()

	value := []byte(`{"name":"a","count":1}`)
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'X'

	var got entry
	require.True(t, GetJSON(ctx, s, "k", &got, zap.NewNop()))
	assert.Equal(t, entry{Name: "a", Count: 1}, got)

	assert.Eventually(t, func() bool {
		_, err := s.Get(ctx, "k")
		return err == ErrMiss
	}, time.Second, 10*time.Millisecond)
}

func TestNone(t *testing.T) {
	var s Store = None{}
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}
