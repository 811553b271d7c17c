package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vit0-9/whois_api/pkg/cache"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	c := FromLookup(lookupFrom(nil))

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "release", c.GinMode)
	assert.Equal(t, 0, c.MaxWhoisFollow)
	assert.Equal(t, 5, c.MaxIPWhoisFollow)
	assert.Equal(t, 15*time.Second, c.WhoisTimeout)
	assert.True(t, c.RDAPEnabled)
	assert.Equal(t, 10*time.Second, c.RDAPTimeout)
	assert.Equal(t, 30*time.Second, c.LookupTimeout)
	assert.True(t, c.LookupCoalesce)
	assert.Equal(t, cache.BackendNone, c.CacheBackend)
	assert.Empty(t, c.RedisAddr)
	assert.Equal(t, time.Hour, c.CacheTTL)
	assert.False(t, c.PricingEnabled)
	assert.Equal(t, "https://www.nazhumi.com/api/v1", c.PricingURL)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
}

func TestFromLookup_Overrides(t *testing.T) {
	c := FromLookup(lookupFrom(map[string]string{
		"PORT":                "9090",
		"MAX_WHOIS_FOLLOW":    "2",
		"MAX_IP_WHOIS_FOLLOW": "7",
		"WHOIS_TIMEOUT":       "5",
		"RDAP_TIMEOUT":        "1500ms",
		"RDAP_ENABLED":        "false",
		"LOOKUP_COALESCE":     "0",
		"REDIS_HOST":          "redis.internal",
		"REDIS_PASSWORD":      "pw",
		"REDIS_DB":            "3",
		"REDIS_CACHE_TTL":     "0",
		"PRICING_ENABLED":     "true",
		"MOZ_ACCESS_ID":       "id",
		"MOZ_SECRET_KEY":      "key",
		"LOG_FORMAT":          "console",
	}))

	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, 2, c.MaxWhoisFollow)
	assert.Equal(t, 7, c.MaxIPWhoisFollow)
	assert.Equal(t, 5*time.Second, c.WhoisTimeout)
	assert.Equal(t, 1500*time.Millisecond, c.RDAPTimeout)
	assert.False(t, c.RDAPEnabled)
	assert.False(t, c.LookupCoalesce)
	assert.True(t, c.PricingEnabled)
	assert.Equal(t, "console", c.LogFormat)

	opts := c.CacheOptions()
	assert.Equal(t, cache.BackendRedis, opts.Backend)
	assert.Equal(t, "redis.internal:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, time.Duration(0), opts.TTL)
}

func TestFromLookup_MalformedFallsBack(t *testing.T) {
	c := FromLookup(lookupFrom(map[string]string{
		"MAX_IP_WHOIS_FOLLOW": "lots",
		"MAX_WHOIS_FOLLOW":    "-1",
		"WHOIS_TIMEOUT":       "soon",
		"RDAP_ENABLED":        "maybe",
		"REDIS_CACHE_TTL":     "",
		"PORT":                "   ",
	}))

	assert.Equal(t, 5, c.MaxIPWhoisFollow)
	assert.Equal(t, 0, c.MaxWhoisFollow)
	assert.Equal(t, 15*time.Second, c.WhoisTimeout)
	assert.True(t, c.RDAPEnabled)
	assert.Equal(t, time.Hour, c.CacheTTL)
	assert.Equal(t, "8080", c.Port)
}

func TestFromLookup_ExplicitCacheBackend(t *testing.T) {
	c := FromLookup(lookupFrom(map[string]string{"CACHE_BACKEND": "Memory"}))
	assert.Equal(t, cache.BackendMemory, c.CacheBackend)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WHOIS_API_TEST_FOLLOW=4\n"), 0o600))
	t.Setenv("WHOIS_API_TEST_FOLLOW", "")
	require.NoError(t, os.Unsetenv("WHOIS_API_TEST_FOLLOW"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "4", os.Getenv("WHOIS_API_TEST_FOLLOW"))

	assert.Error(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
