// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vit0-9/whois_api/pkg/cache"
)

// Config holds every tunable of the service.
type Config struct {
	Port    string
	GinMode string

	MaxWhoisFollow   int
	MaxIPWhoisFollow int
	WhoisTimeout     time.Duration
	RDAPEnabled      bool
	RDAPTimeout      time.Duration
	LookupTimeout    time.Duration
	LookupCoalesce   bool

	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	MMDBCityPath string
	MMDBASNPath  string

	PricingEnabled bool
	PricingURL     string
	MozAccessID    string
	MozSecretKey   string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// LoadDotEnv loads the given files (default ".env") into the process
// environment without overriding variables that are already set.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load reads the configuration from the environment.
func Load() Config {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads the configuration through lookup, which has the
// signature of os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) Config {
	e := env(lookup)

	redisHost := e.str("REDIS_HOST", "")
	backend := cache.BackendNone
	if redisHost != "" {
		backend = cache.BackendRedis
	}
	redisAddr := ""
	if redisHost != "" {
		redisAddr = net.JoinHostPort(redisHost, e.str("REDIS_PORT", "6379"))
	}

	return Config{
		Port:    e.str("PORT", "8080"),
		GinMode: e.str("GIN_MODE", "release"),

		MaxWhoisFollow:   e.num("MAX_WHOIS_FOLLOW", 0),
		MaxIPWhoisFollow: e.num("MAX_IP_WHOIS_FOLLOW", 5),
		WhoisTimeout:     e.duration("WHOIS_TIMEOUT", 15*time.Second),
		RDAPEnabled:      e.flag("RDAP_ENABLED", true),
		RDAPTimeout:      e.duration("RDAP_TIMEOUT", 10*time.Second),
		LookupTimeout:    e.duration("LOOKUP_TIMEOUT", 30*time.Second),
		LookupCoalesce:   e.flag("LOOKUP_COALESCE", true),

		CacheBackend:  strings.ToLower(e.str("CACHE_BACKEND", backend)),
		RedisAddr:     redisAddr,
		RedisPassword: e.str("REDIS_PASSWORD", ""),
		RedisDB:       e.num("REDIS_DB", 0),
		CacheTTL:      time.Duration(e.num("REDIS_CACHE_TTL", 3600)) * time.Second,

		MMDBCityPath: e.str("MMDB_CITY_PATH", ""),
		MMDBASNPath:  e.str("MMDB_ASN_PATH", ""),

		PricingEnabled: e.flag("PRICING_ENABLED", false),
		PricingURL:     e.str("PRICING_API_URL", "https://www.nazhumi.com/api/v1"),
		MozAccessID:    e.str("MOZ_ACCESS_ID", ""),
		MozSecretKey:   e.str("MOZ_SECRET_KEY", ""),

		LogLevel:  e.str("LOG_LEVEL", "info"),
		LogFormat: e.str("LOG_FORMAT", "json"),
		LogFile:   e.str("LOG_FILE", ""),
	}
}

// CacheOptions converts the cache settings for cache.New.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  c.CacheBackend,
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
		TTL:      c.CacheTTL,
	}
}

// env helpers fall back to the default on empty or malformed values.
type env func(string) (string, bool)

func (e env) str(key, def string) string {
	if v, ok := e(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e env) num(key string, def int) int {
	n, err := strconv.Atoi(e.str(key, ""))
	if err != nil || n < 0 {
		return def
	}
	return n
}

func (e env) flag(key string, def bool) bool {
	b, err := strconv.ParseBool(e.str(key, ""))
	if err != nil {
		return def
	}
	return b
}

// duration accepts Go durations ("15s") or a bare number of seconds.
func (e env) duration(key string, def time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	return def
}
