package enrich

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vit0-9/whois_api/pkg/lookup"
	"github.com/vit0-9/whois_api/pkg/utils"
	"github.com/vit0-9/whois_api/pkg/whois"
)

func mustClassify(t *testing.T, raw string) lookup.Query {
	t.Helper()
	q, err := lookup.Classify(raw)
	require.NoError(t, err)
	return q
}

const pricingBody = `{
  "code": 100,
  "data": {
    "domain": "io",
    "order": "new",
    "count": 2,
    "price": [
      {"registrar": "spaceship", "registrarname": "Spaceship", "registrarweb": "https://www.spaceship.com",
       "new": 120.5, "renew": 55.2, "transfer": "n/a", "currency": "USD"},
      {"registrar": "other", "registrarname": "Other", "registrarweb": "https://other.example",
       "new": 130, "renew": 60, "transfer": 60, "currency": "USD"}
    ]
  }
}`

func TestPricing_Enrich(t *testing.T) {
	var (
		mu     sync.Mutex
		orders []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "io", r.URL.Query().Get("domain"))
		assert.Equal(t, utils.UserAgent, r.Header.Get("User-Agent"))
		mu.Lock()
		orders = append(orders, r.URL.Query().Get("order"))
		mu.Unlock()
		_, _ = w.Write([]byte(pricingBody))
	}))
	defer srv.Close()

	p := NewPricing(srv.URL, utils.NewHTTPClient(5*time.Second), zap.NewNop())
	rec := whois.NewRecord()
	p.Enrich(context.Background(), mustClassify(t, "example.io"), rec)

	require.NotNil(t, rec.RegisterPrice)
	assert.Equal(t, "spaceship", rec.RegisterPrice.Registrar)
	assert.Equal(t, "https://www.spaceship.com", rec.RegisterPrice.RegistrarWeb)
	assert.Equal(t, 120.5, rec.RegisterPrice.Price)
	assert.Equal(t, "USD", rec.RegisterPrice.Currency)
	assert.True(t, rec.RegisterPrice.IsPremium)
	assert.Equal(t, "https://www.nazhumi.com/domain/example.io/new", rec.RegisterPrice.ExternalLink)

	require.NotNil(t, rec.RenewPrice)
	assert.Equal(t, 55.2, rec.RenewPrice.Price)
	assert.Equal(t, "https://www.nazhumi.com/domain/example.io/renew", rec.RenewPrice.ExternalLink)

	require.NotNil(t, rec.TransferPrice)
	assert.Equal(t, -1.0, rec.TransferPrice.Price)

	assert.ElementsMatch(t, []string{"new", "renew", "transfer"}, orders)
}

func TestPricing_NotPremiumOutsideMajorCurrencies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"price": [{"registrar": "aliyun", "new": 900, "renew": 900, "transfer": 900, "currency": "CNY"}]}}`))
	}))
	defer srv.Close()

	p := NewPricing(srv.URL, utils.NewHTTPClient(5*time.Second), zap.NewNop())
	price := p.Price(context.Background(), "example.cn", OrderNew)
	require.NotNil(t, price)
	assert.Equal(t, 900.0, price.Price)
	assert.False(t, price.IsPremium)
}

func TestPricing_EmptyAndFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("domain") == "zz" {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data": {"price": []}}`))
	}))
	defer srv.Close()

	p := NewPricing(srv.URL, utils.NewHTTPClient(5*time.Second), zap.NewNop())

	price := p.Price(context.Background(), "example.com", OrderNew)
	require.NotNil(t, price)
	assert.Equal(t, whois.Unknown, price.Registrar)
	assert.Equal(t, -1.0, price.Price)
	assert.False(t, price.IsPremium)

	assert.Nil(t, p.Price(context.Background(), "example.zz", OrderNew))
}

func TestPricing_SkipsNetworkQueries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	rec := whois.NewRecord()
	NewPricing(srv.URL, utils.NewHTTPClient(time.Second), zap.NewNop()).
		Enrich(context.Background(), mustClassify(t, "8.8.8.8"), rec)
	assert.Nil(t, rec.RegisterPrice)
	assert.Zero(t, hits.Load())
}

func TestMoz_Metrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)

		var body mozRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"https://example.com"}, body.Targets)
		assert.Len(t, body.Metrics, 3)

		_, _ = w.Write([]byte(`{"results": [{"domain_authority": 93.6, "page_authority": 71.2, "spam_score": 1.5}]}`))
	}))
	defer srv.Close()

	m := NewMoz("id", "secret", utils.NewHTTPClient(5*time.Second), zap.NewNop())
	m.endpoint = srv.URL

	rec := whois.NewRecord()
	m.Enrich(context.Background(), mustClassify(t, "www.example.com"), rec)
	assert.Equal(t, 94, rec.MozDomainAuthority)
	assert.Equal(t, 71, rec.MozPageAuthority)
	assert.Equal(t, 2, rec.MozSpamScore)
}

func TestMoz_UnconfiguredAndFailed(t *testing.T) {
	m := NewMoz("", "", utils.NewHTTPClient(time.Second), zap.NewNop())
	assert.Equal(t, MozMetrics{-1, -1, -1}, m.Metrics(context.Background(), "example.com"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()
	m = NewMoz("id", "bad", utils.NewHTTPClient(time.Second), zap.NewNop())
	m.endpoint = srv.URL
	assert.Equal(t, MozMetrics{}, m.Metrics(context.Background(), "example.com"))
}

func TestGeoIP_Disabled(t *testing.T) {
	g := OpenGeoIP("", "/nonexistent/GeoLite2-ASN.mmdb", zap.NewNop())
	defer g.Close()

	assert.False(t, g.Enabled())
	assert.Nil(t, g.Lookup(net.ParseIP("8.8.8.8")))

	rec := whois.NewRecord()
	g.Enrich(context.Background(), mustClassify(t, "8.8.8.0/24"), rec)
	assert.Nil(t, rec.Geo)
}
