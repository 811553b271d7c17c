package whois

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshDerived(t *testing.T) {
	rec := NewRecord()
	rec.CreationDate = "2020-01-01T00:00:00.000Z"
	rec.ExpirationDate = "2020-01-21T00:00:00.000Z"

	rec.RefreshDerived(time.Date(2020, 1, 11, 12, 0, 0, 0, time.UTC))
	require.NotNil(t, rec.DomainAge)
	require.NotNil(t, rec.RemainingDays)
	assert.Equal(t, 10, *rec.DomainAge)
	assert.Equal(t, 9, *rec.RemainingDays)

	rec.ExpirationDate = Unknown
	rec.RefreshDerived(time.Date(2020, 1, 11, 12, 0, 0, 0, time.UTC))
	assert.NotNil(t, rec.DomainAge)
	assert.Nil(t, rec.RemainingDays)
}

func TestRefreshDerived_ExpiredIsNegative(t *testing.T) {
	rec := NewRecord()
	rec.ExpirationDate = "2020-01-01T00:00:00.000Z"
	rec.RefreshDerived(time.Date(2020, 1, 2, 6, 0, 0, 0, time.UTC))
	require.NotNil(t, rec.RemainingDays)
	assert.Equal(t, -2, *rec.RemainingDays)
}

func TestClone(t *testing.T) {
	rec := NewRecord()
	rec.Status = []DomainStatus{{Status: "ok"}}
	rec.NameServers = []string{"ns1.example.com"}
	rec.RegisterPrice = &Pricing{Registrar: "Example", Price: 9.99}
	rec.Geo = &GeoInfo{CountryCode: "US"}
	rec.RefreshDerived(time.Now())

	c := rec.Clone()
	require.Equal(t, rec, c)

	c.Status[0].Status = "clientHold"
	c.NameServers[0] = "ns2.example.com"
	c.RegisterPrice.Price = 1
	c.Geo.CountryCode = "DE"

	assert.Equal(t, "ok", rec.Status[0].Status)
	assert.Equal(t, "ns1.example.com", rec.NameServers[0])
	assert.Equal(t, 9.99, rec.RegisterPrice.Price)
	assert.Equal(t, "US", rec.Geo.CountryCode)
	assert.Nil(t, (*Record)(nil).Clone())
}

func TestBuilderProvenance(t *testing.T) {
	b := newBuilder("raw")
	assert.Equal(t, ProvenanceUnset, b.provenance(FieldRegistrar))

	assert.True(t, b.set(FieldRegistrar, "Fallback Registrar", ProvenanceFallback))
	assert.False(t, b.set(FieldRegistrar, "Second Fallback", ProvenanceFallback))
	assert.True(t, b.set(FieldRegistrar, "Exact Registrar", ProvenanceExact))
	assert.True(t, b.set(FieldRegistrar, "Later Exact", ProvenanceExact))
	assert.True(t, b.set(FieldRegistrar, "Rule Registrar", ProvenanceRule))
	assert.False(t, b.set(FieldRegistrar, "Too Late", ProvenanceExact))
	assert.False(t, b.set(FieldRegistrar, "", ProvenanceRule))

	assert.Equal(t, ProvenanceRule, b.provenance(FieldRegistrar))
	assert.Equal(t, "tld-rule", b.provenance(FieldRegistrar).String())
	assert.Equal(t, "Rule Registrar", b.finish().Registrar)
}
