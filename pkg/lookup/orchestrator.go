// Package lookup resolves a user query to a canonical record: cache first,
// then RDAP, then WHOIS text.
package lookup

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vit0-9/whois_api/pkg/cache"
	"github.com/vit0-9/whois_api/pkg/rdap"
	"github.com/vit0-9/whois_api/pkg/whois"
)

// Result sources.
const (
	SourceRDAP  = "rdap"
	SourceWhois = "whois"
)

// WhoisClient fetches raw WHOIS text, following at most follow referrals.
type WhoisClient interface {
	Lookup(ctx context.Context, query string, follow int) (string, error)
}

// RDAPClient fetches raw RDAP documents.
type RDAPClient interface {
	Domain(ctx context.Context, name string) ([]byte, error)
	IP(ctx context.Context, ip net.IP) ([]byte, error)
	IPNet(ctx context.Context, ipNet *net.IPNet) ([]byte, error)
	Autnum(ctx context.Context, asn uint32) ([]byte, error)
}

// Enricher adds optional data to a fresh record. Implementations log their
// own failures and leave the record's defaults in place.
type Enricher interface {
	Enrich(ctx context.Context, q Query, rec *whois.Record)
}

// Result is the envelope every lookup returns.
type Result struct {
	Status bool          `json:"status"`
	Time   float64       `json:"time"`
	Cached bool          `json:"cached"`
	Source string        `json:"source,omitempty"`
	Result *whois.Record `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

func (r *Result) clone() *Result {
	c := *r
	c.Result = r.Result.Clone()
	return &c
}

// Options tunes the orchestrator.
type Options struct {
	// DomainFollow is the referral depth for domain queries.
	DomainFollow int
	// NetworkFollow is the referral depth for IP, CIDR and ASN queries.
	NetworkFollow int
	RDAPEnabled   bool
	// Coalesce collapses concurrent identical cache-miss lookups into one.
	Coalesce bool
	// SharedTimeout bounds a coalesced lookup, which outlives the caller
	// that started it. Zero means no bound beyond the transports' own.
	SharedTimeout time.Duration
}

// DefaultOptions mirrors the documented environment defaults.
func DefaultOptions() Options {
	return Options{DomainFollow: 0, NetworkFollow: 5, RDAPEnabled: true, Coalesce: true, SharedTimeout: 30 * time.Second}
}

// Service runs lookups.
type Service struct {
	whois     WhoisClient
	rdap      RDAPClient
	store     cache.Store
	enrichers []Enricher
	opts      Options
	logger    *zap.Logger
	group     singleflight.Group
	now       func() time.Time
}

// NewService wires the collaborators. A nil store disables caching and a
// nil rdapClient sends every lookup straight to WHOIS.
func NewService(whoisClient WhoisClient, rdapClient RDAPClient, store cache.Store, opts Options, logger *zap.Logger, enrichers ...Enricher) *Service {
	if store == nil {
		store = cache.None{}
	}
	if rdapClient == nil {
		opts.RDAPEnabled = false
	}
	return &Service{
		whois:     whoisClient,
		rdap:      rdapClient,
		store:     store,
		enrichers: enrichers,
		opts:      opts,
		logger:    logger.Named("lookup"),
		now:       time.Now,
	}
}

// Lookup classifies raw and resolves it. It never returns a nil envelope;
// every failure is reported through Status and Error.
func (s *Service) Lookup(ctx context.Context, raw string) *Result {
	q, err := Classify(raw)
	if err != nil {
		return &Result{Status: false, Source: SourceWhois, Error: err.Error()}
	}

	var hit Result
	if cache.GetJSON(ctx, s.store, q.CacheKey(), &hit, s.logger) && hit.Result != nil {
		hit.Time = 0
		hit.Cached = true
		hit.Result.RefreshDerived(s.now())
		return &hit
	}

	if !s.opts.Coalesce {
		return s.resolve(ctx, q)
	}
	start := time.Now()
	ch := s.group.DoChan(q.CacheKey(), func() (any, error) {
		shared, cancel := s.sharedContext(ctx)
		defer cancel()
		return s.resolve(shared, q), nil
	})
	select {
	case r := <-ch:
		if r.Shared {
			s.logger.Debug("coalesced lookup", zap.String("query", q.Normalized))
		}
		return r.Val.(*Result).clone()
	case <-ctx.Done():
		err := whois.TransportError(ctx.Err(), "lookup for %s abandoned", q.Normalized)
		return &Result{Status: false, Source: SourceWhois, Error: err.Error(), Time: time.Since(start).Seconds()}
	}
}

// sharedContext detaches a coalesced lookup from the caller that started
// it, so other callers waiting on the same key are not failed by its
// cancellation.
func (s *Service) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if s.opts.SharedTimeout > 0 {
		return context.WithTimeout(base, s.opts.SharedTimeout)
	}
	return context.WithCancel(base)
}

func (s *Service) resolve(ctx context.Context, q Query) *Result {
	start := time.Now()
	elapsed := func() float64 { return time.Since(start).Seconds() }

	rec, source, err := s.fetch(ctx, q)
	if err != nil {
		s.logger.Info("lookup failed",
			zap.String("query", q.Normalized), zap.String("kind", string(q.Kind)), zap.Error(err))
		return &Result{Status: false, Source: SourceWhois, Error: err.Error(), Time: elapsed()}
	}

	rec.RefreshDerived(s.now())
	for _, e := range s.enrichers {
		e.Enrich(ctx, q, rec)
	}

	res := &Result{Status: true, Source: source, Result: rec, Time: elapsed()}
	cache.SetJSON(ctx, s.store, q.CacheKey(), res, s.logger)
	return res
}

func (s *Service) fetch(ctx context.Context, q Query) (*whois.Record, string, error) {
	if s.opts.RDAPEnabled {
		body, err := s.fetchRDAP(ctx, q)
		if err == nil {
			return rdap.ConvertRdapToRecord(body, q.Normalized, s.now()), SourceRDAP, nil
		}
		s.logger.Debug("rdap unavailable, falling back to whois",
			zap.String("query", q.Normalized), zap.Error(err))
	}

	follow := s.opts.DomainFollow
	if q.Kind.IsNetwork() {
		follow = s.opts.NetworkFollow
	}
	raw, err := s.whois.Lookup(ctx, whoisQuery(q), follow)
	if err != nil {
		var werr *whois.Error
		if !errors.As(err, &werr) {
			err = whois.TransportError(err, "whois query for %s failed", q.Normalized)
		}
		return nil, SourceWhois, err
	}
	rec, err := whois.ParseWhoisData(raw, q.Normalized)
	if err != nil {
		return nil, SourceWhois, err
	}
	return rec, SourceWhois, nil
}

func (s *Service) fetchRDAP(ctx context.Context, q Query) ([]byte, error) {
	var (
		body []byte
		err  error
	)
	switch q.Kind {
	case KindIPv4, KindIPv6:
		body, err = s.rdap.IP(ctx, q.IP)
	case KindCIDR:
		body, err = s.rdap.IPNet(ctx, q.Net)
	case KindASN:
		body, err = s.rdap.Autnum(ctx, q.ASN)
	default:
		body, err = s.rdap.Domain(ctx, q.Normalized)
	}
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, errors.Errorf("malformed rdap response for %s", q.Normalized)
	}
	return body, nil
}

// whoisQuery is the string sent over port 43. AS numbers always carry the
// AS prefix so registries do not read them as IPv4 integers.
func whoisQuery(q Query) string {
	if q.Kind == KindASN {
		return "AS" + strconv.FormatUint(uint64(q.ASN), 10)
	}
	return q.Normalized
}
