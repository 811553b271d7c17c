package lookup

import (
	"net"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/vit0-9/whois_api/pkg/whois"
)

// Kind is the object type a query names.
type Kind string

const (
	KindDomain Kind = "domain"
	KindIPv4   Kind = "ipv4"
	KindIPv6   Kind = "ipv6"
	KindCIDR   Kind = "cidr"
	KindASN    Kind = "asn"
)

// IsNetwork reports whether the kind is served by the regional internet registries.
func (k Kind) IsNetwork() bool {
	return k != KindDomain
}

// Query is a classified lookup target.
type Query struct {
	Raw        string
	Normalized string
	Kind       Kind
	IP         net.IP
	Net        *net.IPNet
	ASN        uint32
}

// CacheKey is the key successful results are stored under.
func (q Query) CacheKey() string {
	return "whois:" + q.Normalized
}

var asnPattern = regexp.MustCompile(`(?i)^(AS)?(\d+)$`)

// Classify decides what a raw query names. Domains are reduced to their
// registrable part; network literals pass through unmodified.
func Classify(raw string) (Query, error) {
	s := strings.TrimSpace(raw)
	q := Query{Raw: raw, Normalized: s}
	if s == "" {
		return q, &whois.Error{Kind: whois.KindInvalidQuery, Message: "query is empty"}
	}

	if ip := net.ParseIP(s); ip != nil {
		return withIP(q, ip), nil
	}

	if strings.Contains(s, "/") {
		if _, ipNet, err := net.ParseCIDR(s); err == nil {
			q.Kind = KindCIDR
			q.Net = ipNet
			return q, nil
		}
	}

	if m := asnPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseUint(m[2], 10, 32)
		if err != nil {
			return q, &whois.Error{Kind: whois.KindInvalidQuery, Message: "AS number out of range: " + s}
		}
		q.Kind = KindASN
		q.ASN = uint32(n)
		return q, nil
	}

	host := hostOf(s)
	if host == "" || strings.ContainsAny(host, " \t") {
		return q, &whois.Error{Kind: whois.KindInvalidQuery, Message: "not a domain, IP address, CIDR or AS number: " + s}
	}
	// URLs may wrap an address literal ("http://[2001:db8::1]/").
	if ip := net.ParseIP(host); ip != nil {
		q.Normalized = host
		return withIP(q, ip), nil
	}
	q.Kind = KindDomain
	q.Normalized = host
	if registrable, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		q.Normalized = registrable
	}
	return q, nil
}

func withIP(q Query, ip net.IP) Query {
	q.IP = ip
	q.Kind = KindIPv6
	if ip.To4() != nil {
		q.Kind = KindIPv4
	}
	return q
}

// hostOf strips scheme, credentials, path, port, a leading "www." and the
// trailing root dot from a user-typed domain or URL. A bracketed IPv6 host
// is returned without its brackets.
func hostOf(s string) string {
	h := strings.ToLower(s)
	if i := strings.Index(h, "://"); i >= 0 {
		h = h[i+3:]
	}
	if i := strings.IndexAny(h, "/?#"); i >= 0 {
		h = h[:i]
	}
	if i := strings.LastIndex(h, "@"); i >= 0 {
		h = h[i+1:]
	}
	if strings.HasPrefix(h, "[") {
		if i := strings.Index(h, "]"); i > 0 {
			return h[1:i]
		}
	}
	if strings.Count(h, ":") == 1 {
		h = h[:strings.Index(h, ":")]
	}
	h = strings.TrimSuffix(h, ".")
	h = strings.TrimPrefix(h, "www.")
	return h
}
