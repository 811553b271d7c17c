package whois

import (
	"net"
	"regexp"
	"strings"
)

var notFoundPhrases = []string{
	"no match",
	"this query returned 0 objects",
	"not found",
	"no entries found",
	"no data found",
}

var invalidQueryPhrases = []string{
	"invalid query",
	"invalid request",
	"invalid domain name",
	"invalid input",
	"invalid object",
	"invalid syntax",
	"invalid character",
	"invalid data",
	"malformed query",
	"malformed request",
}

var rateLimitPhrases = []string{
	"rate limit",
	"server too busy",
}

var asnQueryRe = regexp.MustCompile(`(?i)^(?:AS)?\d+$`)

// ParseWhoisData normalizes raw WHOIS text for queryName. Unlike
// AnalyzeWhois it fails with an *Error when the text means there is no
// record: too short, not found, malformed query, throttled, or an unknown
// TLD whose output matched nothing useful.
func ParseWhoisData(raw, queryName string) (*Record, error) {
	if raw == "" {
		return nil, newError(KindBadResponse, "no whois data received")
	}
	if len(raw) <= 10 {
		return nil, newError(KindBadResponse, "bad whois data received: %q", raw)
	}

	rules, dedicated := GetRules(queryName)
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	lower := strings.ToLower(text)

	if phrase, ok := firstPhrase(lower, notFoundPhrases); ok {
		return nil, newError(KindNotFound, "%q not found (registry replied %q)", queryName, phrase)
	}
	if rules.NotFound != nil {
		if m := rules.NotFound.FindString(text); m != "" {
			return nil, newError(KindNotFound, "%q not found (registry replied %q)", queryName, strings.TrimSpace(m))
		}
	}
	if phrase, ok := firstPhrase(lower, invalidQueryPhrases); ok {
		return nil, newError(KindInvalidQuery, "registry rejected %q (%s)", queryName, phrase)
	}
	if rules.RateLimited != nil && rules.RateLimited.MatchString(text) {
		return nil, newError(KindRateLimited, "registry throttled the query for %q", queryName)
	}
	if phrase, ok := firstPhrase(lower, rateLimitPhrases); ok {
		return nil, newError(KindRateLimited, "registry throttled the query for %q (%s)", queryName, phrase)
	}

	b := newBuilder(raw)
	b.analyze(text)
	b.applyRules(rules, text)
	rec := b.finish()

	if !dedicated && !isNetworkQuery(queryName) && !b.hasAnyMandatory() {
		return nil, newError(KindTLDNotSupported, "no parsing rules matched the whois output for %q", queryName)
	}
	return rec, nil
}

func (b *builder) applyRules(rules *RuleSet, text string) {
	if rules.DomainName != nil {
		if v, ok := capture(rules.DomainName, text); ok {
			b.set(FieldDomain, strings.ToUpper(v), ProvenanceRule)
		}
	}
	if rules.Registrar != nil {
		if v, ok := capture(rules.Registrar, text); ok {
			b.set(FieldRegistrar, v, ProvenanceRule)
		}
	}
	if rules.Status != nil {
		if values := captureAll(rules.Status, text); len(values) > 0 {
			status := make([]DomainStatus, 0, len(values))
			for _, v := range values {
				status = append(status, ParseStatus(v))
			}
			b.rec.Status = status
		}
	}
	if rules.NameServers != nil {
		if values := captureAll(rules.NameServers, text); len(values) > 0 {
			b.rec.NameServers = values
		}
	}
	b.applyRuleDate(FieldExpirationDate, rules.ExpirationDate, rules.DateFormat, text)
	b.applyRuleDate(FieldCreationDate, rules.CreationDate, rules.DateFormat, text)
	b.applyRuleDate(FieldUpdatedDate, rules.UpdatedDate, rules.DateFormat, text)
}

func (b *builder) applyRuleDate(f Field, re *regexp.Regexp, format, text string) {
	if re == nil {
		return
	}
	v, ok := capture(re, text)
	if !ok {
		return
	}
	if iso, ok := ParseDate(v, format); ok {
		b.set(f, iso, ProvenanceRule)
	}
}

func (b *builder) hasAnyMandatory() bool {
	return b.isSet(FieldCreationDate) || b.isSet(FieldExpirationDate) ||
		b.isSet(FieldUpdatedDate) || b.isSet(FieldRegistrar)
}

func firstPhrase(s string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return p, true
		}
	}
	return "", false
}

// isNetworkQuery reports whether q names an IP address, CIDR block or ASN,
// which are never subject to TLD rules.
func isNetworkQuery(q string) bool {
	q = strings.TrimSpace(q)
	if net.ParseIP(q) != nil || asnQueryRe.MatchString(q) {
		return true
	}
	_, _, err := net.ParseCIDR(q)
	return err == nil
}
