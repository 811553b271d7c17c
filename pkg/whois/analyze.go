package whois

import (
	"strings"
)

type keyKind int

const (
	kindScalar keyKind = iota
	kindDate
	kindStatus
	kindNameServer
	kindPhone
	kindEmail
)

type keyRule struct {
	field Field
	kind  keyKind
	// fallback marks keys that may only fill a still-default field.
	fallback bool
}

// exactKeys maps lower-cased WHOIS keys across registries and RIRs onto
// record fields.
var exactKeys = map[string]keyRule{
	"domain name":            {field: FieldDomain},
	"registrar":              {field: FieldRegistrar},
	"registrar url":          {field: FieldRegistrarURL},
	"iana id":                {field: FieldIANAID},
	"registrar iana id":      {field: FieldIANAID},
	"whois server":           {field: FieldWhoisServer},
	"whois":                  {field: FieldWhoisServer},
	"registrar whois server": {field: FieldWhoisServer},

	"updated date":                           {field: FieldUpdatedDate, kind: kindDate},
	"changed":                                {field: FieldUpdatedDate, kind: kindDate},
	"creation date":                          {field: FieldCreationDate, kind: kindDate},
	"domain name commencement date":          {field: FieldCreationDate, kind: kindDate},
	"expiration date":                        {field: FieldExpirationDate, kind: kindDate},
	"registrar registration expiration date": {field: FieldExpirationDate, kind: kindDate},
	"registry expiry date":                   {field: FieldExpirationDate, kind: kindDate},

	"status":        {kind: kindStatus},
	"domain status": {kind: kindStatus},

	"name server": {kind: kindNameServer},
	"nameservers": {kind: kindNameServer},
	"nserver":     {kind: kindNameServer},

	"registrant name":         {field: FieldRegistrantName},
	"registrant organization": {field: FieldRegistrantOrganization},
	"organization":            {field: FieldRegistrantOrganization},
	"organisation":            {field: FieldRegistrantOrganization},
	"org-name":                {field: FieldRegistrantOrganization},
	"registrant":              {field: FieldRegistrantOrganization},
	"descr":                   {field: FieldRegistrantOrganization, fallback: true},

	"registrant state/province": {field: FieldRegistrantProvince},
	"city":                      {field: FieldRegistrantProvince},
	"registrant country":        {field: FieldRegistrantCountry},
	"country":                   {field: FieldRegistrantCountry},

	"registrant phone":              {field: FieldRegistrantPhone, kind: kindPhone},
	"registrar abuse contact phone": {field: FieldRegistrantPhone, kind: kindPhone},
	"orgtechphone":                  {field: FieldRegistrantPhone},

	"registrant email": {field: FieldRegistrantEmail, kind: kindEmail},
	"email":            {field: FieldRegistrantEmail},
	"e-mail":           {field: FieldRegistrantEmail, fallback: true},

	"dnssec": {field: FieldDNSSEC},

	"cidr":         {field: FieldCIDR},
	"inetnum":      {field: FieldInetNum},
	"inet6num":     {field: FieldInet6Num},
	"netrange":     {field: FieldNetRange},
	"netname":      {field: FieldNetName},
	"network-name": {field: FieldNetName},
	"nettype":      {field: FieldNetType},
	"originas":     {field: FieldOriginAS},
	"origin":       {field: FieldOriginAS},
}

type substringRule struct {
	field   Field
	date    bool
	needles []string
}

// substringRules apply, in order, to keys without an exact match. The first
// rule whose needle occurs in the key and whose field is still unset wins.
var substringRules = []substringRule{
	{field: FieldDomain, needles: []string{"domain name"}},
	{field: FieldRegistrar, needles: []string{"registrar"}},
	{field: FieldRegistrantEmail, needles: []string{"contact email"}},
	{field: FieldRegistrantPhone, needles: []string{"contact phone"}},
	{field: FieldCreationDate, date: true, needles: []string{"creation", "created", "registration time", "registered", "commencement"}},
	{field: FieldExpirationDate, date: true, needles: []string{"expiration", "expiry", "expire"}},
	{field: FieldUpdatedDate, date: true, needles: []string{"updated", "update", "last update", "last-modified"}},
	{field: FieldRegistrantOrganization, needles: []string{"account name", "registrant org"}},
}

// AnalyzeWhois parses WHOIS text as colon-delimited key/value lines into a
// fully defaulted record. It never fails.
func AnalyzeWhois(raw string) *Record {
	b := newBuilder(raw)
	b.analyze(raw)
	return b.finish()
}

func (b *builder) analyze(raw string) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}
		if rule, ok := exactKeys[key]; ok {
			b.applyExact(rule, value)
			continue
		}
		b.applySubstring(key, value)
	}
}

func (b *builder) finish() *Record {
	rec := b.rec
	rec.Status = DedupStatus(rec.Status)
	if b.isSet(FieldRegistrantName) && !b.isSet(FieldRegistrantOrganization) {
		rec.RegistrantOrganization = rec.RegistrantName
	}
	return rec
}

// splitKeyValue splits on the first colon. RIR templates that prefix keys
// with "network:" ("network:Network-Name:FOO") lose that leading segment.
func splitKeyValue(line string) (string, string, bool) {
	segments := strings.Split(line, ":")
	if len(segments) < 2 {
		return "", "", false
	}
	if len(segments) >= 3 && strings.EqualFold(segments[0], "network") {
		segments = segments[1:]
	}
	key := strings.ToLower(strings.TrimSpace(segments[0]))
	value := strings.TrimSpace(strings.Join(segments[1:], ":"))
	return key, value, true
}

func (b *builder) applyExact(rule keyRule, value string) {
	p := ProvenanceExact
	if rule.fallback {
		p = ProvenanceFallback
	}
	switch rule.kind {
	case kindStatus:
		if value != "" {
			b.rec.Status = append(b.rec.Status, ParseStatus(value))
		}
	case kindNameServer:
		if value != "" {
			b.rec.NameServers = append(b.rec.NameServers, value)
		}
	case kindDate:
		if iso, ok := ParseDate(value, ""); ok {
			b.set(rule.field, iso, p)
		}
	case kindPhone:
		b.set(rule.field, normalizePhone(value), p)
	case kindEmail:
		b.set(rule.field, strings.TrimSpace(strings.Replace(value, "Select Request Email Form at ", "", 1)), p)
	default:
		b.set(rule.field, value, p)
	}
}

func (b *builder) applySubstring(key, value string) {
	if value == "" {
		return
	}
	for _, rule := range substringRules {
		if !containsAny(key, rule.needles) || b.isSet(rule.field) {
			continue
		}
		if rule.date {
			// Free-text keys such as "registered" only count when the value
			// really is a date.
			iso, ok := ParseDate(value, "")
			if !ok {
				continue
			}
			value = iso
		}
		b.set(rule.field, value, ProvenanceFallback)
		return
	}
}

// ParseStatus splits "TOKEN (url)" or "TOKEN url" on the first space.
func ParseStatus(value string) DomainStatus {
	value = strings.TrimSpace(value)
	token, url, _ := strings.Cut(value, " ")
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, "(") && strings.HasSuffix(url, ")") {
		url = url[1 : len(url)-1]
	}
	return DomainStatus{Status: token, URL: url}
}

func normalizePhone(v string) string {
	v = strings.Replace(v, "tel:", "", 1)
	return strings.Replace(v, ".", " ", 1)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
