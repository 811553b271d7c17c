package whois

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/net/idna"
)

// RuleSet describes where each field appears in one registry family's
// WHOIS output. Every pattern captures the field value in the group named
// "value"; nil patterns are skipped.
type RuleSet struct {
	Name string

	DomainName     *regexp.Regexp
	Registrar      *regexp.Regexp
	UpdatedDate    *regexp.Regexp
	CreationDate   *regexp.Regexp
	ExpirationDate *regexp.Regexp
	// Status and NameServers are matched globally.
	Status      *regexp.Regexp
	NameServers *regexp.Regexp

	// DateFormat is a moment-style hint, e.g. "DD-MMM-YYYY".
	DateFormat string

	NotFound    *regexp.Regexp
	RateLimited *regexp.Regexp
}

// TLDRules binds a rule set to the suffixes it serves.
type TLDRules struct {
	Suffixes []string
	Rules    *RuleSet
}

func rx(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}

// irx compiles a case-insensitive pattern; used for the availability and
// throttling markers.
func irx(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

// DefaultRules is deliberately loose so unknown TLDs still get best-effort
// extraction.
var DefaultRules = &RuleSet{
	Name:           "default",
	DomainName:     rx(`Domain Name: *(?P<value>[^\s]+)`),
	Registrar:      rx(`Registrar: *(?P<value>.+)`),
	UpdatedDate:    rx(`Updated Date: *(?P<value>.+)`),
	CreationDate:   rx(`Creat(?:ed|ion) Date: *(?P<value>.+)`),
	ExpirationDate: rx(`Expir\w+ Date: *(?P<value>.+)`),
	Status:         rx(`Status:\s*(?P<value>.+)`),
	NameServers:    rx(`Name Server: *(?P<value>.+)`),
	DateFormat:     "YYYY-MM-DDThh:mm:ssZ",
	NotFound:       irx(`(?:No match for |Domain not found|NOT FOUND\s)`),
}

var builtinRules = []TLDRules{
	{Suffixes: []string{"com", "net", "name"}, Rules: &RuleSet{
		Name:           "com",
		DomainName:     rx(`Domain Name: *(?P<value>[^\s]+)`),
		Registrar:      rx(`Registrar: *(?P<value>.+)`),
		UpdatedDate:    rx(`Updated Date: *(?P<value>.+)`),
		CreationDate:   rx(`Creation Date: *(?P<value>.+)`),
		ExpirationDate: rx(`Expir\w+ Date: *(?P<value>.+)`),
		Status:         rx(`Status:\s*(?P<value>.+)`),
		NameServers:    rx(`Name Server: *(?P<value>.+)`),
		NotFound:       irx(`No match for `),
	}},
	{Suffixes: []string{"org", "me", "mobi"}, Rules: &RuleSet{
		Name:           "org",
		DomainName:     rx(`Domain Name: *(?P<value>[^\s]+)`),
		Registrar:      rx(`Registrar: *(?P<value>.+)`),
		UpdatedDate:    rx(`Updated Date: *(?P<value>.+)`),
		CreationDate:   rx(`Creation Date: *(?P<value>.+)`),
		ExpirationDate: rx(`Expir\w+ Date: *(?P<value>.+)`),
		Status:         rx(`Status: *(?P<value>.+)`),
		NameServers:    rx(`Name Server: *(?P<value>.+)`),
		NotFound:       irx(`^NOT FOUND`),
	}},
	{Suffixes: []string{"au"}, Rules: &RuleSet{
		Name:        "au",
		DomainName:  rx(`Domain Name: *(?P<value>[^\s]+)`),
		UpdatedDate: rx(`Last Modified: *(?P<value>.+)`),
		Registrar:   rx(`Registrar Name: *(?P<value>.+)`),
		Status:      rx(`Status: *(?P<value>.+)`),
		NameServers: rx(`Name Server: *(?P<value>.+)`),
		RateLimited: irx(`WHOIS LIMIT EXCEEDED`),
		NotFound:    irx(`^NOT FOUND`),
	}},
	{Suffixes: []string{"ru", "рф", "su"}, Rules: &RuleSet{
		Name:           "ru",
		DomainName:     rx(`domain: *(?P<value>[^\s]+)`),
		Registrar:      rx(`registrar: *(?P<value>.+)`),
		CreationDate:   rx(`created: *(?P<value>.+)`),
		ExpirationDate: rx(`paid-till: *(?P<value>.+)`),
		Status:         rx(`state: *(?P<value>.+)`),
		NotFound:       irx(`No entries found`),
	}},
	{Suffixes: []string{"us", "biz"}, Rules: &RuleSet{
		Name:           "us",
		DomainName:     rx(`Domain Name: *(?P<value>[^\s]+)`),
		Registrar:      rx(`Registrar: *(?P<value>.+)`),
		Status:         rx(`Domain Status: *(?P<value>.+)`),
		CreationDate:   rx(`Creation Date: *(?P<value>.+)`),
		ExpirationDate: rx(`Registry Expiry Date: *(?P<value>.+)`),
		UpdatedDate:    rx(`Updated Date: *(?P<value>.+)`),
		NameServers:    rx(`Name Server: *(?P<value>.+)`),
		NotFound:       irx(`^No Data Found`),
		DateFormat:     "YYYY-MM-DDThh:mm:ssZ",
	}},
	{Suffixes: []string{"uk"}, Rules: &RuleSet{
		Name:           "uk",
		DomainName:     rx(`Domain name:\s*(?P<value>[^\s]+)`),
		Registrar:      rx(`Registrar:\s*(?P<value>.+)`),
		Status:         rx(`Registration status:\s*(?P<value>.+)`),
		CreationDate:   rx(`Registered on:\s*(?P<value>.+)`),
		ExpirationDate: rx(`Expiry date:\s*(?P<value>.+)`),
		UpdatedDate:    rx(`Last updated:\s*(?P<value>.+)`),
		NotFound:       irx(`No match for `),
		DateFormat:     "DD-MMM-YYYY",
	}},
	{Suffixes: []string{"fr"}, Rules: &RuleSet{
		Name:           "fr",
		DomainName:     rx(`domain: *(?P<value>[^\s]+)`),
		Registrar:      rx(`registrar: *(?P<value>.+)`),
		CreationDate:   rx(`created: *(?P<value>.+)`),
		ExpirationDate: rx(`Expir\w+ Date:\s?(?P<value>.+)`),
		Status:         rx(`status: *(?P<value>.+)`),
		UpdatedDate:    rx(`last-update: *(?P<value>.+)`),
		NotFound:       irx(`No entries found in `),
		DateFormat:     "YYYY-MM-DDThh:mm:ssZ",
	}},
	{Suffixes: []string{"nl"}, Rules: &RuleSet{
		Name:        "nl",
		DomainName:  rx(`Domain Name: *(?P<value>[^\s]+)`),
		Registrar:   rx(`Registrar: *\s*(?P<value>.+)`),
		Status:      rx(`Status: *(?P<value>.+)`),
		NotFound:    irx(`\.nl is free`),
		RateLimited: irx(`maximum number of requests per second exceeded`),
	}},
	{Suffixes: []string{"fi"}, Rules: &RuleSet{
		Name:           "fi",
		DomainName:     rx(`domain\.*: *(?P<value>[\S]+)`),
		Registrar:      rx(`registrar\.*: *(?P<value>.*)`),
		Status:         rx(`status\.*: *(?P<value>[\S]+)`),
		CreationDate:   rx(`created\.*: *(?P<value>[\S]+)`),
		UpdatedDate:    rx(`modified\.*: *(?P<value>[\S]+)`),
		ExpirationDate: rx(`expires\.*: *(?P<value>[\S]+)`),
		NotFound:       irx(`Domain not found`),
		DateFormat:     "DD.MM.YYYY hh:mm:ss",
	}},
	{Suffixes: []string{"jp"}, Rules: &RuleSet{
		Name:           "jp",
		DomainName:     rx(`\[Domain Name\]\s*(?P<value>[^\s]+)`),
		CreationDate:   rx(`\[Created on\]\s*(?P<value>.+)`),
		UpdatedDate:    rx(`\[Last Updated\]\s?(?P<value>.+)`),
		ExpirationDate: rx(`\[Expires on\]\s?(?P<value>.+)`),
		Status:         rx(`\[Status\]\s*(?P<value>.+)`),
		NotFound:       irx(`No match!!`),
		DateFormat:     "YYYY/MM/DD",
	}},
	{Suffixes: []string{"pl"}, Rules: &RuleSet{
		Name:           "pl",
		DomainName:     rx(`DOMAIN NAME: *(?P<value>[^\s]+)`),
		Registrar:      rx(`REGISTRAR: *\s*(?P<value>.+)`),
		Status:         rx(`Registration status:\n\s*(?P<value>.+)`),
		CreationDate:   rx(`created: *(?P<value>.+)`),
		ExpirationDate: rx(`renewal date: *(?P<value>.+)`),
		UpdatedDate:    rx(`last modified: *(?P<value>.+)`),
		NotFound:       irx(`No information available about domain name`),
		DateFormat:     "YYYY.MM.DD hh:mm:ss",
	}},
	{Suffixes: []string{"br"}, Rules: &RuleSet{
		Name:           "br",
		DomainName:     rx(`domain: *(?P<value>[^\s]+)\n`),
		Status:         rx(`status: *(?P<value>.+)`),
		CreationDate:   rx(`created: *(?P<value>\S+)`),
		ExpirationDate: rx(`expires: *(?P<value>\S+)`),
		UpdatedDate:    rx(`changed: *(?P<value>\S+)`),
		DateFormat:     "YYYYMMDD",
		NotFound:       irx(`No match for `),
	}},
	{Suffixes: []string{"eu"}, Rules: &RuleSet{
		Name:       "eu",
		DomainName: rx(`Domain: *(?P<value>[^\n\r]+)`),
		Registrar:  rx(`Registrar: *\n *Name: *(?P<value>[^\n\r]+)`),
		NotFound:   irx(`Status: AVAILABLE`),
	}},
	{Suffixes: []string{"ee"}, Rules: &RuleSet{
		Name:           "ee",
		DomainName:     rx(`Domain: *[\n\r]+\s*name: *(?P<value>[^\n\r]+)`),
		Status:         rx(`Domain: *[\n\r]+\s*name: *[^\n\r]+\sstatus: *(?P<value>[^\n\r]+)`),
		CreationDate:   rx(`Domain: *[\n\r]+\s*name: *[^\n\r]+\sstatus: *[^\n\r]+\sregistered: *(?P<value>[^\n\r]+)`),
		UpdatedDate:    rx(`Domain: *[\n\r]+\s*name: *[^\n\r]+\sstatus: *[^\n\r]+\sregistered: *[^\n\r]+\schanged: *(?P<value>[^\n\r]+)`),
		ExpirationDate: rx(`Domain: *[\n\r]+\s*name: *[^\n\r]+\sstatus: *[^\n\r]+\sregistered: *[^\n\r]+\schanged: *[^\n\r]+\sexpire: *(?P<value>[^\n\r]+)`),
		Registrar:      rx(`Registrar: *[\n\r]+\s*name: *(?P<value>[^\n\r]+)`),
		NotFound:       irx(`Domain not found`),
		DateFormat:     "YYYY-MM-DD",
	}},
	{Suffixes: []string{"kr"}, Rules: &RuleSet{
		Name:           "kr",
		DomainName:     rx(`Domain Name\s*: *(?P<value>[^\s]+)`),
		CreationDate:   rx(`Registered Date\s*: *(?P<value>.+)`),
		UpdatedDate:    rx(`Last Updated Date\s*: *(?P<value>.+)`),
		ExpirationDate: rx(`Expiration Date\s*: *(?P<value>.+)`),
		Registrar:      rx(`Authorized Agency\s*: *(?P<value>.+)`),
		DateFormat:     "YYYY. MM. DD.",
		NotFound:       irx(`The requested domain was not found `),
	}},
	{Suffixes: []string{"bg"}, Rules: &RuleSet{
		Name:        "bg",
		DomainName:  rx(`DOMAIN NAME: *(?P<value>[^\s]+)`),
		Status:      rx(`registration status:\s*(?P<value>.+)`),
		NotFound:    irx(`registration status: available`),
		RateLimited: irx(`Query limit exceeded`),
	}},
	{Suffixes: []string{"de"}, Rules: &RuleSet{
		Name:        "de",
		DomainName:  rx(`Domain: *(?P<value>[^\s]+)`),
		Status:      rx(`Status: *(?P<value>.+)`),
		UpdatedDate: rx(`Changed: *(?P<value>.+)`),
		NotFound:    irx(`Status: *free`),
	}},
	{Suffixes: []string{"at"}, Rules: &RuleSet{
		Name:        "at",
		DomainName:  rx(`domain: *(?P<value>[^\s]+)`),
		UpdatedDate: rx(`changed: *(?P<value>.+)`),
		Registrar:   rx(`registrar: *(?P<value>.+)`),
		NotFound:    irx(` nothing found`),
		DateFormat:  "YYYYMMDD hh:mm:ss",
		RateLimited: irx(`Quota exceeded`),
	}},
	{Suffixes: []string{"ca"}, Rules: &RuleSet{
		Name:           "ca",
		DomainName:     rx(`Domain Name: *(?P<value>[^\s]+)`),
		Status:         rx(`Domain Status: *(?P<value>.+)`),
		UpdatedDate:    rx(`Updated Date: *(?P<value>.+)`),
		CreationDate:   rx(`Creation Date: *(?P<value>.+)`),
		ExpirationDate: rx(`Expiry Date: *(?P<value>.+)`),
		Registrar:      rx(`Registrar: *(?P<value>.+)`),
		NotFound:       irx(`Not found: `),
	}},
	{Suffixes: []string{"be"}, Rules: &RuleSet{
		Name:         "be",
		DomainName:   rx(`Domain:\s*(?P<value>[^\s]+)`),
		Registrar:    rx(`Registrar: *[\n\r]+\s*Name:\s*(?P<value>.+)`),
		Status:       rx(`Status:\s*(?P<value>.+)`),
		CreationDate: rx(`Registered: *(?P<value>.+)`),
		DateFormat:   "ddd MMM DD YYYY",
		NotFound:     irx(`Status:\s*AVAILABLE`),
	}},
	{Suffixes: []string{"kg"}, Rules: &RuleSet{
		Name:           "kg",
		DomainName:     rx(`(?m)^Domain\s*(?P<value>[^\s]+)`),
		Registrar:      rx(`Domain support: \s*(?P<value>.+)`),
		CreationDate:   rx(`Record created:\s*(?P<value>.+)`),
		ExpirationDate: rx(`Record expires on:\s*(?P<value>.+)`),
		UpdatedDate:    rx(`Record last updated on:\s*(?P<value>.+)`),
		DateFormat:     "ddd MMM DD HH:mm:ss YYYY",
		NotFound:       irx(`domain is available for registration`),
	}},
	{Suffixes: []string{"info"}, Rules: &RuleSet{
		Name:           "info",
		DomainName:     rx(`Domain Name: *(?P<value>[^\s]+)`),
		Registrar:      rx(`Registrar: *(?P<value>.+)`),
		UpdatedDate:    rx(`Updated Date: *(?P<value>.+)`),
		CreationDate:   rx(`Creation Date: *(?P<value>.+)`),
		ExpirationDate: rx(`Registrar Registration Expiration Date: *(?P<value>.+)`),
		Status:         rx(`Status: *(?P<value>.+)`),
		NameServers:    rx(`Name Server: *(?P<value>.+)`),
		NotFound:       irx(`NOT FOUND`),
	}},
	{Suffixes: []string{"id"}, Rules: &RuleSet{
		Name:           "id",
		DomainName:     rx(`Domain Name:(?P<value>[^\s]+)`),
		CreationDate:   rx(`Created On:(?P<value>.+)`),
		ExpirationDate: rx(`Expiration Date:?(?P<value>.+)`),
		UpdatedDate:    rx(`Last Updated On:?(?P<value>.+)`),
		Registrar:      rx(`Sponsoring Registrar Organization:(?P<value>.+)`),
		Status:         rx(`Status:(?P<value>.+)`),
		NotFound:       irx(`DOMAIN NOT FOUND`),
		DateFormat:     "DD-MMM-YYYY HH:mm:ss UTC",
	}},
	{Suffixes: []string{"sk"}, Rules: &RuleSet{
		Name:           "sk",
		DomainName:     rx(`Domain:\s*(?P<value>[^\s]+)`),
		CreationDate:   rx(`Created:\s*(?P<value>.+)`),
		ExpirationDate: rx(`Valid Until:\s*(?P<value>.+)`),
		Status:         rx(`EPP Status:\s*(?P<value>.+)`),
		UpdatedDate:    rx(`Updated:\s*(?P<value>.+)`),
		Registrar:      rx(`Registrar:\s*(?P<value>.+)`),
		DateFormat:     "YYYY-MM-DD",
		NotFound:       irx(`Domain not found`),
	}},
	{Suffixes: []string{"se", "nu"}, Rules: &RuleSet{
		Name:           "se",
		DomainName:     rx(`domain\.*: *(?P<value>[^\s]+)`),
		CreationDate:   rx(`created\.*: *(?P<value>.+)`),
		UpdatedDate:    rx(`modified\.*: *(?P<value>.+)`),
		ExpirationDate: rx(`expires\.*: *(?P<value>.+)`),
		Status:         rx(`status\.*: *(?P<value>.+)`),
		Registrar:      rx(`registrar: *(?P<value>.+)`),
		DateFormat:     "YYYY-MM-DD",
		NotFound:       irx(`" not found.`),
	}},
	{Suffixes: []string{"is"}, Rules: &RuleSet{
		Name:           "is",
		DomainName:     rx(`domain\.*: *(?P<value>[^\s]+)`),
		CreationDate:   rx(`created\.*: *(?P<value>.+)`),
		ExpirationDate: rx(`expires\.*: *(?P<value>.+)`),
		DateFormat:     "MMM DD YYYY",
		NotFound:       irx(`No entries found for query`),
	}},
	{Suffixes: []string{"co"}, Rules: &RuleSet{
		Name:           "co",
		DomainName:     rx(`Domain Name: *(?P<value>[^\s]+)`),
		Registrar:      rx(`Registrar: *(?P<value>.+)`),
		UpdatedDate:    rx(`Updated Date: *(?P<value>.+)`),
		CreationDate:   rx(`Creation Date: *(?P<value>.+)`),
		ExpirationDate: rx(`Expir\w+ Date: *(?P<value>.+)`),
		Status:         rx(`Status:\s*(?P<value>.+)`),
		NameServers:    rx(`Name Server: *(?P<value>.+)`),
		NotFound:       irx(`No Data Found`),
	}},
	{Suffixes: []string{"tr"}, Rules: &RuleSet{
		Name:           "tr",
		DomainName:     rx(`Domain Name: *(?P<value>[^\s]+)`),
		Registrar:      rx(`Organization Name\t: *(?P<value>.+)`),
		CreationDate:   rx(`Created on\.+: *(?P<value>.+)`),
		ExpirationDate: rx(`Expires on\.+: *(?P<value>.+)`),
		DateFormat:     "YYYY-MMM-DD",
		NotFound:       irx(`No match found`),
	}},
	{Suffixes: []string{"cn"}, Rules: &RuleSet{
		Name:           "cn",
		DomainName:     rx(`Domain Name: *(?P<value>[^\s]+)`),
		Registrar:      rx(`Sponsoring Registrar: *(?P<value>.+)`),
		CreationDate:   rx(`Registration Time: *(?P<value>.+)`),
		ExpirationDate: rx(`Expiration Time: *(?P<value>.+)`),
		Status:         rx(`Domain Status: *(?P<value>.+)`),
		NameServers:    rx(`Name Server: *(?P<value>.+)`),
		DateFormat:     "YYYY-MM-DD HH:mm:ss",
		NotFound:       irx(`No matching record`),
	}},
	{Suffixes: []string{"tw"}, Rules: &RuleSet{
		Name:           "tw",
		DomainName:     rx(`Domain Name: *(?P<value>[^\s]+)`),
		Registrar:      rx(`Registration Service Provider: *(?P<value>.+)`),
		CreationDate:   rx(`Record created on (?P<value>\d{4}-\d{2}-\d{2})`),
		ExpirationDate: rx(`Record expires on (?P<value>\d{4}-\d{2}-\d{2})`),
		Status:         rx(`Domain Status: *(?P<value>.+)`),
		DateFormat:     "YYYY-MM-DD",
		NotFound:       irx(`No Found`),
	}},
}

var (
	rulesMu    sync.RWMutex
	rulesIndex = map[string]*RuleSet{}
)

func init() {
	for _, tr := range builtinRules {
		Register(tr.Suffixes, tr.Rules)
	}
}

// Register binds rules to each suffix (without the leading dot). Later
// registrations replace earlier ones. IDN suffixes are indexed under both
// their Unicode and ASCII forms.
func Register(suffixes []string, rules *RuleSet) {
	rulesMu.Lock()
	defer rulesMu.Unlock()
	for _, s := range suffixes {
		s = normalizeSuffix(s)
		if s == "" {
			continue
		}
		rulesIndex[s] = rules
		if ascii, err := idna.ToASCII(s); err == nil && ascii != s {
			rulesIndex[ascii] = rules
		}
	}
}

// GetRules resolves the rule set for a query name by longest suffix
// match. The second result is false when DefaultRules was used.
func GetRules(name string) (*RuleSet, bool) {
	name = normalizeSuffix(name)
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	for candidate := name; candidate != ""; {
		if rules, ok := rulesIndex[candidate]; ok {
			return rules, true
		}
		if uni, err := idna.ToUnicode(candidate); err == nil && uni != candidate {
			if rules, ok := rulesIndex[uni]; ok {
				return rules, true
			}
		}
		i := strings.IndexByte(candidate, '.')
		if i < 0 {
			break
		}
		candidate = candidate[i+1:]
	}
	return DefaultRules, false
}

func normalizeSuffix(s string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(s)), ".")
}

// capture returns the "value" group of the first match of re in text.
func capture(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[valueIndex(re, len(m))]), true
}

// captureAll returns the "value" group of every match of re in text.
func captureAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if v := strings.TrimSpace(m[valueIndex(re, len(m))]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func valueIndex(re *regexp.Regexp, n int) int {
	if i := re.SubexpIndex("value"); i > 0 {
		return i
	}
	return n - 1
}
