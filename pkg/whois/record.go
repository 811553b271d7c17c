package whois

import (
	"math"
	"time"
)

const (
	// Unknown is the sentinel for a field no source line supplied.
	Unknown = "Unknown"
	// NotAvailable is the sentinel for identifiers such as the IANA registrar ID.
	NotAvailable = "N/A"
)

// DomainStatus is one EPP status token with an optional reference link.
type DomainStatus struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

// Pricing is the registration price offered by the cheapest registrar for a TLD.
type Pricing struct {
	Registrar    string  `json:"registrar"`
	RegistrarWeb string  `json:"registrarWeb"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	IsPremium    bool    `json:"isPremium"`
	ExternalLink string  `json:"externalLink"`
}

// GeoInfo is GeoIP data attached to network-object records.
type GeoInfo struct {
	CountryCode    string `json:"countryCode,omitempty"`
	CountryName    string `json:"countryName,omitempty"`
	CityName       string `json:"cityName,omitempty"`
	ASN            uint   `json:"asn,omitempty"`
	ASOrganization string `json:"asOrganization,omitempty"`
}

// Record is the canonical, transport-agnostic result of a lookup.
type Record struct {
	Domain       string `json:"domain"`
	Registrar    string `json:"registrar"`
	RegistrarURL string `json:"registrarURL"`
	IANAID       string `json:"ianaId"`
	WhoisServer  string `json:"whoisServer"`

	UpdatedDate    string `json:"updatedDate"`
	CreationDate   string `json:"creationDate"`
	ExpirationDate string `json:"expirationDate"`

	Status      []DomainStatus `json:"status"`
	NameServers []string       `json:"nameServers"`

	RegistrantName         string `json:"registrantName"`
	RegistrantOrganization string `json:"registrantOrganization"`
	RegistrantProvince     string `json:"registrantProvince"`
	RegistrantCountry      string `json:"registrantCountry"`
	RegistrantPhone        string `json:"registrantPhone"`
	RegistrantEmail        string `json:"registrantEmail"`

	DNSSEC string `json:"dnssec"`

	CIDR     string `json:"cidr"`
	InetNum  string `json:"inetNum"`
	Inet6Num string `json:"inet6Num"`
	NetRange string `json:"netRange"`
	NetName  string `json:"netName"`
	NetType  string `json:"netType"`
	OriginAS string `json:"originAS"`

	RawWhoisContent string `json:"rawWhoisContent"`
	RawRdapContent  string `json:"rawRdapContent,omitempty"`

	DomainAge     *int `json:"domainAge"`
	RemainingDays *int `json:"remainingDays"`

	RegisterPrice *Pricing `json:"registerPrice"`
	RenewPrice    *Pricing `json:"renewPrice"`
	TransferPrice *Pricing `json:"transferPrice"`

	MozDomainAuthority int `json:"mozDomainAuthority"`
	MozPageAuthority   int `json:"mozPageAuthority"`
	MozSpamScore       int `json:"mozSpamScore"`

	Geo *GeoInfo `json:"geo,omitempty"`
}

// NewRecord returns a record with every field set to its default.
func NewRecord() *Record {
	return &Record{
		Registrar:              Unknown,
		RegistrarURL:           Unknown,
		IANAID:                 NotAvailable,
		WhoisServer:            Unknown,
		UpdatedDate:            Unknown,
		CreationDate:           Unknown,
		ExpirationDate:         Unknown,
		Status:                 []DomainStatus{},
		NameServers:            []string{},
		RegistrantName:         Unknown,
		RegistrantOrganization: Unknown,
		RegistrantProvince:     Unknown,
		RegistrantCountry:      Unknown,
		RegistrantPhone:        Unknown,
		RegistrantEmail:        Unknown,
		DNSSEC:                 Unknown,
		CIDR:                   Unknown,
		InetNum:                Unknown,
		Inet6Num:               Unknown,
		NetRange:               Unknown,
		NetName:                Unknown,
		NetType:                Unknown,
		OriginAS:               Unknown,
	}
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Status = append([]DomainStatus{}, r.Status...)
	c.NameServers = append([]string{}, r.NameServers...)
	c.DomainAge = cloneInt(r.DomainAge)
	c.RemainingDays = cloneInt(r.RemainingDays)
	c.RegisterPrice = clonePricing(r.RegisterPrice)
	c.RenewPrice = clonePricing(r.RenewPrice)
	c.TransferPrice = clonePricing(r.TransferPrice)
	if r.Geo != nil {
		g := *r.Geo
		c.Geo = &g
	}
	return &c
}

// RefreshDerived recomputes DomainAge and RemainingDays relative to now.
// Both are nil when the corresponding date is unknown.
func (r *Record) RefreshDerived(now time.Time) {
	r.DomainAge = nil
	r.RemainingDays = nil
	if t, ok := ParseISO(r.CreationDate); ok {
		days := floorDays(now.Sub(t))
		r.DomainAge = &days
	}
	if t, ok := ParseISO(r.ExpirationDate); ok {
		days := floorDays(t.Sub(now))
		r.RemainingDays = &days
	}
}

func floorDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func clonePricing(p *Pricing) *Pricing {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// DedupStatus keeps the first occurrence of every status token.
func DedupStatus(in []DomainStatus) []DomainStatus {
	out := make([]DomainStatus, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if seen[s.Status] {
			continue
		}
		seen[s.Status] = true
		out = append(out, s)
	}
	return out
}
