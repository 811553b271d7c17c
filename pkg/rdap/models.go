package rdap

import (
	"bytes"
	"encoding/json"
	"strings"
)

// response is the subset of an RFC 9083 domain, ip network or autnum object
// the adapter reads. All three object classes decode into it.
type response struct {
	ObjectClassName string `json:"objectClassName"`
	Handle          string `json:"handle"`
	LDHName         string `json:"ldhName"`
	UnicodeName     string `json:"unicodeName"`
	Port43          string `json:"port43"`

	Status      []string     `json:"status"`
	Events      []event      `json:"events"`
	Entities    []entity     `json:"entities"`
	Nameservers []nameserver `json:"nameservers"`
	SecureDNS   *secureDNS   `json:"secureDNS"`

	StartAddress string       `json:"startAddress"`
	EndAddress   string       `json:"endAddress"`
	IPVersion    string       `json:"ipVersion"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	CIDR0        []cidr0Entry `json:"cidr0_cidrs"`

	StartAutnum flexString `json:"startAutnum"`
	EndAutnum   flexString `json:"endAutnum"`
}

type event struct {
	EventAction string `json:"eventAction"`
	EventDate   string `json:"eventDate"`
}

type publicID struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type entity struct {
	Handle     string          `json:"handle"`
	Roles      []string        `json:"roles"`
	VCardArray json.RawMessage `json:"vcardArray"`
	PublicIDs  []publicID      `json:"publicIds"`
	Links      []link          `json:"links"`
	Entities   []entity        `json:"entities"`
}

func (e *entity) hasRole(role string) bool {
	for _, r := range e.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

type nameserver struct {
	LDHName     string `json:"ldhName"`
	UnicodeName string `json:"unicodeName"`
}

type secureDNS struct {
	DelegationSigned bool `json:"delegationSigned"`
}

// cidr0Entry is one element of the cidr0 extension's prefix list.
type cidr0Entry struct {
	V4Prefix string     `json:"v4prefix"`
	V6Prefix string     `json:"v6prefix"`
	Length   flexString `json:"length"`
}

// flexString accepts a JSON string or number. Servers disagree on how
// autnum bounds and prefix lengths are encoded.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
