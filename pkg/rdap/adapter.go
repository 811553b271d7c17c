// Package rdap converts RDAP responses into whois.Record values and fetches
// them through bootstrap-resolved RDAP servers.
package rdap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vit0-9/whois_api/pkg/whois"
)

const (
	// EPPStatusURL is attached to every RDAP status token.
	EPPStatusURL = "https://icann.org/epp"
	// WhoisServer marks records that came from RDAP rather than port 43.
	WhoisServer = "RDAP"

	ianaRegistrarID = "IANA Registrar ID"
)

// ConvertRdapToRecord maps an RDAP domain, ip network or autnum object onto
// a record. It never fails: a malformed document yields a defaulted record
// that still carries the raw content.
func ConvertRdapToRecord(raw []byte, originalQuery string, now time.Time) *whois.Record {
	rec := whois.NewRecord()
	rec.WhoisServer = WhoisServer
	rec.DNSSEC = "unsigned"
	rec.RawRdapContent = prettyJSON(raw)

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		rec.Domain = originalQuery
		rec.RefreshDerived(now)
		return rec
	}

	rec.Domain = firstNonEmpty(resp.LDHName, resp.UnicodeName, originalQuery)

	applyEntities(rec, resp.Entities)
	applyEvents(rec, resp.Events)

	for _, s := range resp.Status {
		if s = strings.TrimSpace(s); s != "" {
			rec.Status = append(rec.Status, whois.DomainStatus{Status: s, URL: EPPStatusURL})
		}
	}
	rec.Status = whois.DedupStatus(rec.Status)

	for _, ns := range resp.Nameservers {
		if name := firstNonEmpty(ns.LDHName, ns.UnicodeName); name != "" {
			rec.NameServers = append(rec.NameServers, name)
		}
	}

	if resp.SecureDNS != nil && resp.SecureDNS.DelegationSigned {
		rec.DNSSEC = "signedDelegation"
	}

	applyNetwork(rec, &resp)
	rec.RefreshDerived(now)
	return rec
}

func applyEntities(rec *whois.Record, entities []entity) {
	var registrar, registrant *entity
	walkEntities(entities, func(e *entity) {
		if registrar == nil && e.hasRole("registrar") {
			registrar = e
		}
		if registrant == nil && e.hasRole("registrant") {
			registrant = e
		}
	})

	if registrar != nil {
		card := parseVCard(registrar.VCardArray)
		if name, ok := card.get("fn"); ok {
			rec.Registrar = name
		} else if org, ok := card.get("org"); ok {
			rec.Registrar = org
		}
		if u, ok := card.get("url"); ok {
			rec.RegistrarURL = u
		} else if u := aboutLink(registrar.Links); u != "" {
			rec.RegistrarURL = u
		}
		for _, id := range registrar.PublicIDs {
			if id.Type == ianaRegistrarID && strings.TrimSpace(id.Identifier) != "" {
				rec.IANAID = strings.TrimSpace(id.Identifier)
				break
			}
		}
	}

	if registrant != nil {
		card := parseVCard(registrant.VCardArray)
		setIf(&rec.RegistrantName, card, "fn")
		setIf(&rec.RegistrantOrganization, card, "org")
		setIf(&rec.RegistrantCountry, card, "country-name")
		setIf(&rec.RegistrantProvince, card, "region")
		if tel, ok := card.get("tel"); ok {
			rec.RegistrantPhone = strings.TrimPrefix(tel, "tel:")
		}
		if email, ok := card.get("email"); ok {
			rec.RegistrantEmail = strings.TrimPrefix(email, "mailto:")
		}
		region, country := card.address()
		if rec.RegistrantProvince == whois.Unknown && region != "" {
			rec.RegistrantProvince = region
		}
		if rec.RegistrantCountry == whois.Unknown && country != "" {
			rec.RegistrantCountry = country
		}
	}
}

// walkEntities visits entities depth-first; registrars often nest their
// abuse contacts, and some registries nest the registrant.
func walkEntities(entities []entity, visit func(*entity)) {
	for i := range entities {
		visit(&entities[i])
		walkEntities(entities[i].Entities, visit)
	}
}

func setIf(dst *string, card vcard, name string) {
	if v, ok := card.get(name); ok {
		*dst = v
	}
}

func aboutLink(links []link) string {
	for _, l := range links {
		if l.Rel == "about" && l.Href != "" {
			return l.Href
		}
	}
	return ""
}

func applyEvents(rec *whois.Record, events []event) {
	for _, ev := range events {
		var dst *string
		switch strings.ToLower(strings.TrimSpace(ev.EventAction)) {
		case "registration":
			dst = &rec.CreationDate
		case "last changed":
			dst = &rec.UpdatedDate
		case "expiration":
			dst = &rec.ExpirationDate
		default:
			continue
		}
		if *dst != whois.Unknown {
			continue
		}
		if iso, ok := whois.ParseDate(ev.EventDate, ""); ok {
			*dst = iso
		}
	}
}

func applyNetwork(rec *whois.Record, resp *response) {
	start, end := strings.TrimSpace(resp.StartAddress), strings.TrimSpace(resp.EndAddress)
	if start != "" && end != "" {
		rec.NetRange = start + " - " + end
		rec.CIDR = start + "-" + end
	}
	if c := cidr0(resp.CIDR0); c != "" {
		rec.CIDR = c
	}
	if start != "" {
		if strings.EqualFold(resp.IPVersion, "v6") {
			rec.Inet6Num = start
		} else {
			rec.InetNum = start
		}
	}
	if name := strings.TrimSpace(resp.Name); name != "" {
		rec.NetName = name
	}
	if typ := strings.TrimSpace(resp.Type); typ != "" {
		rec.NetType = typ
	}
	if as := strings.TrimSpace(string(resp.StartAutnum)); as != "" && as != "0" {
		rec.OriginAS = "AS" + as
	}
}

func cidr0(entries []cidr0Entry) string {
	prefixes := make([]string, 0, len(entries))
	for _, c := range entries {
		prefix := firstNonEmpty(c.V4Prefix, c.V6Prefix)
		if prefix == "" || c.Length == "" {
			continue
		}
		prefixes = append(prefixes, fmt.Sprintf("%s/%s", prefix, c.Length))
	}
	return strings.Join(prefixes, ", ")
}

func prettyJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
