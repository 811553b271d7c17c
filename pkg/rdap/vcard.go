package rdap

import (
	"encoding/json"
	"strconv"
	"strings"
)

// vcard is a decoded jCard (RFC 7095): ["vcard", [[name, params, type, value...], ...]].
type vcard [][]any

func parseVCard(raw json.RawMessage) vcard {
	if len(raw) == 0 {
		return nil
	}
	var outer []json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil || len(outer) < 2 {
		return nil
	}
	var props [][]any
	if err := json.Unmarshal(outer[1], &props); err != nil {
		return nil
	}
	return props
}

func (v vcard) property(name string) []any {
	for _, p := range v {
		if len(p) < 4 {
			continue
		}
		if n, ok := p[0].(string); ok && strings.EqualFold(n, name) {
			return p
		}
	}
	return nil
}

// get returns the first value of the named property. Structured values are
// joined with ", ".
func (v vcard) get(name string) (string, bool) {
	p := v.property(name)
	if p == nil {
		return "", false
	}
	s := strings.TrimSpace(flatten(p[3:]))
	return s, s != ""
}

// address returns the region and country of the first adr property.
// Without a country component the "cc" parameter is used.
func (v vcard) address() (region, country string) {
	p := v.property("adr")
	if p == nil {
		return "", ""
	}
	if parts, ok := p[3].([]any); ok {
		if len(parts) > 4 {
			region = strings.TrimSpace(flatten(parts[4:5]))
		}
		if len(parts) > 6 {
			country = strings.TrimSpace(flatten(parts[6:7]))
		}
	}
	if country == "" {
		if params, ok := p[1].(map[string]any); ok {
			if cc, ok := params["cc"].(string); ok {
				country = strings.TrimSpace(cc)
			}
		}
	}
	return region, country
}

func flatten(values []any) string {
	parts := make([]string, 0, len(values))
	for _, val := range values {
		var s string
		switch t := val.(type) {
		case string:
			s = t
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case []any:
			s = flatten(t)
		}
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
