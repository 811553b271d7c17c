package whois

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRules(t *testing.T) {
	tests := []struct {
		query     string
		name      string
		dedicated bool
	}{
		{"example.com", "com", true},
		{"EXAMPLE.NET.", "com", true},
		{"example.co.uk", "uk", true},
		{"example.com.br", "br", true},
		{"пример.рф", "ru", true},
		{"xn--e1afmkfd.xn--p1ai", "ru", true},
		{"example.nu", "se", true},
		{"example.zz", "default", false},
		{"", "default", false},
	}
	for _, tt := range tests {
		rules, dedicated := GetRules(tt.query)
		require.NotNil(t, rules, tt.query)
		assert.Equal(t, tt.name, rules.Name, tt.query)
		assert.Equal(t, tt.dedicated, dedicated, tt.query)
	}
}

func TestRegister(t *testing.T) {
	custom := &RuleSet{
		Name:       "custom",
		DomainName: rx(`Object: *(?P<value>\S+)`),
		Registrar:  rx(`Agent: *(?P<value>.+)`),
	}
	Register([]string{".customtest"}, custom)

	rules, dedicated := GetRules("shop.example.customtest")
	assert.True(t, dedicated)
	assert.Same(t, custom, rules)

	rec, err := ParseWhoisData("Object: example.customtest\nAgent: Custom Agent\n", "example.customtest")
	require.NoError(t, err)
	assert.Equal(t, "EXAMPLE.CUSTOMTEST", rec.Domain)
	assert.Equal(t, "Custom Agent", rec.Registrar)
}

func TestBuiltinRulesCaptureValueGroup(t *testing.T) {
	for _, tr := range builtinRules {
		r := tr.Rules
		patterns := map[string]*regexp.Regexp{
			"domainName":     r.DomainName,
			"registrar":      r.Registrar,
			"creationDate":   r.CreationDate,
			"expirationDate": r.ExpirationDate,
			"updatedDate":    r.UpdatedDate,
			"status":         r.Status,
			"nameServers":    r.NameServers,
		}
		for field, re := range patterns {
			if re == nil {
				continue
			}
			assert.Positive(t, re.SubexpIndex("value"), "%s.%s", r.Name, field)
		}
	}
}
