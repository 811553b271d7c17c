package whois

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMomentLayout(t *testing.T) {
	tests := map[string]string{
		"DD-MMM-YYYY":              "02-Jan-2006",
		"YYYY-MM-DDThh:mm:ssZ":     "2006-01-02T15:04:05Z07:00",
		"YYYYMMDD":                 "20060102",
		"YYYY/MM/DD":               "2006/01/02",
		"DD.MM.YYYY hh:mm:ss":      "02.01.2006 15:04:05",
		"ddd MMM DD YYYY":          "Mon Jan 02 2006",
		"DD-MMM-YYYY HH:mm:ss UTC": "02-Jan-2006 15:04:05 UTC",
	}
	for in, want := range tests {
		assert.Equal(t, want, MomentLayout(in), in)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		hint  string
		want  string
		valid bool
	}{
		{"hinted day month year", "01-Jan-2020", "DD-MMM-YYYY", "2020-01-01T00:00:00.000Z", true},
		{"compact", "20000101", "YYYYMMDD", "2000-01-01T00:00:00.000Z", true},
		{"trailing commentary", "2020-01-01 (YYYY-MM-DD)", "YYYY-MM-DD", "2020-01-01T00:00:00.000Z", true},
		{"hint without time part", "01.02.2010", "DD.MM.YYYY hh:mm:ss", "2010-02-01T00:00:00.000Z", true},
		{"generic rfc3339", "2023-08-14T07:01:38Z", "", "2023-08-14T07:01:38.000Z", true},
		{"generic with offset", "2018-03-12T21:44:25+01:00", "", "2018-03-12T20:44:25.000Z", true},
		{"generic day month year", "14-Aug-1995", "", "1995-08-14T00:00:00.000Z", true},
		{"generic slashes", "1995/08/14", "", "1995-08-14T00:00:00.000Z", true},
		{"generic spelled month", "14 August 1995", "", "1995-08-14T00:00:00.000Z", true},
		{"generic with zone name", "2014-12-16 06:20:00 UTC", "", "2014-12-16T06:20:00.000Z", true},
		{"hint mismatch falls back", "2023-08-14T07:01:38Z", "DD-MMM-YYYY", "2023-08-14T07:01:38.000Z", true},
		{"empty", "   ", "", "", false},
		{"garbage", "not a date at all", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw, tt.hint)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseISO(t *testing.T) {
	_, ok := ParseISO(Unknown)
	assert.False(t, ok)

	ts, ok := ParseISO("1995-08-14T04:00:00.000Z")
	assert.True(t, ok)
	assert.Equal(t, "1995-08-14T04:00:00.000Z", FormatISO(ts))
}
