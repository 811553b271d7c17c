package whois

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISOLayout is the millisecond-precision UTC layout every date field uses.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// FormatISO renders t in ISOLayout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseISO parses a value previously produced by FormatISO (or any RFC 3339
// timestamp). The sentinel Unknown never parses.
func ParseISO(s string) (time.Time, bool) {
	if s == "" || s == Unknown {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDate converts a raw WHOIS date into ISOLayout. hint is an optional
// moment-style format ("DD-MMM-YYYY"); without it, or when the hinted parse
// fails, a best-effort generic parse is attempted.
func ParseDate(raw, hint string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	if hint != "" {
		if t, ok := parseHinted(v, hint); ok {
			return FormatISO(t), true
		}
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return "", false
	}
	return FormatISO(t), true
}

func parseHinted(v, hint string) (time.Time, bool) {
	layout := MomentLayout(hint)
	if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
		return t, true
	}
	// Trailing commentary after the date is common ("2020-01-01 (YYYY-MM-DD)").
	sample := time.Date(2006, time.January, 2, 15, 4, 5, 0, time.UTC).Format(layout)
	if n := len(sample); len(v) > n {
		if t, err := time.ParseInLocation(layout, v[:n], time.UTC); err == nil {
			return t, true
		}
	}
	// Some registries drop the time part the hint describes.
	if i := strings.IndexByte(layout, ' '); i > 0 {
		if t, err := time.ParseInLocation(layout[:i], v, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var momentTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"DD", "02"},
	{"D", "2"},
	// Registries write 24-hour clocks even where the hint says hh.
	{"HH", "15"},
	{"hh", "15"},
	{"H", "15"},
	{"h", "15"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"SSS", "000"},
	{"ZZ", "-0700"},
	{"Z", "Z07:00"},
	{"A", "PM"},
	{"a", "pm"},
}

// MomentLayout translates a moment.js style format string into a Go time
// layout. Characters that are not format tokens are copied through.
func MomentLayout(format string) string {
	var sb strings.Builder
	for i := 0; i < len(format); {
		matched := false
		for _, mt := range momentTokens {
			if strings.HasPrefix(format[i:], mt.token) {
				sb.WriteString(mt.layout)
				i += len(mt.token)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(format[i])
			i++
		}
	}
	return sb.String()
}
