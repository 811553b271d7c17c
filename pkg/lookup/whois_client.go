package lookup

import (
	"context"
	"regexp"
	"strings"
	"time"

	likexian "github.com/likexian/whois"
	"go.uber.org/zap"

	"github.com/vit0-9/whois_api/pkg/whois"
)

// referralPattern matches the lines registries use to point at a more
// authoritative server, capturing the host and an optional port.
var referralPattern = regexp.MustCompile(`(?im)^\s*(?:refer|whois|ReferralServer|Registrar WHOIS Server)\s*:\s*(?:r?whois://)?([a-z0-9][a-z0-9.\-]*[a-z0-9])(?::(\d+))?`)

// queryFunc sends one query to one server; an empty server lets the
// transport pick the authoritative registry.
type queryFunc func(query, server string) (string, error)

// WhoisTransport speaks the port-43 protocol through likexian/whois and
// chases referrals itself up to the requested depth.
type WhoisTransport struct {
	query  queryFunc
	logger *zap.Logger
}

// NewWhoisTransport returns a transport with a per-server timeout.
func NewWhoisTransport(timeout time.Duration, logger *zap.Logger) *WhoisTransport {
	client := likexian.NewClient().
		SetTimeout(timeout).
		SetDisableReferral(true).
		SetDisableStats(true)
	return &WhoisTransport{
		query: func(query, server string) (string, error) {
			if server == "" {
				return client.Whois(query)
			}
			return client.Whois(query, server)
		},
		logger: logger.Named("whois"),
	}
}

// Lookup returns the raw text of the last server reached after following
// at most follow referrals.
func (t *WhoisTransport) Lookup(ctx context.Context, query string, follow int) (string, error) {
	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		text, err := t.chase(query, follow)
		done <- outcome{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", whois.TransportError(ctx.Err(), "whois lookup for %s abandoned", query)
	case o := <-done:
		return o.text, o.err
	}
}

func (t *WhoisTransport) chase(query string, follow int) (string, error) {
	text, err := t.query(query, "")
	if err != nil {
		return "", whois.TransportError(err, "whois query for %s failed", query)
	}

	visited := map[string]bool{}
	for hop := 0; hop < follow; hop++ {
		server := Referral(text)
		if server == "" || visited[server] {
			break
		}
		visited[server] = true

		next, err := t.query(query, server)
		if err != nil {
			t.logger.Debug("referral failed, keeping previous response",
				zap.String("query", query), zap.String("server", server), zap.Error(err))
			break
		}
		if strings.TrimSpace(next) == "" {
			break
		}
		t.logger.Debug("followed referral", zap.String("query", query), zap.String("server", server), zap.Int("hop", hop+1))
		text = next
	}
	return text, nil
}

// Referral extracts the next WHOIS server named in text, or "". Servers on
// a port other than 43 (usually RWhois) are not followed.
func Referral(text string) string {
	m := referralPattern.FindStringSubmatch(text)
	if m == nil || (m[2] != "" && m[2] != "43") {
		return ""
	}
	return strings.ToLower(m[1])
}
