package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vit0-9/whois_api/pkg/whois"
)

type call struct{ query, server string }

func fakeTransport(responses map[string]string, calls *[]call) *WhoisTransport {
	return &WhoisTransport{
		query: func(query, server string) (string, error) {
			*calls = append(*calls, call{query, server})
			text, ok := responses[server]
			if !ok {
				return "", errors.New("connection refused")
			}
			return text, nil
		},
		logger: zap.NewNop(),
	}
}

const arinReferral = `NetRange:       193.0.0.0 - 193.0.7.255
ReferralServer: whois://whois.ripe.net
`

const ripeAnswer = `inetnum:        193.0.0.0 - 193.0.7.255
netname:        RIPE-NCC
`

func TestReferral(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"refer:        whois.verisign-grs.com\n", "whois.verisign-grs.com"},
		{"whois:        whois.nic.uk\n", "whois.nic.uk"},
		{"ReferralServer: whois://whois.ripe.net\n", "whois.ripe.net"},
		{"ReferralServer: rwhois://rwhois.example.net:4321\n", ""},
		{"ReferralServer: whois://whois.example.net:43\n", "whois.example.net"},
		{"   Registrar WHOIS Server: WHOIS.MarkMonitor.com\n", "whois.markmonitor.com"},
		{"Domain Name: EXAMPLE.COM\n", ""},
		{"remarks: see whois.example.net for details\n", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Referral(tt.text), tt.text)
	}
}

func TestWhoisTransport_FollowDepth(t *testing.T) {
	responses := map[string]string{
		"":               arinReferral,
		"whois.ripe.net": ripeAnswer,
	}

	var calls []call
	text, err := fakeTransport(responses, &calls).Lookup(context.Background(), "193.0.0.1", 0)
	require.NoError(t, err)
	assert.Equal(t, arinReferral, text)
	assert.Len(t, calls, 1)

	calls = nil
	text, err = fakeTransport(responses, &calls).Lookup(context.Background(), "193.0.0.1", 5)
	require.NoError(t, err)
	assert.Equal(t, ripeAnswer, text)
	assert.Equal(t, []call{{"193.0.0.1", ""}, {"193.0.0.1", "whois.ripe.net"}}, calls)
}

func TestWhoisTransport_ReferralLoopStops(t *testing.T) {
	responses := map[string]string{
		"":             "whois: whois.a.test\n",
		"whois.a.test": "whois: whois.b.test\n",
		"whois.b.test": "whois: whois.a.test\n",
	}
	var calls []call
	text, err := fakeTransport(responses, &calls).Lookup(context.Background(), "example.test", 10)
	require.NoError(t, err)
	assert.Equal(t, "whois: whois.a.test\n", text)
	assert.Len(t, calls, 3)
}

func TestWhoisTransport_FailedReferralKeepsPrevious(t *testing.T) {
	responses := map[string]string{"": arinReferral}
	var calls []call
	text, err := fakeTransport(responses, &calls).Lookup(context.Background(), "193.0.0.1", 5)
	require.NoError(t, err)
	assert.Equal(t, arinReferral, text)
}

func TestWhoisTransport_SkipsRWhoisReferral(t *testing.T) {
	arin := "NetRange:       192.0.2.0 - 192.0.2.255\nReferralServer: rwhois://rwhois.example.net:4321\n"
	responses := map[string]string{"": arin}
	var calls []call
	text, err := fakeTransport(responses, &calls).Lookup(context.Background(), "192.0.2.1", 5)
	require.NoError(t, err)
	assert.Equal(t, arin, text)
	assert.Equal(t, []call{{"192.0.2.1", ""}}, calls)
}

func TestWhoisTransport_FirstQueryFails(t *testing.T) {
	var calls []call
	_, err := fakeTransport(map[string]string{}, &calls).Lookup(context.Background(), "example.com", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, whois.ErrTransport))
}

func TestWhoisTransport_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	tr := &WhoisTransport{
		query: func(string, string) (string, error) {
			<-release
			return "late", nil
		},
		logger: zap.NewNop(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := tr.Lookup(ctx, "example.com", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, whois.ErrTransport))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
