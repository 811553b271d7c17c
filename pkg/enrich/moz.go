package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"

	"go.uber.org/zap"

	"github.com/vit0-9/whois_api/pkg/lookup"
	"github.com/vit0-9/whois_api/pkg/utils"
	"github.com/vit0-9/whois_api/pkg/whois"
)

// DefaultMozURL is the Moz Links API url_metrics endpoint.
const DefaultMozURL = "https://lsapi.seomoz.com/v2/url_metrics"

// MozMetrics are rounded authority scores. All three are -1 when no
// credentials are configured and 0 when the API call failed.
type MozMetrics struct {
	DomainAuthority int
	PageAuthority   int
	SpamScore       int
}

var (
	mozUnconfigured = MozMetrics{-1, -1, -1}
	mozFailed       = MozMetrics{}
)

type mozRequest struct {
	Targets []string `json:"targets"`
	Metrics []string `json:"metrics"`
}

type mozResponse struct {
	Results []struct {
		DomainAuthority float64 `json:"domain_authority"`
		PageAuthority   float64 `json:"page_authority"`
		SpamScore       float64 `json:"spam_score"`
	} `json:"results"`
}

// Moz attaches domain authority metrics.
type Moz struct {
	client    *http.Client
	endpoint  string
	accessID  string
	secretKey string
	logger    *zap.Logger
}

// NewMoz returns a Moz enricher; with empty credentials it never calls out.
func NewMoz(accessID, secretKey string, client *http.Client, logger *zap.Logger) *Moz {
	return &Moz{
		client:    client,
		endpoint:  DefaultMozURL,
		accessID:  accessID,
		secretKey: secretKey,
		logger:    logger.Named("moz"),
	}
}

// Enrich fills the Moz fields of domain records.
func (m *Moz) Enrich(ctx context.Context, q lookup.Query, rec *whois.Record) {
	if q.Kind != lookup.KindDomain {
		return
	}
	metrics := m.Metrics(ctx, q.Normalized)
	rec.MozDomainAuthority = metrics.DomainAuthority
	rec.MozPageAuthority = metrics.PageAuthority
	rec.MozSpamScore = metrics.SpamScore
}

// Metrics fetches the scores for domain.
func (m *Moz) Metrics(ctx context.Context, domain string) MozMetrics {
	if m.accessID == "" || m.secretKey == "" {
		return mozUnconfigured
	}

	body, err := json.Marshal(mozRequest{
		Targets: []string{"https://" + domain},
		Metrics: []string{"domain_authority", "page_authority", "spam_score"},
	})
	if err != nil {
		m.logger.Error("failed to encode moz request", zap.Error(err))
		return mozFailed
	}
	req, err := http.NewRequest(http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		m.logger.Error("failed to build moz request", zap.Error(err))
		return mozFailed
	}
	req.SetBasicAuth(m.accessID, m.secretKey)
	req.Header.Set("Content-Type", "application/json")

	var resp mozResponse
	if err := utils.FetchJSON(ctx, m.client, req, &resp); err != nil {
		m.logger.Warn("moz metrics lookup failed", zap.String("domain", domain), zap.Error(err))
		return mozFailed
	}
	if len(resp.Results) == 0 {
		m.logger.Warn("moz returned no results", zap.String("domain", domain))
		return mozFailed
	}

	r := resp.Results[0]
	return MozMetrics{
		DomainAuthority: int(math.Round(r.DomainAuthority)),
		PageAuthority:   int(math.Round(r.PageAuthority)),
		SpamScore:       int(math.Round(r.SpamScore)),
	}
}
