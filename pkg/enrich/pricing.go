// Package enrich adds optional third-party data to fresh lookup records.
// Every enricher degrades to the record defaults when its upstream fails.
package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vit0-9/whois_api/pkg/lookup"
	"github.com/vit0-9/whois_api/pkg/utils"
	"github.com/vit0-9/whois_api/pkg/whois"
)

// DefaultPricingURL is the nazhumi price comparison API.
const DefaultPricingURL = "https://www.nazhumi.com/api/v1"

// Order is the kind of transaction a price applies to.
type Order string

const (
	OrderNew      Order = "new"
	OrderRenew    Order = "renew"
	OrderTransfer Order = "transfer"
)

var premiumCurrencies = map[string]bool{"usd": true, "eur": true, "cad": true}

type pricingResponse struct {
	Data struct {
		Domain string         `json:"domain"`
		Order  string         `json:"order"`
		Count  int            `json:"count"`
		Price  []registrarBid `json:"price"`
	} `json:"data"`
}

// registrarBid prices are numbers, or the string "n/a" when a registrar
// does not offer the transaction.
type registrarBid struct {
	Registrar     string `json:"registrar"`
	RegistrarName string `json:"registrarname"`
	RegistrarWeb  string `json:"registrarweb"`
	New           any    `json:"new"`
	Renew         any    `json:"renew"`
	Transfer      any    `json:"transfer"`
	Currency      string `json:"currency"`
}

func (b registrarBid) price(order Order) float64 {
	var v any
	switch order {
	case OrderRenew:
		v = b.Renew
	case OrderTransfer:
		v = b.Transfer
	default:
		v = b.New
	}
	if f, ok := v.(float64); ok {
		return f
	}
	return -1
}

// Pricing attaches the cheapest registrar offer for the domain's TLD.
type Pricing struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// NewPricing returns a pricing enricher querying baseURL.
func NewPricing(baseURL string, client *http.Client, logger *zap.Logger) *Pricing {
	if baseURL == "" {
		baseURL = DefaultPricingURL
	}
	return &Pricing{client: client, baseURL: strings.TrimRight(baseURL, "/"), logger: logger.Named("pricing")}
}

// Enrich fills the three price fields of domain records.
func (p *Pricing) Enrich(ctx context.Context, q lookup.Query, rec *whois.Record) {
	if q.Kind != lookup.KindDomain {
		return
	}
	var g errgroup.Group
	g.Go(func() error { rec.RegisterPrice = p.Price(ctx, q.Normalized, OrderNew); return nil })
	g.Go(func() error { rec.RenewPrice = p.Price(ctx, q.Normalized, OrderRenew); return nil })
	g.Go(func() error { rec.TransferPrice = p.Price(ctx, q.Normalized, OrderTransfer); return nil })
	_ = g.Wait()
}

// Price returns the first offer for domain's TLD, or nil when the API
// could not be reached.
func (p *Pricing) Price(ctx context.Context, domain string, order Order) *whois.Pricing {
	domain = strings.ToLower(strings.TrimSpace(domain))
	tld := domain[strings.LastIndex(domain, ".")+1:]

	endpoint := fmt.Sprintf("%s?domain=%s&order=%s", p.baseURL, url.QueryEscape(tld), order)
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		p.logger.Error("failed to build pricing request", zap.Error(err))
		return nil
	}

	var resp pricingResponse
	if err := utils.FetchJSON(ctx, p.client, req, &resp); err != nil {
		p.logger.Warn("pricing lookup failed", zap.String("tld", tld), zap.String("order", string(order)), zap.Error(err))
		return nil
	}

	out := &whois.Pricing{
		Registrar:    whois.Unknown,
		RegistrarWeb: whois.Unknown,
		Price:        -1,
		Currency:     whois.Unknown,
		ExternalLink: fmt.Sprintf("https://www.nazhumi.com/domain/%s/%s", domain, order),
	}
	if len(resp.Data.Price) == 0 {
		return out
	}

	best := resp.Data.Price[0]
	out.Registrar = best.Registrar
	out.RegistrarWeb = best.RegistrarWeb
	out.Price = best.price(order)
	out.Currency = best.Currency
	newPrice := best.price(OrderNew)
	out.IsPremium = newPrice > 100 && premiumCurrencies[strings.ToLower(best.Currency)]
	return out
}
