// Package service assembles the lookup service from configuration.
package service

import (
	"go.uber.org/zap"

	"github.com/vit0-9/whois_api/pkg/cache"
	"github.com/vit0-9/whois_api/pkg/config"
	"github.com/vit0-9/whois_api/pkg/enrich"
	"github.com/vit0-9/whois_api/pkg/lookup"
	"github.com/vit0-9/whois_api/pkg/rdap"
	"github.com/vit0-9/whois_api/pkg/utils"
)

// New wires transports, cache and enrichers. geo may be nil.
func New(cfg config.Config, store cache.Store, geo *enrich.GeoIP, zlog *zap.Logger) *lookup.Service {
	var rdapClient lookup.RDAPClient
	if cfg.RDAPEnabled {
		rdapClient = rdap.NewClient(cfg.RDAPTimeout, zlog)
	}

	enrichHTTP := utils.NewHTTPClient(cfg.RDAPTimeout)
	enrichers := []lookup.Enricher{enrich.NewMoz(cfg.MozAccessID, cfg.MozSecretKey, enrichHTTP, zlog)}
	if cfg.PricingEnabled {
		enrichers = append(enrichers, enrich.NewPricing(cfg.PricingURL, enrichHTTP, zlog))
	}
	if geo != nil && geo.Enabled() {
		enrichers = append(enrichers, geo)
	}

	return lookup.NewService(
		lookup.NewWhoisTransport(cfg.WhoisTimeout, zlog),
		rdapClient,
		store,
		lookup.Options{
			DomainFollow:  cfg.MaxWhoisFollow,
			NetworkFollow: cfg.MaxIPWhoisFollow,
			RDAPEnabled:   cfg.RDAPEnabled,
			Coalesce:      cfg.LookupCoalesce,
			SharedTimeout: cfg.LookupTimeout,
		},
		zlog,
		enrichers...,
	)
}
