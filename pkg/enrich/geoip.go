package enrich

import (
	"context"
	"net"

	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"

	"github.com/vit0-9/whois_api/pkg/lookup"
	"github.com/vit0-9/whois_api/pkg/whois"
)

// GeoIP attaches MaxMind location and ASN data to IP and CIDR records.
type GeoIP struct {
	city   *geoip2.Reader
	asn    *geoip2.Reader
	logger *zap.Logger
}

// OpenGeoIP opens whichever MaxMind databases are configured. A missing or
// unreadable database disables that half of the lookup.
func OpenGeoIP(cityDBPath, asnDBPath string, logger *zap.Logger) *GeoIP {
	g := &GeoIP{logger: logger.Named("geoip")}
	g.city = g.open("GeoLite2-City", cityDBPath)
	g.asn = g.open("GeoLite2-ASN", asnDBPath)
	return g
}

func (g *GeoIP) open(name, path string) *geoip2.Reader {
	if path == "" {
		g.logger.Warn("MMDB path not provided, lookups disabled", zap.String("database", name))
		return nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		g.logger.Error("could not open MMDB, lookups disabled",
			zap.String("database", name), zap.String("path", path), zap.Error(err))
		return nil
	}
	g.logger.Info("loaded MMDB", zap.String("database", name), zap.String("path", path))
	return db
}

// Enabled reports whether at least one database is loaded.
func (g *GeoIP) Enabled() bool {
	return g.city != nil || g.asn != nil
}

// Close releases both databases.
func (g *GeoIP) Close() {
	for name, db := range map[string]*geoip2.Reader{"GeoLite2-City": g.city, "GeoLite2-ASN": g.asn} {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil {
			g.logger.Error("error closing MMDB", zap.String("database", name), zap.Error(err))
		}
	}
}

// Enrich sets rec.Geo for IP and CIDR queries; CIDRs use their network address.
func (g *GeoIP) Enrich(_ context.Context, q lookup.Query, rec *whois.Record) {
	var ip net.IP
	switch q.Kind {
	case lookup.KindIPv4, lookup.KindIPv6:
		ip = q.IP
	case lookup.KindCIDR:
		ip = q.Net.IP
	default:
		return
	}
	rec.Geo = g.Lookup(ip)
}

// Lookup returns location and ASN data for ip, or nil when neither
// database knows it.
func (g *GeoIP) Lookup(ip net.IP) *whois.GeoInfo {
	if ip == nil || !g.Enabled() {
		return nil
	}

	info := &whois.GeoInfo{}
	if g.city != nil {
		rec, err := g.city.City(ip)
		if err != nil {
			g.logger.Debug("city lookup failed", zap.Stringer("ip", ip), zap.Error(err))
		} else {
			info.CountryCode = rec.Country.IsoCode
			info.CountryName = rec.Country.Names["en"]
			info.CityName = rec.City.Names["en"]
		}
	}
	if g.asn != nil {
		rec, err := g.asn.ASN(ip)
		if err != nil {
			g.logger.Debug("ASN lookup failed", zap.Stringer("ip", ip), zap.Error(err))
		} else {
			info.ASN = rec.AutonomousSystemNumber
			info.ASOrganization = rec.AutonomousSystemOrganization
		}
	}

	if *info == (whois.GeoInfo{}) {
		return nil
	}
	return info
}
