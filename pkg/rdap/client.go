package rdap

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/openrdap/rdap"
	"github.com/openrdap/rdap/bootstrap"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vit0-9/whois_api/pkg/utils"
)

// Client fetches raw RDAP documents. Servers are resolved through the IANA
// bootstrap registry.
type Client struct {
	rdap   *rdap.Client
	server *url.URL
	logger *zap.Logger
}

// NewClient creates a Client whose HTTP requests time out after timeout.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	hc := utils.NewHTTPClient(timeout)
	return &Client{
		rdap: &rdap.Client{
			HTTP:      hc,
			Bootstrap: &bootstrap.Client{HTTP: hc},
			UserAgent: utils.UserAgent,
		},
		logger: logger.Named("rdap"),
	}
}

// WithServer returns a copy of c that sends every query to server instead
// of bootstrapping.
func (c *Client) WithServer(server *url.URL) *Client {
	cp := *c
	cp.server = server
	return &cp
}

// Domain fetches the domain object for name.
func (c *Client) Domain(ctx context.Context, name string) ([]byte, error) {
	return c.do(ctx, rdap.NewDomainRequest(name), name)
}

// IP fetches the ip network object containing ip.
func (c *Client) IP(ctx context.Context, ip net.IP) ([]byte, error) {
	return c.do(ctx, rdap.NewIPRequest(ip), ip.String())
}

// IPNet fetches the ip network object for a CIDR block.
func (c *Client) IPNet(ctx context.Context, ipNet *net.IPNet) ([]byte, error) {
	return c.do(ctx, rdap.NewIPNetRequest(ipNet), ipNet.String())
}

// Autnum fetches the autnum object for asn.
func (c *Client) Autnum(ctx context.Context, asn uint32) ([]byte, error) {
	return c.do(ctx, rdap.NewAutnumRequest(asn), "AS"+strconv.FormatUint(uint64(asn), 10))
}

func (c *Client) do(ctx context.Context, req *rdap.Request, query string) ([]byte, error) {
	start := time.Now()
	req = req.WithContext(ctx)
	if c.server != nil {
		req = req.WithServer(c.server)
	}
	resp, err := c.rdap.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "rdap query for %q", query)
	}

	// The last successful hop carries the authoritative document.
	for i := len(resp.HTTP) - 1; i >= 0; i-- {
		h := resp.HTTP[i]
		if h == nil || h.Error != nil || h.Response == nil {
			continue
		}
		if h.Response.StatusCode != http.StatusOK || len(h.Body) == 0 {
			continue
		}
		c.logger.Debug("rdap response received",
			zap.String("query", query),
			zap.String("url", h.URL),
			zap.Int("bytes", len(h.Body)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return h.Body, nil
	}
	return nil, errors.Errorf("rdap query for %q returned no document", query)
}
