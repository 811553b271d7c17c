package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vit0-9/whois_api/models"
	"github.com/vit0-9/whois_api/pkg/lookup"
)

// Lookuper resolves a raw query into a result envelope.
type Lookuper interface {
	Lookup(ctx context.Context, raw string) *lookup.Result
}

// LookupHandlers serves WHOIS/RDAP lookups.
type LookupHandlers struct {
	service Lookuper
	timeout time.Duration
	logger  *zap.Logger
}

func NewLookupHandlers(service Lookuper, timeout time.Duration, logger *zap.Logger) *LookupHandlers {
	return &LookupHandlers{service: service, timeout: timeout, logger: logger.Named("http.lookup")}
}

// LookupHandler godoc
// @Summary      Look up a domain, IP address, CIDR block or AS number
// @Description  Tries the cache, then RDAP, then WHOIS, and returns a normalized registration record. Domains are reduced to their registrable part (www. and subdomains are stripped).
// @Tags         Lookup
// @Produce      json
// @Param        query query string true "Domain, IP, CIDR or ASN (e.g. example.com, 8.8.8.8, 8.8.8.0/24, AS15169)"
// @Success      200 {object} models.LookupResponse "Lookup succeeded"
// @Failure      400 {object} models.LookupResponse "Missing query parameter"
// @Failure      500 {object} models.LookupResponse "Lookup failed (not found, rate limited, transport error, ...)"
// @Router       /lookup [get]
func (h *LookupHandlers) LookupHandler(c *gin.Context) {
	var req models.LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, models.LookupResponse{Status: false, Time: -1, Error: "Query is required"})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res := h.service.Lookup(ctx, req.Query)
	if !res.Status {
		h.logger.Debug("lookup returned failure envelope",
			zap.String("query", req.Query), zap.String("error", res.Error), zap.String("request_id", c.GetString(RequestIDKey)))
		c.PureJSON(http.StatusInternalServerError, res)
		return
	}
	c.PureJSON(http.StatusOK, res)
}
