package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/whois_api/models"
	"github.com/vit0-9/whois_api/pkg/cache"
)

type HealthHandler struct {
	store cache.Store
}

func NewHealthHandler(store cache.Store) *HealthHandler {
	if store == nil {
		store = cache.None{}
	}
	return &HealthHandler{store: store}
}

// HealthCheckHandler godoc
// @Summary      Health Check
// @Description  Checks the health of the API and whether the cache backend answers. An unreachable cache only disables caching.
// @Tags         Monitoring
// @Produce      json
// @Success      200  {object}  models.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := models.HealthResponse{
		Status:         "UP",
		Cache:          h.store.Backend(),
		CacheReachable: true,
	}
	if err := h.store.Ping(ctx); err != nil {
		resp.CacheReachable = false
		resp.CacheError = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
