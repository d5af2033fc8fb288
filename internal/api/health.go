// Package api provides HTTP handlers for the sample graph API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	cache     Pinger
	backend   string
	version   string
	log       *logrus.Logger
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. cache may be nil.
func NewHealthHandler(cache Pinger, backend, version string, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		cache:     cache,
		backend:   backend,
		version:   version,
		log:       log,
		startTime: time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthResponse is the JSON payload returned by the liveness endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Cache         string  `json:"cache"`
	CacheBackend  string  `json:"cache_backend"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /health. A failing cache does not fail liveness.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := HealthResponse{
		Status:        "ok",
		Version:       h.version,
		Cache:         "connected",
		CacheBackend:  h.backend,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.cache == nil {
		resp.Cache = "not_configured"
	} else if err := h.ping(c.Request.Context()); err != nil {
		resp.Cache = "disconnected"
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /ready, failing with 503 while the cache is unreachable.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"cache": "ok"}
	status := "ready"
	statusCode := http.StatusOK

	if h.cache == nil {
		checks["cache"] = "not_configured"
	} else if err := h.ping(c.Request.Context()); err != nil {
		h.log.WithError(err).Error("readiness: cache health check failed")
		checks["cache"] = "error"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, readinessResponse{Status: status, Checks: checks})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return h.cache.Ping(ctx)
}
