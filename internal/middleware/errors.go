package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sample-graph/sample-graph-api/internal/httputil"
	"github.com/sample-graph/sample-graph-api/internal/metrics"
)

// respondError counts the error and writes the shared JSON error body.
func respondError(c *gin.Context, code int, errCode, message string) {
	metrics.ErrorsTotal.WithLabelValues(errCode).Inc()
	httputil.RespondError(c, code, errCode, message)
}
