package api

import (
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sample-graph/sample-graph-api/internal/httputil"
	"github.com/sample-graph/sample-graph-api/internal/metrics"
	"github.com/sample-graph/sample-graph-api/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest = httputil.CodeInvalidRequest
	ErrCodeNotFound       = httputil.CodeNotFound
	ErrCodeInternalError  = httputil.CodeInternal
	ErrCodeUnavailable    = httputil.CodeUnavailable
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// classifyError maps a service error to an HTTP status, error code and
// client-facing message. Internal details never reach the client.
func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, models.ErrSongNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "song not found"
	case errors.Is(err, models.ErrInvalidDegree):
		return http.StatusBadRequest, ErrCodeInvalidRequest, "invalid degree"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "internal server error"
	}
}

// closeStatus picks the websocket close code for an HTTP status from
// classifyError. Client errors close with a policy violation.
func closeStatus(status int) websocket.StatusCode {
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return websocket.StatusPolicyViolation
	}

	return websocket.StatusInternalError
}

// respondServiceError logs unexpected failures and writes the mapped error.
func respondServiceError(c *gin.Context, log *logrus.Logger, action string, err error) {
	status, code, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"action": action,
			"kind":   models.KindOf(err),
		}).Error("request failed")
	}

	respondError(c, status, code, message)
}
