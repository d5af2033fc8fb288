package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sample-graph/sample-graph-api/internal/middleware"
)

// defaultDegree is used when the degree query parameter is absent or unusable.
const defaultDegree = 2

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		log.WithFields(fields).Info("request")
	}
}

// parseSongID reads the song_id path parameter. On failure it writes a 400
// response and returns false.
func parseSongID(c *gin.Context) (uint32, bool) {
	v, err := strconv.ParseUint(c.Param("song_id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "song_id must be a non-negative integer")

		return 0, false
	}

	return uint32(v), true
}

// parseDegree interprets the degree query parameter. Absent, unparsable and
// negative values fall back to the default, capped at maxDegree. Explicit
// values above maxDegree are rejected.
func parseDegree(s string, maxDegree int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return min(defaultDegree, maxDegree), nil
	}

	if v > maxDegree {
		return 0, fmt.Errorf("degree must be at most %d", maxDegree)
	}

	return v, nil
}
