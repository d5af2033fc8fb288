package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sample-graph/sample-graph-api/internal/metrics"
	"github.com/sample-graph/sample-graph-api/internal/models"
)

// streamWriteTimeout bounds a single event write to a stream client.
const streamWriteTimeout = 10 * time.Second

// GraphHandler serves relationship graph endpoints.
type GraphHandler struct {
	repo           GraphRepository
	maxDegree      int
	originPatterns []string
	log            *logrus.Logger
}

// NewGraphHandler creates a GraphHandler. corsOrigins also authorizes
// browser origins for the WebSocket stream.
func NewGraphHandler(repo GraphRepository, maxDegree int, corsOrigins []string, log *logrus.Logger) *GraphHandler {
	return &GraphHandler{
		repo:           repo,
		maxDegree:      maxDegree,
		originPatterns: originPatterns(corsOrigins),
		log:            log,
	}
}

// originPatterns converts CORS origins into host patterns for websocket.Accept.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			out = append(out, "*")

			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
		}
	}

	return out
}

// graphParams parses the song id and degree shared by both graph endpoints.
func (h *GraphHandler) graphParams(c *gin.Context) (uint32, int, bool) {
	id, ok := parseSongID(c)
	if !ok {
		return 0, 0, false
	}

	degree, err := parseDegree(c.Query("degree"), h.maxDegree)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return 0, 0, false
	}

	return id, degree, true
}

// Build handles GET /graph/:song_id.
func (h *GraphHandler) Build(c *gin.Context) {
	id, degree, ok := h.graphParams(c)
	if !ok {
		return
	}

	g, err := h.repo.Build(c.Request.Context(), id, degree)
	if err != nil {
		respondServiceError(c, h.log, "graph.build", err)

		return
	}

	c.JSON(http.StatusOK, g)
}

// Stream handles GET /graph/:song_id/stream. The graph is sent over a
// WebSocket as one event per node and edge, followed by a done event, or by
// an error event if the build fails.
func (h *GraphHandler) Stream(c *gin.Context) {
	id, degree, ok := h.graphParams(c)
	if !ok {
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.log.WithError(err).Warn("websocket accept failed")

		return
	}
	defer conn.CloseNow() //nolint:errcheck

	metrics.GraphStreams.Inc()
	defer metrics.GraphStreams.Dec()

	// The stream is write-only; CloseRead handles control frames and cancels
	// ctx when the client goes away.
	ctx, cancel := context.WithCancel(conn.CloseRead(c.Request.Context()))
	defer cancel()

	var writeErr error
	send := func(ev models.GraphEvent) {
		if writeErr != nil {
			return
		}

		wctx, wcancel := context.WithTimeout(ctx, streamWriteTimeout)
		defer wcancel()

		if err := wsjson.Write(wctx, conn, ev); err != nil {
			writeErr = err
			cancel()
		}
	}

	_, err = h.repo.BuildWithObserver(ctx, id, degree, send)

	switch {
	case writeErr != nil:
		h.log.WithError(writeErr).WithField("song_id", id).Debug("graph stream client gone")

		return
	case err != nil && errors.Is(err, context.Canceled):
		return
	case err != nil:
		status, _, message := classifyError(err)
		if status >= http.StatusInternalServerError {
			h.log.WithError(err).WithFields(logrus.Fields{
				"action": "graph.stream",
				"kind":   models.KindOf(err),
			}).Error("request failed")
		}

		send(models.GraphEvent{Kind: models.EventError, Message: message})
		conn.Close(closeStatus(status), message) //nolint:errcheck

		return
	}

	conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
}
