package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// GraphService handles relationship graph operations.
type GraphService struct {
	c *Client
}

func graphPath(id uint32) string {
	return "/graph/" + strconv.FormatUint(uint64(id), 10)
}

func degreeParams(degree int) url.Values {
	params := url.Values{}
	if degree >= 0 {
		params.Set("degree", strconv.Itoa(degree))
	}
	return params
}

// Build returns the graph of songs within degree hops of id. A negative
// degree uses the server default.
func (s *GraphService) Build(ctx context.Context, id uint32, degree int) (*Graph, error) {
	var g Graph
	if err := s.c.get(ctx, graphPath(id), degreeParams(degree), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Stream builds the graph over a WebSocket, calling fn for every event until
// the server reports completion. A returned error from fn stops the stream.
func (s *GraphService) Stream(ctx context.Context, id uint32, degree int, fn func(GraphEvent) error) error {
	u := strings.Replace(s.c.baseURL, "http", "ws", 1) + graphPath(id) + "/stream"
	if params := degreeParams(degree); len(params) > 0 {
		u += "?" + params.Encode()
	}

	conn, resp, err := websocket.Dial(ctx, u, nil)
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: err.Error()}
		}
		return fmt.Errorf("dial stream: %w", err)
	}
	defer conn.CloseNow() //nolint:errcheck

	for {
		var ev GraphEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			return fmt.Errorf("read stream: %w", err)
		}

		switch ev.Kind {
		case "done":
			if err := fn(ev); err != nil {
				return err
			}
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
			return nil
		case "error":
			return errors.New("sample-graph: stream: " + ev.Message)
		}

		if err := fn(ev); err != nil {
			return err
		}
	}
}
