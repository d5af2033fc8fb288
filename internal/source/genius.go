// Package source provides SongSource adapters: the Genius HTTP API for
// production and an in-memory fixture for tests and offline runs.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/sample-graph/sample-graph-api/internal/domain"
	"github.com/sample-graph/sample-graph-api/internal/metrics"
	"github.com/sample-graph/sample-graph-api/internal/models"
)

// Compile-time check: *Genius must satisfy domain.SongSource.
var _ domain.SongSource = (*Genius)(nil)

// DefaultGeniusURL is the public Genius API base URL.
const DefaultGeniusURL = "https://api.genius.com"

// maxResponseSize caps upstream response bodies.
const maxResponseSize = 8 << 20

// GeniusConfig configures the Genius adapter.
type GeniusConfig struct {
	BaseURL       string
	Token         string
	RatePerSecond float64
	Timeout       time.Duration
}

// APIError is a non-2xx response from Genius.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("genius: status %d", e.StatusCode)
	}

	return fmt.Sprintf("genius: status %d: %s", e.StatusCode, e.Message)
}

// Genius fetches songs from the Genius API.
type Genius struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Logger
}

// NewGenius creates a Genius adapter. Requests carry the token as a bearer
// credential and are throttled to cfg.RatePerSecond (0 means unlimited).
func NewGenius(cfg GeniusConfig, log *logrus.Logger) *Genius {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultGeniusURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
	hc := oauth2.NewClient(context.Background(), ts)
	hc.Timeout = timeout

	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = max(1, int(cfg.RatePerSecond))
	}

	return &Genius{
		baseURL:    base,
		httpClient: hc,
		limiter:    rate.NewLimiter(limit, burst),
		log:        log,
	}
}

type geniusMeta struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type geniusEnvelope[T any] struct {
	Meta     geniusMeta `json:"meta"`
	Response T          `json:"response"`
}

type songPayload struct {
	Song models.SongRecord `json:"song"`
}

type searchPayload struct {
	Hits []models.SearchHit `json:"hits"`
}

// GetSong fetches the full record of a song.
func (g *Genius) GetSong(ctx context.Context, id uint32) (*models.SongRecord, error) {
	var env geniusEnvelope[songPayload]

	path := "/songs/" + strconv.FormatUint(uint64(id), 10)
	if err := g.get(ctx, "songs", path, url.Values{"text_format": {"plain"}}, &env); err != nil {
		if errors.Is(err, models.ErrSongNotFound) {
			return nil, fmt.Errorf("song %d: %w", id, err)
		}

		return nil, err
	}

	return &env.Response.Song, nil
}

// GetRelationships returns the unfiltered relationship groups of a song.
func (g *Genius) GetRelationships(ctx context.Context, id uint32) ([]models.RelationshipRecord, error) {
	song, err := g.GetSong(ctx, id)
	if err != nil {
		return nil, err
	}

	if song.SongRelationships == nil {
		return []models.RelationshipRecord{}, nil
	}

	return song.SongRelationships, nil
}

// Search returns the song hits for a free-text query. A blank query
// returns no hits without contacting Genius.
func (g *Genius) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return []models.SearchHit{}, nil
	}

	var env geniusEnvelope[searchPayload]
	if err := g.get(ctx, "search", "/search", url.Values{"q": {query}}, &env); err != nil {
		return nil, err
	}

	hits := make([]models.SearchHit, 0, len(env.Response.Hits))
	for _, h := range env.Response.Hits {
		if h.Type != "song" {
			continue
		}
		hits = append(hits, h)
	}

	return hits, nil
}

func (g *Genius) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	u := g.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())

		return fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	g.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("genius request")

	if resp.StatusCode == http.StatusNotFound && endpoint == "songs" {
		return models.ErrSongNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var env geniusEnvelope[json.RawMessage]
		if json.Unmarshal(body, &env) == nil {
			apiErr.Message = env.Meta.Message
		}

		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}

	return nil
}
