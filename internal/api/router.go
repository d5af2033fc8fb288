package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sample-graph/sample-graph-api/internal/middleware"
)

// serviceName names the server in traces.
const serviceName = "sample-graph-api"

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log          *logrus.Logger
	Songs        SongRepository
	Graph        GraphRepository
	Cache        Pinger
	CacheBackend string
	CORSOrigins  []string
	RateLimit    int
	RateWindow   time.Duration
	MaxDegree    int
	Version      string
}

// corsConfig builds the CORS policy. The API is read-only, so only GET and
// OPTIONS are allowed.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cfg
}

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(corsConfig(deps.CORSOrigins)))
	r.Use(middleware.NewRateLimiter(ctx, deps.RateLimit, deps.RateWindow).Handler())
	r.Use(middleware.PrometheusMiddleware())
	r.Use(otelgin.Middleware(serviceName))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers.
func registerRoutes(r gin.IRoutes, deps *RouterDeps) {
	health := NewHealthHandler(deps.Cache, deps.CacheBackend, deps.Version, deps.Log)
	songs := NewSongHandler(deps.Songs, deps.Log)
	graph := NewGraphHandler(deps.Graph, deps.MaxDegree, deps.CORSOrigins, deps.Log)
	version := NewVersionHandler(deps.Version)

	r.GET("/health", health.Liveness)
	r.GET("/ready", health.Readiness)
	r.GET("/version", version.Get)

	r.GET("/search", songs.Search)
	r.GET("/songs/:song_id", songs.Get)
	r.GET("/songs/:song_id/relationships", songs.Relationships)

	r.GET("/graph/:song_id", graph.Build)
	r.GET("/graph/:song_id/stream", graph.Stream)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
// ctx bounds the lifetime of background middleware goroutines.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(r, deps)

	return r
}
