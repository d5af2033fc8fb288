// Package middleware provides HTTP middleware for the sample graph API.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sample-graph/sample-graph-api/internal/httputil"
)

// maxClients is the maximum number of tracked clients to prevent memory exhaustion.
const maxClients = 100_000

// RateLimiter allows each client IP a number of requests per window.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	window  time.Duration
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter allowing requests per window for each
// client, refilled evenly across the window. It starts a background goroutine
// to evict idle clients, which stops when ctx is cancelled.
func NewRateLimiter(ctx context.Context, requests int, window time.Duration) *RateLimiter {
	if requests < 1 {
		requests = 1
	}

	rl := &RateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		window:  window,
	}
	go rl.startCleanup(ctx)

	return rl
}

// startCleanup periodically evicts clients idle for longer than two windows.
func (rl *RateLimiter) startCleanup(ctx context.Context) {
	every := rl.window
	if every < time.Minute {
		every = time.Minute
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, cl := range rl.clients {
				if now.Sub(cl.lastSeen) > 2*rl.window {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// limiterFor returns the limiter for ip, or nil when the client table is full.
func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[ip]
	if !ok {
		if len(rl.clients) >= maxClients {
			return nil
		}

		cl = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = time.Now()

	return cl.limiter
}

// Handler returns Gin middleware that applies rate limiting per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// c.ClientIP() is safe from X-Forwarded-For spoofing because
		// SetTrustedProxies(nil) in the router disables proxy header trust.
		lim := rl.limiterFor(c.ClientIP())
		if lim == nil {
			respondError(c, http.StatusTooManyRequests, httputil.CodeRateLimited, "too many clients")

			return
		}

		res := lim.Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			c.Header("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			respondError(c, http.StatusTooManyRequests, httputil.CodeRateLimited, "rate limit exceeded")

			return
		}

		c.Next()
	}
}
