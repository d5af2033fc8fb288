package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets response headers for a read-only JSON API. Responses
// may be cached by the client for a short time since graph data changes slowly.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cache-Control", "public, max-age=300")

		c.Next()
	}
}
