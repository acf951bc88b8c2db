package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CronKeyMiddleware guards the dispatch trigger endpoint with a shared
// secret. The external scheduler sends it in the X-Cron-Key header (a
// Bearer token is accepted too). The system has a single logical user
// and no accounts, so a static key replaces a login flow.
func CronKeyMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "CRON_SECRET is not configured"})
			return
		}

		key := c.Request.Header.Get("X-Cron-Key")
		if key == "" {
			header := c.Request.Header.Get("Authorization")
			key = strings.Replace(header, "Bearer ", "", 1)
		}
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Cron key is missing"})
			return
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid cron key"})
			return
		}

		c.Next()
	}
}
