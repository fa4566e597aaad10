package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InternalAuth validates service-to-service calls via the
// X-Internal-API-Key header. Comparison is constant-time to prevent
// timing attacks. An empty configured key rejects everything, so a
// misconfigured deployment fails closed.
func InternalAuth(apiKey string) gin.HandlerFunc {
	if apiKey == "" {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "server misconfigured: internal API key not set",
			})
		}
	}
	keyBytes := []byte(apiKey)

	return func(c *gin.Context) {
		presented := c.GetHeader("X-Internal-API-Key")
		if subtle.ConstantTimeCompare([]byte(presented), keyBytes) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}
