package edge

import (
	"crypto/hmac"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// requireServiceSecret enforces the inter-service shared-secret header
// (§4.I), ported from the original's require_service_secret dependency:
// a constant-time comparison via hmac.Equal (Go's equivalent of
// hmac.compare_digest) so timing leaks no information about the secret.
// Disabled entirely when no secret is configured.
func (s *Server) requireServiceSecret() gin.HandlerFunc {
	secret := strings.TrimSpace(s.cfg.Security.ServiceSecret)
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		provided := strings.TrimSpace(c.GetHeader("X-Service-Secret"))
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Missing service authentication"})
			return
		}
		if !hmac.Equal([]byte(provided), []byte(secret)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid service authentication"})
			return
		}
		c.Next()
	}
}
