package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireCaller rejects anonymous requests. Role checks happen against the
// stored account, not the token, so they live in the policy package.
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}
