package middleware

import (
	"net/http"
	"strings"

	"feedback_portal/internal/config"
	"feedback_portal/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// AuthUserKey holds the caller id. The token's role claim is not exposed;
// roles are always read from the stored account.
const AuthUserKey = "authUser"

// assertedCaller is the part of a request body read in asserted auth mode
type assertedCaller struct {
	UserID string `json:"userId"`
}

// Identity resolves the caller id without requiring one. A bearer token is
// verified and its subject used; a bad token aborts with 401. In asserted mode
// a request without a token may name its caller in the JSON body field userId.
func Identity(jwtUtil *utils.JWTUtil, mode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
				return
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}

			c.Set(AuthUserKey, claims.UserID)
			c.Next()
			return
		}

		if mode == config.AuthModeAsserted && c.Request.Body != nil && c.Request.Method != http.MethodGet {
			var asserted assertedCaller
			// The body is cached for the handler; malformed JSON is reported there.
			if err := c.ShouldBindBodyWith(&asserted, binding.JSON); err == nil && asserted.UserID != "" {
				c.Set(AuthUserKey, asserted.UserID)
			}
		}

		c.Next()
	}
}

// CallerID returns the caller resolved by Identity, or "" for anonymous requests.
func CallerID(c *gin.Context) string {
	return c.GetString(AuthUserKey)
}
