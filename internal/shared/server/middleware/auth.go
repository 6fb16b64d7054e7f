package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobseeker-backend/internal/shared/auth"
	"jobseeker-backend/internal/shared/server/respond"
	"jobseeker-backend/internal/shared/telemetry"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
)

// Auth validates bearer tokens and stores the verified identity in context.
// Every route behind it sees a positive numeric user id.
func Auth(signer *auth.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := signer.Verify(token)
		if err != nil {
			telemetry.Security("auth.token_rejected", map[string]any{
				"request_id": RequestIDFromContext(c),
				"path":       c.Request.URL.Path,
			})
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, claims.Sub)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) int64 {
	if c == nil {
		return 0
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(int64); ok {
		return id
	}
	return 0
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}
