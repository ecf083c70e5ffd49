package middleware

import (
	"net/http"
	"strings"

	"handyconnect/internal/pkg/response"

	jwtsvc "handyconnect/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// RequireAuth verifies the Bearer token and checks that the principal kind
// baked into the claims matches what the route expects. One middleware for
// customers, workers and admins; the kind parameter is the only difference.
func RequireAuth(jwt *jwtsvc.Service, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		if claims.Kind != kind {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Token not valid for this resource")
			c.Abort()
			return
		}

		c.Set("subject_id", claims.SubjectID)
		c.Set("kind", claims.Kind)

		c.Next()
	}
}

// SubjectID returns the authenticated principal's id set by RequireAuth.
func SubjectID(c *gin.Context) int64 {
	return c.GetInt64("subject_id")
}
