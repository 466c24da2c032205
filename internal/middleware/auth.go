package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"health-insurance-web/pkg/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUID  = "uid"
	ContextRole = "role"
)

// AuthMiddleware accepts the session cookie or an "Authorization: Bearer"
// header and stores the principal's uid and role on the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Cookie first, then header
		tokenString, err := c.Cookie(utils.SessionCookie)
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				utils.APIResponse(c, http.StatusUnauthorized, false, "Not signed in", nil)
				c.Abort()
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.APIResponse(c, http.StatusUnauthorized, false, "Malformed authorization header", nil)
				c.Abort()
				return
			}
			tokenString = parts[1]
		}

		// 2. Validate
		uid, role, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Session expired. Please sign in again.", nil)
			c.Abort()
			return
		}

		c.Set(ContextUID, uid)
		c.Set(ContextRole, role)

		c.Next()
	}
}

// RequireRole lets through sessions whose role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		utils.APIResponse(c, http.StatusForbidden, false, "Access denied", nil)
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
