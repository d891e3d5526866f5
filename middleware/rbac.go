package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/temple-directory-backend/internal/auth"
)

// RBACMiddleware checks if the user has one of the allowed roles.
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
			return
		}

		user, ok := userVal.(auth.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid user object"})
			return
		}

		for _, role := range allowedRoles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient permissions"})
	}
}

// RequirePrivileged allows any of the moderation-capable roles through.
func RequirePrivileged() gin.HandlerFunc {
	return RBACMiddleware(auth.RoleAdmin, auth.RoleEvaluator, auth.RoleSupportAdmin)
}
