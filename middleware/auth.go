package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sharath018/temple-directory-backend/config"
	"github.com/sharath018/temple-directory-backend/internal/auth"
)

// AuthMiddleware handles JWT authentication and puts the user in the context.
func AuthMiddleware(cfg *config.Config, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromBearer(c, cfg, authSvc)
		if !ok {
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the user when a valid token is present but
// lets anonymous requests through. Search visibility depends on this: the
// same endpoint serves public browsing and privileged moderation views.
func OptionalAuthMiddleware(cfg *config.Config, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if user, ok := parseBearer(authHeader, cfg, authSvc); ok {
			c.Set("user", user)
			c.Set("user_id", user.ID)
		}
		c.Next()
	}
}

func userFromBearer(c *gin.Context, cfg *config.Config, authSvc auth.Service) (auth.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing Authorization header"})
		return auth.User{}, false
	}

	user, ok := parseBearer(authHeader, cfg, authSvc)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
		return auth.User{}, false
	}
	return user, true
}

func parseBearer(authHeader string, cfg *config.Config, authSvc auth.Service) (auth.User, bool) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return auth.User{}, false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTAccessSecret), nil
	})
	if err != nil || !token.Valid {
		return auth.User{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return auth.User{}, false
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return auth.User{}, false
	}

	user, err := authSvc.GetUserByID(uint(userIDFloat))
	if err != nil {
		return auth.User{}, false
	}
	return user, true
}

// CurrentUser pulls the authenticated user out of the gin context.
func CurrentUser(c *gin.Context) (auth.User, bool) {
	val, exists := c.Get("user")
	if !exists {
		return auth.User{}, false
	}
	user, ok := val.(auth.User)
	return user, ok
}
