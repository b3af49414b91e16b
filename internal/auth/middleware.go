package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jeysi05/pickle-jar-courts/internal/pricing"
)

const roleKey = "user_role"

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		authenticate(c, authHeader, accessTokenSecret)
	}
}

// OptionalAuth lets anonymous requests through. A request that does carry a
// token must carry a valid one.
func OptionalAuth(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		authenticate(c, authHeader, accessTokenSecret)
	}
}

func authenticate(c *gin.Context, authHeader, secret string) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		c.Abort()
		return
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is empty"})
		c.Abort()
		return
	}

	claims, err := ValidateToken(tokenString, secret)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
		}
		c.Abort()
		return
	}

	if claims.TokenType != tokenAccess {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		c.Abort()
		return
	}

	c.Set(roleKey, claims.Role)
	c.Next()
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(roleKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid role type"})
			c.Abort()
			return
		}

		if roleStr != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(roleKey)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}

// ModeFromContext is the pricing mode for this request: coach for a coach
// token, standard otherwise.
func ModeFromContext(c *gin.Context) pricing.Mode {
	if role, ok := GetRole(c); ok && role == RoleCoach {
		return pricing.ModeCoach
	}
	return pricing.ModeStandard
}
