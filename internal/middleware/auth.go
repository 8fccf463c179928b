package middleware

import (
	"net/http"
	"strings"

	"dancestudio/internal/pkg/jwt"
	"dancestudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	// tokenQueryParam carries the token where headers cannot be set, such
	// as browser websocket upgrades.
	tokenQueryParam = "access_token"
)

// JWTAuth resolves the caller from a bearer token and stores the user id
// on the context. Roles are not part of the token.
func JWTAuth(svc *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, msg := bearerToken(c)
		if token == "" {
			response.AbortWithError(c, http.StatusUnauthorized, msg)
			return
		}

		claims, err := svc.ValidateToken(token)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// OptionalJWTAuth sets the user id when a valid token is present and lets
// anonymous requests through untouched.
func OptionalJWTAuth(svc *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, _ := bearerToken(c); token != "" {
			if claims, err := svc.ValidateToken(token); err == nil {
				c.Set(ContextUserID, claims.UserID)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if q := c.Query(tokenQueryParam); q != "" {
			return q, ""
		}
		return "", "Authorization header is missing"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "Authorization header must be: Bearer <token>"
	}
	return strings.TrimSpace(parts[1]), ""
}

// UserID returns the authenticated caller, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
