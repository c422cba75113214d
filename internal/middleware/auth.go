package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"regcheck/internal/domain"
	"regcheck/internal/service"
)

const (
	ContextKeyTenantID = "tenant_id"
	ContextKeyUserID   = "user_id"
	ContextKeyEmail    = "email"
	ContextKeyRole     = "role"
)

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": msg},
	})
}

// AuthMiddleware validates the bearer access token and injects tenant and
// user context for downstream handlers.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		c.Set(ContextKeyTenantID, claims.TenantID)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

// RequireRole rejects requests whose user role is not one of roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			abortJSON(c, http.StatusForbidden, "FORBIDDEN", "role not found in context")
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		abortJSON(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
	}
}

// GetTenantID extracts the tenant ID from the Gin context.
func GetTenantID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get(ContextKeyTenantID)
	if !exists {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return val.(uuid.UUID), nil
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return val.(uuid.UUID), nil
}

// GetRole extracts the user role from the Gin context.
func GetRole(c *gin.Context) domain.UserRole {
	val, exists := c.Get(ContextKeyRole)
	if !exists {
		return ""
	}
	role, _ := val.(domain.UserRole)
	return role
}
