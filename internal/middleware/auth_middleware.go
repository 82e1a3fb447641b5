package middleware

import (
	"net/http"
	"strings"

	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys populated by AuthMiddleware.
const (
	ContextUserIDKey       = "userID"
	ContextUserEmailKey    = "userEmail"
	ContextUserRoleKey     = "userRole"
	ContextBarbershopIDKey = "barbershopID"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserEmailKey, claims.Email)
		c.Set(ContextUserRoleKey, claims.Role)
		if claims.BarbershopID != nil {
			c.Set(ContextBarbershopIDKey, *claims.BarbershopID)
		}

		c.Next()
	}
}

// RoleAuthMiddleware checks that the authenticated user's role is one
// of the allowed roles. AuthMiddleware must run first.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextUserRoleKey)
		if !exists {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "User role not found in token claims", ""))
			return
		}

		roleStr, ok := userRole.(string)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "User role in token is not a string", ""))
			return
		}

		for _, r := range allowedRoles {
			if strings.EqualFold(roleStr, r) {
				c.Next()
				return
			}
		}

		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to access this resource. Required roles: "+strings.Join(allowedRoles, ", "), ""))
	}
}

// TenantAuthMiddleware requires the request to be scoped to the
// caller's own barbershop. Super admins bypass the check and may pass
// an explicit barbershop id via the X-Barbershop-ID header.
func TenantAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRoleKey)
		if role == utils.RoleSuperAdmin {
			if header := c.GetHeader("X-Barbershop-ID"); header != "" {
				id, err := utils.StrToInt64(header)
				if err != nil {
					utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid X-Barbershop-ID header", err.Error()))
					return
				}
				c.Set(ContextBarbershopIDKey, id)
			}
			c.Next()
			return
		}

		if _, exists := c.Get(ContextBarbershopIDKey); !exists {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Token is not scoped to a barbershop", ""))
			return
		}
		c.Next()
	}
}

// BarbershopIDFromContext returns the tenant scope of the request.
func BarbershopIDFromContext(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextBarbershopIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}
