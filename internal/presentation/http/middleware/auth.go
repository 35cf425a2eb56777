package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/dto/response"
)

const (
	// RoleHeader lets a request act under a role other than the stored one
	RoleHeader = "X-Role"
	roleKey    = "role"
)

// RoleSource returns the stored operator role.
type RoleSource interface {
	GetRole(ctx context.Context) (enum.Role, error)
}

// RoleMiddleware resolves the role of the request from the X-Role header,
// falling back to the stored role. There is no authentication behind it.
func RoleMiddleware(source RoleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(RoleHeader); raw != "" {
			role, ok := enum.ParseRole(raw)
			if !ok {
				response.BadRequest(c, "Unknown role in "+RoleHeader+" header")
				c.Abort()
				return
			}
			c.Set(roleKey, role)
			c.Next()
			return
		}

		role, err := source.GetRole(c.Request.Context())
		if err == nil && role != "" {
			c.Set(roleKey, role)
		}
		c.Next()
	}
}

// GetRole returns the role resolved for the request, or "".
func GetRole(c *gin.Context) enum.Role {
	v, ok := c.Get(roleKey)
	if !ok {
		return ""
	}
	role, _ := v.(enum.Role)
	return role
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := GetRole(c)
		if current == "" {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Insufficient role privileges",
		})
		c.Abort()
	}
}
