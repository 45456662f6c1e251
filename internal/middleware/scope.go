package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sat-tum/kaiyo-api/internal/models"
	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
	"github.com/sat-tum/kaiyo-api/pkg/response"
)

// StudentScope lets a request through when the token belongs to the student
// named by the path parameter, or carries the admin role.
func StudentScope(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		claims, ok := value.(*models.JWTClaims)
		if !exists || !ok || claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if claims.Role == models.RoleAdmin {
			c.Next()
			return
		}
		if target := c.Param(param); target != "" && target == claims.StudentID {
			c.Next()
			return
		}

		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "token does not grant access to this student"))
		c.Abort()
	}
}

// RequireAdmin restricts a route to admin tokens.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get(ContextUserKey)
		claims, ok := value.(*models.JWTClaims)
		if !ok || claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if claims.Role != models.RoleAdmin {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
