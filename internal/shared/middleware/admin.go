package middleware

import (
	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/response"
	"portfolio-backend/pkg/jwt"
)

// RoleAdmin is the only role issued to session tokens.
const RoleAdmin = jwt.RoleAdmin

// AdminMiddleware checks the role set by AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role != RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
