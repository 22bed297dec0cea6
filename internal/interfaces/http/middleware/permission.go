package middleware

import (
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission lets the request through when the actor holds at
// least one of permissions. Platform operators hold every permission.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		if !actor.HasAnyPermission(permissions...) {
			logger.L(c.Request.Context()).Warn("Permission denied",
				zap.Strings("required_any", permissions),
				zap.String("path", c.Request.URL.Path),
			)
			abortWithError(c, dto.ErrCodeForbidden, "You do not have permission to perform this action")
			return
		}

		c.Next()
	}
}

// RequirePlatformOperator restricts a route to SAAS_OWNER and SAAS_ADMIN actors
func RequirePlatformOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !actor.IsPlatformOperator() {
			abortWithError(c, dto.ErrCodeForbidden, "Only platform operators may perform this action")
			return
		}
		c.Next()
	}
}
