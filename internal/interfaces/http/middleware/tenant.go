package middleware

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantValidator decides whether a tenant may serve requests
type TenantValidator interface {
	ValidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

// TenantMiddleware runs after JWT authentication. Actors bound to a tenant
// must belong to an active, non-suspended tenant. Platform operators without
// a tenant pass through. A tenant actor without a tenant is rejected.
func TenantMiddleware(validator TenantValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Next()
			return
		}

		if !actor.HasTenant() {
			if actor.IsPlatformOperator() {
				c.Next()
				return
			}
			abortWithError(c, dto.ErrCodeTenantRequired, shared.ErrTenantRequired.Message)
			return
		}

		if validator != nil {
			if err := validator.ValidateTenant(c.Request.Context(), *actor.TenantID); err != nil {
				logger.L(c.Request.Context()).Warn("Tenant validation failed",
					zap.String("tenant_id", actor.TenantID.String()),
					zap.Error(err),
				)
				var de *shared.DomainError
				if errors.As(err, &de) {
					abortWithError(c, dto.NormalizeErrorCode(de.Code), de.Message)
					return
				}
				abortWithError(c, dto.ErrCodeInternal, "An unexpected error occurred")
				return
			}
		}

		c.Next()
	}
}
