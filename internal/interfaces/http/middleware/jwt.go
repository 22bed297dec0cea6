package middleware

import (
	"errors"
	"strings"

	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	JWTClaimsKey = "jwt_claims"
	bearerScheme = "bearer"
)

var errMalformedAuthHeader = errors.New("malformed authorization header")

// AuthConfig configures Authenticate. Requests to PublicPaths skip token
// validation entirely.
type AuthConfig struct {
	JWTService  *auth.JWTService
	PublicPaths []string
	Logger      *zap.Logger
}

func DefaultAuthConfig(jwtService *auth.JWTService) AuthConfig {
	return AuthConfig{
		JWTService:  jwtService,
		PublicPaths: []string{"/health", "/api/v1/health"},
	}
}

// Authenticate turns the bearer token into an identity.Actor stored on the
// gin context, and tags the request context for logging.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := public[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			rejectToken(c, log, auth.ErrInvalidToken, err.Error())
			return
		}
		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			rejectToken(c, log, err, "token validation failed")
			return
		}
		actor, err := claims.ToActor()
		if err != nil {
			rejectToken(c, log, err, "token claims rejected")
			return
		}

		c.Set(JWTClaimsKey, claims)
		SetActor(c, actor)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		if claims.TenantID != "" {
			ctx = logger.WithTenantID(ctx, claims.TenantID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", errMalformedAuthHeader
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMalformedAuthHeader
	}
	return token, nil
}

// rejectToken answers 401. Expired tokens get their own code so clients
// know to refresh rather than log in again.
func rejectToken(c *gin.Context, log *zap.Logger, err error, reason string) {
	log.Warn("Authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortWithError(c, dto.ErrCodeTokenExpired, "Token has expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
		abortWithError(c, dto.ErrCodeTokenInvalid, "Invalid token")
	default:
		abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
	}
}

// GetJWTClaims returns the claims of the authenticated request, or nil
func GetJWTClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(JWTClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
