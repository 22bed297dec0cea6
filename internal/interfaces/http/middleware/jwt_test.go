package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "test-issuer",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func tenantActor(permissions ...string) identity.Actor {
	tenantID := uuid.New()
	return identity.NewActor(uuid.New(), &tenantID, identity.UserTypeTenantUser, permissions...)
}

func mustToken(t *testing.T, svc *auth.JWTService, actor identity.Actor) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(actor)
	require.NoError(t, err)
	return token
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeResponse(t *testing.T, body []byte) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestAuthenticate_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	actor := tenantActor("lead_management:read")

	router := gin.New()
	router.Use(Authenticate(DefaultAuthConfig(svc)))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, actor.UserID.String(), claims.UserID)

		got, ok := GetActor(c)
		require.True(t, ok)
		assert.Equal(t, actor.UserID, got.UserID)
		assert.Equal(t, *actor.TenantID, *got.TenantID)
		assert.Equal(t, identity.UserTypeTenantUser, got.UserType)
		assert.Equal(t, []string{"lead_management:read"}, got.Permissions)

		ctx := c.Request.Context()
		assert.Equal(t, actor.UserID.String(), logger.GetUserID(ctx))
		assert.Equal(t, actor.TenantID.String(), logger.GetTenantID(ctx))
		c.Status(http.StatusOK)
	})

	w := serve(router, http.MethodGet, "/test", bearer(mustToken(t, svc, actor)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_PlatformOperatorWithoutTenant(t *testing.T) {
	svc := newTestJWTService()
	operator := identity.NewActor(uuid.New(), nil, identity.UserTypeSaaSAdmin)

	router := gin.New()
	router.Use(Authenticate(DefaultAuthConfig(svc)))
	router.GET("/test", func(c *gin.Context) {
		got, ok := GetActor(c)
		require.True(t, ok)
		assert.False(t, got.HasTenant())
		assert.True(t, got.IsPlatformOperator())
		c.Status(http.StatusOK)
	})

	w := serve(router, http.MethodGet, "/test", bearer(mustToken(t, svc, operator)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_Rejections(t *testing.T) {
	svc := newTestJWTService()
	expired := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "test-issuer",
		AccessTokenExpiration: -time.Minute,
	})
	foreign := auth.NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-at-least-32-ch",
		Issuer:                "test-issuer",
		AccessTokenExpiration: time.Minute,
	})

	tests := []struct {
		name     string
		headers  map[string]string
		wantCode string
	}{
		{name: "missing header", headers: nil, wantCode: dto.ErrCodeTokenInvalid},
		{name: "basic scheme", headers: map[string]string{"Authorization": "Basic abc"}, wantCode: dto.ErrCodeTokenInvalid},
		{name: "empty bearer", headers: map[string]string{"Authorization": "Bearer "}, wantCode: dto.ErrCodeTokenInvalid},
		{name: "scheme only", headers: map[string]string{"Authorization": "Bearer"}, wantCode: dto.ErrCodeTokenInvalid},
		{name: "garbage token", headers: bearer("not.a.jwt"), wantCode: dto.ErrCodeTokenInvalid},
		{name: "wrong signature", headers: bearer(mustToken(t, foreign, tenantActor())), wantCode: dto.ErrCodeTokenInvalid},
		{name: "expired", headers: bearer(mustToken(t, expired, tenantActor())), wantCode: dto.ErrCodeTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), Authenticate(DefaultAuthConfig(svc)))
			router.GET("/test", func(c *gin.Context) {
				t.Fatal("handler must not run")
			})

			w := serve(router, http.MethodGet, "/test", tt.headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			resp := decodeResponse(t, w.Body.Bytes())
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestAuthenticate_PublicPaths(t *testing.T) {
	svc := newTestJWTService()

	router := gin.New()
	router.Use(Authenticate(DefaultAuthConfig(svc)))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/v1/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/v1/leads", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/health", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/leads", nil).Code)
}

func TestAuthenticate_CustomPublicPaths(t *testing.T) {
	svc := newTestJWTService()

	router := gin.New()
	router.Use(Authenticate(AuthConfig{
		JWTService:  svc,
		PublicPaths: []string{"/public"},
	}))
	router.GET("/public", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/public", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/health", nil).Code)
}

func TestBearerToken(t *testing.T) {
	token, err := bearerToken("bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = bearerToken("  Bearer   xyz  ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	for _, header := range []string{"", "Bearer", "Bearer  ", "Token abc"} {
		_, err := bearerToken(header)
		assert.ErrorIs(t, err, errMalformedAuthHeader, header)
	}
}

func TestGetJWTClaims_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))

	_, ok := GetActor(c)
	assert.False(t, ok)
}
