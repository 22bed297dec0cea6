package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appcrm "github.com/crm/backend/internal/application/crm"
	appidentity "github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestResource_Mount(t *testing.T) {
	engine := gin.New()
	var seen []string
	guard := func(c *gin.Context) { seen = append(seen, "guard"); c.Next() }

	leads := NewResource("/leads", guard).
		GET("", "", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		POST("", "", func(c *gin.Context) { c.String(http.StatusCreated, "create") }).
		PUT("/:id", "", func(c *gin.Context) { c.String(http.StatusOK, "update "+c.Param("id")) }).
		DELETE("/:id", "", func(c *gin.Context) { c.String(http.StatusOK, "delete") })

	assert.Equal(t, "/leads", leads.Prefix())
	assert.Len(t, leads.Routes(), 4)

	Mount(engine, leads)

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/api/v1/leads", http.StatusOK, "list"},
		{http.MethodPost, "/api/v1/leads", http.StatusCreated, "create"},
		{http.MethodPut, "/api/v1/leads/42", http.StatusOK, "update 42"},
		{http.MethodDelete, "/api/v1/leads/42", http.StatusOK, "delete"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, w.Code, tt.method+" "+tt.path)
		assert.Equal(t, tt.body, w.Body.String())
	}
	assert.Len(t, seen, len(tests))
}

func TestResource_PermissionWithoutActorIsRejected(t *testing.T) {
	engine := gin.New()
	Mount(engine, NewResource("/notes").GET("", PermNoteRead, func(c *gin.Context) { c.String(http.StatusOK, "notes") }))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type emptyActivityLog struct{}

func (emptyActivityLog) FindByID(context.Context, uuid.UUID) (*crm.ActivityLog, error) {
	return nil, nil
}

func (emptyActivityLog) FindAll(context.Context, crm.ActivityFilter) ([]crm.ActivityLog, error) {
	return []crm.ActivityLog{}, nil
}

func (emptyActivityLog) Count(context.Context, crm.ActivityFilter) (int64, error) {
	return 0, nil
}

func (emptyActivityLog) Create(context.Context, *crm.ActivityLog) error {
	return nil
}

type staticTenantValidator map[uuid.UUID]error

func (v staticTenantValidator) ValidateTenant(_ context.Context, tenantID uuid.UUID) error {
	return v[tenantID]
}

type engineFixture struct {
	engine    *gin.Engine
	jwt       *auth.JWTService
	suspended uuid.UUID
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "router-test-secret-at-least-32-chars",
		Issuer:                "crm-test",
		AccessTokenExpiration: time.Minute,
	})
	suspended := uuid.New()

	engine := NewEngine(EngineConfig{
		HTTP:            config.HTTPConfig{MaxBodySize: 1 << 20},
		JWTService:      jwtService,
		TenantValidator: staticTenantValidator{suspended: appidentity.ErrTenantSuspended},
	}, Handlers{
		Health:   handler.NewHealthHandler("test", nil),
		Activity: handler.NewActivityHandler(appcrm.NewActivityService(emptyActivityLog{})),
		Tenant:   handler.NewTenantHandler(appidentity.NewTenantService(nil, nil, nil)),
	})
	return &engineFixture{engine: engine, jwt: jwtService, suspended: suspended}
}

func (f *engineFixture) do(t *testing.T, method, path string, actor *identity.Actor) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if actor != nil {
		token, err := f.jwt.GenerateAccessToken(*actor)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func tenantActor(tenantID uuid.UUID, permissions ...string) identity.Actor {
	return identity.NewActor(uuid.New(), &tenantID, identity.UserTypeTenantUser, permissions...)
}

func TestNewEngine_HealthIsPublic(t *testing.T) {
	f := newEngineFixture(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w, resp := f.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	}
}

func TestNewEngine_RequiresToken(t *testing.T) {
	f := newEngineFixture(t)

	w, resp := f.do(t, http.MethodGet, "/api/v1/activities", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, resp.Code)
}

func TestNewEngine_Permissions(t *testing.T) {
	f := newEngineFixture(t)

	reader := tenantActor(uuid.New(), "activity_log:read")
	w, resp := f.do(t, http.MethodGet, "/api/v1/activities", &reader)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(0), resp.Meta.Total)

	wildcard := tenantActor(uuid.New(), "activity_log:*")
	w, _ = f.do(t, http.MethodGet, "/api/v1/activities", &wildcard)
	assert.Equal(t, http.StatusOK, w.Code)

	other := tenantActor(uuid.New(), "lead_management:read")
	w, resp = f.do(t, http.MethodGet, "/api/v1/activities", &other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, resp.Code)
}

func TestNewEngine_SuspendedTenantIsRejected(t *testing.T) {
	f := newEngineFixture(t)

	actor := tenantActor(f.suspended, "*")
	w, resp := f.do(t, http.MethodGet, "/api/v1/activities", &actor)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Tenant is suspended", resp.Message)
}

func TestNewEngine_TenantRoutesNeedPlatformOperator(t *testing.T) {
	f := newEngineFixture(t)

	admin := tenantActor(uuid.New(), "*")
	admin.UserType = identity.UserTypeTenantAdmin
	w, resp := f.do(t, http.MethodGet, "/api/v1/tenants", &admin)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, resp.Code)
}

func TestNewEngine_UnknownRoute(t *testing.T) {
	f := newEngineFixture(t)

	actor := tenantActor(uuid.New(), "*")
	w, resp := f.do(t, http.MethodGet, "/api/v1/widgets", &actor)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", resp.Message)
}

func TestResources_PermissionTable(t *testing.T) {
	rs := resources(Handlers{
		Lead:        &handler.LeadHandler{},
		Account:     &handler.AccountHandler{},
		Contact:     &handler.ContactHandler{},
		Opportunity: &handler.OpportunityHandler{},
		Note:        &handler.NoteHandler{},
		Activity:    &handler.ActivityHandler{},
		Tenant:      &handler.TenantHandler{},
	})

	perms := map[string]string{}
	for _, r := range rs {
		for _, route := range r.Routes() {
			perms[route.Method+" "+r.Prefix()+route.Path] = route.Permission
		}
	}

	want := map[string]string{
		"GET /leads":                   PermLeadRead,
		"POST /leads":                  PermLeadCreate,
		"GET /leads/:id":               PermLeadRead,
		"PUT /leads/:id":               PermLeadUpdate,
		"DELETE /leads/:id":            PermLeadDelete,
		"POST /leads/:id/convert":      PermLeadConvert,
		"GET /accounts":                PermAccountRead,
		"POST /accounts":               PermAccountCreate,
		"GET /accounts/:id":            PermAccountRead,
		"PUT /accounts/:id":            PermAccountUpdate,
		"DELETE /accounts/:id":         PermAccountDelete,
		"GET /contacts":                PermContactRead,
		"POST /contacts":               PermContactCreate,
		"GET /contacts/:id":            PermContactRead,
		"PUT /contacts/:id":            PermContactUpdate,
		"DELETE /contacts/:id":         PermContactDelete,
		"GET /opportunities":           PermOpportunityRead,
		"POST /opportunities":          PermOpportunityCreate,
		"GET /opportunities/:id":       PermOpportunityRead,
		"PUT /opportunities/:id":       PermOpportunityUpdate,
		"DELETE /opportunities/:id":    PermOpportunityDelete,
		"GET /notes":                   PermNoteRead,
		"POST /notes":                  PermNoteCreate,
		"DELETE /notes/:id":            PermNoteDelete,
		"GET /activities":              PermActivityRead,
		"GET /tenants":                 "",
		"POST /tenants":                "",
		"GET /tenants/:id":             "",
		"POST /tenants/:id/suspend":    "",
		"POST /tenants/:id/reactivate": "",
	}
	assert.Equal(t, want, perms)
}
