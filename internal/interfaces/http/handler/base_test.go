package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// newTestRouter authenticates every request as actor, when given
func newTestRouter(actor *identity.Actor) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), func(c *gin.Context) {
		if actor != nil {
			middleware.SetActor(c, *actor)
		}
		c.Next()
	})
	return router
}

func tenantUser(tenantID uuid.UUID) identity.Actor {
	return identity.NewActor(uuid.New(), &tenantID, identity.UserTypeTenantUser, "*")
}

func platformOperator() identity.Actor {
	return identity.NewActor(uuid.New(), nil, identity.UserTypeSaaSOwner)
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// decodeData unmarshals the data field of a success envelope into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "not found",
			err:         shared.NotFound("Lead"),
			wantStatus:  http.StatusNotFound,
			wantCode:    dto.ErrCodeNotFound,
			wantMessage: "Lead not found",
		},
		{
			name:       "wrapped forbidden",
			err:        fmt.Errorf("load: %w", shared.ErrForbidden),
			wantStatus: http.StatusForbidden,
			wantCode:   dto.ErrCodeForbidden,
		},
		{
			name:       "already converted",
			err:        shared.ErrAlreadyConverted,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeAlreadyConverted,
		},
		{
			name:       "duplicate email",
			err:        shared.ErrDuplicateEmail,
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeDuplicateEmail,
		},
		{
			name:       "concurrency conflict",
			err:        shared.ErrConcurrencyConflict,
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeConcurrencyConflict,
		},
		{
			name:        "plain error is hidden",
			err:         errors.New("pq: connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    dto.ErrCodeInternal,
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			router := newTestRouter(nil)
			router.GET("/test", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := doRequest(router, http.MethodGet, "/test", nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
		})
	}
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	router := newTestRouter(nil)
	router.GET("/test", func(c *gin.Context) {
		h.HandleError(c, nil)
		c.Status(http.StatusTeapot)
	})

	assert.Equal(t, http.StatusTeapot, doRequest(router, http.MethodGet, "/test", nil).Code)
}

func TestBaseHandler_PathIDAndActor(t *testing.T) {
	h := &BaseHandler{}
	actor := tenantUser(uuid.New())

	handle := func(c *gin.Context) {
		if _, ok := h.actor(c); !ok {
			return
		}
		if _, ok := h.pathID(c, "lead"); !ok {
			return
		}
		c.Status(http.StatusOK)
	}

	authed := newTestRouter(&actor)
	authed.GET("/leads/:id", handle)
	anonymous := newTestRouter(nil)
	anonymous.GET("/leads/:id", handle)

	assert.Equal(t, http.StatusOK, doRequest(authed, http.MethodGet, "/leads/"+uuid.NewString(), nil).Code)

	w := doRequest(authed, http.MethodGet, "/leads/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidID, decode(t, w).Code)
	assert.Equal(t, "Invalid lead ID", decode(t, w).Message)

	w = doRequest(anonymous, http.MethodGet, "/leads/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBaseHandler_SuccessWithMeta_NormalizesPaging(t *testing.T) {
	h := &BaseHandler{}
	router := newTestRouter(nil)
	router.GET("/test", func(c *gin.Context) {
		h.SuccessWithMeta(c, "Leads retrieved successfully", []string{"a"}, 45, 0, 0)
	})

	resp := decode(t, doRequest(router, http.MethodGet, "/test", nil))
	assert.True(t, resp.Success)
	assert.Equal(t, "Leads retrieved successfully", resp.Message)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
