package router

import (
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Permissions checked by the CRM routes
const (
	PermLeadRead          = "lead_management:read"
	PermLeadCreate        = "lead_management:create"
	PermLeadUpdate        = "lead_management:update"
	PermLeadDelete        = "lead_management:delete"
	PermLeadConvert       = "lead_management:convert"
	PermAccountRead       = "account_management:read"
	PermAccountCreate     = "account_management:create"
	PermAccountUpdate     = "account_management:update"
	PermAccountDelete     = "account_management:delete"
	PermContactRead       = "contact_management:read"
	PermContactCreate     = "contact_management:create"
	PermContactUpdate     = "contact_management:update"
	PermContactDelete     = "contact_management:delete"
	PermOpportunityRead   = "opportunity_management:read"
	PermOpportunityCreate = "opportunity_management:create"
	PermOpportunityUpdate = "opportunity_management:update"
	PermOpportunityDelete = "opportunity_management:delete"
	PermNoteRead          = "note_management:read"
	PermNoteCreate        = "note_management:create"
	PermNoteDelete        = "note_management:delete"
	PermActivityRead      = "activity_log:read"
)

// Handlers are the HTTP handlers the engine serves
type Handlers struct {
	Health      *handler.HealthHandler
	Lead        *handler.LeadHandler
	Account     *handler.AccountHandler
	Contact     *handler.ContactHandler
	Opportunity *handler.OpportunityHandler
	Note        *handler.NoteHandler
	Activity    *handler.ActivityHandler
	Tenant      *handler.TenantHandler
}

// EngineConfig holds what the middleware chain needs
type EngineConfig struct {
	HTTP            config.HTTPConfig
	Telemetry       config.TelemetryConfig
	Production      bool
	Logger          *zap.Logger
	JWTService      *auth.JWTService
	TenantValidator middleware.TenantValidator
}

// NewEngine builds the gin engine: the global middleware chain, the
// unauthenticated health probes and the /api/v1 resource routes.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Ignoring invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.AccessLog(log),
	)
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName), middleware.SpanAttributes())
	}
	engine.Use(
		middleware.CORSWithConfig(corsConfig(cfg.HTTP)),
		middleware.SecureWithConfig(securityConfig(cfg.Production)),
	)
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	authCfg := middleware.DefaultAuthConfig(cfg.JWTService)
	authCfg.Logger = log
	engine.Use(
		middleware.Authenticate(authCfg),
		middleware.TenantMiddleware(cfg.TenantValidator),
	)

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeNotFound),
			dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	Mount(engine, resources(h)...)
	return engine
}

// resources maps every route to its handler and required permission
func resources(h Handlers) []*Resource {
	var rs []*Resource
	if h.Health != nil {
		rs = append(rs, NewResource("/health").GET("", "", h.Health.Health))
	}
	if h.Lead != nil {
		rs = append(rs, NewResource("/leads").
			GET("", PermLeadRead, h.Lead.List).
			POST("", PermLeadCreate, h.Lead.Create).
			GET("/:id", PermLeadRead, h.Lead.GetByID).
			PUT("/:id", PermLeadUpdate, h.Lead.Update).
			DELETE("/:id", PermLeadDelete, h.Lead.Delete).
			POST("/:id/convert", PermLeadConvert, h.Lead.Convert))
	}
	if h.Account != nil {
		rs = append(rs, NewResource("/accounts").
			GET("", PermAccountRead, h.Account.List).
			POST("", PermAccountCreate, h.Account.Create).
			GET("/:id", PermAccountRead, h.Account.GetByID).
			PUT("/:id", PermAccountUpdate, h.Account.Update).
			DELETE("/:id", PermAccountDelete, h.Account.Delete))
	}
	if h.Contact != nil {
		rs = append(rs, NewResource("/contacts").
			GET("", PermContactRead, h.Contact.List).
			POST("", PermContactCreate, h.Contact.Create).
			GET("/:id", PermContactRead, h.Contact.GetByID).
			PUT("/:id", PermContactUpdate, h.Contact.Update).
			DELETE("/:id", PermContactDelete, h.Contact.Delete))
	}
	if h.Opportunity != nil {
		rs = append(rs, NewResource("/opportunities").
			GET("", PermOpportunityRead, h.Opportunity.List).
			POST("", PermOpportunityCreate, h.Opportunity.Create).
			GET("/:id", PermOpportunityRead, h.Opportunity.GetByID).
			PUT("/:id", PermOpportunityUpdate, h.Opportunity.Update).
			DELETE("/:id", PermOpportunityDelete, h.Opportunity.Delete))
	}
	if h.Note != nil {
		rs = append(rs, NewResource("/notes").
			GET("", PermNoteRead, h.Note.List).
			POST("", PermNoteCreate, h.Note.Create).
			DELETE("/:id", PermNoteDelete, h.Note.Delete))
	}
	if h.Activity != nil {
		rs = append(rs, NewResource("/activities").
			GET("", PermActivityRead, h.Activity.List))
	}
	if h.Tenant != nil {
		rs = append(rs, NewResource("/tenants", middleware.RequirePlatformOperator()).
			GET("", "", h.Tenant.List).
			POST("", "", h.Tenant.Create).
			GET("/:id", "", h.Tenant.GetByID).
			POST("/:id/suspend", "", h.Tenant.Suspend).
			POST("/:id/reactivate", "", h.Tenant.Reactivate))
	}
	return rs
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSAllowOrigins
	}
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}

func securityConfig(production bool) middleware.SecurityConfig {
	sec := middleware.DefaultSecurityConfig()
	sec.HSTSEnabled = production
	return sec
}
