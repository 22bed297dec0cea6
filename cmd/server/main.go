package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcrm "github.com/crm/backend/internal/application/crm"
	appidentity "github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/domain/crm"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/event"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:        log,
		LogLevel:      cfg.Log.Level,
		SlowThreshold: cfg.Log.SlowQueryThreshold,
		Tracing:       dbTracing,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	opportunityRepo := persistence.NewGormOpportunityRepository(db.DB)
	noteRepo := persistence.NewGormNoteRepository(db.DB)
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)

	// Tenant validation is cached; tenant lifecycle events evict entries
	tenantValidator := cache.NewCachedTenantValidator(
		appidentity.NewRepositoryTenantValidator(tenantRepo),
		cache.DefaultTenantCacheTTL,
	)

	// Event bus: every CRM event lands in the activity log
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogHandler(activityRepo))
	eventBus.Subscribe(tenantValidator)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	leadService := appcrm.NewLeadService(leadRepo, eventBus, crm.EmailScope(cfg.CRM.LeadEmailScope), log)
	accountService := appcrm.NewAccountService(accountRepo, eventBus, cfg.CRM.AccountNumberPrefix, log)
	contactService := appcrm.NewContactService(contactRepo, accountRepo, eventBus, log)
	opportunityService := appcrm.NewOpportunityService(opportunityRepo, accountRepo, contactRepo, eventBus, log)
	noteService := appcrm.NewNoteService(noteRepo, appcrm.NoteTargets{
		Leads:         leadRepo,
		Accounts:      accountRepo,
		Contacts:      contactRepo,
		Opportunities: opportunityRepo,
		Activities:    activityRepo,
	}, eventBus, log)
	activityService := appcrm.NewActivityService(activityRepo)
	tenantService := appidentity.NewTenantService(tenantRepo, eventBus, log)

	conversionService := appcrm.NewConversionService(
		leadRepo,
		accountRepo,
		persistence.NewGormTransactionScope(db.DB),
		eventBus,
		appcrm.ConversionOptions{
			OpportunityDefaults: crm.OpportunityDefaults{
				Stage:       crm.Stage(cfg.CRM.DefaultOpportunityStage),
				Probability: cfg.CRM.DefaultOpportunityProbability,
			},
			AccountNumberPrefix: cfg.CRM.AccountNumberPrefix,
		},
		log,
	)

	lockFactory := cache.NewConversionLockFactory(cfg.Redis, cfg.CRM,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	)
	conversionLock, redisClient, err := lockFactory.CreateLock()
	if err != nil {
		log.Fatal("Failed to create conversion lock", zap.Error(err))
	}
	conversionService.SetLock(conversionLock)

	// HTTP
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validation", zap.Error(err))
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	healthChecks := map[string]handler.HealthChecker{
		"database": db.PingContext,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	engine := router.NewEngine(router.EngineConfig{
		HTTP:            cfg.HTTP,
		Telemetry:       cfg.Telemetry,
		Production:      cfg.IsProduction(),
		Logger:          log,
		JWTService:      auth.NewJWTService(cfg.JWT),
		TenantValidator: tenantValidator,
	}, router.Handlers{
		Health:      handler.NewHealthHandler(version, healthChecks),
		Lead:        handler.NewLeadHandler(leadService, conversionService),
		Account:     handler.NewAccountHandler(accountService),
		Contact:     handler.NewContactHandler(contactService),
		Opportunity: handler.NewOpportunityHandler(opportunityService),
		Note:        handler.NewNoteHandler(noteService),
		Activity:    handler.NewActivityHandler(activityService),
		Tenant:      handler.NewTenantHandler(tenantService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Error stopping event bus", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Error closing redis", zap.Error(err))
		}
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
