package cache

import (
	"fmt"

	appcrm "github.com/crm/backend/internal/application/crm"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConversionLockFactory picks the conversion lock implementation from configuration
type ConversionLockFactory struct {
	redisConfig           config.RedisConfig
	crmConfig             config.CRMConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(config.RedisConfig) (*redis.Client, error)
}

// ConversionLockFactoryOption is a functional option for configuring the factory
type ConversionLockFactoryOption func(*ConversionLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ConversionLockFactoryOption {
	return func(f *ConversionLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to a process-local lock
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ConversionLockFactoryOption {
	return func(f *ConversionLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewConversionLockFactory creates a new factory
func NewConversionLockFactory(redisCfg config.RedisConfig, crmCfg config.CRMConfig, opts ...ConversionLockFactoryOption) *ConversionLockFactory {
	f := &ConversionLockFactory{
		redisConfig:           redisCfg,
		crmConfig:             crmCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect:               NewRedisClient,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateLock returns a Redis lock when Redis is enabled and reachable. The
// returned client is nil unless Redis is used; the caller closes it.
func (f *ConversionLockFactory) CreateLock() (appcrm.ConversionLock, *redis.Client, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory conversion lock")
		return NewInMemoryConversionLock(), nil, nil
	}

	client, err := f.connect(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis conversion lock", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisConversionLock(client, f.crmConfig.ConversionLockTTL, f.logger), client, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("redis required for conversion lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory conversion lock. "+
		"Conversions of the same lead are only serialised within this instance.",
		zap.Error(err),
	)
	return NewInMemoryConversionLock(), nil, nil
}
