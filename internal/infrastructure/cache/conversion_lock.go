package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	appcrm "github.com/crm/backend/internal/application/crm"
	"github.com/crm/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// DefaultConversionLockTTL bounds how long a crashed holder blocks a lead
	DefaultConversionLockTTL = 30 * time.Second

	conversionLockPrefix = "crm:lead-conversion:"
)

// releaseScript deletes the key only while it still holds our token, so a
// holder whose lock expired never releases someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisConversionLock serialises conversions of a lead across instances
// with SET NX and a per-acquisition token.
type RedisConversionLock struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisConversionLock creates a lock on top of an existing client
func NewRedisConversionLock(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisConversionLock {
	if ttl <= 0 {
		ttl = DefaultConversionLockTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisConversionLock{client: client, ttl: ttl, logger: logger}
}

// Acquire takes the lock for leadID. A held lock fails with
// crm.ErrConversionInProgress.
func (l *RedisConversionLock) Acquire(ctx context.Context, leadID uuid.UUID) (func(), error) {
	key := conversionLockPrefix + leadID.String()
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire conversion lock: %w", err)
	}
	if !ok {
		return nil, crm.ErrConversionInProgress
	}

	release := func() {
		// The request context may already be cancelled here.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pingTimeout)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("Failed to release conversion lock",
				zap.String("lead_id", leadID.String()),
				zap.Error(err),
			)
		}
	}
	return release, nil
}

// InMemoryConversionLock serialises conversions inside one process
type InMemoryConversionLock struct {
	mu   sync.Mutex
	held map[uuid.UUID]struct{}
}

// NewInMemoryConversionLock creates a process-local lock
func NewInMemoryConversionLock() *InMemoryConversionLock {
	return &InMemoryConversionLock{held: make(map[uuid.UUID]struct{})}
}

// Acquire takes the lock for leadID without blocking
func (l *InMemoryConversionLock) Acquire(ctx context.Context, leadID uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[leadID]; busy {
		return nil, crm.ErrConversionInProgress
	}
	l.held[leadID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, leadID)
			l.mu.Unlock()
		})
	}, nil
}

var (
	_ appcrm.ConversionLock = (*RedisConversionLock)(nil)
	_ appcrm.ConversionLock = (*InMemoryConversionLock)(nil)
)
