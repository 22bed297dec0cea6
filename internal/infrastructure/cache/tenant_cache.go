package cache

import (
	"context"
	"sync"
	"time"

	appidentity "github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultTenantCacheTTL is how long a successful tenant check is trusted
const DefaultTenantCacheTTL = time.Minute

type cacheEntry struct {
	expiresAt time.Time
}

func (e cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// CachedTenantValidator remembers tenants that passed validation so the
// tenant middleware does not hit the database on every request. Failures
// are never cached. Lifecycle events drop the entry immediately.
type CachedTenantValidator struct {
	next  appidentity.TenantValidator
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	valid map[uuid.UUID]cacheEntry
}

// NewCachedTenantValidator wraps next with a TTL cache
func NewCachedTenantValidator(next appidentity.TenantValidator, ttl time.Duration) *CachedTenantValidator {
	if ttl <= 0 {
		ttl = DefaultTenantCacheTTL
	}
	return &CachedTenantValidator{
		next:  next,
		ttl:   ttl,
		now:   time.Now,
		valid: make(map[uuid.UUID]cacheEntry),
	}
}

// ValidateTenant serves from cache or delegates to the wrapped validator
func (v *CachedTenantValidator) ValidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	now := v.now()

	v.mu.RLock()
	e, ok := v.valid[tenantID]
	v.mu.RUnlock()
	if ok && !e.isExpired(now) {
		return nil
	}

	if err := v.next.ValidateTenant(ctx, tenantID); err != nil {
		v.Invalidate(tenantID)
		return err
	}

	v.mu.Lock()
	v.valid[tenantID] = cacheEntry{expiresAt: now.Add(v.ttl)}
	v.mu.Unlock()
	return nil
}

// Invalidate forgets tenantID
func (v *CachedTenantValidator) Invalidate(tenantID uuid.UUID) {
	v.mu.Lock()
	delete(v.valid, tenantID)
	v.mu.Unlock()
}

// Handle drops the cache entry of the tenant an event refers to
func (v *CachedTenantValidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	v.Invalidate(event.AggregateID())
	return nil
}

// EventTypes lists the tenant lifecycle events that change validity
func (v *CachedTenantValidator) EventTypes() []string {
	return []string{
		identity.EventTypeTenantUpdated,
		identity.EventTypeTenantSuspended,
		identity.EventTypeTenantReactivated,
		identity.EventTypeTenantDeactivated,
	}
}

var (
	_ appidentity.TenantValidator = (*CachedTenantValidator)(nil)
	_ shared.EventHandler         = (*CachedTenantValidator)(nil)
)
