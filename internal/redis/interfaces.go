package redis

import (
	"context"
	"time"

	"chauffeur/internal/domain"
)

// ConfigCacheInterface defines the interface for pricing config caching.
type ConfigCacheInterface interface {
	GetRateCards(ctx context.Context) ([]*domain.RateCard, error)
	SetRateCards(ctx context.Context, cards []*domain.RateCard) error
	GetSurchargeRules(ctx context.Context) ([]*domain.SurchargeRule, error)
	SetSurchargeRules(ctx context.Context, rules []*domain.SurchargeRule) error
	GetAirportZones(ctx context.Context) ([]*domain.AirportZone, error)
	SetAirportZones(ctx context.Context, zones []*domain.AirportZone) error
	Invalidate(ctx context.Context) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireCaptureLock(ctx context.Context, quoteID string, ttl time.Duration) (bool, error)
	ReleaseCaptureLock(ctx context.Context, quoteID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ ConfigCacheInterface = (*ConfigCache)(nil)
	_ LockStoreInterface   = (*LockStore)(nil)
)
