package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"chauffeur/internal/domain"
)

// ConfigCache caches pricing configuration in Redis so instances can
// serve quotes without hitting Postgres on every snapshot reload.
// Entries are invalidated on admin edits and expire on their own as a
// backstop.
type ConfigCache struct {
	client *redis.Client
}

// NewConfigCache creates a new ConfigCache.
func NewConfigCache(client *redis.Client) *ConfigCache {
	return &ConfigCache{client: client}
}

// ConfigCacheTTL bounds how stale a cached pricing config can get if an
// invalidation is missed.
const ConfigCacheTTL = 60 * time.Second

// Cache keys
const (
	rateCardsKey     = "pricing:rate_cards"
	surchargeRuleKey = "pricing:surcharge_rules"
	airportZonesKey  = "pricing:airport_zones"
)

// GetRateCards retrieves the cached rate card list. Returns nil on a
// cache miss.
func (c *ConfigCache) GetRateCards(ctx context.Context) ([]*domain.RateCard, error) {
	data, err := c.client.Get(ctx, rateCardsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cards []*domain.RateCard
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// SetRateCards stores the rate card list in cache.
func (c *ConfigCache) SetRateCards(ctx context.Context, cards []*domain.RateCard) error {
	data, err := json.Marshal(cards)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rateCardsKey, data, ConfigCacheTTL).Err()
}

// GetSurchargeRules retrieves the cached surcharge rule list. Returns
// nil on a cache miss.
func (c *ConfigCache) GetSurchargeRules(ctx context.Context) ([]*domain.SurchargeRule, error) {
	data, err := c.client.Get(ctx, surchargeRuleKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var rules []*domain.SurchargeRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// SetSurchargeRules stores the surcharge rule list in cache.
func (c *ConfigCache) SetSurchargeRules(ctx context.Context, rules []*domain.SurchargeRule) error {
	data, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, surchargeRuleKey, data, ConfigCacheTTL).Err()
}

// GetAirportZones retrieves the cached airport zone list. Returns nil
// on a cache miss.
func (c *ConfigCache) GetAirportZones(ctx context.Context) ([]*domain.AirportZone, error) {
	data, err := c.client.Get(ctx, airportZonesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var zones []*domain.AirportZone
	if err := json.Unmarshal(data, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// SetAirportZones stores the airport zone list in cache.
func (c *ConfigCache) SetAirportZones(ctx context.Context, zones []*domain.AirportZone) error {
	data, err := json.Marshal(zones)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, airportZonesKey, data, ConfigCacheTTL).Err()
}

// Invalidate drops all cached pricing configuration. Called after
// every admin edit so the next snapshot reload reads from Postgres.
func (c *ConfigCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, rateCardsKey, surchargeRuleKey, airportZonesKey).Err()
}
