package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"chauffeur/internal/domain"
	"chauffeur/internal/redis"
	"chauffeur/internal/repository"
)

// Snapshot is an immutable view of the pricing configuration: rate
// cards, the compiled surcharge rule set, and tax settings. A snapshot
// is built once at load time and swapped as a whole on admin edits, so
// an in-flight calculation never observes a half-edited config.
type Snapshot struct {
	rateCards map[string]*domain.RateCard
	ruleSet   *RuleSet
	taxRate   float64
	currency  string
}

// NewSnapshot validates the configuration and builds a snapshot.
// Malformed rate cards or surcharge rules are rejected here, never at
// calculation time.
func NewSnapshot(
	cards []*domain.RateCard,
	rules []*domain.SurchargeRule,
	zones []*domain.AirportZone,
	maxStopovers int,
	taxRate float64,
	currency string,
) (*Snapshot, error) {
	if taxRate < 0 || taxRate >= 1 {
		return nil, fmt.Errorf("%w: tax rate %v out of range", ErrConfiguration, taxRate)
	}

	byType := make(map[string]*domain.RateCard, len(cards))
	for _, card := range cards {
		if err := validateRateCard(card); err != nil {
			return nil, err
		}
		if _, exists := byType[card.VehicleType]; exists {
			return nil, fmt.Errorf("%w: duplicate rate card for vehicle type %q", ErrConfiguration, card.VehicleType)
		}
		byType[card.VehicleType] = card
	}

	ruleSet, err := NewRuleSet(rules, zones, maxStopovers)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		rateCards: byType,
		ruleSet:   ruleSet,
		taxRate:   taxRate,
		currency:  currency,
	}, nil
}

// RateCard returns the rate card for a vehicle type. A missing card
// blocks pricing with ErrUnknownVehicleType; it never silently
// defaults.
func (s *Snapshot) RateCard(vehicleType string) (*domain.RateCard, error) {
	card, ok := s.rateCards[vehicleType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVehicleType, vehicleType)
	}
	return card, nil
}

// RuleSet returns the compiled surcharge rule set.
func (s *Snapshot) RuleSet() *RuleSet {
	return s.ruleSet
}

// TaxRate returns the configured tax rate (0.21 = 21% VAT).
func (s *Snapshot) TaxRate() float64 {
	return s.taxRate
}

// Currency returns the fallback currency for rate cards without one.
func (s *Snapshot) Currency() string {
	return s.currency
}

func validateRateCard(card *domain.RateCard) error {
	switch {
	case card.VehicleType == "":
		return fmt.Errorf("%w: rate card missing vehicle type", ErrConfiguration)
	case card.BasePrice < 0, card.PerKmRate < 0, card.PerMinuteRate < 0, card.PerHourRate < 0, card.NightSurcharge < 0:
		return fmt.Errorf("%w: rate card %q has a negative rate", ErrConfiguration, card.VehicleType)
	case card.MinimumFare < card.BasePrice:
		return fmt.Errorf("%w: rate card %q minimum fare below base price", ErrConfiguration, card.VehicleType)
	}
	return nil
}

// ConfigService loads pricing configuration from Postgres (through the
// Redis cache) and holds the current snapshot. Admin edits write
// through, invalidate the cache, and swap in a freshly validated
// snapshot.
type ConfigService struct {
	rateCardRepo repository.RateCardRepository
	ruleRepo     repository.SurchargeRuleRepository
	zoneRepo     repository.AirportZoneRepository
	cache        redis.ConfigCacheInterface

	maxStopovers int
	taxRate      float64
	currency     string

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewConfigService creates a new ConfigService. cache may be nil, in
// which case every reload reads straight from the repositories.
func NewConfigService(
	rateCardRepo repository.RateCardRepository,
	ruleRepo repository.SurchargeRuleRepository,
	zoneRepo repository.AirportZoneRepository,
	cache redis.ConfigCacheInterface,
	maxStopovers int,
	taxRate float64,
	currency string,
) *ConfigService {
	return &ConfigService{
		rateCardRepo: rateCardRepo,
		ruleRepo:     ruleRepo,
		zoneRepo:     zoneRepo,
		cache:        cache,
		maxStopovers: maxStopovers,
		taxRate:      taxRate,
		currency:     currency,
	}
}

// Snapshot returns the current configuration snapshot.
func (s *ConfigService) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, fmt.Errorf("%w: configuration not loaded", ErrConfiguration)
	}
	return s.snapshot, nil
}

// Reload loads the configuration, validates it, and atomically swaps
// the snapshot. A validation failure leaves the previous snapshot in
// place and is logged loudly: it indicates a deployment or admin
// defect, not a transient condition.
func (s *ConfigService) Reload(ctx context.Context) error {
	cards, err := s.loadRateCards(ctx)
	if err != nil {
		return err
	}
	rules, err := s.loadSurchargeRules(ctx)
	if err != nil {
		return err
	}
	zones, err := s.loadAirportZones(ctx)
	if err != nil {
		return err
	}

	snapshot, err := NewSnapshot(cards, rules, zones, s.maxStopovers, s.taxRate, s.currency)
	if err != nil {
		log.Printf("pricing config rejected: %v", err)
		return err
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	return nil
}

// UpsertRateCard validates and persists a rate card, then refreshes the
// snapshot.
func (s *ConfigService) UpsertRateCard(ctx context.Context, card *domain.RateCard) error {
	if err := validateRateCard(card); err != nil {
		return err
	}
	if card.Currency == "" {
		card.Currency = s.currency
	}
	if err := s.rateCardRepo.Upsert(ctx, card); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// DeleteRateCard removes a rate card, then refreshes the snapshot.
func (s *ConfigService) DeleteRateCard(ctx context.Context, vehicleType string) error {
	if err := s.rateCardRepo.Delete(ctx, vehicleType); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// UpsertSurchargeRule validates and persists a surcharge rule, then
// refreshes the snapshot.
func (s *ConfigService) UpsertSurchargeRule(ctx context.Context, rule *domain.SurchargeRule) error {
	if err := validateSurchargeRule(rule); err != nil {
		return err
	}
	if err := s.ruleRepo.Upsert(ctx, rule); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// DeleteSurchargeRule removes a surcharge rule, then refreshes the
// snapshot.
func (s *ConfigService) DeleteSurchargeRule(ctx context.Context, id string) error {
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// UpsertAirportZone validates and persists an airport zone, then
// refreshes the snapshot.
func (s *ConfigService) UpsertAirportZone(ctx context.Context, zone *domain.AirportZone) error {
	if err := validateAirportZone(zone); err != nil {
		return err
	}
	if err := s.zoneRepo.Upsert(ctx, zone); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// DeleteAirportZone removes an airport zone, then refreshes the
// snapshot.
func (s *ConfigService) DeleteAirportZone(ctx context.Context, id string) error {
	if err := s.zoneRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// RateCards returns all configured rate cards for the admin console.
func (s *ConfigService) RateCards(ctx context.Context) ([]*domain.RateCard, error) {
	return s.loadRateCards(ctx)
}

// SurchargeRules returns all configured surcharge rules for the admin
// console.
func (s *ConfigService) SurchargeRules(ctx context.Context) ([]*domain.SurchargeRule, error) {
	return s.loadSurchargeRules(ctx)
}

// AirportZones returns all configured airport zones for the admin
// console.
func (s *ConfigService) AirportZones(ctx context.Context) ([]*domain.AirportZone, error) {
	return s.loadAirportZones(ctx)
}

// refresh invalidates the cache and reloads the snapshot after an
// admin edit.
func (s *ConfigService) refresh(ctx context.Context) error {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			// Cache invalidation failure is non-fatal: the TTL bounds
			// the staleness window.
			log.Printf("pricing config cache invalidation failed: %v", err)
		}
	}
	return s.Reload(ctx)
}

func (s *ConfigService) loadRateCards(ctx context.Context) ([]*domain.RateCard, error) {
	if s.cache != nil {
		if cards, err := s.cache.GetRateCards(ctx); err == nil && cards != nil {
			return cards, nil
		}
	}

	cards, err := s.rateCardRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(cards) > 0 {
		_ = s.cache.SetRateCards(ctx, cards)
	}
	return cards, nil
}

func (s *ConfigService) loadSurchargeRules(ctx context.Context) ([]*domain.SurchargeRule, error) {
	if s.cache != nil {
		if rules, err := s.cache.GetSurchargeRules(ctx); err == nil && rules != nil {
			return rules, nil
		}
	}

	rules, err := s.ruleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(rules) > 0 {
		_ = s.cache.SetSurchargeRules(ctx, rules)
	}
	return rules, nil
}

func (s *ConfigService) loadAirportZones(ctx context.Context) ([]*domain.AirportZone, error) {
	if s.cache != nil {
		if zones, err := s.cache.GetAirportZones(ctx); err == nil && zones != nil {
			return zones, nil
		}
	}

	zones, err := s.zoneRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(zones) > 0 {
		_ = s.cache.SetAirportZones(ctx, zones)
	}
	return zones, nil
}
