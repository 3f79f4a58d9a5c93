package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"chauffeur/internal/domain"
	"chauffeur/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RATE CARD REPOSITORY
// ──────────────────────────────────────────────

// MockRateCardRepository is a mock implementation of RateCardRepository.
type MockRateCardRepository struct {
	mu    sync.RWMutex
	cards map[string]*domain.RateCard

	// Counters for verification
	GetAllCallCount int32
	UpsertCallCount int32

	// Error injection
	GetAllError error
	UpsertError error
}

// NewMockRateCardRepository creates a new mock rate card repository.
func NewMockRateCardRepository() *MockRateCardRepository {
	return &MockRateCardRepository{
		cards: make(map[string]*domain.RateCard),
	}
}

// AddRateCard adds a rate card to the mock repository.
func (m *MockRateCardRepository) AddRateCard(card *domain.RateCard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.VehicleType] = card
}

func (m *MockRateCardRepository) GetByVehicleType(ctx context.Context, vehicleType string) (*domain.RateCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	card, ok := m.cards[vehicleType]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *card
	return &copy, nil
}

func (m *MockRateCardRepository) GetAll(ctx context.Context) ([]*domain.RateCard, error) {
	atomic.AddInt32(&m.GetAllCallCount, 1)
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.RateCard, 0, len(m.cards))
	for _, c := range m.cards {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRateCardRepository) Upsert(ctx context.Context, card *domain.RateCard) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.VehicleType] = card
	return nil
}

func (m *MockRateCardRepository) Delete(ctx context.Context, vehicleType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[vehicleType]; !ok {
		return repository.ErrNotFound
	}
	delete(m.cards, vehicleType)
	return nil
}

// ──────────────────────────────────────────────
// MOCK SURCHARGE RULE REPOSITORY
// ──────────────────────────────────────────────

// MockSurchargeRuleRepository is a mock implementation of SurchargeRuleRepository.
type MockSurchargeRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]*domain.SurchargeRule

	// Error injection
	GetAllError error
	UpsertError error
}

// NewMockSurchargeRuleRepository creates a new mock surcharge rule repository.
func NewMockSurchargeRuleRepository() *MockSurchargeRuleRepository {
	return &MockSurchargeRuleRepository{
		rules: make(map[string]*domain.SurchargeRule),
	}
}

// AddRule adds a surcharge rule to the mock repository.
func (m *MockSurchargeRuleRepository) AddRule(rule *domain.SurchargeRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
}

func (m *MockSurchargeRuleRepository) GetAll(ctx context.Context) ([]*domain.SurchargeRule, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.SurchargeRule, 0, len(m.rules))
	for _, r := range m.rules {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockSurchargeRuleRepository) Upsert(ctx context.Context, rule *domain.SurchargeRule) error {
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockSurchargeRuleRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rules, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK AIRPORT ZONE REPOSITORY
// ──────────────────────────────────────────────

// MockAirportZoneRepository is a mock implementation of AirportZoneRepository.
type MockAirportZoneRepository struct {
	mu    sync.RWMutex
	zones map[string]*domain.AirportZone

	// Error injection
	GetAllError error
}

// NewMockAirportZoneRepository creates a new mock airport zone repository.
func NewMockAirportZoneRepository() *MockAirportZoneRepository {
	return &MockAirportZoneRepository{
		zones: make(map[string]*domain.AirportZone),
	}
}

// AddZone adds an airport zone to the mock repository.
func (m *MockAirportZoneRepository) AddZone(zone *domain.AirportZone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[zone.ID] = zone
}

func (m *MockAirportZoneRepository) GetAll(ctx context.Context) ([]*domain.AirportZone, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.AirportZone, 0, len(m.zones))
	for _, z := range m.zones {
		copy := *z
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockAirportZoneRepository) Upsert(ctx context.Context, zone *domain.AirportZone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[zone.ID] = zone
	return nil
}

func (m *MockAirportZoneRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.zones[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.zones, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK QUOTE REPOSITORY
// ──────────────────────────────────────────────

// MockQuoteRepository is a mock implementation of QuoteRepository.
type MockQuoteRepository struct {
	mu     sync.RWMutex
	quotes map[string]*domain.Quote

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockQuoteRepository creates a new mock quote repository.
func NewMockQuoteRepository() *MockQuoteRepository {
	return &MockQuoteRepository{
		quotes: make(map[string]*domain.Quote),
	}
}

// AddQuote adds a quote to the mock repository.
func (m *MockQuoteRepository) AddQuote(quote *domain.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[quote.ID] = quote
}

func (m *MockQuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *quote
	m.quotes[quote.ID] = &copy
	return nil
}

func (m *MockQuoteRepository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	quote, ok := m.quotes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *quote
	return &copy, nil
}

func (m *MockQuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quotes[quote.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *quote
	m.quotes[quote.ID] = &copy
	return nil
}

// GetQuote returns a quote for test assertions.
func (m *MockQuoteRepository) GetQuote(id string) *domain.Quote {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.quotes[id]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.IdempotencyKey == key {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK CONFIG CACHE
// ──────────────────────────────────────────────

// MockConfigCache is a mock implementation of ConfigCacheInterface.
type MockConfigCache struct {
	mu    sync.RWMutex
	cards []*domain.RateCard
	rules []*domain.SurchargeRule
	zones []*domain.AirportZone

	// Counters for verification
	GetRateCardsCallCount int32
	InvalidateCallCount   int32
}

// NewMockConfigCache creates a new mock config cache.
func NewMockConfigCache() *MockConfigCache {
	return &MockConfigCache{}
}

func (m *MockConfigCache) GetRateCards(ctx context.Context) ([]*domain.RateCard, error) {
	atomic.AddInt32(&m.GetRateCardsCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cards, nil
}

func (m *MockConfigCache) SetRateCards(ctx context.Context, cards []*domain.RateCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards = cards
	return nil
}

func (m *MockConfigCache) GetSurchargeRules(ctx context.Context) ([]*domain.SurchargeRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rules, nil
}

func (m *MockConfigCache) SetSurchargeRules(ctx context.Context, rules []*domain.SurchargeRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = rules
	return nil
}

func (m *MockConfigCache) GetAirportZones(ctx context.Context) ([]*domain.AirportZone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.zones, nil
}

func (m *MockConfigCache) SetAirportZones(ctx context.Context, zones []*domain.AirportZone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones = zones
	return nil
}

func (m *MockConfigCache) Invalidate(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards = nil
	m.rules = nil
	m.zones = nil
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireCaptureLock(ctx context.Context, quoteID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[quoteID] {
		return false, nil
	}
	m.locks[quoteID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseCaptureLock(ctx context.Context, quoteID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, quoteID)
	return nil
}

// HoldLock pre-acquires a lock so a capture attempt finds it taken.
func (m *MockLockStore) HoldLock(quoteID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[quoteID] = true
}

// ──────────────────────────────────────────────
// MOCK ESTIMATE SOURCE
// ──────────────────────────────────────────────

// MockEstimateSource is a mock implementation of EstimateSource.
type MockEstimateSource struct {
	// Counters for verification
	CallCount int32

	// Result/error returned when EstimateFunc is unset.
	Result        *domain.RouteEstimate
	EstimateError error

	// EstimateFunc overrides the default behavior; call is the
	// 1-based invocation number.
	EstimateFunc func(call int32) (*domain.RouteEstimate, error)
}

// NewMockEstimateSource creates a mock estimate source returning a
// fixed estimate.
func NewMockEstimateSource(distanceKm, durationMinutes float64) *MockEstimateSource {
	return &MockEstimateSource{
		Result: &domain.RouteEstimate{
			DistanceKm:      distanceKm,
			DurationMinutes: durationMinutes,
			TrafficAware:    true,
		},
	}
}

func (m *MockEstimateSource) Estimate(ctx context.Context, origin, destination domain.Location, waypoints []domain.Location, departAt time.Time) (*domain.RouteEstimate, error) {
	call := atomic.AddInt32(&m.CallCount, 1)
	if m.EstimateFunc != nil {
		return m.EstimateFunc(call)
	}
	if m.EstimateError != nil {
		return nil, m.EstimateError
	}
	copy := *m.Result
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK PSP
// ──────────────────────────────────────────────

// MockPSP is a mock payment provider with failure injection.
type MockPSP struct {
	// Counters for verification
	ChargeCallCount int32

	// Failure injection
	Declined    bool
	ChargeError error

	// Last charge for assertions
	mu           sync.Mutex
	LastAmount   float64
	LastCurrency string
}

// NewMockPSP creates a new mock PSP that approves every charge.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

func (m *MockPSP) Charge(ctx context.Context, amount float64, currency string) (bool, error) {
	atomic.AddInt32(&m.ChargeCallCount, 1)
	m.mu.Lock()
	m.LastAmount = amount
	m.LastCurrency = currency
	m.mu.Unlock()
	if m.ChargeError != nil {
		return false, m.ChargeError
	}
	return !m.Declined, nil
}
