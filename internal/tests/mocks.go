package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"memorial/internal/domain"
	"memorial/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	CreateCallCount    int32
	UpdateCallCount    int32
	AppliedUpdateCount int32
	GetByIDCallCount   int32

	// Error injection
	CreateError  error
	GetByIDError error
	UpdateError  error

	// AfterGetByID runs once a read has completed, before it is returned.
	AfterGetByID func(id string)
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *order
	m.orders[order.ID] = &copy
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *order
	m.orders[order.ID] = &copy
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	order, ok := m.orders[id]
	var copy domain.Order
	if ok {
		// Return a copy to avoid mutation issues.
		copy = *order
	}
	m.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	if m.AfterGetByID != nil {
		m.AfterGetByID(id)
	}
	return &copy, nil
}

// UpdateStatusIfPending applies the transition under the write lock, the same
// guarantee the conditional UPDATE gives in PostgreSQL.
func (m *MockOrderRepository) UpdateStatusIfPending(ctx context.Context, id string, status domain.OrderStatus, gatewayRef string) (bool, error) {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return false, m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return false, nil
	}
	order.Status = status
	if gatewayRef != "" {
		order.GatewayPaymentID = gatewayRef
	}
	order.UpdatedAt = time.Now().UTC()
	atomic.AddInt32(&m.AppliedUpdateCount, 1)
	return true, nil
}

// GetOrder returns order for test assertions.
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

// CountOrders returns the number of stored orders.
func (m *MockOrderRepository) CountOrders() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// ──────────────────────────────────────────────
// MOCK SUBSCRIPTION REPOSITORY
// ──────────────────────────────────────────────

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]*domain.Subscription

	// Counters for verification
	CreateCallCount     int32
	TransitionCallCount int32

	// Error injection
	CreateError     error
	TransitionError error
}

// NewMockSubscriptionRepository creates a new mock subscription repository.
func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		subs: make(map[string]*domain.Subscription),
	}
}

// AddSubscription adds a subscription to the mock repository.
func (m *MockSubscriptionRepository) AddSubscription(sub *domain.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *sub
	m.subs[sub.ID] = &copy
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *sub
	m.subs[sub.ID] = &copy
	return nil
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.subs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *sub
	return &copy, nil
}

func (m *MockSubscriptionRepository) TransitionStatus(ctx context.Context, id string, from, to domain.SubscriptionStatus, token string) (bool, error) {
	atomic.AddInt32(&m.TransitionCallCount, 1)
	if m.TransitionError != nil {
		return false, m.TransitionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if sub.Status != from {
		return false, nil
	}
	sub.Status = to
	if token != "" {
		sub.GatewayToken = token
	}
	return true, nil
}

// GetSubscription returns subscription for test assertions.
func (m *MockSubscriptionRepository) GetSubscription(id string) *domain.Subscription {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.subs[id]
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository records audit rows in memory.
type MockNotificationRepository struct {
	mu      sync.Mutex
	records []*domain.PaymentNotification

	// Error injection
	RecordError error
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Record(ctx context.Context, n *domain.PaymentNotification) error {
	if m.RecordError != nil {
		return m.RecordError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, n)
	return nil
}

// Outcomes returns the recorded outcomes in order.
func (m *MockNotificationRepository) Outcomes() []domain.NotificationOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.NotificationOutcome, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r.Outcome)
	}
	return out
}

// ──────────────────────────────────────────────
// MOCK MAILER
// ──────────────────────────────────────────────

// SentMail is a message captured by MockMailer.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer captures sent messages.
type MockMailer struct {
	mu   sync.Mutex
	sent []SentMail

	// Counters for verification
	SendCallCount int32

	// Error injection, keyed by recipient.
	FailFor map[string]error
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{FailFor: make(map[string]error)}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	atomic.AddInt32(&m.SendCallCount, 1)
	if err, ok := m.FailFor[to]; ok {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// SentTo returns the messages delivered to recipient.
func (m *MockMailer) SentTo(recipient string) []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentMail
	for _, s := range m.sent {
		if s.To == recipient {
			out = append(out, s)
		}
	}
	return out
}

// CountSent returns the number of delivered messages.
func (m *MockMailer) CountSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// ──────────────────────────────────────────────
// MOCK ORDER CACHE
// ──────────────────────────────────────────────

// MockOrderCache is an in-memory OrderCache.
type MockOrderCache struct {
	mu     sync.Mutex
	orders map[string]*domain.Order

	// Counters for verification
	HitCount        int32
	SetCount        int32
	InvalidateCount int32
}

// NewMockOrderCache creates a new mock order cache.
func NewMockOrderCache() *MockOrderCache {
	return &MockOrderCache{orders: make(map[string]*domain.Order)}
}

func (m *MockOrderCache) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	atomic.AddInt32(&m.HitCount, 1)
	copy := *order
	return &copy, nil
}

func (m *MockOrderCache) SetOrder(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.SetCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *order
	m.orders[order.ID] = &copy
	return nil
}

func (m *MockOrderCache) InvalidateOrder(ctx context.Context, id string) error {
	atomic.AddInt32(&m.InvalidateCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, id)
	return nil
}
