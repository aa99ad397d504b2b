package integration

import (
	"context"
	"sync"
	"time"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/credential"
	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/notification"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

// MockOrderSystemClient is a mock implementation of integration.OrderSystemClient
type MockOrderSystemClient struct {
	mock.Mock
}

func (m *MockOrderSystemClient) Login(ctx context.Context, username, password string) (*integration.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.LoginResult), args.Error(1)
}

func (m *MockOrderSystemClient) FetchOrders(ctx context.Context, token string, page integration.PageRequest) (*integration.OrderPage, error) {
	args := m.Called(ctx, token, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.OrderPage), args.Error(1)
}

func (m *MockOrderSystemClient) FetchInventory(ctx context.Context, token string, page integration.PageRequest) (*integration.InventoryPage, error) {
	args := m.Called(ctx, token, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.InventoryPage), args.Error(1)
}

func (m *MockOrderSystemClient) Ping(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Upsert(ctx context.Context, order *trade.Order) (bool, error) {
	args := m.Called(ctx, order)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FindInRange(ctx context.Context, source trade.Source, from, to time.Time) ([]trade.Order, error) {
	args := m.Called(ctx, source, from, to)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByReference(ctx context.Context, reference string, limit int) ([]trade.Order, error) {
	args := m.Called(ctx, reference, limit)
	return args.Get(0).([]trade.Order), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) UpsertBySKU(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, q string, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, q, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

// MockSnapshotRepository is a mock implementation of inventory.SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Append(ctx context.Context, s *inventory.Snapshot) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSnapshotRepository) LatestLevels(ctx context.Context, f inventory.LevelFilter) ([]inventory.StockLevel, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]inventory.StockLevel), args.Error(1)
}

// recordingNotifier keeps every notification it is asked to write
type recordingNotifier struct {
	mu   sync.Mutex
	sent []*notification.Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, typ string, severity notification.Severity, title, message string) (*notification.Notification, error) {
	if r.err != nil {
		return nil, r.err
	}
	n, err := notification.New(typ, severity, title, message)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return n, nil
}

func (r *recordingNotifier) LatestOfType(_ context.Context, typ string) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].Type == typ {
			return r.sent[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *recordingNotifier) all() []*notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*notification.Notification(nil), r.sent...)
}

// memoryStore is an in-memory credential.Store that fails closed like the real backends
type memoryStore struct {
	mu      sync.Mutex
	secrets map[string]credential.Secret
	now     func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{secrets: map[string]credential.Secret{}, now: time.Now}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.secrets[key]
	if !ok || sec.IsExpired(s.now()) {
		return "", credential.ErrCredentialUnavailable
	}
	return sec.Value, nil
}

func (s *memoryStore) Put(_ context.Context, key, value string, expiresAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[key] = credential.Secret{Key: key, Value: value, ExpiresAt: expiresAt, UpdatedAt: s.now()}
	return nil
}

func (s *memoryStore) Describe(_ context.Context, key string) (credential.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.secrets[key]
	if !ok {
		return credential.Describe(key, nil, s.now()), nil
	}
	return credential.Describe(key, &sec, s.now()), nil
}
