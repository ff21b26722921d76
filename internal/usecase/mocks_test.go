//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-pix-vip/internal/domain"
	"telegram-pix-vip/internal/domain/model"
	"telegram-pix-vip/internal/domain/ports/adapter"
	"telegram-pix-vip/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock PaymentRepository ----

// MockPaymentRepo is a small in-memory implementation used by unit tests.
// The ...Func fields override individual behaviors; call counters trace
// invocations.
type MockPaymentRepo struct {
	mu    sync.Mutex
	store map[string]*model.PaymentIntent

	CreateFunc   func(ctx context.Context, p *model.PaymentIntent) error
	FindFunc     func(ctx context.Context, externalID string) (*model.PaymentIntent, error)
	MarkPaidFunc func(ctx context.Context, externalID string) error

	Calls struct {
		Create   int
		Find     int
		MarkPaid int
	}
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{store: make(map[string]*model.PaymentIntent)}
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *model.PaymentIntent) error {
	m.mu.Lock()
	m.Calls.Create++
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.store[p.ExternalID]; dup {
		return domain.ErrAlreadyExists
	}
	cp := *p
	m.store[p.ExternalID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByExternalID(ctx context.Context, externalID string) (*model.PaymentIntent, error) {
	m.mu.Lock()
	m.Calls.Find++
	m.mu.Unlock()
	if m.FindFunc != nil {
		return m.FindFunc(ctx, externalID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) MarkPaid(ctx context.Context, externalID string) error {
	m.mu.Lock()
	m.Calls.MarkPaid++
	m.mu.Unlock()
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, externalID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[externalID]
	if !ok {
		return domain.ErrNotFound
	}
	p.MarkPaid(time.Now())
	return nil
}

// Seed inserts a record bypassing the counters.
func (m *MockPaymentRepo) Seed(p *model.PaymentIntent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ExternalID] = &cp
}

// Get reads a record bypassing the counters.
func (m *MockPaymentRepo) Get(externalID string) *model.PaymentIntent {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[externalID]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ---- Mock PixGateway ----

type MockPixGateway struct {
	mu sync.Mutex

	CreateIntentFunc func(ctx context.Context, amount float64, userID, taxpayerID string) (adapter.IntentHandle, error)
	GetStatusFunc    func(ctx context.Context, externalID string) adapter.IntentStatus

	Calls struct {
		Create int
		Status int
	}
	LastCreateAmount float64
}

var _ adapter.PixGateway = (*MockPixGateway)(nil)

func (m *MockPixGateway) Name() string { return "mock" }

func (m *MockPixGateway) CreateIntent(ctx context.Context, amount float64, userID, taxpayerID string) (adapter.IntentHandle, error) {
	m.mu.Lock()
	m.Calls.Create++
	m.LastCreateAmount = amount
	m.mu.Unlock()
	if m.CreateIntentFunc != nil {
		return m.CreateIntentFunc(ctx, amount, userID, taxpayerID)
	}
	return adapter.IntentHandle{ExternalID: "abc123", PaymentCode: "000201-code"}, nil
}

func (m *MockPixGateway) GetStatus(ctx context.Context, externalID string) adapter.IntentStatus {
	m.mu.Lock()
	m.Calls.Status++
	m.mu.Unlock()
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx, externalID)
	}
	return adapter.IntentStatus{Status: adapter.IntentStatusPending}
}

// ---- Mock DocumentGenerator ----

type MockDocGen struct{ ID string }

var _ adapter.DocumentGenerator = (*MockDocGen)(nil)

func (m *MockDocGen) TaxpayerID() string {
	if m.ID != "" {
		return m.ID
	}
	return "12345678909"
}
