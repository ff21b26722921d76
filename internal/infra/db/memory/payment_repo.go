// Package memory holds in-process repository implementations. The bot falls
// back to them when no database URL is configured: persistence is lost on
// restart, but the purchase flow keeps working.
package memory

import (
	"context"
	"sync"
	"time"

	"telegram-pix-vip/internal/domain"
	"telegram-pix-vip/internal/domain/model"
	"telegram-pix-vip/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

type PaymentRepo struct {
	mu    sync.RWMutex
	store map[string]*model.PaymentIntent // by external id
}

func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{store: make(map[string]*model.PaymentIntent)}
}

func (m *PaymentRepo) Create(ctx context.Context, p *model.PaymentIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.store[p.ExternalID]; exists {
		return domain.ErrAlreadyExists
	}
	cp := *p
	m.store[p.ExternalID] = &cp
	return nil
}

func (m *PaymentRepo) FindByExternalID(ctx context.Context, externalID string) (*model.PaymentIntent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *PaymentRepo) MarkPaid(ctx context.Context, externalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[externalID]
	if !ok {
		return domain.ErrNotFound
	}
	p.MarkPaid(time.Now())
	return nil
}
