package payment

import (
	"context"
	"fmt"
	"sync"

	"telegram-pix-vip/internal/domain/ports/adapter"
)

var _ adapter.PixGateway = (*NoopPixGateway)(nil)

// NoopPixGateway is a simple in-memory gateway for dev mode and tests.
// Intents settle after SettleAfter status calls (default: immediately).
type NoopPixGateway struct {
	mu          sync.Mutex
	seq         int64
	polls       map[string]int
	SettleAfter int
}

func NewNoopPixGateway() *NoopPixGateway {
	return &NoopPixGateway{polls: make(map[string]int)}
}

func (g *NoopPixGateway) Name() string { return "noop" }

func (g *NoopPixGateway) CreateIntent(ctx context.Context, amount float64, userID, taxpayerID string) (adapter.IntentHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("noop-%d", g.seq)
	g.polls[id] = 0
	return adapter.IntentHandle{
		ExternalID:  id,
		PaymentCode: fmt.Sprintf("00020126noop%s5204%0.2f", id, amount),
	}, nil
}

func (g *NoopPixGateway) GetStatus(ctx context.Context, externalID string) adapter.IntentStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.polls[externalID]
	if !ok {
		return adapter.IntentStatus{Status: adapter.IntentStatusError}
	}
	g.polls[externalID] = n + 1
	if n >= g.SettleAfter {
		return adapter.IntentStatus{Status: adapter.IntentStatusPaid}
	}
	return adapter.IntentStatus{Status: adapter.IntentStatusPending}
}
