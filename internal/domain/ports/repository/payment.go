package repository

import (
	"context"

	"telegram-pix-vip/internal/domain/model"
)

// PaymentRepository persists payment intents. ExternalID carries a unique
// constraint enforced by the store itself; that constraint is the only
// cross-flow coordination point in the system.
type PaymentRepository interface {
	// Create persists a new intent. A duplicate external id fails with
	// domain.ErrAlreadyExists and never overwrites the existing record.
	Create(ctx context.Context, p *model.PaymentIntent) error

	// FindByExternalID returns the stored intent or domain.ErrNotFound.
	FindByExternalID(ctx context.Context, externalID string) (*model.PaymentIntent, error)

	// MarkPaid flips a pending intent to paid. A record already paid is left
	// untouched, so concurrent checks at worst race to the same value.
	MarkPaid(ctx context.Context, externalID string) error
}
