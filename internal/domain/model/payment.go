package model

import (
	"time"

	"telegram-pix-vip/internal/domain"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // intent created on provider side; awaiting settlement
	PaymentStatusPaid    PaymentStatus = "paid"    // settlement confirmed at provider; terminal
)

// PlanKeyUnknown marks intents backfilled during a status check when the
// creation-time record was lost.
const PlanKeyUnknown = "unknown"

// PaymentIntent records one PIX charge requested from the gateway.
// ExternalID is the provider's intent id; it is unique across all records
// and is the correlation token carried inside chat callback actions.
type PaymentIntent struct {
	ID         string // internal UUID
	UserID     string // Telegram user id, stringified
	ExternalID string
	PlanKey    string
	Amount     float64 // BRL
	Status     PaymentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
	PaidAt     *time.Time
}

// NewPaymentIntent validates and constructs a pending intent.
func NewPaymentIntent(id, userID, externalID, planKey string, amount float64) (*PaymentIntent, error) {
	if id == "" || userID == "" || externalID == "" || planKey == "" || amount < 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &PaymentIntent{
		ID:         id,
		UserID:     userID,
		ExternalID: externalID,
		PlanKey:    planKey,
		Amount:     amount,
		Status:     PaymentStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (p *PaymentIntent) IsPaid() bool { return p != nil && p.Status == PaymentStatusPaid }

// MarkPaid flips the intent to its terminal state. Calling it on an already
// paid intent is a no-op so repeated checks stay harmless.
func (p *PaymentIntent) MarkPaid(at time.Time) {
	if p.Status == PaymentStatusPaid {
		return
	}
	p.Status = PaymentStatusPaid
	p.PaidAt = &at
	p.UpdatedAt = at
}
