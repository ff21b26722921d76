// File: internal/domain/ports/adapter/payment.go
package adapter

import "context"

// IntentHandle is the provider's answer to a create call: the intent id used
// for status polling plus the copy-paste PIX payload shown to the user.
// Provider response variants name the payload field differently; clients
// normalize to PaymentCode at this boundary.
type IntentHandle struct {
	ExternalID  string
	PaymentCode string
}

// Provider status values. IntentStatusError is synthesized by clients on
// transport or decode failure; callers must treat it as "not confirmed,
// try later", never as settled.
const (
	IntentStatusPending = "pending"
	IntentStatusPaid    = "paid"
	IntentStatusError   = "error"
)

type IntentStatus struct {
	Status string
}

func (s IntentStatus) Paid() bool { return s.Status == IntentStatusPaid }

// PixGateway is the hex port for the PIX payment provider.
type PixGateway interface {
	Name() string

	// CreateIntent requests a payment intent for amount BRL. Any upstream
	// failure (error field, malformed body, transport) surfaces as an error
	// wrapping domain.ErrGateway; the caller always gets a definite result.
	CreateIntent(ctx context.Context, amount float64, userID, taxpayerID string) (IntentHandle, error)

	// GetStatus polls settlement state for an intent. It never fails:
	// upstream trouble degrades to IntentStatusError.
	GetStatus(ctx context.Context, externalID string) IntentStatus
}

// DocumentGenerator produces taxpayer identifiers accepted by the gateway's
// upstream validator. Kept separate so the lifecycle logic never depends on
// how the document is made.
type DocumentGenerator interface {
	TaxpayerID() string
}
