// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-pix-vip/internal/domain"
	"telegram-pix-vip/internal/domain/model"
	"telegram-pix-vip/internal/domain/ports/adapter"
	"telegram-pix-vip/internal/domain/ports/repository"
	"telegram-pix-vip/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// InitiateResult carries everything the chat layer needs to present a fresh
// payment: the plan sold, the provider's intent id (embedded in the check
// action) and the copy-paste PIX code.
type InitiateResult struct {
	Plan        model.Plan
	ExternalID  string
	PaymentCode string
	Stored      bool // false when the record could not be persisted
}

// PaymentUseCase owns the payment-intent lifecycle:
// NonExistent -> Pending -> Paid (terminal).
type PaymentUseCase interface {
	// Initiate looks up the plan, requests an intent from the gateway and
	// persists a pending record. A store failure is logged, not returned:
	// the user already holds a valid payment code by then.
	Initiate(ctx context.Context, userID, planKey string) (*InitiateResult, error)

	// Check resolves the current state of an intent. It returns nil when
	// access should be granted and domain.ErrPaymentUnconfirmed when the
	// payment has not settled yet (a retry signal, not a failure).
	Check(ctx context.Context, userID, externalID string) error
}

type paymentUC struct {
	payments repository.PaymentRepository
	catalog  *model.PlanCatalog
	gateway  adapter.PixGateway
	docs     adapter.DocumentGenerator
	log      *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	catalog *model.PlanCatalog,
	gateway adapter.PixGateway,
	docs adapter.DocumentGenerator,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{payments: payments, catalog: catalog, gateway: gateway, docs: docs, log: logger}
}

func (u *paymentUC) Initiate(ctx context.Context, userID, planKey string) (*InitiateResult, error) {
	plan, err := u.catalog.Find(planKey)
	if err != nil {
		// Unknown plan: reject before any gateway traffic.
		return nil, fmt.Errorf("plan %q: %w", planKey, err)
	}

	handle, err := u.gateway.CreateIntent(ctx, plan.PriceBRL, userID, u.docs.TaxpayerID())
	if err != nil {
		// Nothing was charged; this attempt leaves no trace.
		return nil, fmt.Errorf("create intent: %w", err)
	}

	res := &InitiateResult{Plan: plan, ExternalID: handle.ExternalID, PaymentCode: handle.PaymentCode, Stored: true}

	p, err := model.NewPaymentIntent(uuid.NewString(), userID, handle.ExternalID, planKey, plan.PriceBRL)
	if err != nil {
		u.log.Error().Err(err).Str("external_id", handle.ExternalID).Msg("building payment intent record")
		res.Stored = false
		return res, nil
	}
	if err := u.payments.Create(ctx, p); err != nil {
		// The code shown to the user stays valid; a persistence hiccup
		// (duplicate key included) must not block the purchase.
		u.log.Error().Err(err).Str("external_id", handle.ExternalID).Str("plan", planKey).
			Msg("persisting payment intent failed; continuing with issued code")
		res.Stored = false
		return res, nil
	}
	metrics.IncPayment(string(model.PaymentStatusPending))
	return res, nil
}

func (u *paymentUC) Check(ctx context.Context, userID, externalID string) error {
	rec, err := u.payments.FindByExternalID(ctx, externalID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			u.log.Warn().Err(err).Str("external_id", externalID).Msg("payment lookup failed; consulting gateway")
		}
		rec = nil
	}

	// Store first: a record already paid settles the check without an
	// outbound call and keeps repeated checks free.
	if rec.IsPaid() {
		return nil
	}

	st := u.gateway.GetStatus(ctx, externalID)
	if !st.Paid() {
		// Anything other than "paid" - pending, synthetic "error" - means
		// "not confirmed, try later". The user may retry without bound.
		return domain.ErrPaymentUnconfirmed
	}

	if rec != nil {
		if err := u.payments.MarkPaid(ctx, externalID); err != nil {
			u.log.Error().Err(err).Str("external_id", externalID).Msg("marking payment paid failed")
		}
		metrics.AddPaymentRevenue(rec.Amount)
	} else {
		// The creation-time write was lost. Backfill a settled record so
		// later checks stay cheap; the original plan and amount are gone.
		u.backfillPaid(ctx, userID, externalID)
	}
	metrics.IncPayment(string(model.PaymentStatusPaid))
	return nil
}

func (u *paymentUC) backfillPaid(ctx context.Context, userID, externalID string) {
	p, err := model.NewPaymentIntent(uuid.NewString(), userID, externalID, model.PlanKeyUnknown, 0)
	if err != nil {
		u.log.Error().Err(err).Str("external_id", externalID).Msg("building backfill record")
		return
	}
	p.MarkPaid(time.Now())
	if err := u.payments.Create(ctx, p); err != nil {
		u.log.Error().Err(err).Str("external_id", externalID).Msg("backfilling paid record failed")
		return
	}
	metrics.IncPaymentBackfilled()
}

// UserIDFromTelegram normalizes a Telegram numeric id to the string form
// stored on payment records.
func UserIDFromTelegram(tgID int64) string { return strconv.FormatInt(tgID, 10) }
