package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-pix-vip/internal/domain"
	"telegram-pix-vip/internal/domain/model"
	"telegram-pix-vip/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const uniqueViolation = "23505"

func (r *paymentRepo) Create(ctx context.Context, p *model.PaymentIntent) error {
	const q = `
INSERT INTO payments (id, user_id, external_id, plan_key, amount, status, created_at, updated_at, paid_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`

	_, err := r.pool.Exec(ctx, q, p.ID, p.UserID, p.ExternalID, p.PlanKey, p.Amount, p.Status, p.CreatedAt, p.UpdatedAt, p.PaidAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *paymentRepo) FindByExternalID(ctx context.Context, externalID string) (*model.PaymentIntent, error) {
	const q = `SELECT id, user_id, external_id, plan_key, amount, status, created_at, updated_at, paid_at
FROM payments WHERE external_id=$1;`

	p := &model.PaymentIntent{}
	err := r.pool.QueryRow(ctx, q, externalID).
		Scan(&p.ID, &p.UserID, &p.ExternalID, &p.PlanKey, &p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return p, nil
}

// MarkPaid flips a pending record to paid. The status guard in the WHERE
// clause keeps the transition monotonic: a record already paid is never
// re-written, so concurrent checks are harmless.
func (r *paymentRepo) MarkPaid(ctx context.Context, externalID string) error {
	const q = `UPDATE payments SET status=$2, paid_at=NOW(), updated_at=NOW()
WHERE external_id=$1 AND status=$3;`

	cmd, err := r.pool.Exec(ctx, q, externalID, model.PaymentStatusPaid, model.PaymentStatusPending)
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		// Either unknown id or already paid; distinguish for the caller.
		if _, err := r.FindByExternalID(ctx, externalID); err != nil {
			return err
		}
	}
	return nil
}
