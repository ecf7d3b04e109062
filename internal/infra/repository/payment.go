package repository

import (
	"context"
	"time"

	"staybook/internal/domain/payment"
	"staybook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `
id, reservation_id, amount, currency, status, gateway_reference, method,
platform_commission, host_payout, failure_reason, refund_of,
captured_at, hold_until, released_at, refunded_at, created_at`

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	const stmt = `
INSERT INTO payments (` + paymentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := db(ctx, r.pool).Exec(ctx, stmt,
		p.ID(),
		p.ReservationID(),
		p.Amount(),
		p.Currency(),
		p.Status().String(),
		p.GatewayReference(),
		p.Method(),
		p.PlatformCommission(),
		p.HostPayout(),
		p.FailureReason(),
		p.RefundOf(),
		p.CapturedAt(),
		p.HoldUntil(),
		p.ReleasedAt(),
		p.RefundedAt(),
		p.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("payment already recorded", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// FindByGatewayReference is the webhook idempotency lookup. Must run FOR
// UPDATE inside the webhook transaction so redeliveries serialize.
func (r *PaymentRepository) FindByGatewayReference(ctx context.Context, reference string) (*payment.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_reference = $1 FOR UPDATE`
	return r.scanOne(ctx, query, reference)
}

// FindCapturableByReservation returns the record holding funds for the
// reservation, if any. Guards against a second concurrent capture.
func (r *PaymentRepository) FindCapturableByReservation(ctx context.Context, reservationID uuid.UUID) (*payment.Payment, error) {
	const query = `
SELECT ` + paymentColumns + `
FROM payments
WHERE reservation_id = $1
  AND status IN ('captured', 'held', 'released', 'disputed')
ORDER BY created_at DESC
LIMIT 1
FOR UPDATE`

	p, err := r.scanOne(ctx, query, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// HasOpenIntent reports whether a PENDING intent already exists, so Initiate
// does not stack fresh gateway intents on retries that never failed.
func (r *PaymentRepository) HasOpenIntent(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM payments WHERE reservation_id = $1 AND status = 'pending')`
	var exists bool
	if err := db(ctx, r.pool).QueryRow(ctx, query, reservationID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check open intents", err)
	}
	return exists, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	const stmt = `
UPDATE payments
SET status = $2, host_payout = $3, failure_reason = $4,
    captured_at = $5, hold_until = $6, released_at = $7, refunded_at = $8
WHERE id = $1`

	tag, err := db(ctx, r.pool).Exec(ctx, stmt,
		p.ID(),
		p.Status().String(),
		p.HostPayout(),
		p.FailureReason(),
		p.CapturedAt(),
		p.HoldUntil(),
		p.ReleasedAt(),
		p.RefundedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return nil
}

// ReleaseHeld is the compare-and-swap transition HELD -> RELEASED. A sweep
// racing a manual release loses here with zero rows affected and no payout.
func (r *PaymentRepository) ReleaseHeld(ctx context.Context, id uuid.UUID, payout decimal.Decimal, releasedAt time.Time) (bool, error) {
	const stmt = `
UPDATE payments
SET status = 'released', host_payout = $2, released_at = $3
WHERE id = $1 AND status = 'held'`

	tag, err := db(ctx, r.pool).Exec(ctx, stmt, id, payout, releasedAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to release payment", err)
	}
	return tag.RowsAffected() == 1, nil
}

// FindDueHeld selects HELD records whose hold window elapsed, oldest first.
func (r *PaymentRepository) FindDueHeld(ctx context.Context, now time.Time, limit int) ([]*payment.Payment, error) {
	const query = `
SELECT ` + paymentColumns + `
FROM payments
WHERE status = 'held' AND hold_until <= $1
ORDER BY hold_until
LIMIT $2`

	rows, err := db(ctx, r.pool).Query(ctx, query, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list due payments", err)
	}
	defer rows.Close()

	var due []*payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan due payment", err)
		}
		due = append(due, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate due payments", err)
	}
	return due, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PaymentRepository) scanOne(ctx context.Context, query string, args ...any) (*payment.Payment, error) {
	p, err := scanPayment(db(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return p, nil
}

func scanPayment(row rowScanner) (*payment.Payment, error) {
	var (
		id, reservationID                             uuid.UUID
		amount, platformCommission                    decimal.Decimal
		hostPayout                                    *decimal.Decimal
		currency, status, reference, method, reason   string
		refundOf                                      *uuid.UUID
		capturedAt, holdUntil, releasedAt, refundedAt *time.Time
		createdAt                                     time.Time
	)

	err := row.Scan(
		&id, &reservationID, &amount, &currency, &status, &reference, &method,
		&platformCommission, &hostPayout, &reason, &refundOf,
		&capturedAt, &holdUntil, &releasedAt, &refundedAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	return payment.Reconstruct(
		id, reservationID,
		amount,
		currency,
		payment.Status(status),
		reference, method,
		platformCommission,
		hostPayout,
		reason,
		refundOf,
		capturedAt, holdUntil, releasedAt, refundedAt,
		createdAt,
	), nil
}
