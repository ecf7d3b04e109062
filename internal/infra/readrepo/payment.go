package readrepo

import (
	"context"
	"errors"

	"staybook/internal/infra"
	"staybook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentViewRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentViewRepository(pool *pgxpool.Pool) *PaymentViewRepository {
	return &PaymentViewRepository{pool: pool}
}

const paymentViewColumns = `
id, reservation_id, amount, currency, status, method,
platform_commission, host_payout, NULLIF(failure_reason, ''), refund_of,
captured_at, hold_until, released_at, refunded_at, created_at`

func (r *PaymentViewRepository) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	const query = `SELECT ` + paymentViewColumns + ` FROM payments WHERE id = $1`

	v, err := scanPaymentView(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment view", err)
	}
	return v, nil
}

func (r *PaymentViewRepository) FindByReservation(ctx context.Context, reservationID uuid.UUID) ([]*queries.PaymentView, error) {
	const query = `
SELECT ` + paymentViewColumns + `
FROM payments
WHERE reservation_id = $1
ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	defer rows.Close()

	var views []*queries.PaymentView
	for rows.Next() {
		v, err := scanPaymentView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate payment rows", err)
	}
	return views, nil
}

func (r *PaymentViewRepository) FindParties(ctx context.Context, reservationID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	const query = `
SELECT r.guest_id, p.host_id
FROM reservations r
JOIN properties p ON p.id = r.property_id
WHERE r.id = $1`

	var guestID, hostID uuid.UUID
	if err := r.pool.QueryRow(ctx, query, reservationID).Scan(&guestID, &hostID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, uuid.Nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return uuid.Nil, uuid.Nil, infra.WrapRepoErr("failed to resolve reservation parties", err)
	}
	return guestID, hostID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaymentView(row rowScanner) (*queries.PaymentView, error) {
	var v queries.PaymentView
	err := row.Scan(
		&v.ID, &v.ReservationID, &v.Amount, &v.Currency, &v.Status, &v.Method,
		&v.PlatformCommission, &v.HostPayout, &v.FailureReason, &v.RefundOf,
		&v.CapturedAt, &v.HoldUntil, &v.ReleasedAt, &v.RefundedAt, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
