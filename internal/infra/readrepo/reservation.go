package readrepo

import (
	"context"
	"errors"
	"time"

	"staybook/internal/infra"
	"staybook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationViewRepository struct {
	pool *pgxpool.Pool
}

func NewReservationViewRepository(pool *pgxpool.Pool) *ReservationViewRepository {
	return &ReservationViewRepository{pool: pool}
}

func (r *ReservationViewRepository) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	const query = `
SELECT r.id, r.property_id, p.title, p.host_id, r.guest_id,
       r.checkin, r.checkout, r.nights, r.guest_count, r.status,
       r.price_per_night, r.subtotal, r.cleaning_fee, r.commission, r.total, r.security_deposit,
       NULLIF(r.note, ''), NULLIF(r.cancellation_reason, ''),
       r.status = 'completed' AND r.checked_out_at IS NOT NULL,
       r.created_at, r.confirmed_at, r.cancelled_at, r.checked_in_at, r.checked_out_at
FROM reservations r
JOIN properties p ON p.id = r.property_id
WHERE r.id = $1`

	var v queries.ReservationView
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.PropertyID, &v.PropertyTitle, &v.HostID, &v.GuestID,
		&v.Checkin, &v.Checkout, &v.Nights, &v.GuestCount, &v.Status,
		&v.PricePerNight, &v.Subtotal, &v.CleaningFee, &v.Commission, &v.Total, &v.SecurityDeposit,
		&v.Note, &v.CancellationReason,
		&v.CanReview,
		&v.CreatedAt, &v.ConfirmedAt, &v.CancelledAt, &v.CheckedInAt, &v.CheckedOutAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation view", err)
	}
	return &v, nil
}

func (r *ReservationViewRepository) FindByGuest(
	ctx context.Context,
	guestID uuid.UUID,
	afterCreatedAt *time.Time,
	afterID *uuid.UUID,
	limit int32,
) ([]*queries.ReservationListItem, error) {
	const query = listQuery + ` WHERE r.guest_id = $1 ` + listTail
	return r.listItems(ctx, query, guestID, afterCreatedAt, afterID, limit)
}

func (r *ReservationViewRepository) FindByHost(
	ctx context.Context,
	hostID uuid.UUID,
	afterCreatedAt *time.Time,
	afterID *uuid.UUID,
	limit int32,
) ([]*queries.ReservationListItem, error) {
	const query = listQuery + ` WHERE p.host_id = $1 ` + listTail
	return r.listItems(ctx, query, hostID, afterCreatedAt, afterID, limit)
}

const listQuery = `
SELECT r.id, r.property_id, p.title, r.checkin, r.checkout, r.status, r.total, r.created_at
FROM reservations r
JOIN properties p ON p.id = r.property_id`

// Keyset over (created_at, id) descending; newest first.
const listTail = `
  AND ($2::timestamptz IS NULL OR (r.created_at, r.id) < ($2, $3::uuid))
ORDER BY r.created_at DESC, r.id DESC
LIMIT $4`

func (r *ReservationViewRepository) listItems(
	ctx context.Context,
	query string,
	partyID uuid.UUID,
	afterCreatedAt *time.Time,
	afterID *uuid.UUID,
	limit int32,
) ([]*queries.ReservationListItem, error) {
	rows, err := r.pool.Query(ctx, query, partyID, afterCreatedAt, afterID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var items []*queries.ReservationListItem
	for rows.Next() {
		var it queries.ReservationListItem
		err := rows.Scan(
			&it.ID, &it.PropertyID, &it.PropertyTitle,
			&it.Checkin, &it.Checkout, &it.Status, &it.Total, &it.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}
	return items, nil
}
