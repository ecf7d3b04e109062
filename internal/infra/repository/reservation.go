package repository

import (
	"context"
	"time"

	"staybook/internal/domain/reservation"
	"staybook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `
id, property_id, guest_id, checkin, checkout, guest_count, status,
nights, price_per_night, subtotal, cleaning_fee, commission, total, security_deposit,
note, cancellation_reason, created_at, confirmed_at, cancelled_at, checked_in_at, checked_out_at`

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	const stmt = `
INSERT INTO reservations (` + reservationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	pricing := res.Pricing()
	_, err := db(ctx, r.pool).Exec(ctx, stmt,
		res.ID(),
		res.PropertyID(),
		res.GuestID(),
		res.Period().Checkin(),
		res.Period().Checkout(),
		res.GuestCount(),
		res.Status().String(),
		pricing.Nights,
		pricing.PricePerNight,
		pricing.Subtotal,
		pricing.CleaningFee,
		pricing.Commission,
		pricing.Total,
		pricing.SecurityDeposit,
		res.Note().String(),
		res.CancellationReason(),
		res.CreatedAt(),
		res.ConfirmedAt(),
		res.CancelledAt(),
		res.CheckedInAt(),
		res.CheckedOutAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("reservation already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// FindByIDForUpdate takes a row lock so per-reservation mutations serialize.
// Must run inside a transaction.
func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	const stmt = `
UPDATE reservations
SET status = $2, note = $3, cancellation_reason = $4,
    confirmed_at = $5, cancelled_at = $6, checked_in_at = $7, checked_out_at = $8
WHERE id = $1`

	tag, err := db(ctx, r.pool).Exec(ctx, stmt,
		res.ID(),
		res.Status().String(),
		res.Note().String(),
		res.CancellationReason(),
		res.ConfirmedAt(),
		res.CancelledAt(),
		res.CheckedInAt(),
		res.CheckedOutAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

// LockProperty takes the per-property lock the authoritative availability
// check and the confirm transition run under.
func (r *ReservationRepository) LockProperty(ctx context.Context, propertyID uuid.UUID) error {
	const query = `SELECT id FROM properties WHERE id = $1 FOR UPDATE`
	var id uuid.UUID
	if err := db(ctx, r.pool).QueryRow(ctx, query, propertyID).Scan(&id); err != nil {
		if isNoRows(err) {
			return infra.WrapRepoErr("property not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to lock property", err)
	}
	return nil
}

// HasOverlap runs the half-open interval conflict query against reservations
// that block their dates. Served by the (property_id, status, checkin,
// checkout) index.
func (r *ReservationRepository) HasOverlap(
	ctx context.Context,
	propertyID uuid.UUID,
	period reservation.StayPeriod,
	excludeID *uuid.UUID,
) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM reservations
    WHERE property_id = $1
      AND status = ANY($2)
      AND checkin < $4
      AND checkout > $3
      AND ($5::uuid IS NULL OR id <> $5)
)`

	statuses := make([]string, 0, 3)
	for _, s := range reservation.ActiveStatuses() {
		statuses = append(statuses, s.String())
	}

	var exists bool
	err := db(ctx, r.pool).QueryRow(ctx, query,
		propertyID, statuses, period.Checkin(), period.Checkout(), excludeID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check date overlap", err)
	}
	return exists, nil
}

func (r *ReservationRepository) scanOne(ctx context.Context, query string, args ...any) (*reservation.Reservation, error) {
	var (
		id, propertyID, guestID                             uuid.UUID
		checkin, checkout, createdAt                        time.Time
		guestCount, nights                                  int
		status                                              string
		pricePerNight, subtotal, cleaningFee                decimal.Decimal
		commission, total, securityDeposit                  decimal.Decimal
		note, cancellationReason                            string
		confirmedAt, cancelledAt, checkedInAt, checkedOutAt *time.Time
	)

	err := db(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&id, &propertyID, &guestID, &checkin, &checkout, &guestCount, &status,
		&nights, &pricePerNight, &subtotal, &cleaningFee, &commission, &total, &securityDeposit,
		&note, &cancellationReason, &createdAt, &confirmedAt, &cancelledAt, &checkedInAt, &checkedOutAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	period, err := reservation.NewStayPeriod(checkin, checkout)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid period", err)
	}

	return reservation.Reconstruct(
		id, propertyID, guestID,
		period,
		guestCount,
		reservation.Status(status),
		reservation.PricingBreakdown{
			Nights:          nights,
			PricePerNight:   pricePerNight,
			Subtotal:        subtotal,
			CleaningFee:     cleaningFee,
			Commission:      commission,
			Total:           total,
			SecurityDeposit: securityDeposit,
		},
		reservation.NewNote(note),
		cancellationReason,
		createdAt,
		confirmedAt, cancelledAt, checkedInAt, checkedOutAt,
	), nil
}
