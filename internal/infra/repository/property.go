package repository

import (
	"context"

	"staybook/internal/domain/property"
	"staybook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PropertyRepository is the read-only view into the listing catalog.
type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

func (r *PropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	const query = `
SELECT id, host_id, status, price_per_night, cleaning_fee, security_deposit, capacity, min_stay, max_stay
FROM properties
WHERE id = $1`

	var (
		propID, hostID                              uuid.UUID
		status                                      string
		pricePerNight, cleaningFee, securityDeposit decimal.Decimal
		capacity, minStay                           int
		maxStay                                     *int
	)
	err := db(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&propID, &hostID, &status, &pricePerNight, &cleaningFee, &securityDeposit,
		&capacity, &minStay, &maxStay,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("property not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find property", err)
	}

	prop, err := property.NewProperty(
		propID, hostID, property.Status(status),
		pricePerNight, cleaningFee, securityDeposit,
		capacity, minStay, maxStay,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("stored property snapshot is invalid", err)
	}
	return prop, nil
}
