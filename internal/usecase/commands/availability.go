package commands

import (
	"context"

	"staybook/internal/domain/reservation"
	"staybook/internal/pkg/errs"

	"github.com/google/uuid"
)

// AvailabilityChecker answers whether a stay collides with reservations that
// block their dates (confirmed, paid, in progress). It runs in two modes: an
// advisory call at request time, and the authoritative call at confirmation
// which must execute inside the transaction holding the property lock.
type AvailabilityChecker struct {
	reservations ReservationRepository
}

func NewAvailabilityChecker(reservations ReservationRepository) *AvailabilityChecker {
	return &AvailabilityChecker{reservations: reservations}
}

func (c *AvailabilityChecker) IsAvailable(
	ctx context.Context,
	propertyID uuid.UUID,
	period reservation.StayPeriod,
	excludeReservationID *uuid.UUID,
) (bool, error) {
	overlaps, err := c.reservations.HasOverlap(ctx, propertyID, period, excludeReservationID)
	if err != nil {
		return false, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return !overlaps, nil
}
