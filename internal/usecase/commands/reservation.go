package commands

import (
	"context"
	"time"

	"staybook/internal/domain/reservation"
	"staybook/internal/infra"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/errs"

	"github.com/google/uuid"
)

type CreateReservationInput struct {
	PropertyID uuid.UUID
	Checkin    time.Time
	Checkout   time.Time
	GuestCount int
	Note       string
}

type ReservationCommands interface {
	Create(ctx context.Context, guestID uuid.UUID, in CreateReservationInput) (*reservation.Reservation, error)
	Confirm(ctx context.Context, reservationID, actorID uuid.UUID) (*reservation.Reservation, error)
	Reject(ctx context.Context, reservationID, actorID uuid.UUID, reason string) (*reservation.Reservation, error)
	Cancel(ctx context.Context, reservationID, actorID uuid.UUID, reason string) (*reservation.Reservation, error)
	ForceCancel(ctx context.Context, reservationID uuid.UUID, reason string) (*reservation.Reservation, error)
	CheckIn(ctx context.Context, reservationID, actorID uuid.UUID) (*reservation.Reservation, error)
	CheckOut(ctx context.Context, reservationID, actorID uuid.UUID) (*reservation.Reservation, error)
}

type reservationCommands struct {
	tx           TxManager
	reservations ReservationRepository
	properties   PropertyRepository
	users        UserRepository
	availability *AvailabilityChecker
	notifier     notifier
	clock        clock.Clock
}

func NewReservationCommands(
	tx TxManager,
	reservations ReservationRepository,
	properties PropertyRepository,
	users UserRepository,
	availability *AvailabilityChecker,
	notifications NotificationRepository,
	clk clock.Clock,
) ReservationCommands {
	return &reservationCommands{
		tx:           tx,
		reservations: reservations,
		properties:   properties,
		users:        users,
		availability: availability,
		notifier:     notifier{jobs: notifications},
		clock:        clk,
	}
}

// Create registers a PENDING stay request. The availability check here is
// advisory only; the binding check happens at confirmation under the property
// lock.
func (c *reservationCommands) Create(ctx context.Context, guestID uuid.UUID, in CreateReservationInput) (*reservation.Reservation, error) {
	// Tokens can outlive their account; resolve the guest before touching
	// anything else.
	if _, err := c.users.FindByID(ctx, guestID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	prop, err := c.properties.FindByID(ctx, in.PropertyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrPropertyNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	now := c.clock.Now()
	res, err := reservation.NewReservation(
		prop, guestID, in.Checkin, in.Checkout, in.GuestCount,
		reservation.NewNote(in.Note), now,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	available, err := c.availability.IsAvailable(ctx, prop.ID(), res.Period(), nil)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrDatesUnavailable
	}

	err = c.tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.reservations.Create(txCtx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return c.notifier.emit(txCtx, prop.HostID(), TopicReservationCreated, map[string]any{
			"reservation_id": res.ID(),
			"property_id":    prop.ID(),
			"checkin":        res.Period().Checkin(),
			"checkout":       res.Period().Checkout(),
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Confirm performs the authoritative availability check and the PENDING ->
// CONFIRMED transition as one atomic unit scoped to the property. Of two
// racing confirmations over overlapping dates exactly one commits; the other
// observes the overlap after the lock and fails with ErrDatesUnavailable.
func (c *reservationCommands) Confirm(ctx context.Context, reservationID, actorID uuid.UUID) (*reservation.Reservation, error) {
	var res *reservation.Reservation

	err := c.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		res, err = c.loadForMutation(txCtx, reservationID)
		if err != nil {
			return err
		}

		prop, err := c.properties.FindByID(txCtx, res.PropertyID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if prop.HostID() != actorID {
			return ErrNotAuthorized
		}

		if err := c.reservations.LockProperty(txCtx, res.PropertyID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		selfID := res.ID()
		available, err := c.availability.IsAvailable(txCtx, res.PropertyID(), res.Period(), &selfID)
		if err != nil {
			return err
		}
		if !available {
			return ErrDatesUnavailable
		}

		now := c.clock.Now()
		if err := res.Confirm(now); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := c.reservations.Update(txCtx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return c.notifier.emit(txCtx, res.GuestID(), TopicReservationConfirmed, map[string]any{
			"reservation_id": res.ID(),
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *reservationCommands) Reject(ctx context.Context, reservationID, actorID uuid.UUID, reason string) (*reservation.Reservation, error) {
	return c.hostTransition(ctx, reservationID, actorID, TopicReservationRejected, func(res *reservation.Reservation, now time.Time) error {
		return res.Reject(reason, now)
	})
}

func (c *reservationCommands) Cancel(ctx context.Context, reservationID, actorID uuid.UUID, reason string) (*reservation.Reservation, error) {
	var res *reservation.Reservation

	err := c.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		res, err = c.loadForMutation(txCtx, reservationID)
		if err != nil {
			return err
		}

		prop, err := c.properties.FindByID(txCtx, res.PropertyID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !res.InvolvedParty(actorID, prop.HostID()) {
			return ErrNotAuthorized
		}

		now := c.clock.Now()
		if err := res.Cancel(reason, now); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := c.reservations.Update(txCtx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// The other party is the one to tell.
		recipient := res.GuestID()
		if actorID == res.GuestID() {
			recipient = prop.HostID()
		}
		return c.notifier.emit(txCtx, recipient, TopicReservationCancelled, map[string]any{
			"reservation_id": res.ID(),
			"reason":         reason,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ForceCancel is the operator path: role enforcement happens at the router, so
// no actor check runs here, and the notice window does not apply. Cancelling a
// paid stay this way is what makes its escrow refundable.
func (c *reservationCommands) ForceCancel(ctx context.Context, reservationID uuid.UUID, reason string) (*reservation.Reservation, error) {
	var res *reservation.Reservation

	err := c.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		res, err = c.loadForMutation(txCtx, reservationID)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		if err := res.ForceCancel(reason, now); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := c.reservations.Update(txCtx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return c.notifier.emit(txCtx, res.GuestID(), TopicReservationCancelled, map[string]any{
			"reservation_id": res.ID(),
			"reason":         reason,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *reservationCommands) CheckIn(ctx context.Context, reservationID, actorID uuid.UUID) (*reservation.Reservation, error) {
	return c.hostTransition(ctx, reservationID, actorID, "", func(res *reservation.Reservation, now time.Time) error {
		return res.CheckIn(now)
	})
}

func (c *reservationCommands) CheckOut(ctx context.Context, reservationID, actorID uuid.UUID) (*reservation.Reservation, error) {
	return c.hostTransition(ctx, reservationID, actorID, "", func(res *reservation.Reservation, now time.Time) error {
		return res.CheckOut(now)
	})
}

// hostTransition runs a host-only state change under the reservation row lock.
func (c *reservationCommands) hostTransition(
	ctx context.Context,
	reservationID, actorID uuid.UUID,
	topic string,
	transition func(res *reservation.Reservation, now time.Time) error,
) (*reservation.Reservation, error) {
	var res *reservation.Reservation

	err := c.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		res, err = c.loadForMutation(txCtx, reservationID)
		if err != nil {
			return err
		}

		prop, err := c.properties.FindByID(txCtx, res.PropertyID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if prop.HostID() != actorID {
			return ErrNotAuthorized
		}

		now := c.clock.Now()
		if err := transition(res, now); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := c.reservations.Update(txCtx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if topic == "" {
			return nil
		}
		return c.notifier.emit(txCtx, res.GuestID(), topic, map[string]any{
			"reservation_id": res.ID(),
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *reservationCommands) loadForMutation(ctx context.Context, reservationID uuid.UUID) (*reservation.Reservation, error) {
	res, err := c.reservations.FindByIDForUpdate(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return res, nil
}
