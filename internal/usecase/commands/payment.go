package commands

import (
	"context"

	"staybook/internal/domain/payment"
	"staybook/internal/domain/reservation"
	"staybook/internal/infra"
	"staybook/internal/infra/gateway"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/errs"

	"github.com/google/uuid"
)

type InitiatePaymentOutput struct {
	Payment      *payment.Payment
	ClientSecret string
}

type PaymentCommands interface {
	Initiate(ctx context.Context, reservationID, actorID uuid.UUID, method string) (*InitiatePaymentOutput, error)
	HandleGatewayEvent(ctx context.Context, event gateway.WebhookEvent) error
	Release(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error)
	Refund(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error)
	Dispute(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error)
	ReleaseDue(ctx context.Context, limit int) (int, error)
}

type paymentCommands struct {
	tx           TxManager
	payments     PaymentRepository
	reservations ReservationRepository
	properties   PropertyRepository
	gateway      PaymentGateway
	holdPolicy   payment.HoldPolicy
	currency     string
	notifier     notifier
	clock        clock.Clock
}

func NewPaymentCommands(
	tx TxManager,
	payments PaymentRepository,
	reservations ReservationRepository,
	properties PropertyRepository,
	gw PaymentGateway,
	holdPolicy payment.HoldPolicy,
	currency string,
	notifications NotificationRepository,
	clk clock.Clock,
) PaymentCommands {
	return &paymentCommands{
		tx:           tx,
		payments:     payments,
		reservations: reservations,
		properties:   properties,
		gateway:      gw,
		holdPolicy:   holdPolicy,
		currency:     currency,
		notifier:     notifier{jobs: notifications},
		clock:        clk,
	}
}

// Initiate opens a gateway intent for a confirmed reservation and records the
// PENDING ledger row. The gateway call runs outside any transaction; a crash
// between the call and the insert leaves only an orphan intent at the gateway,
// never an untracked charge.
func (c *paymentCommands) Initiate(ctx context.Context, reservationID, actorID uuid.UUID, method string) (*InitiatePaymentOutput, error) {
	res, err := c.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if res.GuestID() != actorID {
		return nil, ErrNotAuthorized
	}
	if res.Status() != reservation.StatusConfirmed {
		return nil, errs.Mark(reservation.ErrNotConfirmed, ErrInvalidState)
	}

	captured, err := c.payments.FindCapturableByReservation(ctx, reservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if captured != nil {
		return nil, ErrPaymentAlreadyInitiated
	}
	open, err := c.payments.HasOpenIntent(ctx, reservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if open {
		return nil, ErrPaymentAlreadyInitiated
	}

	intent, err := c.gateway.CreateIntent(ctx, res.Pricing().Total, c.currency, map[string]string{
		"reservation_id": res.ID().String(),
	})
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayFailure)
	}

	now := c.clock.Now()
	p, err := payment.NewPayment(
		res.ID(), res.Pricing().Total, res.Pricing().Commission,
		c.currency, method, intent.Reference, now,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	err = c.tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.payments.Create(txCtx, p); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrPaymentAlreadyInitiated)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &InitiatePaymentOutput{Payment: p, ClientSecret: intent.ClientSecret}, nil
}

// HandleGatewayEvent settles a gateway notification against the ledger.
// Replays resolve to a no-op: the payment row is looked up by gateway
// reference under a row lock, and any status other than PENDING means the
// event was already applied.
func (c *paymentCommands) HandleGatewayEvent(ctx context.Context, event gateway.WebhookEvent) error {
	return c.tx.WithTx(ctx, func(txCtx context.Context) error {
		p, err := c.payments.FindByGatewayReference(txCtx, event.Reference)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrPaymentNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if p.Status() != payment.StatusPending {
			return nil
		}

		switch event.Type {
		case gateway.EventPaymentSucceeded:
			return c.applyCapture(txCtx, p)
		case gateway.EventPaymentFailed:
			return c.applyFailure(txCtx, p, event.Reason)
		default:
			return errs.Mark(errs.New("unknown gateway event type: "+event.Type), ErrValidation)
		}
	})
}

func (c *paymentCommands) applyCapture(ctx context.Context, p *payment.Payment) error {
	res, err := c.reservations.FindByIDForUpdate(ctx, p.ReservationID())
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	now := c.clock.Now()
	if err := res.MarkPaid(); err != nil {
		// The reservation moved out of CONFIRMED while the charge was in
		// flight (e.g. a cancellation raced the capture). Record the failure
		// so the orphaned funds surface for manual refund.
		if failErr := p.Fail("reservation no longer confirmed"); failErr != nil {
			return errs.Mark(failErr, ErrInvalidState)
		}
		if updErr := c.payments.Update(ctx, p); updErr != nil {
			return errs.Mark(updErr, ErrDatabaseOperationFailed)
		}
		return nil
	}

	holdUntil := c.holdPolicy.HoldUntil(now, res.Period().Checkin())
	if err := p.Capture(now, holdUntil); err != nil {
		return errs.Mark(err, ErrInvalidState)
	}
	if err := c.payments.Update(ctx, p); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := c.reservations.Update(ctx, res); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return c.notifier.emit(ctx, res.GuestID(), TopicPaymentCaptured, map[string]any{
		"payment_id":     p.ID(),
		"reservation_id": res.ID(),
		"hold_until":     holdUntil,
	}, now)
}

func (c *paymentCommands) applyFailure(ctx context.Context, p *payment.Payment, reason string) error {
	if err := p.Fail(reason); err != nil {
		return errs.Mark(err, ErrInvalidState)
	}
	if err := c.payments.Update(ctx, p); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	res, err := c.reservations.FindByID(ctx, p.ReservationID())
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return c.notifier.emit(ctx, res.GuestID(), TopicPaymentFailed, map[string]any{
		"payment_id":     p.ID(),
		"reservation_id": res.ID(),
		"reason":         reason,
	}, c.clock.Now())
}

// Release pays held funds out to the host. The transition is a compare-and-set
// on status so concurrent release attempts (sweep vs. operator) resolve to
// exactly one winner; payments already past HELD are a silent no-op.
func (c *paymentCommands) Release(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error) {
	var released *payment.Payment

	err := c.tx.WithTx(ctx, func(txCtx context.Context) error {
		p, err := c.loadPayment(txCtx, paymentID)
		if err != nil {
			return err
		}
		if p.Status().IsTerminal() {
			released = p
			return nil
		}

		now := c.clock.Now()
		if err := p.Release(now); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		won, err := c.payments.ReleaseHeld(txCtx, p.ID(), *p.HostPayout(), now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		released = p
		if !won {
			// Lost the race; reload so the caller sees the committed state.
			released, err = c.loadPayment(txCtx, paymentID)
			return err
		}

		res, err := c.reservations.FindByID(txCtx, p.ReservationID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		prop, err := c.properties.FindByID(txCtx, res.PropertyID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return c.notifier.emit(txCtx, prop.HostID(), TopicPaymentReleased, map[string]any{
			"payment_id":     p.ID(),
			"reservation_id": res.ID(),
			"host_payout":    p.HostPayout(),
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// Refund returns captured or held funds to the guest. It requires the
// reservation to be CANCELLED already: money only moves back after the stay
// itself is off. The gateway refund runs first, outside the transaction; only
// a gateway success mutates the ledger.
func (c *paymentCommands) Refund(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error) {
	p, err := c.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !p.Status().IsRefundable() {
		return nil, errs.Mark(payment.ErrNotRefundable, ErrInvalidState)
	}
	res, err := c.reservations.FindByID(ctx, p.ReservationID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if res.Status() != reservation.StatusCancelled {
		return nil, errs.Mark(reservation.ErrNotCancelled, ErrInvalidState)
	}

	refundRef, err := c.gateway.Refund(ctx, p.GatewayReference())
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayFailure)
	}

	var refund *payment.Payment
	err = c.tx.WithTx(ctx, func(txCtx context.Context) error {
		p, err = c.loadPaymentForUpdate(txCtx, paymentID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		refund, err = payment.NewRefund(p, refundRef, now)
		if err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := p.MarkRefunded(now); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := c.payments.Update(txCtx, p); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := c.payments.Create(txCtx, refund); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		res, err := c.reservations.FindByID(txCtx, p.ReservationID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return c.notifier.emit(txCtx, res.GuestID(), TopicPaymentRefunded, map[string]any{
			"payment_id":     p.ID(),
			"refund_id":      refund.ID(),
			"reservation_id": res.ID(),
			"amount":         refund.Amount(),
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

// Dispute freezes a held payment so the sweep skips it until resolution.
func (c *paymentCommands) Dispute(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error) {
	var p *payment.Payment

	err := c.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		p, err = c.loadPaymentForUpdate(txCtx, paymentID)
		if err != nil {
			return err
		}
		if err := p.Dispute(); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := c.payments.Update(txCtx, p); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ReleaseDue sweeps payments whose hold window elapsed and releases each one.
// Per-payment failures do not stop the batch; they are combined into the
// returned error so the caller can log them next to the release count.
func (c *paymentCommands) ReleaseDue(ctx context.Context, limit int) (int, error) {
	due, err := c.payments.FindDueHeld(ctx, c.clock.Now(), limit)
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var (
		released int
		sweepErr error
	)
	for _, p := range due {
		out, err := c.Release(ctx, p.ID())
		if err != nil {
			if errs.Is(err, ErrInvalidState) {
				// Raced out of HELD since the query; the winner settled it.
				continue
			}
			sweepErr = errs.Combine(sweepErr, errs.Wrap(err, "release payment "+p.ID().String()))
			continue
		}
		if out.Status() == payment.StatusReleased {
			released++
		}
	}
	return released, sweepErr
}

func (c *paymentCommands) loadPayment(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, err := c.payments.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrPaymentNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return p, nil
}

func (c *paymentCommands) loadPaymentForUpdate(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, err := c.payments.FindByIDForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrPaymentNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return p, nil
}
