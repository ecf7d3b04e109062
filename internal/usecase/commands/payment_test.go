//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"staybook/internal/domain/payment"
	"staybook/internal/domain/reservation"
	"staybook/internal/infra/gateway"
	"staybook/internal/pkg/clock"
	"staybook/internal/usecase/commands"
	"staybook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentEnv struct {
	b             *builder.ReservationBuilder
	res           *reservation.Reservation
	reservations  *fakeReservationRepo
	payments      *fakePaymentRepo
	gateway       *fakeGateway
	notifications *fakeNotificationRepo
	clock         *clock.MockClock
	commands      commands.PaymentCommands
}

func newPaymentEnv(t *testing.T) *paymentEnv {
	t.Helper()

	b := builder.NewReservationBuilder()
	prop, err := b.BuildProperty()
	require.NoError(t, err)
	res, err := b.BuildConfirmed()
	require.NoError(t, err)

	reservations := newFakeReservationRepo()
	reservations.add(res)
	properties := newFakePropertyRepo()
	properties.add(prop)
	payments := newFakePaymentRepo()
	gw := &fakeGateway{
		intent:    gateway.Intent{Reference: "pi_test_1", ClientSecret: "secret_1"},
		refundRef: "re_test_1",
	}
	notifications := &fakeNotificationRepo{}
	clk := clock.NewMockClock(b.Now)

	return &paymentEnv{
		b:             b,
		res:           res,
		reservations:  reservations,
		payments:      payments,
		gateway:       gw,
		notifications: notifications,
		clock:         clk,
		commands: commands.NewPaymentCommands(
			fakeTx{}, payments, reservations, properties, gw,
			payment.HoldPolicy{Window: 24 * time.Hour, Anchor: payment.AnchorCheckin},
			"USD", notifications, clk,
		),
	}
}

// seedPending stores a PENDING ledger row tied to the env reservation.
func (e *paymentEnv) seedPending(t *testing.T) *payment.Payment {
	t.Helper()
	p, err := builder.NewPaymentBuilder().
		WithReservationID(e.res.ID()).
		WithGatewayReference("pi_test_1").
		BuildDomain()
	require.NoError(t, err)
	e.payments.add(p)
	return p
}

// cancelReservation force-cancels the env reservation so held funds become
// refundable.
func (e *paymentEnv) cancelReservation(t *testing.T) {
	t.Helper()
	require.NoError(t, e.reservations.store[e.res.ID()].ForceCancel("refund test", e.b.Now))
}

func (e *paymentEnv) seedHeld(t *testing.T) *payment.Payment {
	t.Helper()
	p, err := builder.NewPaymentBuilder().
		WithReservationID(e.res.ID()).
		WithGatewayReference("pi_test_1").
		BuildHeld()
	require.NoError(t, err)
	e.payments.add(p)
	return p
}

func TestPaymentCommands_Initiate(t *testing.T) {
	ctx := context.Background()

	t.Run("success: intent opened and pending row recorded", func(t *testing.T) {
		env := newPaymentEnv(t)

		out, err := env.commands.Initiate(ctx, env.res.ID(), env.b.GuestID, "card")
		require.NoError(t, err)

		assert.Equal(t, "secret_1", out.ClientSecret)
		assert.Equal(t, payment.StatusPending, out.Payment.Status())
		assert.Equal(t, "pi_test_1", out.Payment.GatewayReference())
		assert.True(t, out.Payment.Amount().Equal(decimal.NewFromInt(350)))
		assert.True(t, out.Payment.PlatformCommission().Equal(decimal.NewFromInt(30)))
		require.Len(t, env.gateway.intentCalls, 1)
		assert.True(t, env.gateway.intentCalls[0].Equal(decimal.NewFromInt(350)))
		require.Len(t, env.payments.created, 1)
	})

	t.Run("error: only the guest may pay", func(t *testing.T) {
		env := newPaymentEnv(t)

		_, err := env.commands.Initiate(ctx, env.res.ID(), env.b.HostID, "card")
		requireErrIs(t, err, commands.ErrNotAuthorized)
		assert.Empty(t, env.gateway.intentCalls)
	})

	t.Run("error: reservation must be confirmed", func(t *testing.T) {
		env := newPaymentEnv(t)
		pending, err := env.b.BuildDomain()
		require.NoError(t, err)
		env.reservations.add(pending)

		_, err = env.commands.Initiate(ctx, pending.ID(), env.b.GuestID, "card")
		requireErrIs(t, err, commands.ErrInvalidState)
	})

	t.Run("error: funds already captured for this reservation", func(t *testing.T) {
		env := newPaymentEnv(t)
		env.payments.capturable = env.seedHeld(t)

		_, err := env.commands.Initiate(ctx, env.res.ID(), env.b.GuestID, "card")
		requireErrIs(t, err, commands.ErrPaymentAlreadyInitiated)
		assert.Empty(t, env.gateway.intentCalls)
	})

	t.Run("error: an intent is already open", func(t *testing.T) {
		env := newPaymentEnv(t)
		env.payments.openIntent = true

		_, err := env.commands.Initiate(ctx, env.res.ID(), env.b.GuestID, "card")
		requireErrIs(t, err, commands.ErrPaymentAlreadyInitiated)
		assert.Empty(t, env.gateway.intentCalls)
	})

	t.Run("error: gateway failure leaves the ledger untouched", func(t *testing.T) {
		env := newPaymentEnv(t)
		env.gateway.intentErr = errors.New("gateway timeout")

		_, err := env.commands.Initiate(ctx, env.res.ID(), env.b.GuestID, "card")
		requireErrIs(t, err, commands.ErrGatewayFailure)
		assert.Empty(t, env.payments.created)
	})

	t.Run("error: unknown reservation", func(t *testing.T) {
		env := newPaymentEnv(t)

		_, err := env.commands.Initiate(ctx, uuid.New(), env.b.GuestID, "card")
		requireErrIs(t, err, commands.ErrReservationNotFound)
	})
}

func TestPaymentCommands_HandleGatewayEvent(t *testing.T) {
	ctx := context.Background()

	succeeded := gateway.WebhookEvent{Type: gateway.EventPaymentSucceeded, Reference: "pi_test_1"}

	t.Run("success: capture holds funds and marks the reservation paid", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedPending(t)

		require.NoError(t, env.commands.HandleGatewayEvent(ctx, succeeded))

		stored := env.payments.store[p.ID()]
		assert.Equal(t, payment.StatusHeld, stored.Status())
		require.NotNil(t, stored.HoldUntil())
		assert.Equal(t, env.res.Period().Checkin().Add(24*time.Hour), *stored.HoldUntil())
		assert.Equal(t, reservation.StatusPaid, env.reservations.store[env.res.ID()].Status())
		assert.Equal(t, []string{commands.TopicPaymentCaptured}, env.notifications.topics())
	})

	t.Run("success: replayed capture event is a no-op", func(t *testing.T) {
		env := newPaymentEnv(t)
		env.seedPending(t)

		require.NoError(t, env.commands.HandleGatewayEvent(ctx, succeeded))
		updatesAfterFirst := env.payments.updates

		require.NoError(t, env.commands.HandleGatewayEvent(ctx, succeeded))
		assert.Equal(t, updatesAfterFirst, env.payments.updates)
		assert.Len(t, env.notifications.jobs, 1)
	})

	t.Run("success: failure event records the reason", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedPending(t)

		event := gateway.WebhookEvent{
			Type:      gateway.EventPaymentFailed,
			Reference: "pi_test_1",
			Reason:    "card declined",
		}
		require.NoError(t, env.commands.HandleGatewayEvent(ctx, event))

		stored := env.payments.store[p.ID()]
		assert.Equal(t, payment.StatusFailed, stored.Status())
		assert.Equal(t, "card declined", stored.FailureReason())
		assert.Equal(t, reservation.StatusConfirmed, env.reservations.store[env.res.ID()].Status())
		assert.Equal(t, []string{commands.TopicPaymentFailed}, env.notifications.topics())
	})

	t.Run("success: capture racing a cancellation fails the payment", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedPending(t)

		cancelled := env.reservations.store[env.res.ID()]
		require.NoError(t, cancelled.Cancel("changed my mind", env.b.Now))

		require.NoError(t, env.commands.HandleGatewayEvent(ctx, succeeded))

		stored := env.payments.store[p.ID()]
		assert.Equal(t, payment.StatusFailed, stored.Status())
		assert.Equal(t, "reservation no longer confirmed", stored.FailureReason())
		assert.Equal(t, reservation.StatusCancelled, env.reservations.store[env.res.ID()].Status())
		assert.Empty(t, env.notifications.jobs)
	})

	t.Run("error: unknown gateway reference", func(t *testing.T) {
		env := newPaymentEnv(t)

		err := env.commands.HandleGatewayEvent(ctx, succeeded)
		requireErrIs(t, err, commands.ErrPaymentNotFound)
	})

	t.Run("error: unknown event type", func(t *testing.T) {
		env := newPaymentEnv(t)
		env.seedPending(t)

		event := gateway.WebhookEvent{Type: "payment.exploded", Reference: "pi_test_1"}
		err := env.commands.HandleGatewayEvent(ctx, event)
		requireErrIs(t, err, commands.ErrValidation)
	})
}

func TestPaymentCommands_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("success: held funds pay out net of commission", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedHeld(t)

		released, err := env.commands.Release(ctx, p.ID())
		require.NoError(t, err)

		assert.Equal(t, payment.StatusReleased, released.Status())
		require.NotNil(t, released.HostPayout())
		assert.True(t, released.HostPayout().Equal(decimal.NewFromInt(320)))
		require.Len(t, env.notifications.jobs, 1)
		assert.Equal(t, env.b.HostID, env.notifications.jobs[0].recipientID)
		assert.Equal(t, commands.TopicPaymentReleased, env.notifications.jobs[0].topic)
	})

	t.Run("success: losing the release race returns the committed state", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedHeld(t)
		env.payments.releaseWins = false

		out, err := env.commands.Release(ctx, p.ID())
		require.NoError(t, err)

		assert.NotEqual(t, payment.StatusReleased, out.Status())
		assert.Empty(t, env.notifications.jobs)
	})

	t.Run("success: terminal payments are a silent no-op", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedHeld(t)
		require.NoError(t, env.payments.store[p.ID()].Release(env.b.Now))

		out, err := env.commands.Release(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, payment.StatusReleased, out.Status())
		assert.Empty(t, env.notifications.jobs)
	})

	t.Run("error: pending payments cannot be released", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedPending(t)

		_, err := env.commands.Release(ctx, p.ID())
		requireErrIs(t, err, commands.ErrInvalidState)
	})

	t.Run("error: unknown payment", func(t *testing.T) {
		env := newPaymentEnv(t)

		_, err := env.commands.Release(ctx, uuid.New())
		requireErrIs(t, err, commands.ErrPaymentNotFound)
	})
}

func TestPaymentCommands_Refund(t *testing.T) {
	ctx := context.Background()

	t.Run("success: cancelled reservation refunds as a linked negative record", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedHeld(t)
		env.cancelReservation(t)

		refund, err := env.commands.Refund(ctx, p.ID())
		require.NoError(t, err)

		assert.True(t, refund.Amount().Equal(decimal.NewFromInt(-350)))
		require.NotNil(t, refund.RefundOf())
		assert.Equal(t, p.ID(), *refund.RefundOf())
		assert.Equal(t, payment.StatusRefunded, env.payments.store[p.ID()].Status())
		assert.Equal(t, []string{"pi_test_1"}, env.gateway.refundCalls)
		assert.Equal(t, []string{commands.TopicPaymentRefunded}, env.notifications.topics())
	})

	t.Run("error: active reservation keeps its funds in escrow", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedHeld(t)

		_, err := env.commands.Refund(ctx, p.ID())
		requireErrIs(t, err, commands.ErrInvalidState)
		requireErrIs(t, err, reservation.ErrNotCancelled)
		assert.Empty(t, env.gateway.refundCalls)
		assert.Equal(t, payment.StatusHeld, env.payments.store[p.ID()].Status())
	})

	t.Run("error: released payment is not refundable", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedHeld(t)
		env.cancelReservation(t)
		require.NoError(t, env.payments.store[p.ID()].Release(env.b.Now))

		_, err := env.commands.Refund(ctx, p.ID())
		requireErrIs(t, err, commands.ErrInvalidState)
		assert.Empty(t, env.gateway.refundCalls)
	})

	t.Run("error: gateway refund failure leaves the ledger untouched", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedHeld(t)
		env.cancelReservation(t)
		env.gateway.refundErr = errors.New("gateway timeout")

		_, err := env.commands.Refund(ctx, p.ID())
		requireErrIs(t, err, commands.ErrGatewayFailure)
		assert.Equal(t, payment.StatusHeld, env.payments.store[p.ID()].Status())
	})
}

func TestPaymentCommands_Dispute(t *testing.T) {
	ctx := context.Background()

	t.Run("success: held payment freezes", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedHeld(t)

		disputed, err := env.commands.Dispute(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, payment.StatusDisputed, disputed.Status())
		assert.Equal(t, payment.StatusDisputed, env.payments.store[p.ID()].Status())
	})

	t.Run("error: pending payment cannot be disputed", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedPending(t)

		_, err := env.commands.Dispute(ctx, p.ID())
		requireErrIs(t, err, commands.ErrInvalidState)
	})
}

func TestPaymentCommands_ReleaseDue(t *testing.T) {
	ctx := context.Background()

	t.Run("success: releases each due payment and counts the wins", func(t *testing.T) {
		env := newPaymentEnv(t)

		first, err := builder.NewPaymentBuilder().
			WithReservationID(env.res.ID()).
			WithGatewayReference("pi_due_1").
			BuildHeld()
		require.NoError(t, err)
		second, err := builder.NewPaymentBuilder().
			WithReservationID(env.res.ID()).
			WithGatewayReference("pi_due_2").
			BuildHeld()
		require.NoError(t, err)
		stuck, err := builder.NewPaymentBuilder().
			WithReservationID(env.res.ID()).
			WithGatewayReference("pi_due_3").
			BuildDomain() // still pending, release will refuse it
		require.NoError(t, err)

		for _, p := range []*payment.Payment{first, second, stuck} {
			env.payments.add(p)
		}
		env.payments.due = []*payment.Payment{first, second, stuck}

		released, err := env.commands.ReleaseDue(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, 2, released)
	})

	t.Run("error: failed releases surface next to the count", func(t *testing.T) {
		env := newPaymentEnv(t)
		p := env.seedHeld(t)
		env.payments.due = []*payment.Payment{p}
		env.payments.releaseErr = errors.New("connection reset")

		released, err := env.commands.ReleaseDue(ctx, 100)
		requireErrIs(t, err, commands.ErrDatabaseOperationFailed)
		assert.Equal(t, 0, released)
	})

	t.Run("error: sweep query failure aborts the batch", func(t *testing.T) {
		env := newPaymentEnv(t)
		env.payments.dueErr = errors.New("connection reset")

		_, err := env.commands.ReleaseDue(ctx, 100)
		requireErrIs(t, err, commands.ErrDatabaseOperationFailed)
	})
}
