//go:build unit

package payment_test

import (
	"testing"
	"time"

	"staybook/internal/domain/payment"
	"staybook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewPaymentBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, payment.StatusPending, actual.Status())
		assert.True(t, actual.Amount().Equal(decimal.NewFromInt(350)))
		assert.True(t, actual.PlatformCommission().Equal(decimal.NewFromInt(30)))
		assert.Nil(t, actual.HostPayout())
		assert.Nil(t, actual.CapturedAt())
		assert.Nil(t, actual.RefundOf())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := builder.NewPaymentBuilder().
			WithAmount(decimal.Zero, decimal.Zero).
			BuildDomain()
		require.ErrorIs(t, err, payment.ErrInvalidAmount)

		_, err = builder.NewPaymentBuilder().
			WithAmount(decimal.NewFromInt(-10), decimal.Zero).
			BuildDomain()
		require.ErrorIs(t, err, payment.ErrInvalidAmount)
	})

	t.Run("rejects empty gateway reference", func(t *testing.T) {
		_, err := builder.NewPaymentBuilder().WithGatewayReference("").BuildDomain()
		require.ErrorIs(t, err, payment.ErrMissingReference)
	})
}

func TestCapture(t *testing.T) {
	b := builder.NewPaymentBuilder()

	t.Run("pending payment enters escrow", func(t *testing.T) {
		p, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, p.Capture(b.Now, b.HoldUntil))
		assert.Equal(t, payment.StatusHeld, p.Status())
		require.NotNil(t, p.CapturedAt())
		assert.Equal(t, b.Now, *p.CapturedAt())
		require.NotNil(t, p.HoldUntil())
		assert.Equal(t, b.HoldUntil, *p.HoldUntil())
	})

	t.Run("capture is not repeatable", func(t *testing.T) {
		p, err := b.BuildHeld()
		require.NoError(t, err)

		require.ErrorIs(t, p.Capture(b.Now, b.HoldUntil), payment.ErrNotPending)
	})
}

func TestFail(t *testing.T) {
	b := builder.NewPaymentBuilder()

	t.Run("pending payment fails with reason", func(t *testing.T) {
		p, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, p.Fail("card declined"))
		assert.Equal(t, payment.StatusFailed, p.Status())
		assert.Equal(t, "card declined", p.FailureReason())
	})

	t.Run("held payment cannot fail", func(t *testing.T) {
		p, err := b.BuildHeld()
		require.NoError(t, err)

		require.ErrorIs(t, p.Fail("too late"), payment.ErrNotPending)
	})
}

func TestRelease(t *testing.T) {
	b := builder.NewPaymentBuilder()

	t.Run("held payment pays the host net of commission", func(t *testing.T) {
		p, err := b.BuildHeld()
		require.NoError(t, err)

		releaseAt := b.HoldUntil.Add(time.Hour)
		require.NoError(t, p.Release(releaseAt))
		assert.Equal(t, payment.StatusReleased, p.Status())
		require.NotNil(t, p.HostPayout())
		assert.True(t, p.HostPayout().Equal(decimal.NewFromInt(320)), "payout = %s", p.HostPayout())
		require.NotNil(t, p.ReleasedAt())
		assert.Equal(t, releaseAt, *p.ReleasedAt())
	})

	t.Run("disputed payment can be released in the host's favour", func(t *testing.T) {
		p, err := b.BuildHeld()
		require.NoError(t, err)
		require.NoError(t, p.Dispute())

		require.NoError(t, p.Release(b.Now))
		assert.Equal(t, payment.StatusReleased, p.Status())
	})

	t.Run("pending payment cannot be released", func(t *testing.T) {
		p, err := b.BuildDomain()
		require.NoError(t, err)

		require.ErrorIs(t, p.Release(b.Now), payment.ErrNotHeld)
	})

	t.Run("release is not repeatable", func(t *testing.T) {
		p, err := b.BuildHeld()
		require.NoError(t, err)
		require.NoError(t, p.Release(b.Now))

		require.ErrorIs(t, p.Release(b.Now), payment.ErrNotHeld)
	})
}

func TestRefund(t *testing.T) {
	b := builder.NewPaymentBuilder()

	t.Run("refund record mirrors the original with a negative amount", func(t *testing.T) {
		original, err := b.BuildHeld()
		require.NoError(t, err)

		refund, err := payment.NewRefund(original, "re_12345", b.Now)
		require.NoError(t, err)

		assert.Equal(t, payment.StatusRefunded, refund.Status())
		assert.True(t, refund.Amount().Equal(decimal.NewFromInt(-350)))
		assert.True(t, refund.PlatformCommission().IsZero())
		assert.Equal(t, original.ReservationID(), refund.ReservationID())
		require.NotNil(t, refund.RefundOf())
		assert.Equal(t, original.ID(), *refund.RefundOf())
	})

	t.Run("refund requires a reference", func(t *testing.T) {
		original, err := b.BuildHeld()
		require.NoError(t, err)

		_, err = payment.NewRefund(original, "", b.Now)
		require.ErrorIs(t, err, payment.ErrMissingReference)
	})

	t.Run("released payment cannot be refunded", func(t *testing.T) {
		original, err := b.BuildHeld()
		require.NoError(t, err)
		require.NoError(t, original.Release(b.Now))

		_, err = payment.NewRefund(original, "re_12345", b.Now)
		require.ErrorIs(t, err, payment.ErrNotRefundable)
		require.ErrorIs(t, original.MarkRefunded(b.Now), payment.ErrNotRefundable)
	})

	t.Run("mark refunded closes the original", func(t *testing.T) {
		original, err := b.BuildHeld()
		require.NoError(t, err)

		require.NoError(t, original.MarkRefunded(b.Now))
		assert.Equal(t, payment.StatusRefunded, original.Status())
		require.NotNil(t, original.RefundedAt())
	})
}

func TestDispute(t *testing.T) {
	b := builder.NewPaymentBuilder()

	t.Run("held payment enters dispute", func(t *testing.T) {
		p, err := b.BuildHeld()
		require.NoError(t, err)

		require.NoError(t, p.Dispute())
		assert.Equal(t, payment.StatusDisputed, p.Status())
	})

	t.Run("pending payment cannot be disputed", func(t *testing.T) {
		p, err := b.BuildDomain()
		require.NoError(t, err)

		require.ErrorIs(t, p.Dispute(), payment.ErrNotHeld)
	})
}

func TestIsReleaseDue(t *testing.T) {
	b := builder.NewPaymentBuilder()

	t.Run("due once hold window passes", func(t *testing.T) {
		p, err := b.BuildHeld()
		require.NoError(t, err)

		assert.False(t, p.IsReleaseDue(b.HoldUntil.Add(-time.Minute)))
		assert.True(t, p.IsReleaseDue(b.HoldUntil))
		assert.True(t, p.IsReleaseDue(b.HoldUntil.Add(time.Minute)))
	})

	t.Run("disputed payment is never auto-released", func(t *testing.T) {
		p, err := b.BuildHeld()
		require.NoError(t, err)
		require.NoError(t, p.Dispute())

		assert.False(t, p.IsReleaseDue(b.HoldUntil.Add(time.Hour)))
	})
}
