//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"staybook/internal/domain/property"
	"staybook/internal/domain/reservation"
	"staybook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.ReservationBuilder)
	errIs  error
}

func TestNewReservation(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, reservation.StatusPending, actual.Status())
		assert.Equal(t, 3, actual.Period().Nights())
		assert.Equal(t, 2, actual.GuestCount())
		assert.False(t, actual.CreatedAt().IsZero())
		assert.Nil(t, actual.ConfirmedAt())
		assert.True(t, actual.Note().IsEmpty())
	})

	t.Run("guest validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "guest count at capacity",
				mutate: func(b *builder.ReservationBuilder) { b.WithGuestCount(4) },
			},
			{
				name:   "guest count above capacity",
				mutate: func(b *builder.ReservationBuilder) { b.WithGuestCount(5) },
				errIs:  reservation.ErrTooManyGuests,
			},
			{
				name:   "zero guests",
				mutate: func(b *builder.ReservationBuilder) { b.WithGuestCount(0) },
				errIs:  reservation.ErrInvalidGuestCount,
			},
			{
				name:   "negative guests",
				mutate: func(b *builder.ReservationBuilder) { b.WithGuestCount(-1) },
				errIs:  reservation.ErrInvalidGuestCount,
			},
		})
	})

	t.Run("property gating", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "inactive property",
				mutate: func(b *builder.ReservationBuilder) { b.WithPropertyStatus(property.StatusInactive) },
				errIs:  reservation.ErrPropertyNotBookable,
			},
			{
				name:   "blocked property",
				mutate: func(b *builder.ReservationBuilder) { b.WithPropertyStatus(property.StatusBlocked) },
				errIs:  reservation.ErrPropertyNotBookable,
			},
			{
				name:   "host booking own property",
				mutate: func(b *builder.ReservationBuilder) { b.GuestID = b.HostID },
				errIs:  reservation.ErrOwnProperty,
			},
		})
	})

	t.Run("booking horizon", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "checkin tomorrow",
				mutate: func(b *builder.ReservationBuilder) { b.WithCheckinIn(24*time.Hour, 2) },
			},
			{
				name:   "checkin today",
				mutate: func(b *builder.ReservationBuilder) { b.WithCheckinIn(0, 2) },
				errIs:  reservation.ErrCheckinInPast,
			},
			{
				name:   "checkin in the past",
				mutate: func(b *builder.ReservationBuilder) { b.WithCheckinIn(-48*time.Hour, 2) },
				errIs:  reservation.ErrCheckinInPast,
			},
			{
				name: "checkin at the horizon",
				mutate: func(b *builder.ReservationBuilder) {
					b.Checkin = b.Now.AddDate(0, 0, 365).Truncate(24 * time.Hour)
					b.Checkout = b.Checkin.AddDate(0, 0, 2)
				},
			},
			{
				name: "checkin beyond the horizon",
				mutate: func(b *builder.ReservationBuilder) {
					b.Checkin = b.Now.AddDate(0, 0, 366)
					b.Checkout = b.Checkin.AddDate(0, 0, 2)
				},
				errIs: reservation.ErrCheckinTooFarAhead,
			},
			{
				name: "checkout not after checkin",
				mutate: func(b *builder.ReservationBuilder) {
					b.Checkout = b.Checkin
				},
				errIs: reservation.ErrCheckoutNotAfterCheckin,
			},
		})
	})

	t.Run("stay span limits", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "below minimum stay",
				mutate: func(b *builder.ReservationBuilder) { b.WithMinStay(5) },
				errIs:  reservation.ErrStayTooShort,
			},
			{
				name:   "above maximum stay",
				mutate: func(b *builder.ReservationBuilder) { b.WithMaxStay(2) },
				errIs:  reservation.ErrStayTooLong,
			},
			{
				name:   "exactly minimum stay",
				mutate: func(b *builder.ReservationBuilder) { b.WithMinStay(3) },
			},
			{
				name:   "exactly maximum stay",
				mutate: func(b *builder.ReservationBuilder) { b.WithMaxStay(3) },
			},
		})
	})
}

func TestConfirm(t *testing.T) {
	b := builder.NewReservationBuilder()

	t.Run("pending reservation confirms", func(t *testing.T) {
		res, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, res.Confirm(b.Now))
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		require.NotNil(t, res.ConfirmedAt())
		assert.Equal(t, b.Now, *res.ConfirmedAt())
	})

	t.Run("confirm is not repeatable", func(t *testing.T) {
		res, err := b.BuildConfirmed()
		require.NoError(t, err)

		require.ErrorIs(t, res.Confirm(b.Now), reservation.ErrNotPending)
	})
}

func TestReject(t *testing.T) {
	b := builder.NewReservationBuilder()

	t.Run("pending reservation rejects with reason", func(t *testing.T) {
		res, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, res.Reject("dates blocked for maintenance", b.Now))
		assert.Equal(t, reservation.StatusRejected, res.Status())
		assert.Equal(t, "dates blocked for maintenance", res.CancellationReason())
		assert.Contains(t, res.Note().String(), "REJECTED BY HOST: dates blocked for maintenance")
		require.NotNil(t, res.CancelledAt())
	})

	t.Run("confirmed reservation cannot be rejected", func(t *testing.T) {
		res, err := b.BuildConfirmed()
		require.NoError(t, err)

		require.ErrorIs(t, res.Reject("too late", b.Now), reservation.ErrNotPending)
	})
}

func TestCancel(t *testing.T) {
	b := builder.NewReservationBuilder()

	t.Run("pending reservation cancels", func(t *testing.T) {
		res, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, res.Cancel("change of plans", b.Now))
		assert.Equal(t, reservation.StatusCancelled, res.Status())
		assert.Contains(t, res.Note().String(), "CANCELLED: change of plans")
	})

	t.Run("confirmed reservation cancels", func(t *testing.T) {
		res, err := b.BuildConfirmed()
		require.NoError(t, err)

		require.NoError(t, res.Cancel("change of plans", b.Now))
		assert.Equal(t, reservation.StatusCancelled, res.Status())
	})

	t.Run("cancel at exactly 24h before checkin succeeds", func(t *testing.T) {
		res, err := b.BuildConfirmed()
		require.NoError(t, err)

		now := res.Period().Checkin().Add(-reservation.CancellationNotice)
		require.NoError(t, res.Cancel("last legal moment", now))
	})

	t.Run("cancel inside the 24h window fails", func(t *testing.T) {
		res, err := b.BuildConfirmed()
		require.NoError(t, err)

		now := res.Period().Checkin().Add(-reservation.CancellationNotice + time.Second)
		require.ErrorIs(t, res.Cancel("too late", now), reservation.ErrCancellationTooLate)
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
	})

	t.Run("paid reservation cannot be cancelled", func(t *testing.T) {
		res, err := b.BuildPaid()
		require.NoError(t, err)

		require.ErrorIs(t, res.Cancel("too late", b.Now), reservation.ErrNotCancellable)
	})
}

func TestForceCancel(t *testing.T) {
	b := builder.NewReservationBuilder()

	t.Run("paid reservation force-cancels", func(t *testing.T) {
		res, err := b.BuildPaid()
		require.NoError(t, err)

		require.NoError(t, res.ForceCancel("fraud review", b.Now))
		assert.Equal(t, reservation.StatusCancelled, res.Status())
		assert.Equal(t, "fraud review", res.CancellationReason())
		assert.Contains(t, res.Note().String(), "CANCELLED BY ADMIN: fraud review")
		require.NotNil(t, res.CancelledAt())
	})

	t.Run("notice window does not apply", func(t *testing.T) {
		res, err := b.BuildConfirmed()
		require.NoError(t, err)

		now := res.Period().Checkin().Add(-time.Hour)
		require.NoError(t, res.ForceCancel("host unreachable", now))
		assert.Equal(t, reservation.StatusCancelled, res.Status())
	})

	t.Run("in-progress stay force-cancels", func(t *testing.T) {
		res, err := b.BuildPaid()
		require.NoError(t, err)
		require.NoError(t, res.CheckIn(res.Period().Checkin()))

		require.NoError(t, res.ForceCancel("property unsafe", b.Now))
		assert.Equal(t, reservation.StatusCancelled, res.Status())
	})

	t.Run("completed stay cannot be force-cancelled", func(t *testing.T) {
		res, err := b.BuildCompleted()
		require.NoError(t, err)

		require.ErrorIs(t, res.ForceCancel("too late", b.Now), reservation.ErrNotCancellable)
		assert.Equal(t, reservation.StatusCompleted, res.Status())
	})

	t.Run("cancelled reservation cannot be force-cancelled again", func(t *testing.T) {
		res, err := b.BuildConfirmed()
		require.NoError(t, err)
		require.NoError(t, res.Cancel("change of plans", b.Now))

		require.ErrorIs(t, res.ForceCancel("again", b.Now), reservation.ErrNotCancellable)
	})
}

func TestStayLifecycle(t *testing.T) {
	b := builder.NewReservationBuilder()

	t.Run("paid to completed via checkin and checkout", func(t *testing.T) {
		res, err := b.BuildPaid()
		require.NoError(t, err)

		checkinDay := res.Period().Checkin().Add(15 * time.Hour)
		require.NoError(t, res.CheckIn(checkinDay))
		assert.Equal(t, reservation.StatusInProgress, res.Status())

		checkoutDay := res.Period().Checkout().Add(10 * time.Hour)
		require.NoError(t, res.CheckOut(checkoutDay))
		assert.Equal(t, reservation.StatusCompleted, res.Status())
		assert.True(t, res.CanReview())
	})

	t.Run("checkin outside the checkin date fails", func(t *testing.T) {
		res, err := b.BuildPaid()
		require.NoError(t, err)

		dayBefore := res.Period().Checkin().Add(-2 * time.Hour)
		require.ErrorIs(t, res.CheckIn(dayBefore), reservation.ErrNotCheckinDay)
	})

	t.Run("checkin requires payment", func(t *testing.T) {
		res, err := b.BuildConfirmed()
		require.NoError(t, err)

		require.ErrorIs(t, res.CheckIn(res.Period().Checkin()), reservation.ErrNotPaid)
	})

	t.Run("checkout outside the checkout date fails", func(t *testing.T) {
		res, err := b.BuildPaid()
		require.NoError(t, err)

		require.NoError(t, res.CheckIn(res.Period().Checkin()))
		require.ErrorIs(t, res.CheckOut(res.Period().Checkin()), reservation.ErrNotCheckoutDay)
	})

	t.Run("mark paid requires confirmed", func(t *testing.T) {
		res, err := b.BuildDomain()
		require.NoError(t, err)

		require.ErrorIs(t, res.MarkPaid(), reservation.ErrNotConfirmed)
	})

	t.Run("pending stay is not reviewable", func(t *testing.T) {
		res, err := b.BuildDomain()
		require.NoError(t, err)

		assert.False(t, res.CanReview())
	})
}

func TestInvolvedParty(t *testing.T) {
	b := builder.NewReservationBuilder()
	res, err := b.BuildDomain()
	require.NoError(t, err)

	assert.True(t, res.InvolvedParty(b.GuestID, b.HostID))
	assert.True(t, res.InvolvedParty(b.HostID, b.HostID))
	assert.False(t, res.InvolvedParty(uuid.New(), b.HostID))
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewReservationBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
