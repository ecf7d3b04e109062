//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"staybook/internal/domain/reservation"
	"staybook/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestComputePricing(t *testing.T) {
	t.Run("canonical three-night quote", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		prop, err := b.BuildProperty()
		require.NoError(t, err)

		period, err := reservation.NewStayPeriod(b.Checkin, b.Checkout)
		require.NoError(t, err)

		got, err := reservation.ComputePricing(prop, period)
		require.NoError(t, err)

		want := reservation.PricingBreakdown{
			Nights:          3,
			PricePerNight:   decimal.NewFromInt(100),
			Subtotal:        decimal.NewFromInt(300),
			CleaningFee:     decimal.NewFromInt(20),
			Commission:      decimal.NewFromInt(30),
			Total:           decimal.NewFromInt(350),
			SecurityDeposit: decimal.NewFromInt(50),
		}
		if diff := cmp.Diff(want, got, decimalComparer); diff != "" {
			t.Errorf("pricing mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("commission rounds half away from zero", func(t *testing.T) {
		cases := []struct {
			name          string
			pricePerNight string
			nights        int
			commission    string
		}{
			// 123.45 * 3 = 370.35, * 0.10 = 37.035 -> 37.04
			{name: "half cent rounds up", pricePerNight: "123.45", nights: 3, commission: "37.04"},
			// 99.99 * 2 = 199.98, * 0.10 = 19.998 -> 20.00
			{name: "near cent rounds up", pricePerNight: "99.99", nights: 2, commission: "20.00"},
			// 100.10 * 1 = 100.10, * 0.10 = 10.01 exact
			{name: "exact cent unchanged", pricePerNight: "100.10", nights: 1, commission: "10.01"},
			// 33.33 * 1 = 33.33, * 0.10 = 3.333 -> 3.33
			{name: "below half rounds down", pricePerNight: "33.33", nights: 1, commission: "3.33"},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				b := builder.NewReservationBuilder().
					WithPricePerNight(decimal.RequireFromString(c.pricePerNight)).
					WithCheckinIn(30*24*time.Hour, c.nights)
				prop, err := b.BuildProperty()
				require.NoError(t, err)

				period, err := reservation.NewStayPeriod(b.Checkin, b.Checkout)
				require.NoError(t, err)

				got, err := reservation.ComputePricing(prop, period)
				require.NoError(t, err)
				assert.True(t, got.Commission.Equal(decimal.RequireFromString(c.commission)),
					"commission = %s, want %s", got.Commission, c.commission)
			})
		}
	})

	t.Run("security deposit never enters the total", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		res, err := b.BuildDomain()
		require.NoError(t, err)

		pricing := res.Pricing()
		sum := pricing.Subtotal.Add(pricing.CleaningFee).Add(pricing.Commission)
		assert.True(t, pricing.Total.Equal(sum))
		assert.True(t, pricing.SecurityDeposit.Equal(decimal.NewFromInt(50)))
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		prop, err := b.BuildProperty()
		require.NoError(t, err)
		period, err := reservation.NewStayPeriod(b.Checkin, b.Checkout)
		require.NoError(t, err)

		first, err := reservation.ComputePricing(prop, period)
		require.NoError(t, err)
		second, err := reservation.ComputePricing(prop, period)
		require.NoError(t, err)
		assert.True(t, first.Equal(second))
	})
}
