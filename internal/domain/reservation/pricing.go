package reservation

import (
	"errors"

	"staybook/internal/domain/property"

	"github.com/shopspring/decimal"
)

var (
	ErrStayTooShort = errors.New("stay is shorter than the minimum")
	ErrStayTooLong  = errors.New("stay is longer than the maximum")
)

// CommissionRate is the platform's fixed cut of the booking subtotal.
var CommissionRate = decimal.NewFromFloat(0.10)

// minorUnitPlaces is the rounding precision for currency amounts.
const minorUnitPlaces = 2

// PricingBreakdown is a value object; it is embedded in the reservation and
// never recomputed after creation. SecurityDeposit is informational and never
// part of Total.
type PricingBreakdown struct {
	Nights          int
	PricePerNight   decimal.Decimal
	Subtotal        decimal.Decimal
	CleaningFee     decimal.Decimal
	Commission      decimal.Decimal
	Total           decimal.Decimal
	SecurityDeposit decimal.Decimal
}

// ComputePricing derives the cost breakdown for a stay. Deterministic and
// side-effect free; safe to call repeatedly for quotes.
func ComputePricing(prop *property.Property, period StayPeriod) (PricingBreakdown, error) {
	nights := period.Nights()
	if nights < prop.MinStay() {
		return PricingBreakdown{}, ErrStayTooShort
	}
	if max := prop.MaxStay(); max != nil && nights > *max {
		return PricingBreakdown{}, ErrStayTooLong
	}

	subtotal := prop.PricePerNight().Mul(decimal.NewFromInt(int64(nights)))
	// decimal.Round is half away from zero, which is half-up for positive amounts.
	commission := subtotal.Mul(CommissionRate).Round(minorUnitPlaces)
	total := subtotal.Add(prop.CleaningFee()).Add(commission)

	return PricingBreakdown{
		Nights:          nights,
		PricePerNight:   prop.PricePerNight(),
		Subtotal:        subtotal,
		CleaningFee:     prop.CleaningFee(),
		Commission:      commission,
		Total:           total,
		SecurityDeposit: prop.SecurityDeposit(),
	}, nil
}

func (b PricingBreakdown) Equal(other PricingBreakdown) bool {
	return b.Nights == other.Nights &&
		b.PricePerNight.Equal(other.PricePerNight) &&
		b.Subtotal.Equal(other.Subtotal) &&
		b.CleaningFee.Equal(other.CleaningFee) &&
		b.Commission.Equal(other.Commission) &&
		b.Total.Equal(other.Total) &&
		b.SecurityDeposit.Equal(other.SecurityDeposit)
}
