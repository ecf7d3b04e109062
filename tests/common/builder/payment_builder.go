//go:build unit || integration

package builder

import (
	"time"

	"staybook/internal/domain/payment"
	"staybook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentBuilder struct {
	ReservationID    uuid.UUID
	Amount           decimal.Decimal
	Commission       decimal.Decimal
	Currency         string
	Method           string
	GatewayReference string
	Now              time.Time
	HoldUntil        time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return &PaymentBuilder{
		ReservationID:    uuid.New(),
		Amount:           decimal.NewFromInt(350),
		Commission:       decimal.NewFromInt(30),
		Currency:         "USD",
		Method:           "card",
		GatewayReference: "pi_" + uuid.NewString()[:8],
		Now:              now,
		HoldUntil:        now.Add(24 * time.Hour),
	}
}

func (b *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(b)
	return b
}

func (b *PaymentBuilder) BuildDomain() (*payment.Payment, error) {
	return payment.NewPayment(
		b.ReservationID, b.Amount, b.Commission,
		b.Currency, b.Method, b.GatewayReference, b.Now,
	)
}

// BuildHeld fast-forwards a fresh payment into escrow.
func (b *PaymentBuilder) BuildHeld() (*payment.Payment, error) {
	p, err := b.BuildDomain()
	if err != nil {
		return nil, err
	}
	if err := p.Capture(b.Now, b.HoldUntil); err != nil {
		return nil, err
	}
	return p, nil
}

func (b *PaymentBuilder) BuildView() *queries.PaymentView {
	return &queries.PaymentView{
		ID:                 uuid.New(),
		ReservationID:      b.ReservationID,
		Amount:             b.Amount,
		Currency:           b.Currency,
		Status:             payment.StatusPending.String(),
		Method:             b.Method,
		PlatformCommission: b.Commission,
		CreatedAt:          b.Now,
	}
}

func (b *PaymentBuilder) WithReservationID(id uuid.UUID) *PaymentBuilder {
	b.ReservationID = id
	return b
}

func (b *PaymentBuilder) WithAmount(amount, commission decimal.Decimal) *PaymentBuilder {
	b.Amount = amount
	b.Commission = commission
	return b
}

func (b *PaymentBuilder) WithGatewayReference(ref string) *PaymentBuilder {
	b.GatewayReference = ref
	return b
}

func (b *PaymentBuilder) WithHoldUntil(t time.Time) *PaymentBuilder {
	b.HoldUntil = t
	return b
}
