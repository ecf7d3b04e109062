package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotPending       = errors.New("payment is not pending")
	ErrNotCaptured      = errors.New("payment is not captured")
	ErrNotHeld          = errors.New("payment is not held")
	ErrNotDisputed      = errors.New("payment is not disputed")
	ErrNotRefundable    = errors.New("payment cannot be refunded in its current state")
	ErrAlreadyTerminal  = errors.New("payment already reached a terminal state")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
	ErrMissingReference = errors.New("gateway reference is required")
)

// Payment is one escrow ledger record. Amount and commission are fixed at
// creation; refunds are modelled as a second negative-amount record linked via
// RefundOf rather than edits to history.
type Payment struct {
	id                 uuid.UUID
	reservationID      uuid.UUID
	amount             decimal.Decimal
	currency           string
	status             Status
	gatewayReference   string
	method             string
	platformCommission decimal.Decimal
	hostPayout         *decimal.Decimal
	failureReason      string
	refundOf           *uuid.UUID
	capturedAt         *time.Time
	holdUntil          *time.Time
	releasedAt         *time.Time
	refundedAt         *time.Time
	createdAt          time.Time
}

// NewPayment opens a PENDING record for a gateway intent that was just created.
func NewPayment(
	reservationID uuid.UUID,
	amount, commission decimal.Decimal,
	currency, method, gatewayReference string,
	now time.Time,
) (*Payment, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if gatewayReference == "" {
		return nil, ErrMissingReference
	}
	return &Payment{
		id:                 uuid.New(),
		reservationID:      reservationID,
		amount:             amount,
		currency:           currency,
		status:             StatusPending,
		gatewayReference:   gatewayReference,
		method:             method,
		platformCommission: commission,
		createdAt:          now,
	}, nil
}

// NewRefund creates the negative-amount record linked to the original capture.
func NewRefund(original *Payment, refundReference string, now time.Time) (*Payment, error) {
	if !original.status.IsRefundable() {
		return nil, ErrNotRefundable
	}
	if refundReference == "" {
		return nil, ErrMissingReference
	}
	t := now
	origID := original.id
	return &Payment{
		id:                 uuid.New(),
		reservationID:      original.reservationID,
		amount:             original.amount.Neg(),
		currency:           original.currency,
		status:             StatusRefunded,
		gatewayReference:   refundReference,
		method:             original.method,
		platformCommission: decimal.Zero,
		refundOf:           &origID,
		refundedAt:         &t,
		createdAt:          now,
	}, nil
}

func Reconstruct(
	id, reservationID uuid.UUID,
	amount decimal.Decimal,
	currency string,
	status Status,
	gatewayReference, method string,
	platformCommission decimal.Decimal,
	hostPayout *decimal.Decimal,
	failureReason string,
	refundOf *uuid.UUID,
	capturedAt, holdUntil, releasedAt, refundedAt *time.Time,
	createdAt time.Time,
) *Payment {
	return &Payment{
		id:                 id,
		reservationID:      reservationID,
		amount:             amount,
		currency:           currency,
		status:             status,
		gatewayReference:   gatewayReference,
		method:             method,
		platformCommission: platformCommission,
		hostPayout:         hostPayout,
		failureReason:      failureReason,
		refundOf:           refundOf,
		capturedAt:         capturedAt,
		holdUntil:          holdUntil,
		releasedAt:         releasedAt,
		refundedAt:         refundedAt,
		createdAt:          createdAt,
	}
}

// Capture records a successful gateway charge and immediately enters escrow:
// PENDING -> CAPTURED -> HELD with the hold window computed by policy.
func (p *Payment) Capture(now time.Time, holdUntil time.Time) error {
	if p.status != StatusPending {
		return ErrNotPending
	}
	t := now
	h := holdUntil
	p.status = StatusHeld
	p.capturedAt = &t
	p.holdUntil = &h
	return nil
}

func (p *Payment) Fail(reason string) error {
	if p.status != StatusPending {
		return ErrNotPending
	}
	p.status = StatusFailed
	p.failureReason = reason
	return nil
}

// Release pays the host out of escrow: HELD (or a dispute resolved in the
// host's favour) -> RELEASED. hostPayout = amount - platformCommission.
func (p *Payment) Release(now time.Time) error {
	if p.status != StatusHeld && p.status != StatusDisputed {
		return ErrNotHeld
	}
	payout := p.amount.Sub(p.platformCommission)
	t := now
	p.status = StatusReleased
	p.hostPayout = &payout
	p.releasedAt = &t
	return nil
}

// MarkRefunded finishes the original record after the gateway refund went
// through; the money trail lives on the linked refund record.
func (p *Payment) MarkRefunded(now time.Time) error {
	if !p.status.IsRefundable() {
		return ErrNotRefundable
	}
	t := now
	p.status = StatusRefunded
	p.refundedAt = &t
	return nil
}

func (p *Payment) Dispute() error {
	if p.status != StatusHeld {
		return ErrNotHeld
	}
	p.status = StatusDisputed
	return nil
}

func (p *Payment) IsReleaseDue(now time.Time) bool {
	return p.status == StatusHeld && p.holdUntil != nil && !p.holdUntil.After(now)
}

func (p *Payment) ID() uuid.UUID                       { return p.id }
func (p *Payment) ReservationID() uuid.UUID            { return p.reservationID }
func (p *Payment) Amount() decimal.Decimal             { return p.amount }
func (p *Payment) Currency() string                    { return p.currency }
func (p *Payment) Status() Status                      { return p.status }
func (p *Payment) GatewayReference() string            { return p.gatewayReference }
func (p *Payment) Method() string                      { return p.method }
func (p *Payment) PlatformCommission() decimal.Decimal { return p.platformCommission }
func (p *Payment) HostPayout() *decimal.Decimal        { return p.hostPayout }
func (p *Payment) FailureReason() string               { return p.failureReason }
func (p *Payment) RefundOf() *uuid.UUID                { return p.refundOf }
func (p *Payment) CapturedAt() *time.Time              { return p.capturedAt }
func (p *Payment) HoldUntil() *time.Time               { return p.holdUntil }
func (p *Payment) ReleasedAt() *time.Time              { return p.releasedAt }
func (p *Payment) RefundedAt() *time.Time              { return p.refundedAt }
func (p *Payment) CreatedAt() time.Time                { return p.createdAt }
