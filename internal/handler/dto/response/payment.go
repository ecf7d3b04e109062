package response

import (
	"time"

	"staybook/internal/domain/payment"
	"staybook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID                 uuid.UUID        `json:"id"`
	ReservationID      uuid.UUID        `json:"reservationId"`
	Amount             decimal.Decimal  `json:"amount"`
	Currency           string           `json:"currency"`
	Status             string           `json:"status"`
	Method             string           `json:"method"`
	PlatformCommission decimal.Decimal  `json:"platformCommission"`
	HostPayout         *decimal.Decimal `json:"hostPayout,omitempty"`
	FailureReason      *string          `json:"failureReason,omitempty"`
	RefundOf           *uuid.UUID       `json:"refundOf,omitempty"`
	CapturedAt         *time.Time       `json:"capturedAt,omitempty"`
	HoldUntil          *time.Time       `json:"holdUntil,omitempty"`
	ReleasedAt         *time.Time       `json:"releasedAt,omitempty"`
	RefundedAt         *time.Time       `json:"refundedAt,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
}

// InitiatePaymentResponse carries the client secret back once; it is never
// persisted or queryable afterwards.
type InitiatePaymentResponse struct {
	Payment      *PaymentResponse `json:"payment"`
	ClientSecret string           `json:"clientSecret"`
}

func FromPaymentEntity(p *payment.Payment) *PaymentResponse {
	out := &PaymentResponse{
		ID:                 p.ID(),
		ReservationID:      p.ReservationID(),
		Amount:             p.Amount(),
		Currency:           p.Currency(),
		Status:             p.Status().String(),
		Method:             p.Method(),
		PlatformCommission: p.PlatformCommission(),
		HostPayout:         p.HostPayout(),
		RefundOf:           p.RefundOf(),
		CapturedAt:         p.CapturedAt(),
		HoldUntil:          p.HoldUntil(),
		ReleasedAt:         p.ReleasedAt(),
		RefundedAt:         p.RefundedAt(),
		CreatedAt:          p.CreatedAt(),
	}
	if reason := p.FailureReason(); reason != "" {
		out.FailureReason = &reason
	}
	return out
}

func FromPaymentView(view *queries.PaymentView) *PaymentResponse {
	return &PaymentResponse{
		ID:                 view.ID,
		ReservationID:      view.ReservationID,
		Amount:             view.Amount,
		Currency:           view.Currency,
		Status:             view.Status,
		Method:             view.Method,
		PlatformCommission: view.PlatformCommission,
		HostPayout:         view.HostPayout,
		FailureReason:      view.FailureReason,
		RefundOf:           view.RefundOf,
		CapturedAt:         view.CapturedAt,
		HoldUntil:          view.HoldUntil,
		ReleasedAt:         view.ReleasedAt,
		RefundedAt:         view.RefundedAt,
		CreatedAt:          view.CreatedAt,
	}
}
