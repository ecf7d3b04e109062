package queries

import (
	"time"

	"staybook/internal/domain/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor identifies who is asking. Queries filter and authorize against it;
// nothing is read from ambient request state.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// ReservationView is the full read model for one reservation, joined with the
// property it books.
type ReservationView struct {
	ID                 uuid.UUID       `json:"id"`
	PropertyID         uuid.UUID       `json:"property_id"`
	PropertyTitle      string          `json:"property_title"`
	HostID             uuid.UUID       `json:"host_id"`
	GuestID            uuid.UUID       `json:"guest_id"`
	Checkin            time.Time       `json:"checkin"`
	Checkout           time.Time       `json:"checkout"`
	Nights             int             `json:"nights"`
	GuestCount         int             `json:"guest_count"`
	Status             string          `json:"status"`
	PricePerNight      decimal.Decimal `json:"price_per_night"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	CleaningFee        decimal.Decimal `json:"cleaning_fee"`
	Commission         decimal.Decimal `json:"commission"`
	Total              decimal.Decimal `json:"total"`
	SecurityDeposit    decimal.Decimal `json:"security_deposit"`
	Note               *string         `json:"note,omitempty"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	CanReview          bool            `json:"can_review"`
	CreatedAt          time.Time       `json:"created_at"`
	ConfirmedAt        *time.Time      `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CheckedInAt        *time.Time      `json:"checked_in_at,omitempty"`
	CheckedOutAt       *time.Time      `json:"checked_out_at,omitempty"`
}

// ReservationListItem is the compact row for listings.
type ReservationListItem struct {
	ID            uuid.UUID       `json:"id"`
	PropertyID    uuid.UUID       `json:"property_id"`
	PropertyTitle string          `json:"property_title"`
	Checkin       time.Time       `json:"checkin"`
	Checkout      time.Time       `json:"checkout"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentView is the read model for one escrow ledger record.
type PaymentView struct {
	ID                 uuid.UUID        `json:"id"`
	ReservationID      uuid.UUID        `json:"reservation_id"`
	Amount             decimal.Decimal  `json:"amount"`
	Currency           string           `json:"currency"`
	Status             string           `json:"status"`
	Method             string           `json:"method"`
	PlatformCommission decimal.Decimal  `json:"platform_commission"`
	HostPayout         *decimal.Decimal `json:"host_payout,omitempty"`
	FailureReason      *string          `json:"failure_reason,omitempty"`
	RefundOf           *uuid.UUID       `json:"refund_of,omitempty"`
	CapturedAt         *time.Time       `json:"captured_at,omitempty"`
	HoldUntil          *time.Time       `json:"hold_until,omitempty"`
	ReleasedAt         *time.Time       `json:"released_at,omitempty"`
	RefundedAt         *time.Time       `json:"refunded_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}
