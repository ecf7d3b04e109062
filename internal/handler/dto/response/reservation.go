package response

import (
	"time"

	"staybook/internal/domain/reservation"
	"staybook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PricingResponse struct {
	Nights          int             `json:"nights"`
	PricePerNight   decimal.Decimal `json:"pricePerNight"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	CleaningFee     decimal.Decimal `json:"cleaningFee"`
	Commission      decimal.Decimal `json:"commission"`
	Total           decimal.Decimal `json:"total"`
	SecurityDeposit decimal.Decimal `json:"securityDeposit"`
}

type ReservationResponse struct {
	ID                 uuid.UUID       `json:"id"`
	PropertyID         uuid.UUID       `json:"propertyId"`
	PropertyTitle      string          `json:"propertyTitle,omitempty"`
	GuestID            uuid.UUID       `json:"guestId"`
	Checkin            string          `json:"checkin"`
	Checkout           string          `json:"checkout"`
	GuestCount         int             `json:"guestCount"`
	Status             string          `json:"status"`
	Pricing            PricingResponse `json:"pricing"`
	Note               *string         `json:"note,omitempty"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	CanReview          bool            `json:"canReview"`
	CreatedAt          time.Time       `json:"createdAt"`
	ConfirmedAt        *time.Time      `json:"confirmedAt,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
	CheckedInAt        *time.Time      `json:"checkedInAt,omitempty"`
	CheckedOutAt       *time.Time      `json:"checkedOutAt,omitempty"`
}

type ReservationListResponse struct {
	ID            uuid.UUID       `json:"id"`
	PropertyID    uuid.UUID       `json:"propertyId"`
	PropertyTitle string          `json:"propertyTitle"`
	Checkin       string          `json:"checkin"`
	Checkout      string          `json:"checkout"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type ReservationPageResponse struct {
	Items      []*ReservationListResponse `json:"items"`
	NextCursor *string                    `json:"nextCursor,omitempty"`
}

const dateLayout = "2006-01-02"

// FromReservationEntity renders a command result.
func FromReservationEntity(res *reservation.Reservation) *ReservationResponse {
	pricing := res.Pricing()
	out := &ReservationResponse{
		ID:         res.ID(),
		PropertyID: res.PropertyID(),
		GuestID:    res.GuestID(),
		Checkin:    res.Period().Checkin().Format(dateLayout),
		Checkout:   res.Period().Checkout().Format(dateLayout),
		GuestCount: res.GuestCount(),
		Status:     res.Status().String(),
		Pricing: PricingResponse{
			Nights:          pricing.Nights,
			PricePerNight:   pricing.PricePerNight,
			Subtotal:        pricing.Subtotal,
			CleaningFee:     pricing.CleaningFee,
			Commission:      pricing.Commission,
			Total:           pricing.Total,
			SecurityDeposit: pricing.SecurityDeposit,
		},
		CanReview:    res.CanReview(),
		CreatedAt:    res.CreatedAt(),
		ConfirmedAt:  res.ConfirmedAt(),
		CancelledAt:  res.CancelledAt(),
		CheckedInAt:  res.CheckedInAt(),
		CheckedOutAt: res.CheckedOutAt(),
	}
	if note := res.Note().String(); note != "" {
		out.Note = &note
	}
	if reason := res.CancellationReason(); reason != "" {
		out.CancellationReason = &reason
	}
	return out
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:            view.ID,
		PropertyID:    view.PropertyID,
		PropertyTitle: view.PropertyTitle,
		GuestID:       view.GuestID,
		Checkin:       view.Checkin.Format(dateLayout),
		Checkout:      view.Checkout.Format(dateLayout),
		GuestCount:    view.GuestCount,
		Status:        view.Status,
		Pricing: PricingResponse{
			Nights:          view.Nights,
			PricePerNight:   view.PricePerNight,
			Subtotal:        view.Subtotal,
			CleaningFee:     view.CleaningFee,
			Commission:      view.Commission,
			Total:           view.Total,
			SecurityDeposit: view.SecurityDeposit,
		},
		Note:               view.Note,
		CancellationReason: view.CancellationReason,
		CanReview:          view.CanReview,
		CreatedAt:          view.CreatedAt,
		ConfirmedAt:        view.ConfirmedAt,
		CancelledAt:        view.CancelledAt,
		CheckedInAt:        view.CheckedInAt,
		CheckedOutAt:       view.CheckedOutAt,
	}
}

func FromReservationPage(items []*queries.ReservationListItem, next *queries.Cursor) *ReservationPageResponse {
	page := &ReservationPageResponse{
		Items: make([]*ReservationListResponse, len(items)),
	}
	for i, it := range items {
		page.Items[i] = &ReservationListResponse{
			ID:            it.ID,
			PropertyID:    it.PropertyID,
			PropertyTitle: it.PropertyTitle,
			Checkin:       it.Checkin.Format(dateLayout),
			Checkout:      it.Checkout.Format(dateLayout),
			Status:        it.Status,
			Total:         it.Total,
			CreatedAt:     it.CreatedAt,
		}
	}
	if next != nil {
		page.NextCursor = &next.After
	}
	return page
}
