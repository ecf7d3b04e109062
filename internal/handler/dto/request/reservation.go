package request

import (
	"fmt"
	"strings"
	"time"
)

// Dates travel as calendar days, not instants: "2026-09-14". A stay books
// nights, so checkout is exclusive.
const dateLayout = "2006-01-02"

type CreateReservationRequest struct {
	PropertyID string  `json:"property_id" binding:"required,uuid"`
	Checkin    string  `json:"checkin" binding:"required"`
	Checkout   string  `json:"checkout" binding:"required"`
	GuestCount int     `json:"guest_count" binding:"required,min=1"`
	Note       *string `json:"note,omitempty"`
}

func (r CreateReservationRequest) ParseDates() (checkin, checkout time.Time, err error) {
	checkin, err = parseDate(r.Checkin)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("checkin: %w", err)
	}
	checkout, err = parseDate(r.Checkout)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("checkout: %w", err)
	}
	return checkin, checkout, nil
}

func (r CreateReservationRequest) GetNote() string {
	if r.Note == nil {
		return ""
	}
	return strings.TrimSpace(*r.Note)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD date: %w", err)
	}
	return t, nil
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}
