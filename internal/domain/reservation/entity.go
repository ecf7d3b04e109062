package reservation

import (
	"errors"
	"time"

	"staybook/internal/domain/property"

	"github.com/google/uuid"
)

var (
	ErrPropertyNotBookable = errors.New("property is not open for bookings")
	ErrOwnProperty         = errors.New("hosts cannot book their own property")
	ErrTooManyGuests       = errors.New("guest count exceeds property capacity")
	ErrInvalidGuestCount   = errors.New("guest count must be positive")

	ErrNotPending          = errors.New("reservation is not pending")
	ErrNotConfirmed        = errors.New("reservation is not confirmed")
	ErrNotPaid             = errors.New("reservation is not paid")
	ErrNotInProgress       = errors.New("reservation stay is not in progress")
	ErrNotCancelled        = errors.New("reservation is not cancelled")
	ErrNotCancellable      = errors.New("reservation cannot be cancelled in its current state")
	ErrCancellationTooLate = errors.New("cancellation window closed, checkin is less than 24h away")
	ErrNotCheckinDay       = errors.New("check-in is only allowed on the checkin date")
	ErrNotCheckoutDay      = errors.New("check-out is only allowed on the checkout date")
)

// CancellationNotice is the minimum lead before checkin for a cancellation.
const CancellationNotice = 24 * time.Hour

type Reservation struct {
	id                 uuid.UUID
	propertyID         uuid.UUID
	guestID            uuid.UUID
	period             StayPeriod
	guestCount         int
	status             Status
	pricing            PricingBreakdown
	note               Note
	cancellationReason string
	createdAt          time.Time
	confirmedAt        *time.Time
	cancelledAt        *time.Time
	checkedInAt        *time.Time
	checkedOutAt       *time.Time
}

// NewReservation builds a PENDING stay request. The advisory availability
// check runs in the usecase; this factory owns every other precondition.
func NewReservation(
	prop *property.Property,
	guestID uuid.UUID,
	checkin, checkout time.Time,
	guestCount int,
	note Note,
	now time.Time,
) (*Reservation, error) {
	if !prop.IsBookable() {
		return nil, ErrPropertyNotBookable
	}
	if prop.HostID() == guestID {
		return nil, ErrOwnProperty
	}
	if guestCount <= 0 {
		return nil, ErrInvalidGuestCount
	}
	if guestCount > prop.Capacity() {
		return nil, ErrTooManyGuests
	}

	period, err := NewFutureStayPeriod(checkin, checkout, now)
	if err != nil {
		return nil, err
	}

	pricing, err := ComputePricing(prop, period)
	if err != nil {
		return nil, err
	}

	return &Reservation{
		id:         uuid.New(),
		propertyID: prop.ID(),
		guestID:    guestID,
		period:     period,
		guestCount: guestCount,
		status:     StatusPending,
		pricing:    pricing,
		note:       note,
		createdAt:  now,
	}, nil
}

// Reconstruct rebuilds a reservation from storage without re-running creation
// rules.
func Reconstruct(
	id, propertyID, guestID uuid.UUID,
	period StayPeriod,
	guestCount int,
	status Status,
	pricing PricingBreakdown,
	note Note,
	cancellationReason string,
	createdAt time.Time,
	confirmedAt, cancelledAt, checkedInAt, checkedOutAt *time.Time,
) *Reservation {
	return &Reservation{
		id:                 id,
		propertyID:         propertyID,
		guestID:            guestID,
		period:             period,
		guestCount:         guestCount,
		status:             status,
		pricing:            pricing,
		note:               note,
		cancellationReason: cancellationReason,
		createdAt:          createdAt,
		confirmedAt:        confirmedAt,
		cancelledAt:        cancelledAt,
		checkedInAt:        checkedInAt,
		checkedOutAt:       checkedOutAt,
	}
}

// Confirm moves PENDING to CONFIRMED. The authoritative availability check
// must already have passed inside the same serialized section.
func (r *Reservation) Confirm(now time.Time) error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusConfirmed
	t := now
	r.confirmedAt = &t
	return nil
}

func (r *Reservation) Reject(reason string, now time.Time) error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusRejected
	r.cancellationReason = reason
	r.note = r.note.Append("REJECTED BY HOST", reason)
	t := now
	r.cancelledAt = &t
	return nil
}

func (r *Reservation) Cancel(reason string, now time.Time) error {
	if r.status != StatusPending && r.status != StatusConfirmed {
		return ErrNotCancellable
	}
	if r.period.Checkin().Sub(now) < CancellationNotice {
		return ErrCancellationTooLate
	}
	r.status = StatusCancelled
	r.cancellationReason = reason
	r.note = r.note.Append("CANCELLED", reason)
	t := now
	r.cancelledAt = &t
	return nil
}

// ForceCancel is the operator override. The notice window does not apply and
// any stay that has not reached a terminal state may be cancelled, including
// paid and in-progress ones.
func (r *Reservation) ForceCancel(reason string, now time.Time) error {
	if r.status.IsTerminal() {
		return ErrNotCancellable
	}
	r.status = StatusCancelled
	r.cancellationReason = reason
	r.note = r.note.Append("CANCELLED BY ADMIN", reason)
	t := now
	r.cancelledAt = &t
	return nil
}

// MarkPaid is driven by the escrow ledger once funds are captured.
func (r *Reservation) MarkPaid() error {
	if r.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	r.status = StatusPaid
	return nil
}

func (r *Reservation) CheckIn(now time.Time) error {
	if r.status != StatusPaid {
		return ErrNotPaid
	}
	if !sameDate(now, r.period.Checkin()) {
		return ErrNotCheckinDay
	}
	r.status = StatusInProgress
	t := now
	r.checkedInAt = &t
	return nil
}

func (r *Reservation) CheckOut(now time.Time) error {
	if r.status != StatusInProgress {
		return ErrNotInProgress
	}
	if !sameDate(now, r.period.Checkout()) {
		return ErrNotCheckoutDay
	}
	r.status = StatusCompleted
	t := now
	r.checkedOutAt = &t
	return nil
}

// CanReview reports post-stay review eligibility: a completed stay with an
// actual checkout on record.
func (r *Reservation) CanReview() bool {
	return r.status == StatusCompleted && r.checkedOutAt != nil
}

func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}

func (r *Reservation) InvolvedParty(actorID uuid.UUID, hostID uuid.UUID) bool {
	return r.guestID == actorID || hostID == actorID
}

func (r *Reservation) ID() uuid.UUID              { return r.id }
func (r *Reservation) PropertyID() uuid.UUID      { return r.propertyID }
func (r *Reservation) GuestID() uuid.UUID         { return r.guestID }
func (r *Reservation) Period() StayPeriod         { return r.period }
func (r *Reservation) GuestCount() int            { return r.guestCount }
func (r *Reservation) Status() Status             { return r.status }
func (r *Reservation) Pricing() PricingBreakdown  { return r.pricing }
func (r *Reservation) Note() Note                 { return r.note }
func (r *Reservation) CancellationReason() string { return r.cancellationReason }
func (r *Reservation) CreatedAt() time.Time       { return r.createdAt }
func (r *Reservation) ConfirmedAt() *time.Time    { return r.confirmedAt }
func (r *Reservation) CancelledAt() *time.Time    { return r.cancelledAt }
func (r *Reservation) CheckedInAt() *time.Time    { return r.checkedInAt }
func (r *Reservation) CheckedOutAt() *time.Time   { return r.checkedOutAt }

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
